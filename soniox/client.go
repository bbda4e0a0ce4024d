package soniox

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kbukum/gokit-soniox/httpclient"
	"github.com/kbukum/gokit-soniox/logger"
	"github.com/kbukum/gokit-soniox/provider"
)

// api wraps the Soniox endpoints used by a single run. Each run builds its
// own api so no connection state is shared between loads.
type api struct {
	client *httpclient.Client
	rr     provider.RequestResponse[httpclient.Request, *httpclient.Response]
}

func newAPI(s *settings, log *logger.Logger) (*api, error) {
	client, err := httpclient.New(httpclient.Config{
		BaseURL:   s.baseURL,
		Timeout:   s.requestTimeout,
		Auth:      httpclient.BearerAuth(s.apiKey),
		Retry:     s.retry,
		Transport: s.transport,
	})
	if err != nil {
		return nil, err
	}
	mws := []provider.Middleware[httpclient.Request, *httpclient.Response]{
		provider.WithLogging[httpclient.Request, *httpclient.Response](log),
		provider.WithTracing[httpclient.Request, *httpclient.Response](ProviderName),
	}
	if s.requestMetrics != nil {
		mws = append(mws, provider.WithMetrics[httpclient.Request, *httpclient.Response](s.requestMetrics))
	}
	rr := provider.Chain(mws...)(client)
	return &api{client: client, rr: rr}, nil
}

func (a *api) uploadFile(ctx context.Context, file httpclient.FileField) (*FileUploadResponse, error) {
	file.FieldName = "file"
	resp, err := httpclient.DoJSON[FileUploadResponse](a.rr, ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/files",
		Body:   &httpclient.MultipartBody{Files: []httpclient.FileField{file}},
	})
	if err != nil {
		return nil, newAPIError("upload", err)
	}
	return &resp.Data, nil
}

func (a *api) createTranscription(ctx context.Context, req CreateTranscriptionRequest) (*Transcription, error) {
	resp, err := httpclient.DoJSON[Transcription](a.rr, ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcriptions",
		Body:   req,
	})
	if err != nil {
		return nil, newAPIError("create", err)
	}
	return &resp.Data, nil
}

func (a *api) getTranscription(ctx context.Context, id string) (*Transcription, error) {
	resp, err := httpclient.DoJSON[Transcription](a.rr, ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/transcriptions/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, newAPIError("poll", err)
	}
	return &resp.Data, nil
}

func (a *api) getTranscript(ctx context.Context, id string) (*Transcript, error) {
	resp, err := httpclient.DoJSON[Transcript](a.rr, ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/transcriptions/" + url.PathEscape(id) + "/transcript",
	})
	if err != nil {
		return nil, newAPIError("fetch", err)
	}
	return &resp.Data, nil
}

// Deletes bypass the middleware chain: they run during cleanup, where a
// failure is expected and only worth a debug line.

func (a *api) deleteTranscription(ctx context.Context, id string) error {
	_, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/transcriptions/" + url.PathEscape(id),
	})
	return err
}

func (a *api) deleteFile(ctx context.Context, id string) error {
	_, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/files/" + url.PathEscape(id),
	})
	return err
}

func (a *api) close(ctx context.Context) {
	_ = a.client.Close(ctx)
}
