package soniox

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/gokit-soniox/logger"
)

const (
	testAPIKey          = "test-key"
	testFileID          = "file-1"
	testTranscriptionID = "tr-1"
)

type recordedRequest struct {
	Method     string
	Path       string
	Auth       string
	UserAgent  string
	Body       []byte
	UploadName string
	UploadData []byte
}

// fakeSoniox is a scripted Soniox API. Status responses are served in
// order and the last one repeats.
type fakeSoniox struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	requests   []recordedRequest
	statuses   []Transcription
	transcript Transcript
	fail       map[string]int
	failBody   string
	stall      string
	deleteCode int
	polls      int
}

func newFakeSoniox(t *testing.T) *fakeSoniox {
	t.Helper()
	dur := int64(4200)
	f := &fakeSoniox{
		t: t,
		statuses: []Transcription{
			{ID: testTranscriptionID, Status: StatusQueued},
			{ID: testTranscriptionID, Status: StatusProcessing},
			{
				ID:              testTranscriptionID,
				Status:          StatusCompleted,
				Model:           DefaultModel,
				CreatedAt:       "2024-05-01T10:00:00Z",
				AudioDurationMs: &dur,
			},
		},
		transcript: Transcript{
			ID:   testTranscriptionID,
			Text: "Hello world. Hola.",
			Tokens: []Token{
				{Text: "Hello", StartMs: ms(0), EndMs: ms(400), Confidence: 0.98, Speaker: "1", Language: "en"},
				{Text: " world.", StartMs: ms(400), EndMs: ms(900), Confidence: 0.97, Speaker: "1", Language: "en"},
				{Text: " Hola.", StartMs: ms(1200), EndMs: ms(1600), Confidence: 0.91, Speaker: "2", Language: "es"},
			},
		},
		fail:       map[string]int{},
		deleteCode: http.StatusNoContent,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		if f.failed(w, r, "upload") {
			return
		}
		writeJSON(w, http.StatusCreated, FileUploadResponse{ID: testFileID, Filename: "audio", Size: 3})
	})
	mux.HandleFunc("POST /transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if f.failed(w, r, "create") {
			return
		}
		writeJSON(w, http.StatusCreated, Transcription{ID: testTranscriptionID, Status: StatusQueued})
	})
	mux.HandleFunc("GET /transcriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if f.failed(w, r, "poll") {
			return
		}
		f.mu.Lock()
		i := min(f.polls, len(f.statuses)-1)
		f.polls++
		status := f.statuses[i]
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, status)
	})
	mux.HandleFunc("GET /transcriptions/{id}/transcript", func(w http.ResponseWriter, r *http.Request) {
		if f.failed(w, r, "fetch") {
			return
		}
		writeJSON(w, http.StatusOK, f.transcript)
	})
	mux.HandleFunc("DELETE /transcriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(f.deleteCode)
	})
	mux.HandleFunc("DELETE /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(f.deleteCode)
	})

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSoniox) URL() string { return f.srv.URL }

func (f *fakeSoniox) failed(w http.ResponseWriter, r *http.Request, step string) bool {
	f.mu.Lock()
	code, ok := f.fail[step]
	body := f.failBody
	stall := f.stall == step
	f.mu.Unlock()
	if stall {
		// Start a success body, then hang until the client gives up.
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"id":`)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
		return true
	}
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
	return true
}

func (f *fakeSoniox) record(r *http.Request) {
	rec := recordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Auth:      r.Header.Get("Authorization"),
		UserAgent: r.Header.Get("User-Agent"),
	}
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			if part.FormName() == "file" {
				rec.UploadName = part.FileName()
				rec.UploadData, _ = io.ReadAll(part)
			}
		}
	} else {
		rec.Body, _ = io.ReadAll(r.Body)
	}
	// Give the handlers a fresh body for JSON requests.
	r.Body = io.NopCloser(strings.NewReader(string(rec.Body)))

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
}

func (f *fakeSoniox) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// Calls returns "METHOD /path" for every request, in order.
func (f *fakeSoniox) Calls() []string {
	var out []string
	for _, r := range f.Requests() {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

func (f *fakeSoniox) count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeSoniox) deletes() int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == http.MethodDelete {
			n++
		}
	}
	return n
}

func (f *fakeSoniox) createBody(t *testing.T) map[string]any {
	t.Helper()
	for _, r := range f.Requests() {
		if r.Method == http.MethodPost && r.Path == "/transcriptions" {
			var body map[string]any
			if err := json.Unmarshal(r.Body, &body); err != nil {
				t.Fatalf("create body is not JSON: %v", err)
			}
			return body
		}
	}
	t.Fatal("no create request recorded")
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ms(v int64) *int64 { return &v }

// fakeClock advances only when slept on.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.Sleep(d)
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// stuckClock never fires After and reports each wait on waiting.
type stuckClock struct {
	*fakeClock
	waiting chan struct{}
}

func (c *stuckClock) After(time.Duration) <-chan time.Time {
	select {
	case c.waiting <- struct{}{}:
	default:
	}
	return nil
}

// cancelingClock cancels a context on the first Sleep, then completes the
// sleep as fakeClock does.
type cancelingClock struct {
	*fakeClock
	cancel context.CancelFunc
}

func (c *cancelingClock) Sleep(d time.Duration) {
	c.cancel()
	c.fakeClock.Sleep(d)
}

// testLoader builds a loader against f with a fake clock.
func testLoader(t *testing.T, f *fakeSoniox, opts ...LoaderOption) *Loader {
	t.Helper()
	base := []LoaderOption{
		WithAPIKey(testAPIKey),
		WithBaseURL(f.URL()),
		WithClock(newFakeClock()),
		WithLogger(logger.Nop()),
	}
	l, err := NewLoader(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return l
}
