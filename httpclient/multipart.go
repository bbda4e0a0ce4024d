package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
)

// MultipartBody represents a multipart/form-data request body.
// Pass it as the Body field of a Request. The body is streamed through a
// pipe, so file parts are never buffered in memory.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField represents a file to upload in a multipart request.
// Exactly one of Data or Open should be set.
type FileField struct {
	// FieldName is the form field name (e.g., "file").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type. If empty, uses application/octet-stream.
	ContentType string
	// Data is the in-memory file content.
	Data []byte
	// Open returns a fresh reader for the content. It is called once per
	// attempt and the reader is closed once the body has been written.
	Open func() (io.ReadCloser, error)
}

// FileFromPath returns a FileField that streams the file at path.
func FileFromPath(fieldName, fileName, path string) FileField {
	return FileField{
		FieldName: fieldName,
		FileName:  fileName,
		Open:      func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// encode opens every file part, then writes the multipart body into a pipe
// from a separate goroutine and returns the read side with the content-type
// header. Open errors are returned directly; later write errors surface as
// read errors on the returned reader.
func (m *MultipartBody) encode() (io.ReadCloser, string, error) {
	readers := make([]io.Reader, len(m.Files))
	closeAll := func() {
		for _, r := range readers {
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
		}
	}
	for i, f := range m.Files {
		switch {
		case f.Open != nil:
			rc, err := f.Open()
			if err != nil {
				closeAll()
				return nil, "", err
			}
			readers[i] = rc
		case f.Data != nil:
			readers[i] = bytes.NewReader(f.Data)
		default:
			closeAll()
			return nil, "", fmt.Errorf("multipart: file field %q has no content", f.FieldName)
		}
	}

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	contentType := w.FormDataContentType()

	go func() {
		defer closeAll()
		pw.CloseWithError(m.write(w, readers))
	}()

	return pr, contentType, nil
}

func (m *MultipartBody) write(w *multipart.Writer, readers []io.Reader) error {
	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}

	for i, f := range m.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header.Set("Content-Type", ct)

		part, err := w.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, readers[i]); err != nil {
			return fmt.Errorf("multipart: write %q: %w", f.FieldName, err)
		}
	}

	return w.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
