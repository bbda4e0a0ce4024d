package soniox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Status is the server-side state of a transcription job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// TranslationType selects one-way or two-way translation.
type TranslationType string

const (
	TranslationOneWay TranslationType = "one_way"
	TranslationTwoWay TranslationType = "two_way"
)

// TranslationConfig enables translation of the transcript.
type TranslationConfig struct {
	Type           TranslationType `json:"type" validate:"required,oneof=one_way two_way"`
	TargetLanguage string          `json:"target_language,omitempty"`
	LanguageA      string          `json:"language_a,omitempty"`
	LanguageB      string          `json:"language_b,omitempty"`
}

// ContextGeneralItem is a key/value hint such as domain or topic.
type ContextGeneralItem struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// TranslationTerm pins the translation of a source term.
type TranslationTerm struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// StructuredContext biases recognition and translation with domain hints.
type StructuredContext struct {
	General          []ContextGeneralItem `json:"general,omitempty" validate:"dive"`
	Text             string               `json:"text,omitempty"`
	Terms            []string             `json:"terms,omitempty"`
	TranslationTerms []TranslationTerm    `json:"translation_terms,omitempty" validate:"dive"`
}

// Context is either free text or a StructuredContext. It encodes as a JSON
// string or object respectively.
type Context struct {
	text       string
	structured *StructuredContext
}

// TextContext returns a free-text context.
func TextContext(s string) *Context {
	return &Context{text: s}
}

// StructuredContextOf returns a structured context.
func StructuredContextOf(sc StructuredContext) *Context {
	return &Context{structured: &sc}
}

// Text returns the free-text form, if that is what c holds.
func (c *Context) Text() (string, bool) {
	return c.text, c.structured == nil
}

// Structured returns the structured form, if that is what c holds.
func (c *Context) Structured() (*StructuredContext, bool) {
	return c.structured, c.structured != nil
}

// MarshalJSON implements json.Marshaler.
func (c Context) MarshalJSON() ([]byte, error) {
	if c.structured != nil {
		return json.Marshal(c.structured)
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Context) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var sc StructuredContext
		if err := json.Unmarshal(data, &sc); err != nil {
			return err
		}
		*c = Context{structured: &sc}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("soniox: context must be a string or an object: %w", err)
	}
	*c = Context{text: s}
	return nil
}

// TranscriptionOptions configures a transcription job. Zero values are left
// out of the request so the server defaults apply. Model is always sent.
type TranscriptionOptions struct {
	Model                        string             `json:"model"`
	LanguageHints                []string           `json:"language_hints,omitempty"`
	LanguageHintsStrict          *bool              `json:"language_hints_strict,omitempty"`
	EnableSpeakerDiarization     *bool              `json:"enable_speaker_diarization,omitempty"`
	EnableLanguageIdentification *bool              `json:"enable_language_identification,omitempty"`
	Translation                  *TranslationConfig `json:"translation,omitempty"`
	Context                      *Context           `json:"context,omitempty"`
	WebhookURL                   string             `json:"webhook_url,omitempty" validate:"omitempty,url"`
	WebhookAuthHeaderName        string             `json:"webhook_auth_header_name,omitempty"`
	WebhookAuthHeaderValue       string             `json:"webhook_auth_header_value,omitempty"`
	ClientReferenceID            string             `json:"client_reference_id,omitempty"`
}

// Bool returns a pointer to b, for the optional flags of TranscriptionOptions.
func Bool(b bool) *bool { return &b }

// CreateTranscriptionRequest is the body of POST /transcriptions.
type CreateTranscriptionRequest struct {
	TranscriptionOptions
	AudioURL string `json:"audio_url,omitempty"`
	FileID   string `json:"file_id,omitempty"`
}

// newCreateRequest combines opts with exactly one audio source.
func newCreateRequest(opts TranscriptionOptions, audioURL, fileID string) (CreateTranscriptionRequest, error) {
	if (audioURL == "") == (fileID == "") {
		return CreateTranscriptionRequest{}, fmt.Errorf("soniox: exactly one of audio_url or file_id is required")
	}
	return CreateTranscriptionRequest{TranscriptionOptions: opts, AudioURL: audioURL, FileID: fileID}, nil
}

// FileUploadResponse is returned by POST /files.
type FileUploadResponse struct {
	ID                string `json:"id"`
	Filename          string `json:"filename"`
	Size              int64  `json:"size"`
	CreatedAt         string `json:"created_at"`
	ClientReferenceID string `json:"client_reference_id,omitempty"`
}

// Transcription is the job record returned by both POST /transcriptions and
// GET /transcriptions/{id}.
type Transcription struct {
	ID                           string   `json:"id"`
	Status                       Status   `json:"status"`
	CreatedAt                    string   `json:"created_at"`
	Model                        string   `json:"model"`
	Filename                     string   `json:"filename"`
	EnableSpeakerDiarization     bool     `json:"enable_speaker_diarization"`
	EnableLanguageIdentification bool     `json:"enable_language_identification"`
	AudioURL                     string   `json:"audio_url,omitempty"`
	FileID                       string   `json:"file_id,omitempty"`
	LanguageHints                []string `json:"language_hints,omitempty"`
	AudioDurationMs              *int64   `json:"audio_duration_ms,omitempty"`
	ErrorType                    string   `json:"error_type,omitempty"`
	ErrorMessage                 string   `json:"error_message,omitempty"`
	WebhookURL                   string   `json:"webhook_url,omitempty"`
	WebhookAuthHeaderName        string   `json:"webhook_auth_header_name,omitempty"`
	WebhookAuthHeaderValue       string   `json:"webhook_auth_header_value,omitempty"`
	WebhookStatusCode            *int     `json:"webhook_status_code,omitempty"`
	ClientReferenceID            string   `json:"client_reference_id,omitempty"`
}

// Token is one recognized unit of speech. Fields the server adds beyond the
// known set are kept in Extra.
type Token struct {
	Text              string         `json:"text"`
	StartMs           *int64         `json:"start_ms,omitempty"`
	EndMs             *int64         `json:"end_ms,omitempty"`
	Confidence        float64        `json:"confidence"`
	Speaker           string         `json:"speaker,omitempty"`
	Language          string         `json:"language,omitempty"`
	TranslationStatus string         `json:"translation_status,omitempty"`
	Extra             map[string]any `json:"-"`
}

var tokenFields = []string{
	"text", "start_ms", "end_ms", "confidence", "speaker", "language", "translation_status",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Token) UnmarshalJSON(data []byte) error {
	type plain Token
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range tokenFields {
		delete(all, k)
	}
	if len(all) > 0 {
		p.Extra = all
	}

	*t = Token(p)
	return nil
}

// MarshalJSON implements json.Marshaler, including Extra fields.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// Record returns the token as a flat map. Optional fields the server did
// not send are present with a nil value.
func (t Token) Record() map[string]any {
	rec := make(map[string]any, len(tokenFields)+len(t.Extra))
	maps.Copy(rec, t.Extra)

	rec["text"] = t.Text
	rec["confidence"] = t.Confidence
	rec["start_ms"] = nil
	if t.StartMs != nil {
		rec["start_ms"] = *t.StartMs
	}
	rec["end_ms"] = nil
	if t.EndMs != nil {
		rec["end_ms"] = *t.EndMs
	}
	rec["speaker"] = optional(t.Speaker)
	rec["language"] = optional(t.Language)
	rec["translation_status"] = optional(t.TranslationStatus)
	return rec
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Transcript is returned by GET /transcriptions/{id}/transcript.
type Transcript struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
}
