package transcription

import (
	"github.com/kbukum/gokit-soniox/validation"
)

// Request holds parameters for a transcription call. Exactly one of
// AudioPath, AudioData and AudioURL must be set.
type Request struct {
	// AudioPath is the path to a local audio file.
	AudioPath string `json:"audio_path,omitempty"`
	// AudioData is in-memory audio content.
	AudioData []byte `json:"-"`
	// AudioURL is a publicly reachable audio URL the backend fetches itself.
	AudioURL string `json:"audio_url,omitempty"`
	// Language is a hint for the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
	// Model overrides the backend's default model.
	Model string `json:"model,omitempty"`
	// Diarization asks the backend to label speakers.
	Diarization bool `json:"diarization,omitempty"`
}

// Validate checks that exactly one audio source is set.
func (r Request) Validate() error {
	if err := validation.New().
		ExactlyOne("audio", "audio_path, audio_data or audio_url",
			r.AudioPath != "", r.AudioData != nil, r.AudioURL != "").
		Validate(); err != nil {
		return err
	}
	return nil
}

// Response holds the result of a transcription call.
type Response struct {
	// ID is the backend's identifier for the transcription job.
	ID string `json:"id,omitempty"`
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
	// Model is the model that produced the transcript.
	Model string `json:"model,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Speaker is the identified speaker label, if available.
	Speaker string `json:"speaker,omitempty"`
	// Language is the language of this segment, if identified.
	Language string `json:"language,omitempty"`
}
