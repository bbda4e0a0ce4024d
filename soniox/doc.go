// Package soniox loads audio transcripts from the Soniox asynchronous
// speech-to-text API as documents.
//
// A Loader uploads the audio (or passes a URL), creates a transcription job,
// polls it until it finishes, fetches the transcript and deletes the job and
// the uploaded file again. The result is one document.Document whose page
// content is the transcript text:
//
//	loader, err := soniox.NewLoader(
//	    soniox.WithFilePath("meeting.mp3"),
//	    soniox.WithTranscriptionOptions(soniox.TranscriptionOptions{
//	        LanguageHints:            []string{"en"},
//	        EnableSpeakerDiarization: soniox.Bool(true),
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	docs, err := loader.Load(ctx)
//
// Load and LazyLoad block the calling goroutine between polls. ALazyLoad runs
// the same sequence on its own goroutine and delivers the document through a
// provider.Iterator.
//
// Provider adapts the same sequence to transcription.Provider and is
// registered under the name "soniox" with Factory.
package soniox
