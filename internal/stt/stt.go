// Package stt defines the interface for speech-to-text transcription.
//
// Supportdesk lets callers speak their request instead of typing it. The
// transcript is returned to the caller, who submits it as a regular support
// request.
package stt

import "context"

// Audio is an uploaded recording.
type Audio struct {
	// Data is the raw file content.
	Data []byte

	// Filename is the client-supplied name; only its extension is forwarded.
	Filename string

	// ContentType is the MIME type reported by the client, if any.
	ContentType string
}

// Transcriber converts audio to text.
type Transcriber interface {
	// Transcribe returns the trimmed transcript. An empty transcript is an error.
	Transcribe(ctx context.Context, audio Audio) (string, error)
}
