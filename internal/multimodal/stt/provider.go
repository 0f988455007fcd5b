package stt

import (
	"context"
	"fmt"
	"io"
)

// DefaultModel is used when neither the caller nor the configuration names one.
const DefaultModel = "whisper-1"

// TranscriptionRequest holds the parameters for audio transcription.
type TranscriptionRequest struct {
	Audio    io.Reader
	Filename string
	Model    string
}

// TranscriptionResponse holds the transcription result.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// TranscriptionService is the interface for speech-to-text backends.
type TranscriptionService interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	Name() string
}

// TranscriptionError wraps any failure reported by, or while reaching, a
// speech-to-text backend.
type TranscriptionError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TranscriptionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s transcription failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s transcription failed: %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
