package models

import (
	"time"

	"github.com/google/uuid"
)

// Transcription statuses recorded in the history log.
const (
	StatusSuccess            = "success"
	StatusRejected           = "rejected"
	StatusTranscodeError     = "transcode_error"
	StatusTranscriptionError = "transcription_error"
	StatusError              = "error"
)

// TranscriptionLog is one handled /transcribe request. It never carries the
// transcribed text or error details.
type TranscriptionLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	RequestID   string    `json:"request_id" db:"request_id"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"content_type" db:"content_type"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	Model       string    `json:"model" db:"model"`
	Backend     string    `json:"backend" db:"backend"`
	Transcoded  bool      `json:"transcoded" db:"transcoded"`
	Status      string    `json:"status" db:"status"`
	TextLength  int       `json:"text_length" db:"text_length"`
	LatencyMs   int64     `json:"latency_ms" db:"latency_ms"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
