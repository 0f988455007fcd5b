// Package transcriber runs the upload → (transcode) → transcribe pipeline.
package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nikhilbhutani/mediatranscriber/internal/multimodal/audio"
	"github.com/nikhilbhutani/mediatranscriber/internal/multimodal/stt"
)

// Upload is a file received from a caller. Body is read at most once.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result is a completed transcription.
type Result struct {
	Text       string
	Success    bool
	Filename   string // name sent to the transcription backend
	Model      string
	Transcoded bool
}

// ValidationError rejects an upload before any downstream work happens.
type ValidationError struct {
	ContentType string
}

func (e *ValidationError) Error() string {
	if e.ContentType == "" {
		return "missing content type, expected audio/* or video/*"
	}
	return fmt.Sprintf("unsupported content type %q, expected audio/* or video/*", e.ContentType)
}

type Service struct {
	stt          stt.TranscriptionService
	extractor    audio.ExtractionService
	defaultModel string
	log          zerolog.Logger
}

func NewService(sttSvc stt.TranscriptionService, extractor audio.ExtractionService, defaultModel string, log zerolog.Logger) *Service {
	if defaultModel == "" {
		defaultModel = stt.DefaultModel
	}
	log.Info().Str("backend", sttSvc.Name()).Str("default_model", defaultModel).Msg("transcriber initialized")
	return &Service{
		stt:          sttSvc,
		extractor:    extractor,
		defaultModel: defaultModel,
		log:          log,
	}
}

// Backend names the transcription backend in use.
func (s *Service) Backend() string { return s.stt.Name() }

// DefaultModel is the model used when a request names none.
func (s *Service) DefaultModel() string { return s.defaultModel }

// Transcribe validates the upload, converts it when its extension is not
// accepted by the backend, and returns the backend's text.
func (s *Service) Transcribe(ctx context.Context, up Upload, model string) (*Result, error) {
	if !IsMediaContentType(up.ContentType) {
		return nil, &ValidationError{ContentType: up.ContentType}
	}
	if model == "" {
		model = s.defaultModel
	}

	log := s.log.With().
		Str("filename", up.Filename).
		Str("content_type", up.ContentType).
		Str("model", model).
		Int64("file_size", up.Size).
		Logger()

	class := audio.Classify(up.Filename)
	log.Info().Str("classification", class.String()).Msg("starting transcription")

	result := &Result{Model: model}
	var body io.Reader

	switch class {
	case audio.AlreadySupported:
		body = up.Body
		result.Filename = up.Filename
		if result.Filename == "" {
			result.Filename = "audio"
		}
	default:
		data, err := io.ReadAll(up.Body)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}

		payload, err := s.extractor.Extract(ctx, data, up.Filename)
		if err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		body = bytes.NewReader(payload.Data)
		result.Filename = payload.Filename
		result.Transcoded = true
	}

	start := time.Now()
	resp, err := s.stt.Transcribe(ctx, stt.TranscriptionRequest{
		Audio:    body,
		Filename: result.Filename,
		Model:    model,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	result.Text = resp.Text
	result.Success = true

	log.Info().
		Str("audio_filename", result.Filename).
		Bool("transcoded", result.Transcoded).
		Int("transcription_length", len(result.Text)).
		Dur("elapsed", time.Since(start)).
		Msg("transcription completed")

	return result, nil
}

// IsMediaContentType reports whether a declared MIME type is audio or video.
func IsMediaContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "audio/") || strings.HasPrefix(ct, "video/")
}
