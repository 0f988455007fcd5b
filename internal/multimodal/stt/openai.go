package stt

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAISTTConfig holds configuration for the OpenAI STT backend.
type OpenAISTTConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "whisper-1"
}

// OpenAISTT transcribes audio using OpenAI's Whisper API (or a compatible endpoint).
type OpenAISTT struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAISTT creates an OpenAISTT. The underlying HTTP client keeps the
// library defaults; no timeout or retry is added.
func NewOpenAISTT(cfg OpenAISTTConfig) *OpenAISTT {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &OpenAISTT{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		name:   "openai-whisper",
	}
}

func (o *OpenAISTT) Name() string { return o.name }

// Transcribe streams the audio to /audio/transcriptions and asks for a plain
// text response. Exactly one request is made.
func (o *OpenAISTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}
	filename := req.Filename
	if filename == "" {
		filename = "audio"
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: filename,
		Reader:   req.Audio,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return nil, &TranscriptionError{Provider: o.name, StatusCode: statusCode(err), Err: err}
	}

	return &TranscriptionResponse{Text: resp.Text}, nil
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
