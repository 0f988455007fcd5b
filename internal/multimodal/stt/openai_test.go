package stt

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type capturedRequest struct {
	path           string
	auth           string
	model          string
	responseFormat string
	filename       string
	body           string
}

func newWhisperServer(t *testing.T, status int, respBody string) (*httptest.Server, *capturedRequest, *int32) {
	t.Helper()
	captured := &capturedRequest{}
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		captured.model = r.FormValue("model")
		captured.responseFormat = r.FormValue("response_format")

		f, header, err := r.FormFile("file")
		if err == nil {
			captured.filename = header.Filename
			b, _ := io.ReadAll(f)
			captured.body = string(b)
			f.Close()
		}

		if status == http.StatusOK {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, captured, &calls
}

func TestOpenAISTTTranscribe(t *testing.T) {
	srv, captured, calls := newWhisperServer(t, http.StatusOK, "hola mundo\n")

	client := NewOpenAISTT(OpenAISTTConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	resp, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("ID3 audio bytes"),
		Filename: "voice.mp3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(resp.Text, "hola mundo") {
		t.Errorf("expected transcription text, got %q", resp.Text)
	}
	if *calls != 1 {
		t.Errorf("expected exactly one request, got %d", *calls)
	}
	if captured.path != "/v1/audio/transcriptions" {
		t.Errorf("unexpected path %s", captured.path)
	}
	if captured.auth != "Bearer sk-test" {
		t.Errorf("unexpected authorization header %q", captured.auth)
	}
	if captured.model != DefaultModel {
		t.Errorf("expected default model %s, got %s", DefaultModel, captured.model)
	}
	if captured.responseFormat != "text" {
		t.Errorf("expected response_format=text, got %q", captured.responseFormat)
	}
	if captured.filename != "voice.mp3" {
		t.Errorf("expected filename voice.mp3, got %q", captured.filename)
	}
	if captured.body != "ID3 audio bytes" {
		t.Errorf("expected audio bytes to be forwarded, got %q", captured.body)
	}
}

func TestOpenAISTTExplicitModel(t *testing.T) {
	srv, captured, _ := newWhisperServer(t, http.StatusOK, "ok")

	client := NewOpenAISTT(OpenAISTTConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	_, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("a"),
		Filename: "clip.mp3",
		Model:    "gpt-4o-transcribe",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.model != "gpt-4o-transcribe" {
		t.Errorf("expected requested model, got %s", captured.model)
	}
}

func TestOpenAISTTAPIError(t *testing.T) {
	srv, _, calls := newWhisperServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)

	client := NewOpenAISTT(OpenAISTTConfig{APIKey: "sk-bad", BaseURL: srv.URL + "/v1"})
	_, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("a"),
		Filename: "voice.wav",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var te *TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TranscriptionError, got %T: %v", err, err)
	}
	if te.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", te.StatusCode)
	}
	if te.Provider != "openai-whisper" {
		t.Errorf("unexpected provider %q", te.Provider)
	}
	if *calls != 1 {
		t.Errorf("expected no retry, got %d calls", *calls)
	}
}

func TestOpenAISTTNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewOpenAISTT(OpenAISTTConfig{APIKey: "sk-test", BaseURL: url + "/v1"})
	_, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("a"),
		Filename: "voice.ogg",
	})

	var te *TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TranscriptionError, got %T: %v", err, err)
	}
	if te.StatusCode != 0 {
		t.Errorf("expected no status code for network failure, got %d", te.StatusCode)
	}
}

func TestLocalSTT(t *testing.T) {
	srv, captured, _ := newWhisperServer(t, http.StatusOK, "local text")

	client := NewLocalSTT(LocalSTTConfig{BaseURL: srv.URL})
	if client.Name() != "local-whisper" {
		t.Errorf("unexpected name %q", client.Name())
	}

	resp, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("a"),
		Filename: "memo.m4a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Text, "local text") {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if captured.path != "/audio/transcriptions" {
		t.Errorf("unexpected path %s", captured.path)
	}
}
