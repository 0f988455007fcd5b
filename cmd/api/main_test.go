package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nikhilbhutani/mediatranscriber/internal/config"
)

func TestNewSTTSelectsBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"openai", "openai-whisper"},
		{"local", "local-whisper"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			svc := newSTT(config.STTConfig{
				Backend:      tt.backend,
				OpenAIKey:    "sk-test",
				LocalBaseURL: "http://localhost:8178",
				DefaultModel: "whisper-1",
			})
			if got := svc.Name(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStdLoggerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := stdLogger(zerolog.New(&buf))

	l.Print("http: TLS handshake error")

	out := buf.String()
	if !strings.Contains(out, "TLS handshake error") || !strings.Contains(out, `"component":"http"`) {
		t.Errorf("unexpected log output %q", out)
	}
}
