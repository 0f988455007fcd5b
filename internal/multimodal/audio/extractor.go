package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	targetCodec   = "mp3"
	targetBitrate = "128k"
	outputExt     = ".mp3"
)

// Payload is audio ready to be sent to a transcription backend.
type Payload struct {
	Data     []byte
	Filename string
}

// ExtractionService converts arbitrary media into an encoding the
// transcription backend accepts.
type ExtractionService interface {
	Extract(ctx context.Context, data []byte, filename string) (*Payload, error)
}

// TranscodeError is returned when the transcoding tool cannot be started or
// exits with a nonzero status.
type TranscodeError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("ffmpeg failed (exit code %d): %v: %s", e.ExitCode, e.Err, strings.TrimSpace(e.Stderr))
}

func (e *TranscodeError) Unwrap() error { return e.Err }

type FFmpegConfig struct {
	BinPath string // default: "ffmpeg"
	TempDir string // default: os.TempDir()
}

// FFmpegExtractor transcodes media to mp3 by running ffmpeg over a pair of
// request-scoped temporary files.
type FFmpegExtractor struct {
	cfg FFmpegConfig
	log zerolog.Logger
}

func NewFFmpegExtractor(cfg FFmpegConfig, log zerolog.Logger) *FFmpegExtractor {
	if cfg.BinPath == "" {
		cfg.BinPath = "ffmpeg"
	}
	return &FFmpegExtractor{cfg: cfg, log: log}
}

// Extract writes data to a temp file, runs ffmpeg on it and returns the
// encoded output. Both temp files are removed before Extract returns.
func (x *FFmpegExtractor) Extract(ctx context.Context, data []byte, filename string) (*Payload, error) {
	inPath, err := x.writeInput(data, Extension(filename))
	if err != nil {
		return nil, err
	}
	defer x.remove(inPath)

	outPath, err := x.reserveOutput()
	if err != nil {
		return nil, err
	}
	defer x.remove(outPath)

	log := x.log.With().Str("filename", filename).Logger()
	log.Info().
		Int("input_size", len(data)).
		Str("input_file", inPath).
		Str("output_file", outPath).
		Msg("running ffmpeg")

	start := time.Now()
	if err := x.run(ctx, inPath, outPath); err != nil {
		var te *TranscodeError
		if errors.As(err, &te) {
			log.Error().Int("exit_code", te.ExitCode).Str("stderr", te.Stderr).Msg("ffmpeg failed")
		}
		return nil, err
	}

	audio, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read ffmpeg output: %w", err)
	}

	payload := &Payload{Data: audio, Filename: OutputFilename(filename)}
	log.Info().
		Int("output_size", len(audio)).
		Str("audio_filename", payload.Filename).
		Dur("elapsed", time.Since(start)).
		Msg("audio extracted")

	return payload, nil
}

func (x *FFmpegExtractor) run(ctx context.Context, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, x.cfg.BinPath,
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inPath,
		"-vn",
		"-acodec", targetCodec,
		"-b:a", targetBitrate,
		outPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return &TranscodeError{ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}
	return nil
}

func (x *FFmpegExtractor) writeInput(data []byte, ext string) (string, error) {
	// CreateTemp substitutes the last '*' in the pattern
	if strings.Contains(ext, "*") {
		ext = ""
	}
	f, err := os.CreateTemp(x.cfg.TempDir, "transcode-in-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create input temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write input temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close input temp file: %w", err)
	}
	return f.Name(), nil
}

// reserveOutput creates an empty output file so the name is unique; ffmpeg
// overwrites it.
func (x *FFmpegExtractor) reserveOutput() (string, error) {
	f, err := os.CreateTemp(x.cfg.TempDir, "transcode-out-*"+outputExt)
	if err != nil {
		return "", fmt.Errorf("create output temp file: %w", err)
	}
	f.Close()
	return f.Name(), nil
}

func (x *FFmpegExtractor) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		x.log.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
	}
}

// OutputFilename maps an upload name to the name of its transcoded audio:
// the original stem with an .mp3 extension, or "audio.mp3" without a name.
func OutputFilename(filename string) string {
	base := filepath.Base(filename)
	if filename == "" || base == "." || base == string(filepath.Separator) {
		base = "audio"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "audio"
	}
	return stem + outputExt
}
