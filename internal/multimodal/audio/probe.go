package audio

import (
	"path/filepath"
	"strings"
)

type Classification int

const (
	NeedsTranscoding Classification = iota
	AlreadySupported
)

func (c Classification) String() string {
	if c == AlreadySupported {
		return "already-supported"
	}
	return "needs-transcoding"
}

// supportedExtensions are accepted by the transcription backend as-is.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// Extension returns the lower-cased extension of filename, including the dot.
// A name that is only a dotfile (".mp3") or ends in a bare dot has none.
func Extension(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if ext == base || ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// Classify decides from the filename alone whether the upload must be
// converted before transcription.
func Classify(filename string) Classification {
	if supportedExtensions[Extension(filename)] {
		return AlreadySupported
	}
	return NeedsTranscoding
}
