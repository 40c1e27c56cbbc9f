//go:build !cgo

package transcriber

import (
	"context"
	"errors"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

// ErrLocalUnavailable is returned by builds without cgo.
var ErrLocalUnavailable = errors.New("local transcription requires a cgo build with whisper.cpp; use provider openai or gcp")

// Local is unavailable without cgo.
type Local struct{}

// NewLocal always fails without cgo.
func NewLocal(cfg config.TranscriptionConfig) (*Local, error) {
	return nil, ErrLocalUnavailable
}

func (l *Local) Name() string       { return "whisper.cpp" }
func (l *Local) MaxFileSize() int64 { return 0 }

func (l *Local) Transcribe(ctx context.Context, wavPath string) (*Result, error) {
	return nil, ErrLocalUnavailable
}
