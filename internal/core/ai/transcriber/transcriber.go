// Package transcriber provides speech-to-text transcription.
package transcriber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

// Segment represents a timestamped portion of transcript.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Result contains the transcription output.
type Result struct {
	Text     string
	Segments []Segment
	Language string        // detected or configured language
	Duration time.Duration // audio duration
}

// FormattedText returns the transcript with timestamps in format [HH:MM:SS] Text
func (r *Result) FormattedText() string {
	if len(r.Segments) == 0 {
		return r.Text
	}

	var b strings.Builder
	for _, seg := range r.Segments {
		fmt.Fprintf(&b, "[%s] %s\n", FormatTimestamp(seg.Start), strings.TrimSpace(seg.Text))
	}
	return b.String()
}

// FormatTimestamp converts duration to HH:MM:SS format
func FormatTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Transcriber converts a 16 kHz mono WAV file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (*Result, error)

	// Name returns the provider name.
	Name() string

	// MaxFileSize is the largest file one request accepts; 0 means unlimited.
	MaxFileSize() int64
}

// KeyFunc returns the API key for an LLM provider.
type KeyFunc func(provider string) (string, error)

// New creates a Transcriber for cfg.Provider. key is only consulted by
// providers that need an API key.
func New(ctx context.Context, cfg config.TranscriptionConfig, key KeyFunc) (Transcriber, error) {
	switch cfg.Provider {
	case "", "openai":
		apiKey, err := key("openai")
		if err != nil {
			return nil, err
		}
		t, err := NewOpenAI(cfg, apiKey)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "gcp":
		t, err := NewGCP(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "local":
		t, err := NewLocal(cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", cfg.Provider)
	}
}
