//go:build cgo

package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

// Local implements Transcriber using whisper.cpp.
type Local struct {
	model    whisper.Model
	language string
}

// NewLocal loads the configured ggml model.
func NewLocal(cfg config.TranscriptionConfig) (*Local, error) {
	modelPath, err := ModelPath(cfg.Model, cfg.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get models directory: %w", err)
	}
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("whisper model not found: %s", modelPath)
	}

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model: %w", err)
	}

	language := shortLanguage(cfg.Language)
	if language == "" {
		language = "auto"
	}
	return &Local{model: model, language: language}, nil
}

// Name returns the provider name.
func (l *Local) Name() string {
	return "whisper.cpp"
}

// MaxFileSize returns 0 - local whisper has no file size limit.
func (l *Local) MaxFileSize() int64 {
	return 0
}

// Transcribe converts a WAV file to text using whisper.cpp.
func (l *Local) Transcribe(ctx context.Context, wavPath string) (*Result, error) {
	samples, sampleRate, err := media.ReadWAVSamples(wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	samples = media.Resample(samples, sampleRate, media.TargetSampleRate)

	wctx, err := l.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create whisper context: %w", err)
	}
	if l.language != "auto" {
		if err := wctx.SetLanguage(l.language); err != nil {
			return nil, fmt.Errorf("failed to set language: %w", err)
		}
	}

	// returning false from the encoder-begin callback aborts processing
	proceed := func() bool { return ctx.Err() == nil }
	if err := wctx.Process(samples, proceed, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to process audio: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var segments []Segment
	var text strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		segments = append(segments, Segment{
			Start: segment.Start,
			End:   segment.End,
			Text:  segment.Text,
		})
		text.WriteString(segment.Text)
		text.WriteString(" ")
	}

	return &Result{
		Text:     strings.TrimSpace(text.String()),
		Segments: segments,
		Language: l.language,
		Duration: time.Duration(int64(len(samples)) * int64(time.Second) / media.TargetSampleRate),
	}, nil
}

// Close releases the model resources.
func (l *Local) Close() error {
	if l.model != nil {
		return l.model.Close()
	}
	return nil
}
