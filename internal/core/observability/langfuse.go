package observability

import (
	"context"
	"os"
	"time"

	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
)

// Tracer records LLM generations in Langfuse. A nil or disabled Tracer
// accepts every call and does nothing.
type Tracer struct {
	client *langfuse.Langfuse
	log    *logger.Logger
}

// NewTracer returns an enabled Tracer when Langfuse is switched on and both
// keys are present, otherwise a disabled one.
func NewTracer(ctx context.Context, cfg config.LangfuseConfig, log *logger.Logger) *Tracer {
	if !cfg.Enabled || cfg.SecretKey == "" || cfg.PublicKey == "" {
		log.Debug("langfuse not configured")
		return &Tracer{log: log}
	}

	// the SDK only reads its settings from the environment
	os.Setenv("LANGFUSE_PUBLIC_KEY", cfg.PublicKey)
	os.Setenv("LANGFUSE_SECRET_KEY", cfg.SecretKey)
	if cfg.Host != "" {
		os.Setenv("LANGFUSE_HOST", cfg.Host)
	}

	log.Info("langfuse initialized", "host", cfg.Host)
	return &Tracer{client: langfuse.New(ctx), log: log}
}

// Enabled reports whether spans are actually sent.
func (t *Tracer) Enabled() bool {
	return t != nil && t.client != nil
}

// Span is one in-flight generation.
type Span struct {
	tracer *Tracer
	gen    *model.Generation
}

// StartGeneration opens a trace with a single generation inside it.
func (t *Tracer) StartGeneration(name, modelID string, input any, metadata map[string]any) *Span {
	if !t.Enabled() {
		return &Span{}
	}

	trace, err := t.client.Trace(&model.Trace{Name: name, Metadata: metadata})
	if err != nil {
		t.log.Warn("failed to create langfuse trace", "error", err)
		return &Span{}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   trace.ID,
		Name:      name,
		StartTime: &now,
		Model:     modelID,
		Input:     input,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		t.log.Warn("failed to create langfuse generation", "error", err)
		return &Span{}
	}
	return &Span{tracer: t, gen: gen}
}

// End records the output (or the error) and queues the generation.
func (s *Span) End(output string, err error) {
	if s == nil || s.gen == nil {
		return
	}
	now := time.Now()
	s.gen.EndTime = &now
	if err != nil {
		s.gen.Level = model.ObservationLevel("ERROR")
		s.gen.Metadata = map[string]any{"error": err.Error()}
	} else {
		s.gen.Output = output
	}
	if _, endErr := s.tracer.client.GenerationEnd(s.gen); endErr != nil {
		s.tracer.log.Warn("failed to end langfuse generation", "error", endErr)
	}
}

// Flush blocks until queued events are sent.
func (t *Tracer) Flush(ctx context.Context) {
	if t.Enabled() {
		t.client.Flush(ctx)
	}
}
