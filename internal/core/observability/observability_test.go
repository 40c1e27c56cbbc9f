package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
)

func TestFilterSensitiveHeaders(t *testing.T) {
	in := map[string]string{
		"Authorization": "Bearer abc",
		"X-API-Key":     "k",
		"Content-Type":  "application/json",
	}
	got := FilterSensitiveHeaders(in)

	if got["Authorization"] != "[Filtered]" {
		t.Errorf("Authorization = %q", got["Authorization"])
	}
	if got["X-API-Key"] != "[Filtered]" {
		t.Errorf("X-API-Key = %q", got["X-API-Key"])
	}
	if got["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", got["Content-Type"])
	}
	if FilterSensitiveHeaders(nil) != nil {
		t.Error("nil headers should stay nil")
	}
}

func TestDisabledTracerIsNoop(t *testing.T) {
	tr := NewTracer(context.Background(), config.LangfuseConfig{Enabled: false}, logger.Nop())
	if tr.Enabled() {
		t.Fatal("tracer should be disabled")
	}
	span := tr.StartGeneration("copywriting", "gpt-4o", "x", nil)
	span.End("", errors.New("boom"))
	tr.Flush(context.Background())

	var nilTracer *Tracer
	nilTracer.StartGeneration("x", "y", nil, nil).End("ok", nil)
}

func TestInitSentryWithoutDSN(t *testing.T) {
	flush := InitSentry(&config.Config{}, "test", logger.Nop())
	flush()
}
