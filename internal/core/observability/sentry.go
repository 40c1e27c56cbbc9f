// Package observability wires error reporting (Sentry) and LLM tracing
// (Langfuse). Both are optional and become no-ops when unconfigured.
package observability

import (
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry initializes the global Sentry hub when a DSN is configured.
// The returned func flushes pending events and is always safe to call.
func InitSentry(cfg *config.Config, release string, log *logger.Logger) func() {
	if cfg.SentryDSN == "" {
		log.Debug("sentry not configured")
		return func() {}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "copywriter@" + release,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Environment != "production",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = FilterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	})
	if err != nil {
		log.Warn("failed to initialize sentry", "error", err)
		return func() {}
	}

	log.Info("sentry initialized", "environment", cfg.Environment, "release", release)
	return func() { sentry.Flush(sentryFlushTimeout) }
}

// CaptureError reports err to Sentry if it is initialized.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

var sensitiveHeaders = []string{"authorization", "x-api-key", "cookie", "set-cookie"}

// FilterSensitiveHeaders drops credential-bearing headers from a header map.
func FilterSensitiveHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		drop := false
		for _, s := range sensitiveHeaders {
			if strings.EqualFold(k, s) {
				drop = true
				break
			}
		}
		if drop {
			out[k] = "[Filtered]"
			continue
		}
		out[k] = v
	}
	return out
}
