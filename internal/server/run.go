package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/observability"
	"github.com/dianajengpr/copywritingassistant/internal/core/version"
)

const shutdownTimeout = 10 * time.Second

// Run wires the pipeline, starts the server and blocks until SIGINT or
// SIGTERM. A ConfigError from wiring is returned before anything listens.
func Run(cfg *config.Config, creds *config.Credentials, log *logger.Logger) error {
	flush := observability.InitSentry(cfg, version.Version, log.Component("sentry"))
	defer flush()

	ctx := context.Background()
	stack, err := ai.Build(ctx, cfg, creds, log, ai.BuildOptions{})
	if err != nil {
		observability.CaptureError(err)
		return err
	}
	defer stack.Tracer.Flush(context.Background())

	opts := Options{Config: cfg, Pipeline: stack.Pipeline, Log: log}
	if stack.Resolver != nil {
		opts.Resolver = stack.Resolver
	}
	srv := New(opts)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Warn("shutdown incomplete", "error", err)
		}
	}()

	return srv.Start()
}
