package ai

import (
	"context"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/fetcher"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/observability"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

// Stack is the wired set of components a surface serves requests with.
type Stack struct {
	Config     *config.Config
	Router     *copywriter.Router
	Dispatcher *copywriter.Dispatcher
	Resolver   *reference.Resolver // nil when no transcriber could be built
	Pipeline   *Pipeline
	Tracer     *observability.Tracer
}

// BuildOptions tweaks Build for a surface.
type BuildOptions struct {
	// Progress receives yt-dlp download progress, if set
	Progress fetcher.ProgressFunc
}

// Build validates cfg and wires every component. A missing credential for
// the default model is a *config.ConfigError and must stop the caller.
// A transcriber that cannot be built only disables references.
func Build(ctx context.Context, cfg *config.Config, creds *config.Credentials, log *logger.Logger, opts BuildOptions) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, ok := copywriter.ProviderFor(cfg.Generation.DefaultModel)
	if !ok {
		return nil, &config.ConfigError{Key: "generation.default_model", Reason: "unknown model " + cfg.Generation.DefaultModel}
	}
	if err := creds.Require(provider); err != nil {
		return nil, err
	}

	tracer := observability.NewTracer(ctx, cfg.Langfuse, log.Component("langfuse"))

	router := copywriter.NewRouter(cfg, creds)
	dopts := copywriter.OptionsFromConfig(cfg.Generation)
	dopts.Tracer = tracer
	dopts.Log = log
	dispatcher := copywriter.NewDispatcher(router, dopts)

	resolver, err := NewResolver(ctx, cfg, creds, log, opts)
	if err != nil {
		log.Warn("references disabled: no transcriber", "provider", cfg.Transcription.Provider, "error", err)
		resolver = nil
	}

	var rr ReferenceResolver
	if resolver != nil {
		rr = resolver
	}

	return &Stack{
		Config:     cfg,
		Router:     router,
		Dispatcher: dispatcher,
		Resolver:   resolver,
		Pipeline:   NewPipeline(rr, dispatcher, cfg.Reference.OnFailure, log),
		Tracer:     tracer,
	}, nil
}

// NewResolver wires the fetcher, the transcriber and the lyric filter. It
// needs only the transcription credential, so `copywriter transcribe`
// works without an LLM key.
func NewResolver(ctx context.Context, cfg *config.Config, creds *config.Credentials, log *logger.Logger, opts BuildOptions) (*reference.Resolver, error) {
	stt, err := transcriber.New(ctx, cfg.Transcription, creds.Get)
	if err != nil {
		return nil, err
	}
	return reference.NewResolver(reference.Options{
		Fetcher: fetcher.NewDefault(fetcher.Options{
			YtdlpPath:     cfg.Reference.YtdlpPath,
			YoutubeDLPath: cfg.Reference.YoutubeDLPath,
			Format:        cfg.Reference.Format,
			MaxBytes:      cfg.MaxUploadBytes(),
			WebDAV:        cfg.WebDAVServers,
			Progress:      opts.Progress,
			Log:           log.Component("fetcher"),
		}),
		Transcriber:    stt,
		Filter:         reference.LyricsDenylist(cfg.Reference.Denylist...),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Log:            log.Component("resolver"),
	}), nil
}
