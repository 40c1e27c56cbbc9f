// Package server exposes the copywriting pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

// multipartMemory is how much of a form is held in memory before parts
// spill to temp files.
const multipartMemory = 32 << 20

// Response is the standard API response structure
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// Runner runs one generation job.
type Runner interface {
	Run(ctx context.Context, job ai.Job) (*ai.Outcome, error)
}

// Options configures a Server.
type Options struct {
	Config   *config.Config
	Pipeline Runner

	// Resolver serves /api/transcribe; nil disables references
	Resolver ai.ReferenceResolver
	Log      *logger.Logger
}

// Server is the HTTP server for the copywriting assistant
type Server struct {
	cfg      *config.Config
	pipeline Runner
	resolver ai.ReferenceResolver
	log      *logger.Logger
	engine   *gin.Engine
	server   *http.Server
}

// New creates a server and builds its routes.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:      opts.Config,
		pipeline: opts.Pipeline,
		resolver: opts.Resolver,
		log:      log.Component("server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	if s.cfg.SentryDSN != "" {
		engine.Use(sentryMiddleware())
	}
	engine.Use(s.requestIDMiddleware())
	engine.Use(s.loggingMiddleware())
	engine.Use(s.corsMiddleware())
	engine.MaxMultipartMemory = multipartMemory

	engine.GET("/", s.handleIndex)

	api := engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/models", s.handleModels)
	api.GET("/i18n", s.handleI18n)

	protected := api.Group("")
	if s.cfg.Server.APIKey != "" {
		protected.Use(s.authMiddleware())
	}
	protected.POST("/generate", s.handleGenerate)
	protected.POST("/generate/form", s.handleGenerateForm)
	protected.POST("/transcribe", s.handleTranscribe)
	protected.POST("/export", s.handleExport)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{
			Code:    404,
			Data:    nil,
			Message: "not found",
		})
	})
	return engine
}

// Start listens on the configured port until Stop is called.
func (s *Server) Start() error {
	if !config.Exists() {
		t := i18n.GetTranslations(s.cfg.Language)
		s.log.Warn(t.Server.NoConfigWarning)
		s.log.Warn(t.Server.RunInitHint)
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.engine,
		// uploads of a few hundred MB need more than the usual 30s
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	s.log.Info("starting copywriter server", "port", s.cfg.Server.Port, "auth", s.cfg.Server.APIKey != "",
		"references", s.resolver != nil)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// resolveReference is the /api/transcribe path; it reports a disabled
// resolver the same way the pipeline does.
func (s *Server) resolveReference(ctx context.Context, in reference.Input) (*reference.Transcript, error) {
	if s.resolver == nil {
		return nil, &reference.UnavailableError{Source: in.Source(), Reason: "references are disabled"}
	}
	return s.resolver.Resolve(ctx, in)
}
