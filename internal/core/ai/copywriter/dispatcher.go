// Package copywriter compiles product requests into LLM prompts and
// dispatches them to a chat model.
package copywriter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/observability"
)

// ErrLintFailed is wrapped in a GenerationServiceError when strict mode
// rejects output that breaks the formatting rules.
var ErrLintFailed = errors.New("output breaks formatting rules")

// GeneratorSource resolves a model ID to the generator that serves it.
type GeneratorSource interface {
	For(ctx context.Context, modelID string) (Generator, error)
}

// Result is the generated copy. Text is handed to the user as an editable
// draft.
type Result struct {
	Text     string  `json:"text"`
	Editable bool    `json:"editable"`
	Model    string  `json:"model"`
	Provider string  `json:"provider"`
	Issues   []Issue `json:"issues,omitempty"`
}

// Dispatcher runs compile, one LLM call and the output checks.
type Dispatcher struct {
	source        GeneratorSource
	temperature   float64
	tokensPerItem int
	prompt        Options
	strict        bool
	tracer        *observability.Tracer
	log           *logger.Logger
}

// DispatcherOptions configures a Dispatcher. Zero values take defaults.
type DispatcherOptions struct {
	Temperature   float64
	TokensPerItem int
	Prompt        Options
	Strict        bool
	Tracer        *observability.Tracer
	Log           *logger.Logger
}

// OptionsFromConfig maps the generation section of the config file.
func OptionsFromConfig(cfg config.GenerationConfig) DispatcherOptions {
	return DispatcherOptions{
		Temperature:   cfg.Temperature,
		TokensPerItem: cfg.TokensPerItem,
		Prompt: Options{
			CTA:              cfg.CTA,
			TranscriptBudget: cfg.TranscriptBudget,
		},
		Strict: cfg.Strict,
	}
}

// NewDispatcher returns a dispatcher. Temperature is kept inside
// [config.MinTemperature, config.MaxTemperature].
func NewDispatcher(source GeneratorSource, opts DispatcherOptions) *Dispatcher {
	temp := opts.Temperature
	switch {
	case temp == 0:
		temp = config.DefaultTemperature
	case temp < config.MinTemperature:
		temp = config.MinTemperature
	case temp > config.MaxTemperature:
		temp = config.MaxTemperature
	}
	tokens := opts.TokensPerItem
	if tokens <= 0 {
		tokens = config.DefaultTokensPerItem
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		source:        source,
		temperature:   temp,
		tokensPerItem: tokens,
		prompt:        opts.Prompt,
		strict:        opts.Strict,
		tracer:        opts.Tracer,
		log:           log.Component("copywriter"),
	}
}

// MaxTokens is the completion budget for count variants.
func (d *Dispatcher) MaxTokens(count int) int {
	return d.tokensPerItem * count
}

// Compile exposes the prompt the dispatcher would send for req.
func (d *Dispatcher) Compile(req Request, transcript string) Payload {
	return Compile(req, transcript, d.prompt)
}

// CompileAndDispatch validates req, compiles the prompt and makes a single
// LLM call. An empty transcript means no reference. On error no text is
// returned.
func (d *Dispatcher) CompileAndDispatch(ctx context.Context, req Request, transcript string) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gen, err := d.source.For(ctx, req.ModelID())
	if err != nil {
		return nil, err
	}

	payload := d.Compile(req, transcript)
	params := Params{
		Model:       req.ModelID(),
		System:      payload.System,
		User:        payload.User,
		Temperature: d.temperature,
		MaxTokens:   d.MaxTokens(req.Count()),
	}

	log := d.log.With("provider", gen.Name(), "model", params.Model, "count", req.Count())
	log.Info("generating copy", "max_tokens", params.MaxTokens, "has_reference", transcript != "")

	span := sentry.StartSpan(ctx, "llm.generate")
	span.SetTag("provider", gen.Name())
	span.SetTag("model", params.Model)
	trace := d.tracer.StartGeneration("copywriting", params.Model,
		map[string]string{"system": params.System, "user": params.User},
		map[string]any{
			"provider":    gen.Name(),
			"count":       req.Count(),
			"language":    string(req.Language()),
			"temperature": params.Temperature,
			"max_tokens":  params.MaxTokens,
		})

	text, err := gen.Generate(span.Context(), params)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	trace.End(text, err)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.Finish()
		log.Error("generation failed", "error", err)
		return nil, &GenerationServiceError{Provider: gen.Name(), Model: params.Model, Err: err}
	}
	span.Status = sentry.SpanStatusOK
	span.Finish()

	issues := Lint(text, req.Count(), d.prompt.CTA)
	if len(issues) > 0 {
		log.Warn("output breaks formatting rules", "issues", len(issues))
		if d.strict {
			return nil, &GenerationServiceError{
				Provider: gen.Name(),
				Model:    params.Model,
				Err:      fmt.Errorf("%w: %s", ErrLintFailed, issues[0].Message),
			}
		}
	}

	return &Result{
		Text:     text,
		Editable: true,
		Model:    params.Model,
		Provider: gen.Name(),
		Issues:   issues,
	}, nil
}
