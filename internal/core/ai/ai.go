// Package ai ties reference transcription and copy generation into one
// request pipeline.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

// MaxReferences is the number of reference slots a request may fill.
const MaxReferences = 3

// Reference outcome statuses.
const (
	StatusUsed   = "used"
	StatusEmpty  = "no_speech"
	StatusFailed = "failed"
)

// ReferenceResolver turns one reference into a transcript, or nil.
type ReferenceResolver interface {
	Resolve(ctx context.Context, in reference.Input) (*reference.Transcript, error)
}

// CopyDispatcher generates copy for a validated request.
type CopyDispatcher interface {
	CompileAndDispatch(ctx context.Context, req copywriter.Request, transcript string) (*copywriter.Result, error)
}

// Job is one generation request with its optional references.
type Job struct {
	Request    copywriter.Request
	References []reference.Input
}

// ReferenceOutcome reports what happened to one reference slot.
type ReferenceOutcome struct {
	Slot       int                   `json:"slot"`
	Source     string                `json:"source"`
	Status     string                `json:"status"`
	Error      string                `json:"error,omitempty"`
	Transcript *reference.Transcript `json:"-"`
}

// Outcome is the pipeline result.
type Outcome struct {
	Result     *copywriter.Result `json:"result"`
	References []ReferenceOutcome `json:"references,omitempty"`
	Transcript string             `json:"transcript,omitempty"`
}

// Pipeline resolves references and then dispatches the prompt.
type Pipeline struct {
	resolver   ReferenceResolver
	dispatcher CopyDispatcher
	onFailure  string
	log        *logger.Logger
}

// NewPipeline creates a pipeline. An empty onFailure means
// config.OnFailureProceed. resolver may be nil when references are not
// supported, in which case any reference fails.
func NewPipeline(resolver ReferenceResolver, dispatcher CopyDispatcher, onFailure string, log *logger.Logger) *Pipeline {
	if onFailure == "" {
		onFailure = config.OnFailureProceed
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		resolver:   resolver,
		dispatcher: dispatcher,
		onFailure:  onFailure,
		log:        log.Component("pipeline"),
	}
}

// Run validates the request before touching any reference, resolves the
// references one after another and makes one generation call.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Outcome, error) {
	if err := job.Request.Validate(); err != nil {
		return nil, err
	}
	if len(job.References) > MaxReferences {
		return nil, &copywriter.ValidationError{
			Field:  "references",
			Reason: fmt.Sprintf("at most %d references are allowed, got %d", MaxReferences, len(job.References)),
		}
	}

	refs, err := p.resolveAll(ctx, job.References)
	if err != nil {
		return nil, err
	}
	transcript := MergeTranscripts(refs)

	result, err := p.dispatcher.CompileAndDispatch(ctx, job.Request, transcript)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: result, References: refs, Transcript: transcript}, nil
}

func (p *Pipeline) resolveAll(ctx context.Context, inputs []reference.Input) ([]ReferenceOutcome, error) {
	var outcomes []ReferenceOutcome
	for i, in := range inputs {
		if in.IsZero() {
			continue
		}
		o := ReferenceOutcome{Slot: i + 1, Source: in.Source()}

		t, err := p.resolve(ctx, in)
		switch {
		case err != nil:
			if p.onFailure == config.OnFailureAbort || ctx.Err() != nil {
				return nil, err
			}
			o.Status = StatusFailed
			o.Error = err.Error()
			p.log.Warn("proceeding without reference", "slot", o.Slot, "source", o.Source, "error", err)
		case t == nil:
			o.Status = StatusEmpty
		default:
			o.Status = StatusUsed
			o.Transcript = t
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func (p *Pipeline) resolve(ctx context.Context, in reference.Input) (*reference.Transcript, error) {
	if p.resolver == nil {
		return nil, &reference.UnavailableError{Source: in.Source(), Reason: "references are disabled"}
	}
	return p.resolver.Resolve(ctx, in)
}

// MergeTranscripts joins the usable transcripts. A single transcript is
// returned as is; several are labelled by slot.
func MergeTranscripts(refs []ReferenceOutcome) string {
	var texts []ReferenceOutcome
	for _, r := range refs {
		if r.Transcript != nil && strings.TrimSpace(r.Transcript.Text) != "" {
			texts = append(texts, r)
		}
	}
	switch len(texts) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(texts[0].Transcript.Text)
	}

	parts := make([]string, len(texts))
	for i, r := range texts {
		parts[i] = fmt.Sprintf("Referensi %d:\n%s", r.Slot, strings.TrimSpace(r.Transcript.Text))
	}
	return strings.Join(parts, "\n\n")
}
