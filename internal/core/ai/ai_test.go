package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

type fakeResolver struct {
	mu      sync.Mutex
	calls   int
	results map[string]*reference.Transcript
	errs    map[string]error
}

func (f *fakeResolver) Resolve(_ context.Context, in reference.Input) (*reference.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[in.URL]; err != nil {
		return nil, err
	}
	return f.results[in.URL], nil
}

type fakeDispatcher struct {
	calls      int
	transcript string
	err        error
}

func (f *fakeDispatcher) CompileAndDispatch(_ context.Context, req copywriter.Request, transcript string) (*copywriter.Result, error) {
	f.calls++
	f.transcript = transcript
	if f.err != nil {
		return nil, f.err
	}
	return &copywriter.Result{Text: "copy for " + req.ProductName(), Editable: true}, nil
}

func newRequest(t *testing.T, name string) copywriter.Request {
	t.Helper()
	req, err := copywriter.NewRequest(copywriter.RequestInput{ProductName: name, Count: 3}, "gpt-4o")
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	return req
}

func TestRunWithoutReferences(t *testing.T) {
	res := &fakeResolver{}
	disp := &fakeDispatcher{}
	p := NewPipeline(res, disp, "", nil)

	out, err := p.Run(context.Background(), Job{Request: newRequest(t, "Silikon Keran Air")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Result.Text != "copy for Silikon Keran Air" {
		t.Errorf("Text = %q", out.Result.Text)
	}
	if res.calls != 0 {
		t.Errorf("resolver called %d times; want 0", res.calls)
	}
	if disp.transcript != "" {
		t.Errorf("transcript = %q; want empty", disp.transcript)
	}
}

func TestRunRejectsInvalidRequestBeforeResolving(t *testing.T) {
	res := &fakeResolver{}
	disp := &fakeDispatcher{}
	p := NewPipeline(res, disp, "", nil)

	_, err := p.Run(context.Background(), Job{
		Request:    copywriter.Request{},
		References: []reference.Input{{URL: "https://www.tiktok.com/@a/video/1"}},
	})
	var ve *copywriter.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Run() error = %v; want ValidationError", err)
	}
	if res.calls != 0 || disp.calls != 0 {
		t.Errorf("external calls made: resolver=%d dispatcher=%d", res.calls, disp.calls)
	}
}

func TestRunTooManyReferences(t *testing.T) {
	p := NewPipeline(&fakeResolver{}, &fakeDispatcher{}, "", nil)
	refs := make([]reference.Input, MaxReferences+1)

	_, err := p.Run(context.Background(), Job{Request: newRequest(t, "x"), References: refs})
	var ve *copywriter.ValidationError
	if !errors.As(err, &ve) || ve.Field != "references" {
		t.Fatalf("Run() error = %v; want references ValidationError", err)
	}
}

func TestRunReferenceFailurePolicy(t *testing.T) {
	failing := &reference.UnavailableError{Source: "a", Reason: "private video"}

	tests := []struct {
		name      string
		onFailure string
		wantErr   bool
	}{
		{name: "proceed", onFailure: config.OnFailureProceed},
		{name: "default", onFailure: ""},
		{name: "abort", onFailure: config.OnFailureAbort, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &fakeResolver{
				errs:    map[string]error{"a": failing},
				results: map[string]*reference.Transcript{"b": {Text: "halo guys"}},
			}
			disp := &fakeDispatcher{}
			p := NewPipeline(res, disp, tt.onFailure, nil)

			out, err := p.Run(context.Background(), Job{
				Request:    newRequest(t, "x"),
				References: []reference.Input{{URL: "a"}, {URL: "b"}},
			})
			if tt.wantErr {
				var ue *reference.UnavailableError
				if !errors.As(err, &ue) {
					t.Fatalf("Run() error = %v; want UnavailableError", err)
				}
				if disp.calls != 0 {
					t.Error("dispatcher should not run after abort")
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if disp.transcript != "halo guys" {
				t.Errorf("transcript = %q; want only the usable reference", disp.transcript)
			}
			if len(out.References) != 2 || out.References[0].Status != StatusFailed || out.References[1].Status != StatusUsed {
				t.Errorf("References = %+v", out.References)
			}
		})
	}
}

func TestRunNullTranscript(t *testing.T) {
	res := &fakeResolver{results: map[string]*reference.Transcript{}}
	disp := &fakeDispatcher{}
	p := NewPipeline(res, disp, "", nil)

	out, err := p.Run(context.Background(), Job{
		Request:    newRequest(t, "x"),
		References: []reference.Input{{URL: "lyrics-only"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if disp.transcript != "" {
		t.Errorf("transcript = %q; want empty", disp.transcript)
	}
	if out.References[0].Status != StatusEmpty {
		t.Errorf("Status = %q; want %q", out.References[0].Status, StatusEmpty)
	}
}

func TestRunGenerationError(t *testing.T) {
	genErr := &copywriter.GenerationServiceError{Provider: "openai", Model: "gpt-4o", Err: errors.New("boom")}
	p := NewPipeline(&fakeResolver{}, &fakeDispatcher{err: genErr}, "", nil)

	out, err := p.Run(context.Background(), Job{Request: newRequest(t, "x")})
	if out != nil {
		t.Errorf("Outcome = %+v; want nil", out)
	}
	if !errors.Is(err, genErr) {
		t.Errorf("Run() error = %v", err)
	}
}

func TestMergeTranscripts(t *testing.T) {
	refs := []ReferenceOutcome{
		{Slot: 1, Transcript: &reference.Transcript{Text: "pertama"}},
		{Slot: 2},
		{Slot: 3, Transcript: &reference.Transcript{Text: " ketiga "}},
	}

	got := MergeTranscripts(refs)
	want := "Referensi 1:\npertama\n\nReferensi 3:\nketiga"
	if got != want {
		t.Errorf("MergeTranscripts() = %q; want %q", got, want)
	}

	if got := MergeTranscripts(refs[:1]); got != "pertama" {
		t.Errorf("single = %q", got)
	}
	if got := MergeTranscripts(nil); got != "" {
		t.Errorf("empty = %q", got)
	}
}
