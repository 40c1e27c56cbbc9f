// Package reference turns a reference video (a link or an uploaded file)
// into a transcript that can steer copywriting.
package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

// AcceptedUploads are the file extensions an upload may have.
var AcceptedUploads = []string{".mp4", ".mov", ".webm", ".m4a", ".mp3", ".wav", ".flac", ".ogg"}

// Input is one reference slot. When both URL and File are set, URL wins.
type Input struct {
	URL      string
	FileName string
	File     io.Reader
}

// IsZero reports whether the slot is empty.
func (in Input) IsZero() bool {
	return strings.TrimSpace(in.URL) == "" && in.File == nil
}

// Source names the reference for logs and errors.
func (in Input) Source() string {
	if u := strings.TrimSpace(in.URL); u != "" {
		return u
	}
	if in.FileName != "" {
		return in.FileName
	}
	return "upload"
}

// Transcript is the text spoken in a reference.
type Transcript struct {
	Source   string
	Text     string
	Language string
	Duration time.Duration
	Segments []transcriber.Segment
}

// URLFetcher downloads a link into dir.
type URLFetcher interface {
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
}

// Options configures a Resolver.
type Options struct {
	Fetcher        URLFetcher
	Transcriber    transcriber.Transcriber
	Filter         Filter
	MaxUploadBytes int64
	TempDir        string
	Log            *logger.Logger
}

// Resolver fetches, extracts audio from and transcribes references. It
// holds no per-request state and is safe for concurrent use.
type Resolver struct {
	fetcher     URLFetcher
	transcriber transcriber.Transcriber
	filter      Filter
	maxUpload   int64
	tempDir     string
	log         *logger.Logger
}

// NewResolver builds a Resolver. A nil Filter accepts every transcript.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		fetcher:     opts.Fetcher,
		transcriber: opts.Transcriber,
		filter:      opts.Filter,
		maxUpload:   opts.MaxUploadBytes,
		tempDir:     opts.TempDir,
		log:         opts.Log,
	}
	if r.filter == nil {
		r.filter = AllowAll
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	return r
}

// Resolve returns the transcript of in, or nil when the reference has no
// usable speech (empty or rejected by the filter). Temporary files are
// removed before Resolve returns, whatever the outcome.
func (r *Resolver) Resolve(ctx context.Context, in Input) (*Transcript, error) {
	if in.IsZero() {
		return nil, nil
	}
	source := in.Source()
	log := r.log.With("source", source)

	ws, err := NewWorkspace(r.tempDir)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.Warn("failed to remove workspace", "dir", ws.Dir, "error", err)
		}
	}()

	var mediaPath string
	if strings.TrimSpace(in.URL) != "" {
		if r.fetcher == nil {
			return nil, &UnavailableError{Source: source, Reason: "links are not supported"}
		}
		log.Debug("fetching reference")
		mediaPath, err = r.fetcher.Fetch(ctx, strings.TrimSpace(in.URL), ws.Dir)
		if err != nil {
			return nil, &UnavailableError{Source: source, Reason: "cannot fetch", Err: err}
		}
	} else {
		mediaPath, err = r.saveUpload(in, ws.Dir)
		if err != nil {
			return nil, err
		}
	}

	wavPath, err := media.ExtractAudio(ctx, mediaPath, ws.Dir)
	if err != nil {
		reason := "cannot extract audio"
		if errors.Is(err, media.ErrNoAudio) {
			reason = "no playable audio track"
		}
		return nil, &UnavailableError{Source: source, Reason: reason, Err: err}
	}
	if _, err := media.Probe(wavPath); err != nil {
		return nil, &UnavailableError{Source: source, Reason: "no playable audio track", Err: err}
	}

	if r.transcriber == nil {
		return nil, &TranscriptionError{Source: source, Err: errors.New("no transcriber configured")}
	}
	start := time.Now()
	res, err := transcriber.TranscribeFile(ctx, r.transcriber, wavPath, ws.Dir)
	if err != nil {
		return nil, &TranscriptionError{Source: source, Err: err}
	}
	log.Info("reference transcribed", "provider", r.transcriber.Name(), "duration", res.Duration, "took", time.Since(start))

	text := strings.TrimSpace(res.Text)
	if text == "" {
		log.Info("reference has no speech")
		return nil, nil
	}
	if ok, reason := r.filter(text); !ok {
		log.Warn("reference transcript rejected", "reason", reason)
		return nil, nil
	}

	return &Transcript{
		Source:   source,
		Text:     text,
		Language: res.Language,
		Duration: res.Duration,
		Segments: res.Segments,
	}, nil
}

// saveUpload streams an uploaded blob into dir after checking its type and
// size.
func (r *Resolver) saveUpload(in Input, dir string) (string, error) {
	source := in.Source()
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if !isAcceptedUpload(ext) {
		return "", &UnavailableError{
			Source: source,
			Reason: fmt.Sprintf("unsupported file type %q (accepted: %s)", ext, strings.Join(AcceptedUploads, ", ")),
		}
	}

	kind, body, err := media.DetectReader(in.File)
	if err != nil {
		return "", &UnavailableError{Source: source, Reason: "cannot read upload", Err: err}
	}
	if kind == media.KindUnknown {
		return "", &UnavailableError{Source: source, Reason: "file is not a recognized audio or video container"}
	}

	out, err := os.Create(filepath.Join(dir, "upload"+ext))
	if err != nil {
		return "", err
	}
	defer out.Close()

	src := body
	if r.maxUpload > 0 {
		src = io.LimitReader(body, r.maxUpload+1)
	}
	n, err := io.Copy(out, src)
	if err != nil {
		return "", &UnavailableError{Source: source, Reason: "cannot read upload", Err: err}
	}
	if r.maxUpload > 0 && n > r.maxUpload {
		return "", &UnavailableError{
			Source: source,
			Reason: fmt.Sprintf("file exceeds the %d MiB upload limit", r.maxUpload>>20),
		}
	}
	return out.Name(), nil
}

func isAcceptedUpload(ext string) bool {
	for _, a := range AcceptedUploads {
		if ext == a {
			return true
		}
	}
	return false
}
