// Package fetcher downloads a reference video behind a link into a local
// working directory.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
)

// ErrUnsupported is returned when no fetcher accepts a link.
var ErrUnsupported = errors.New("unsupported reference link")

// Fetcher downloads media for one family of links.
type Fetcher interface {
	// Name returns a short identifier used in logs
	Name() string

	// Match reports whether the fetcher can handle the URL
	Match(u *url.URL) bool

	// Fetch downloads the media into dir and returns the local path
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
}

// mediaExtensions are paths that are fetched directly instead of going
// through a host-specific fetcher.
var mediaExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".mkv": true, ".m4v": true,
	".mp3": true, ".m4a": true, ".ogg": true, ".wav": true, ".flac": true,
}

// Registry picks a fetcher by scheme, then by file extension, then by host.
type Registry struct {
	byHost   map[string]Fetcher
	byScheme map[string]Fetcher
	direct   Fetcher
	fallback Fetcher
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byHost:   make(map[string]Fetcher),
		byScheme: make(map[string]Fetcher),
	}
}

// Register adds a fetcher for the given hostnames.
func (r *Registry) Register(f Fetcher, hosts ...string) {
	for _, h := range hosts {
		r.byHost[strings.ToLower(h)] = f
	}
}

// RegisterScheme adds a fetcher for non-http schemes such as webdav://.
func (r *Registry) RegisterScheme(f Fetcher, schemes ...string) {
	for _, s := range schemes {
		r.byScheme[strings.ToLower(s)] = f
	}
}

// SetDirect sets the fetcher used for links ending in a media extension.
func (r *Registry) SetDirect(f Fetcher) { r.direct = f }

// SetFallback sets the fetcher for http(s) links on unknown hosts.
func (r *Registry) SetFallback(f Fetcher) { r.fallback = f }

// Match finds the fetcher for a link.
func (r *Registry) Match(rawURL string) (Fetcher, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q is not a URL", ErrUnsupported, rawURL)
	}
	scheme := strings.ToLower(u.Scheme)

	if f, ok := r.byScheme[scheme]; ok && f.Match(u) {
		return f, nil
	}
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
	}

	if r.direct != nil && mediaExtensions[strings.ToLower(path.Ext(u.Path))] {
		return r.direct, nil
	}

	host := strings.ToLower(u.Hostname())
	if f, ok := r.byHost[host]; ok && f.Match(u) {
		return f, nil
	}
	if trimmed, found := strings.CutPrefix(host, "www."); found {
		if f, ok := r.byHost[trimmed]; ok && f.Match(u) {
			return f, nil
		}
	}
	if trimmed, found := strings.CutPrefix(host, "m."); found {
		if f, ok := r.byHost[trimmed]; ok && f.Match(u) {
			return f, nil
		}
	}

	if r.fallback != nil && r.fallback.Match(u) {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, host)
}

// Fetch resolves the fetcher for rawURL and runs it.
func (r *Registry) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	f, err := r.Match(rawURL)
	if err != nil {
		return "", err
	}
	return f.Fetch(ctx, rawURL, dir)
}

// List returns all unique registered fetchers
func (r *Registry) List() []Fetcher {
	seen := make(map[string]bool)
	var result []Fetcher
	add := func(f Fetcher) {
		if f != nil && !seen[f.Name()] {
			seen[f.Name()] = true
			result = append(result, f)
		}
	}
	for _, f := range r.byScheme {
		add(f)
	}
	for _, f := range r.byHost {
		add(f)
	}
	add(r.direct)
	add(r.fallback)
	return result
}

// Options configures the default fetchers.
type Options struct {
	YtdlpPath     string
	YoutubeDLPath string
	Format        string
	MaxBytes      int64
	WebDAV        map[string]config.WebDAVServer
	Progress      ProgressFunc
	Log           *logger.Logger
}

// NewDefault wires yt-dlp for social platforms and unknown hosts, plain
// HTTP for direct media links and WebDAV for webdav:// and named remotes.
func NewDefault(opts Options) *Registry {
	r := NewRegistry()

	yt := &Ytdlp{
		Binary:         opts.YtdlpPath,
		FallbackBinary: opts.YoutubeDLPath,
		Format:         opts.Format,
		MaxBytes:       opts.MaxBytes,
		Progress:       opts.Progress,
		Log:            opts.Log,
	}
	r.Register(yt, SocialHosts...)
	r.SetFallback(yt)
	r.SetDirect(&Direct{MaxBytes: opts.MaxBytes})

	dav := &WebDAV{Servers: opts.WebDAV, MaxBytes: opts.MaxBytes}
	r.RegisterScheme(dav, dav.Schemes()...)
	return r
}
