package fetcher

import (
	"context"
	"net/url"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/webdav"
)

// WebDAV downloads media from webdav:// links or from "remote:/path" links
// where remote names a server in config.
type WebDAV struct {
	Servers  map[string]config.WebDAVServer
	MaxBytes int64
}

func (w *WebDAV) Name() string { return "webdav" }

func (w *WebDAV) Match(u *url.URL) bool {
	if u.Scheme == "webdav" || u.Scheme == "webdav+http" {
		return true
	}
	_, ok := w.Servers[u.Scheme]
	return ok
}

// Schemes lists every scheme this fetcher should be registered for.
func (w *WebDAV) Schemes() []string {
	schemes := []string{"webdav", "webdav+http"}
	for name := range w.Servers {
		schemes = append(schemes, name)
	}
	return schemes
}

func (w *WebDAV) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	loc, err := webdav.Parse(rawURL, w.Servers)
	if err != nil {
		return "", err
	}

	reader, _, err := webdav.Open(ctx, loc, w.MaxBytes)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	return saveMedia(reader, dir, loc.Ext(), w.MaxBytes)
}
