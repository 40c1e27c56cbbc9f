package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

// Direct downloads a plain media URL over HTTP.
type Direct struct {
	Client   *http.Client
	MaxBytes int64
}

func (d *Direct) Name() string { return "direct" }

func (d *Direct) Match(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

func (d *Direct) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return &http.Client{
		Timeout: 10 * time.Minute,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

func (d *Direct) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := d.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if !isMediaContentType(resp.Header.Get("Content-Type")) {
		return "", fmt.Errorf("not a media file: %s", resp.Header.Get("Content-Type"))
	}
	if d.MaxBytes > 0 && resp.ContentLength > d.MaxBytes {
		return "", fmt.Errorf("file is %d bytes, limit is %d", resp.ContentLength, d.MaxBytes)
	}

	return saveMedia(resp.Body, dir, filepath.Ext(resp.Request.URL.Path), d.MaxBytes)
}

// isMediaContentType accepts audio/*, video/* and the generic binary type
// many CDNs use.
func isMediaContentType(ct string) bool {
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "video/") ||
		strings.HasPrefix(mt, "audio/") ||
		mt == "application/octet-stream"
}

// saveMedia copies r into dir, enforcing maxBytes and checking that the
// content really is a known media container.
func saveMedia(r io.Reader, dir, ext string, maxBytes int64) (string, error) {
	kind, r, err := media.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}
	if kind == media.KindUnknown {
		return "", fmt.Errorf("unrecognized media format")
	}
	if ext == "" || media.KindFromExt(ext) == media.KindUnknown {
		ext = "." + string(kind)
	}

	out, err := os.CreateTemp(dir, "reference-*"+strings.ToLower(ext))
	if err != nil {
		return "", err
	}
	defer out.Close()

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	n, err := io.Copy(out, src)
	if err != nil {
		return "", fmt.Errorf("download interrupted: %w", err)
	}
	if maxBytes > 0 && n > maxBytes {
		return "", fmt.Errorf("file exceeds %d bytes", maxBytes)
	}
	return out.Name(), nil
}
