package fetcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
)

// SocialHosts are the platforms reference videos usually come from.
var SocialHosts = []string{
	"tiktok.com", "vm.tiktok.com", "vt.tiktok.com",
	"youtube.com", "youtu.be", "music.youtube.com",
	"instagram.com",
	"facebook.com", "fb.watch",
	"x.com", "twitter.com",
}

// ProgressFunc receives download progress in bytes.
type ProgressFunc func(downloaded, total int64)

// Ytdlp downloads social media videos with yt-dlp, falling back to
// youtube-dl when yt-dlp is missing or fails.
type Ytdlp struct {
	Binary         string
	FallbackBinary string
	Format         string
	MaxBytes       int64
	Progress       ProgressFunc
	Log            *logger.Logger
}

// outputPrefix names every file a download run writes into the workspace.
const outputPrefix = "reference."

func (y *Ytdlp) Name() string { return "yt-dlp" }

// Match accepts any http(s) URL; host filtering is done by the registry.
func (y *Ytdlp) Match(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// Format: [download]  45.2% of  150.00MiB at  5.00MiB/s ETA 00:15
var progressRe = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%\s+of\s+~?\s*(\d+\.?\d*)(Ki|Mi|Gi)?B`)

func (y *Ytdlp) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	bin := y.Binary
	if bin == "" {
		bin = "yt-dlp"
	}
	format := y.Format
	if format == "" {
		format = "bv*+ba/b"
	}

	err := y.run(ctx, exec.CommandContext(ctx, bin, y.args(format, dir, rawURL)...))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		y.logf("yt-dlp failed, trying youtube-dl", "error", err)

		// leftovers such as reference.f137.mp4 would be picked up as the
		// fallback's output
		if cerr := clearOutputs(dir); cerr != nil {
			return "", cerr
		}
		fallback := y.FallbackBinary
		if fallback == "" {
			fallback = "youtube-dl"
		}
		fbErr := y.run(ctx, exec.CommandContext(ctx, fallback, y.args("bestvideo+bestaudio/best", dir, rawURL)...))
		if fbErr != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("yt-dlp: %w", errors.Join(err, fbErr))
		}
	}

	return findDownloaded(dir, outputPrefix)
}

// args are shared by yt-dlp and youtube-dl; both accept the same flags.
func (y *Ytdlp) args(format, dir, rawURL string) []string {
	args := []string{
		"-f", format,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--newline",
		"-o", filepath.Join(dir, outputPrefix+"%(ext)s"),
	}
	if y.MaxBytes > 0 {
		args = append(args, "--max-filesize", strconv.FormatInt(y.MaxBytes, 10))
	}
	return append(args, rawURL)
}

// clearOutputs removes everything a failed run left in dir.
func clearOutputs(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, outputPrefix+"*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.RemoveAll(m); err != nil {
			return fmt.Errorf("failed to clear %s: %w", m, err)
		}
	}
	return nil
}

func (y *Ytdlp) run(ctx context.Context, cmd *exec.Cmd) error {
	var tail tailBuffer
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = &tail

	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		tail.Write([]byte(line + "\n"))
		if y.Progress == nil {
			continue
		}
		if downloaded, total, ok := parseProgress(line); ok {
			y.Progress(downloaded, total)
		}
	}

	if err := cmd.Wait(); err != nil {
		if msg := tail.String(); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func (y *Ytdlp) logf(msg string, kv ...interface{}) {
	if y.Log != nil {
		y.Log.Warn(msg, kv...)
	}
}

// parseProgress extracts downloaded/total bytes from a yt-dlp progress line.
func parseProgress(line string) (downloaded, total int64, ok bool) {
	m := progressRe.FindStringSubmatch(line)
	if len(m) < 3 {
		return 0, 0, false
	}
	percent, _ := strconv.ParseFloat(m[1], 64)
	size, _ := strconv.ParseFloat(m[2], 64)

	multiplier := int64(1)
	if len(m) >= 4 {
		switch m[3] {
		case "Ki":
			multiplier = 1024
		case "Mi":
			multiplier = 1024 * 1024
		case "Gi":
			multiplier = 1024 * 1024 * 1024
		}
	}
	total = int64(size * float64(multiplier))
	return int64(float64(total) * percent / 100), total, true
}

// findDownloaded returns the single finished file in dir with prefix,
// ignoring yt-dlp partials.
func findDownloaded(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", errors.New("downloader produced no file")
}

// tailBuffer keeps the last few lines of process output for error messages.
type tailBuffer struct {
	lines []string
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			t.lines = append(t.lines, l)
		}
	}
	if len(t.lines) > 5 {
		t.lines = t.lines[len(t.lines)-5:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "; ")
}
