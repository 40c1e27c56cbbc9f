package reference

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

// fakeFetcher writes a short WAV into the workspace and remembers where.
type fakeFetcher struct {
	dir string
	err error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	f.dir = dir
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, "reference.wav")
	if err := media.WriteWAV(path, tone(1600), media.TargetSampleRate); err != nil {
		return "", err
	}
	return path, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Name() string       { return "fake" }
func (f *fakeTranscriber) MaxFileSize() int64 { return 0 }

func (f *fakeTranscriber) Transcribe(ctx context.Context, wavPath string) (*transcriber.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &transcriber.Result{Text: f.text, Language: "id", Duration: 100 * time.Millisecond}, nil
}

func tone(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(0.4 * math.Sin(float64(i)/8))
	}
	return s
}

func wavBytes(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "up.wav")
	if err := media.WriteWAV(path, tone(1600), media.TargetSampleRate); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func assertRemoved(t *testing.T, dir string) {
	t.Helper()
	if dir == "" {
		t.Fatal("fetcher was not called")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("workspace %s still exists", dir)
	}
}

func TestResolveLink(t *testing.T) {
	f := &fakeFetcher{}
	tr := &fakeTranscriber{text: "  Halo kak, keran bocor terus?  "}
	r := NewResolver(Options{Fetcher: f, Transcriber: tr, TempDir: t.TempDir()})

	got, err := r.Resolve(context.Background(), Input{URL: "https://www.tiktok.com/@shop/video/1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == nil || got.Text != "Halo kak, keran bocor terus?" {
		t.Fatalf("Resolve() = %+v", got)
	}
	if got.Source != "https://www.tiktok.com/@shop/video/1" {
		t.Errorf("Source = %q", got.Source)
	}
	assertRemoved(t, f.dir)
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver(Options{})
	got, err := r.Resolve(context.Background(), Input{})
	if got != nil || err != nil {
		t.Errorf("Resolve(empty) = %v, %v; want nil, nil", got, err)
	}
}

func TestResolveFetchFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("HTTP 404")}
	tr := &fakeTranscriber{text: "x"}
	r := NewResolver(Options{Fetcher: f, Transcriber: tr, TempDir: t.TempDir()})

	_, err := r.Resolve(context.Background(), Input{URL: "https://example.com/gone"})
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v; want UnavailableError", err)
	}
	if tr.calls != 0 {
		t.Error("transcriber must not run when the fetch fails")
	}
	assertRemoved(t, f.dir)
}

func TestResolveTranscriptionFailure(t *testing.T) {
	f := &fakeFetcher{}
	r := NewResolver(Options{
		Fetcher:     f,
		Transcriber: &fakeTranscriber{err: errors.New("quota")},
		TempDir:     t.TempDir(),
	})

	_, err := r.Resolve(context.Background(), Input{URL: "https://example.com/a"})
	var te *TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v; want TranscriptionError", err)
	}
	assertRemoved(t, f.dir)
}

func TestResolveDenylisted(t *testing.T) {
	f := &fakeFetcher{}
	r := NewResolver(Options{
		Fetcher:     f,
		Transcriber: &fakeTranscriber{text: "♪ la la la ♪ reff"},
		Filter:      LyricsDenylist("♪", "reff"),
		TempDir:     t.TempDir(),
	})

	got, err := r.Resolve(context.Background(), Input{URL: "https://example.com/song"})
	if err != nil || got != nil {
		t.Errorf("Resolve() = %v, %v; want nil, nil", got, err)
	}
	assertRemoved(t, f.dir)
}

func TestResolveSilentReference(t *testing.T) {
	r := NewResolver(Options{
		Fetcher:     &fakeFetcher{},
		Transcriber: &fakeTranscriber{text: "   "},
		TempDir:     t.TempDir(),
	})
	got, err := r.Resolve(context.Background(), Input{URL: "https://example.com/quiet"})
	if err != nil || got != nil {
		t.Errorf("Resolve() = %v, %v; want nil, nil", got, err)
	}
}

func TestResolveUpload(t *testing.T) {
	base := t.TempDir()
	tr := &fakeTranscriber{text: "unboxing keran"}
	r := NewResolver(Options{Transcriber: tr, TempDir: base, MaxUploadBytes: 1 << 20})

	got, err := r.Resolve(context.Background(), Input{FileName: "clip.wav", File: bytes.NewReader(wavBytes(t))})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == nil || got.Text != "unboxing keran" || got.Source != "clip.wav" {
		t.Errorf("Resolve() = %+v", got)
	}

	entries, _ := os.ReadDir(base)
	if len(entries) != 0 {
		t.Errorf("workspace not cleaned: %d entries left", len(entries))
	}
}

func TestResolveUploadRejected(t *testing.T) {
	tests := []struct {
		name  string
		input func(t *testing.T) Input
	}{
		{"bad extension", func(t *testing.T) Input {
			return Input{FileName: "notes.txt", File: strings.NewReader("hello")}
		}},
		{"not media", func(t *testing.T) Input {
			return Input{FileName: "clip.mp4", File: strings.NewReader(strings.Repeat("x", 200))}
		}},
		{"too large", func(t *testing.T) Input {
			return Input{FileName: "clip.wav", File: bytes.NewReader(wavBytes(t))}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTranscriber{text: "x"}
			r := NewResolver(Options{Transcriber: tr, TempDir: t.TempDir(), MaxUploadBytes: 1000})
			_, err := r.Resolve(context.Background(), tt.input(t))
			var ue *UnavailableError
			if !errors.As(err, &ue) {
				t.Fatalf("error = %v; want UnavailableError", err)
			}
			if tr.calls != 0 {
				t.Error("transcriber must not run for a rejected upload")
			}
		})
	}
}

func TestLinkTakesPrecedence(t *testing.T) {
	f := &fakeFetcher{}
	r := NewResolver(Options{Fetcher: f, Transcriber: &fakeTranscriber{text: "dari link"}, TempDir: t.TempDir()})

	got, err := r.Resolve(context.Background(), Input{
		URL:      "https://example.com/v",
		FileName: "notes.txt",
		File:     strings.NewReader("ignored"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Source != "https://example.com/v" {
		t.Errorf("Source = %q; want the link", got.Source)
	}
}

func TestLyricsDenylist(t *testing.T) {
	f := LyricsDenylist("[Music]", "lirik", "♪", " ")
	tests := []struct {
		text string
		ok   bool
	}{
		{"Halo semua, ini review keran", true},
		{"[music] nananana", false},
		{"LIRIK lagu ini", false},
		{"ini liriknya: lirik.", false},
		{"Orang-orang melirik botol ini", true},
		{"lirikan pertama", true},
		{"♪ cinta ♪", false},
		{"la la♪la", false},
	}
	for _, tt := range tests {
		ok, reason := f(tt.text)
		if ok != tt.ok {
			t.Errorf("filter(%q) = %v (%s); want %v", tt.text, ok, reason, tt.ok)
		}
	}
	if ok, _ := AllowAll("♪"); !ok {
		t.Error("AllowAll rejected a transcript")
	}
}

func TestWorkspaceCloseIdempotent(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(ws.Dir, "a.bin"), []byte("x"), 0644)
	if err := ws.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Error("workspace still exists")
	}
}
