package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

type fakeTranscriber struct {
	max   int64
	calls []string
	err   error
}

func (f *fakeTranscriber) Name() string       { return "fake" }
func (f *fakeTranscriber) MaxFileSize() int64 { return f.max }

func (f *fakeTranscriber) Transcribe(ctx context.Context, wavPath string) (*Result, error) {
	f.calls = append(f.calls, wavPath)
	if f.err != nil {
		return nil, f.err
	}
	n := len(f.calls)
	return &Result{
		Text:     "part" + string(rune('0'+n)),
		Segments: []Segment{{Start: 0, End: 500 * time.Millisecond, Text: "part"}},
		Language: "id",
		Duration: time.Second,
	}, nil
}

func writeTone(t *testing.T, dir string, seconds int) string {
	t.Helper()
	samples := make([]float32, seconds*media.TargetSampleRate)
	for i := range samples {
		samples[i] = float32(0.3 * math.Sin(float64(i)/10))
	}
	path := filepath.Join(dir, "tone.wav")
	if err := media.WriteWAV(path, samples, media.TargetSampleRate); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeFileSingleRequest(t *testing.T) {
	dir := t.TempDir()
	wav := writeTone(t, dir, 1)
	f := &fakeTranscriber{}

	r, err := TranscribeFile(context.Background(), f, wav, dir)
	if err != nil {
		t.Fatalf("TranscribeFile() error = %v", err)
	}
	if len(f.calls) != 1 || f.calls[0] != wav {
		t.Errorf("calls = %v", f.calls)
	}
	if r.Text != "part1" {
		t.Errorf("Text = %q", r.Text)
	}
	if _, err := os.Stat(wav); err != nil {
		t.Error("the original WAV must not be removed")
	}
}

func TestTranscribeFileChunks(t *testing.T) {
	dir := t.TempDir()
	wav := writeTone(t, dir, 3)
	// one second of 16-bit mono PCM per request
	f := &fakeTranscriber{max: 44 + 2*media.TargetSampleRate}

	r, err := TranscribeFile(context.Background(), f, wav, dir)
	if err != nil {
		t.Fatalf("TranscribeFile() error = %v", err)
	}
	if len(f.calls) != 3 {
		t.Fatalf("got %d requests; want 3", len(f.calls))
	}
	if r.Text != "part1 part2 part3" {
		t.Errorf("Text = %q", r.Text)
	}
	if len(r.Segments) != 3 || r.Segments[2].Start != 2*time.Second {
		t.Errorf("segments = %+v", r.Segments)
	}
	if r.Duration != 3*time.Second {
		t.Errorf("Duration = %v", r.Duration)
	}
	for _, c := range f.calls {
		if _, err := os.Stat(c); !os.IsNotExist(err) {
			t.Errorf("chunk %s was not cleaned up", c)
		}
	}
}

func TestTranscribeFileError(t *testing.T) {
	dir := t.TempDir()
	wav := writeTone(t, dir, 1)
	boom := errors.New("quota exceeded")

	_, err := TranscribeFile(context.Background(), &fakeTranscriber{err: boom}, wav, dir)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v; want %v", err, boom)
	}
}

func TestMergeRejectsMismatch(t *testing.T) {
	if _, err := Merge(nil, nil); err == nil {
		t.Error("Merge(nil) should fail")
	}
	if _, err := Merge([]*Result{{}, {}}, []media.Chunk{{}}); err == nil {
		t.Error("Merge with mismatched lengths should fail")
	}
}

func TestFormattedText(t *testing.T) {
	r := &Result{Segments: []Segment{
		{Start: 0, Text: " halo "},
		{Start: 65 * time.Second, Text: "kak"},
	}}
	want := "[00:00:00] halo\n[00:01:05] kak\n"
	if got := r.FormattedText(); got != want {
		t.Errorf("FormattedText() = %q; want %q", got, want)
	}
	plain := &Result{Text: "just text"}
	if plain.FormattedText() != "just text" {
		t.Error("without segments FormattedText should return Text")
	}
}

func TestLanguageCodes(t *testing.T) {
	tests := []struct {
		in, short, bcp string
	}{
		{"", "", "id-ID"},
		{"id-ID", "id", "id-ID"},
		{"ms", "ms", "ms-MY"},
		{"en", "en", "en-US"},
		{"auto", "", "auto"},
	}
	for _, tt := range tests {
		if got := shortLanguage(tt.in); got != tt.short {
			t.Errorf("shortLanguage(%q) = %q; want %q", tt.in, got, tt.short)
		}
		if got := bcp47Language(tt.in); got != tt.bcp {
			t.Errorf("bcp47Language(%q) = %q; want %q", tt.in, got, tt.bcp)
		}
	}
}

func TestModelPath(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"":                    "ggml-small.bin",
		"whisper-small":       "ggml-small.bin",
		"medium":              "ggml-medium.bin",
		"whisper-large-turbo": "ggml-large-v3-turbo.bin",
		"custom.bin":          "custom.bin",
	}
	for in, want := range tests {
		got, err := ModelPath(in, dir)
		if err != nil {
			t.Fatalf("ModelPath(%q) error = %v", in, err)
		}
		if got != filepath.Join(dir, want) {
			t.Errorf("ModelPath(%q) = %q; want %q", in, got, want)
		}
	}
	if !strings.HasSuffix(LocalModels[0].URL, "ggml-tiny.bin") {
		t.Errorf("model URL = %q", LocalModels[0].URL)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.TranscriptionConfig{Provider: "azure"}, nil)
	if err == nil {
		t.Error("New() should reject unknown providers")
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	missing := errors.New("no key")
	_, err := New(context.Background(), config.TranscriptionConfig{Provider: "openai"}, func(string) (string, error) {
		return "", missing
	})
	if !errors.Is(err, missing) {
		t.Errorf("error = %v; want %v", err, missing)
	}
}

func TestFromVerboseDropsNonSpeech(t *testing.T) {
	var resp openai.AudioResponse
	body := `{
		"language": "indonesian",
		"duration": 12.5,
		"text": "Terima kasih telah menonton. Keran bocor? Pakai silikon ini!",
		"segments": [
			{"start": 0, "end": 3, "text": " Terima kasih telah menonton.", "no_speech_prob": 0.91},
			{"start": 3, "end": 7, "text": " Keran bocor?", "no_speech_prob": 0.05},
			{"start": 7, "end": 12.5, "text": " Pakai silikon ini!", "no_speech_prob": 0.1}
		]
	}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}

	got := fromVerbose(resp)
	if got.Text != "Keran bocor? Pakai silikon ini!" {
		t.Errorf("Text = %q", got.Text)
	}
	if len(got.Segments) != 2 || got.Segments[0].Start != 3*time.Second {
		t.Errorf("Segments = %+v", got.Segments)
	}
	if got.Duration != 12500*time.Millisecond {
		t.Errorf("Duration = %v", got.Duration)
	}
}

func TestFromVerboseWithoutSegments(t *testing.T) {
	got := fromVerbose(openai.AudioResponse{Text: "  halo kak  "})
	if got.Text != "halo kak" {
		t.Errorf("Text = %q", got.Text)
	}
}
