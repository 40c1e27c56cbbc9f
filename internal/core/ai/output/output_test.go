package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Silikon Keran Air", "copywriting-Silikon Keran Air.txt"},
		{"Kopi: Gula/Aren?", "copywriting-Kopi- Gula-Aren.txt"},
		{"  ..hidden..  ", "copywriting-hidden.txt"},
		{"ＳＡＢＵＮ Cuci", "copywriting-SABUN Cuci.txt"},
		{"con", "copywriting-_con.txt"},
		{"???", "copywriting.txt"},
		{"", "copywriting.txt"},
		{"lihat https://example.com/x ya", "copywriting-lihat ya.txt"},
		{"https://shop.example.com/p/1", "copywriting.txt"},
		{"【PROMO】Sabun「Wangi」", "copywriting-PROMOSabunWangi.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Filename(tt.in); got != tt.want {
				t.Errorf("Filename(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("panjang ", 20))
	if n := len([]rune(got)); n > maxNameRunes {
		t.Errorf("len = %d; want <= %d", n, maxNameRunes)
	}
}

func TestWriteText(t *testing.T) {
	dir := t.TempDir()

	first, err := WriteText(dir, "Silikon Keran Air", "satu")
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	second, err := WriteText(dir, "Silikon Keran Air", "dua\n")
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	if filepath.Base(first) != "copywriting-Silikon Keran Air.txt" {
		t.Errorf("first = %q", first)
	}
	if filepath.Base(second) != "copywriting-Silikon Keran Air (2).txt" {
		t.Errorf("second = %q", second)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "satu\n" {
		t.Errorf("first content = %q", data)
	}
	data, err = os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "dua\n" {
		t.Errorf("second content = %q", data)
	}
}

func TestRenderTranscript(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tr := &reference.Transcript{
		Source:   "video.mp4",
		Language: "id",
		Duration: 75 * time.Second,
		Segments: []transcriber.Segment{
			{Start: 0, End: 2 * time.Second, Text: " halo semua "},
			{Start: 65 * time.Second, Text: ""},
		},
	}

	got := RenderTranscript(tr, at)
	for _, want := range []string{
		"# Transcript: video.mp4",
		"**Duration:** 1m 15s",
		"**Language:** id",
		"**Transcribed:** 2025-03-01 10:00:00",
		"[00:00:00] halo semua",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "[00:01:05]") {
		t.Error("empty segment should be skipped")
	}
}
