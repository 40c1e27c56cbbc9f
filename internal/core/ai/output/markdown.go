// Package output writes generated copy and reference transcripts to disk.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

// WriteTranscript writes a reference transcript to a markdown file.
func WriteTranscript(outputPath string, t *reference.Transcript) error {
	return os.WriteFile(outputPath, []byte(RenderTranscript(t, time.Now())), 0644)
}

// RenderTranscript formats a transcript as markdown with one timestamped
// paragraph per segment.
func RenderTranscript(t *reference.Transcript, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Transcript: %s\n\n", t.Source))

	if t.Duration > 0 {
		b.WriteString(fmt.Sprintf("**Duration:** %s\n", formatDuration(t.Duration)))
	}
	if t.Language != "" {
		b.WriteString(fmt.Sprintf("**Language:** %s\n", t.Language))
	}
	b.WriteString(fmt.Sprintf("**Transcribed:** %s\n", at.Format("2006-01-02 15:04:05")))
	b.WriteString("\n---\n\n")

	if len(t.Segments) > 0 {
		for _, seg := range t.Segments {
			text := strings.TrimSpace(seg.Text)
			if text != "" {
				b.WriteString(fmt.Sprintf("[%s] %s\n\n", transcriber.FormatTimestamp(seg.Start), text))
			}
		}
	} else {
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// formatDuration formats a duration in human-readable form.
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
