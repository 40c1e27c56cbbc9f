package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

// TranscribeFile transcribes a WAV file, splitting it first when it is
// larger than t accepts in one request. Chunk files are written to workDir
// and removed before returning.
func TranscribeFile(ctx context.Context, t Transcriber, wavPath, workDir string) (*Result, error) {
	chunks, err := media.SplitWAV(wavPath, t.MaxFileSize(), workDir)
	if err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}
	defer func() {
		for _, c := range chunks {
			media.RemoveIfDerived(c.Path, wavPath)
		}
	}()

	results := make([]*Result, 0, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := t.Transcribe(ctx, c.Path)
		if err != nil {
			if len(chunks) > 1 {
				return nil, fmt.Errorf("chunk %d/%d: %w", c.Index, len(chunks), err)
			}
			return nil, err
		}
		results = append(results, r)
		if c.Path != wavPath {
			os.Remove(c.Path)
		}
	}
	return Merge(results, chunks)
}

// Merge joins per-chunk results, shifting segment timestamps by each
// chunk's start offset.
func Merge(results []*Result, chunks []media.Chunk) (*Result, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no results to merge")
	}
	if len(results) != len(chunks) {
		return nil, fmt.Errorf("have %d results for %d chunks", len(results), len(chunks))
	}
	if len(results) == 1 {
		return results[0], nil
	}

	merged := &Result{Language: results[0].Language}
	var texts []string
	for i, r := range results {
		offset := chunks[i].Start
		for _, seg := range r.Segments {
			merged.Segments = append(merged.Segments, Segment{
				Start: offset + seg.Start,
				End:   offset + seg.End,
				Text:  seg.Text,
			})
		}
		if text := strings.TrimSpace(r.Text); text != "" {
			texts = append(texts, text)
		}
		if r.Duration > 0 {
			merged.Duration += r.Duration
		} else {
			merged.Duration += chunks[i].End - chunks[i].Start
		}
	}
	merged.Text = strings.Join(texts, " ")
	return merged, nil
}
