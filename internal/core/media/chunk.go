package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavHeaderSize = 44

// Chunk is one slice of a split WAV file.
type Chunk struct {
	Index int
	Path  string
	Start time.Duration
	End   time.Duration
}

// SplitWAV cuts a PCM WAV into consecutive files no larger than maxBytes,
// written to dir. A file that already fits is returned as a single chunk
// pointing at the original path.
func SplitWAV(path string, maxBytes int64, dir string) ([]Chunk, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	rate := int(dec.SampleRate)
	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	frameSize := channels * depth / 8
	if rate == 0 || frameSize == 0 {
		return nil, fmt.Errorf("unsupported WAV layout: %s", path)
	}

	if maxBytes <= 0 || st.Size() <= maxBytes {
		f.Close()
		info, err := Probe(path)
		if err != nil {
			return nil, err
		}
		return []Chunk{{Index: 1, Path: path, End: info.Duration}}, nil
	}

	framesPerChunk := int((maxBytes - wavHeaderSize) / int64(frameSize))
	if framesPerChunk <= 0 {
		return nil, fmt.Errorf("chunk size %d too small", maxBytes)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read WAV data: %w", err)
	}
	totalFrames := len(buf.Data) / channels

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	frameDur := func(n int) time.Duration {
		return time.Duration(int64(n) * int64(time.Second) / int64(rate))
	}

	var chunks []Chunk
	for start, i := 0, 1; start < totalFrames; start, i = start+framesPerChunk, i+1 {
		end := min(start+framesPerChunk, totalFrames)
		chunkPath := filepath.Join(dir, fmt.Sprintf("%s_chunk_%03d.wav", base, i))

		part := &audio.IntBuffer{
			Data:           buf.Data[start*channels : end*channels],
			Format:         &audio.Format{SampleRate: rate, NumChannels: channels},
			SourceBitDepth: depth,
		}
		if err := writeIntBuffer(chunkPath, part, depth); err != nil {
			return nil, fmt.Errorf("write chunk %d: %w", i, err)
		}

		chunks = append(chunks, Chunk{
			Index: i,
			Path:  chunkPath,
			Start: frameDur(start),
			End:   frameDur(end),
		})
	}
	return chunks, nil
}

func writeIntBuffer(path string, buf *audio.IntBuffer, depth int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := wav.NewEncoder(file, buf.Format.SampleRate, depth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
