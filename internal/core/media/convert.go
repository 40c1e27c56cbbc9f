// Package media turns reference videos and audio files into the 16 kHz mono
// PCM WAV that every transcription backend accepts.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"codeberg.org/gruf/go-ffmpreg/ffmpreg"
	"codeberg.org/gruf/go-ffmpreg/wasm"
	"github.com/tetratelabs/wazero"
)

// TargetSampleRate is the rate speech models are trained on.
const TargetSampleRate = 16000

// ErrNoAudio is returned when a file decodes to zero samples.
var ErrNoAudio = errors.New("media has no audio track")

// ExtractAudio writes a 16 kHz mono WAV for inputPath into outDir and
// returns its path. The caller owns the file.
//
// WAV input is passed through when it already has the target layout, MP3
// and FLAC are decoded in pure Go and everything else (mp4, mov, webm, ogg)
// goes through the embedded ffmpeg WASM build, falling back to a system
// ffmpeg binary if one is installed.
func ExtractAudio(ctx context.Context, inputPath, outDir string) (string, error) {
	kind, err := DetectFile(inputPath)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(outDir, base+".16k.wav")

	var samples []float32
	var sampleRate int

	switch kind {
	case KindWAV:
		info, err := Probe(inputPath)
		if err != nil {
			return "", err
		}
		if info.SampleRate == TargetSampleRate && info.Channels == 1 && info.BitDepth == 16 {
			return inputPath, nil
		}
		samples, sampleRate, err = ReadWAVSamples(inputPath)
		if err != nil {
			return "", err
		}
	case KindMP3:
		samples, sampleRate, err = readMP3Samples(inputPath)
		if err != nil {
			return "", fmt.Errorf("decode mp3: %w", err)
		}
	case KindFLAC:
		samples, sampleRate, err = readFLACSamples(inputPath)
		if err != nil {
			return "", fmt.Errorf("decode flac: %w", err)
		}
	default:
		if err := convertWithFFmpeg(ctx, inputPath, outPath); err != nil {
			return "", err
		}
		if _, err := Probe(outPath); err != nil {
			return "", err
		}
		return outPath, nil
	}

	if len(samples) == 0 {
		return "", ErrNoAudio
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	samples = Resample(samples, sampleRate, TargetSampleRate)
	if err := WriteWAV(outPath, samples, TargetSampleRate); err != nil {
		return "", fmt.Errorf("write wav: %w", err)
	}
	return outPath, nil
}

// convertWithFFmpeg uses embedded ffmpeg WASM to convert audio.
func convertWithFFmpeg(ctx context.Context, inputPath, outputPath string) error {
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return err
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}

	inputDir := filepath.Dir(absInput)
	outputDir := filepath.Dir(absOutput)

	args := ffmpegArgs(absInput, absOutput)
	rc, err := ffmpreg.Ffmpeg(ctx, wasm.Args{
		Stderr: io.Discard,
		Stdout: io.Discard,
		Args:   args,
		Config: func(cfg wazero.ModuleConfig) wazero.ModuleConfig {
			return cfg.WithFSConfig(wazero.NewFSConfig().
				WithDirMount(inputDir, inputDir).
				WithDirMount(outputDir, outputDir))
		},
	})
	if err == nil && rc == 0 {
		return nil
	}

	// The WASM build cannot decode every codec; a host ffmpeg usually can.
	if path, lookErr := exec.LookPath("ffmpeg"); lookErr == nil {
		cmd := exec.CommandContext(ctx, path, append([]string{"-loglevel", "error"}, args...)...)
		if out, runErr := cmd.CombinedOutput(); runErr != nil {
			return fmt.Errorf("ffmpeg failed: %w: %s", runErr, strings.TrimSpace(string(out)))
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return fmt.Errorf("ffmpeg exited with code %d", rc)
}

func ffmpegArgs(in, out string) []string {
	return []string{
		"-i", in,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		out,
	}
}

// RemoveIfDerived deletes path unless it is the original input.
func RemoveIfDerived(path, original string) {
	if path != "" && path != original {
		os.Remove(path)
	}
}
