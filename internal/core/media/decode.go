package media

import (
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// readMP3Samples decodes an MP3 into mono float32 samples.
func readMP3Samples(filePath string) ([]float32, int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, 0, err
	}

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, err
	}

	// go-mp3 always yields interleaved stereo 16-bit little endian
	numSamples := len(data) / 4
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		left := int16(data[i*4]) | int16(data[i*4+1])<<8
		right := int16(data[i*4+2]) | int16(data[i*4+3])<<8
		samples[i] = float32((int32(left)+int32(right))/2) / maxInt16
	}
	return samples, decoder.SampleRate(), nil
}

// readFLACSamples decodes a FLAC stream into mono float32 samples.
func readFLACSamples(filePath string) ([]float32, int, error) {
	stream, err := flac.Open(filePath)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	nChannels := int(stream.Info.NChannels)
	maxVal := float32(int64(1) << (stream.Info.BitsPerSample - 1))

	var samples []float32
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var mono int64
			for ch := 0; ch < nChannels; ch++ {
				mono += int64(frame.Subframes[ch].Samples[i])
			}
			samples = append(samples, float32(mono/int64(nChannels))/maxVal)
		}
	}
	return samples, int(stream.Info.SampleRate), nil
}

// Resample converts samples between rates with linear interpolation.
func Resample(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || srcRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(srcRate) / float64(dstRate)
	out := make([]float32, int(float64(len(samples))/ratio))
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))

		switch {
		case idx+1 < len(samples):
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		case idx < len(samples):
			out[i] = samples[idx]
		}
	}
	return out
}
