package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

const (
	// OpenAIMaxFileSize is the upload limit of the hosted Whisper API.
	OpenAIMaxFileSize = 25 * 1024 * 1024

	// segments above this no-speech probability are usually music or
	// hallucinated filler and are dropped
	noSpeechThreshold = 0.6

	// whisperPrompt biases spelling towards short product promos
	whisperPrompt = "Video promosi produk TikTok, gaya santai. Checkout, keranjang kuning, promo, diskon."
)

// OpenAI transcribes with the hosted Whisper API.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
	prompt   string
}

func NewOpenAI(cfg config.TranscriptionConfig, apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &OpenAI{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: shortLanguage(cfg.Language),
		prompt:   whisperPrompt,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) MaxFileSize() int64 { return OpenAIMaxFileSize }

func (o *OpenAI) Transcribe(ctx context.Context, wavPath string) (*Result, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: wavPath,
		Prompt:   o.prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: o.language,
	})
	if err != nil {
		return nil, describeAPIError(err)
	}
	return fromVerbose(resp), nil
}

// fromVerbose keeps the segments Whisper believes contain speech. When
// segments are present the text is rebuilt from the kept ones.
func fromVerbose(resp openai.AudioResponse) *Result {
	result := &Result{
		Language: resp.Language,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
	}
	if len(resp.Segments) == 0 {
		result.Text = strings.TrimSpace(resp.Text)
		return result
	}

	var parts []string
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || seg.NoSpeechProb > noSpeechThreshold {
			continue
		}
		result.Segments = append(result.Segments, Segment{
			Start: time.Duration(seg.Start * float64(time.Second)),
			End:   time.Duration(seg.End * float64(time.Second)),
			Text:  text,
		})
		parts = append(parts, text)
	}
	result.Text = strings.Join(parts, " ")
	return result
}

func describeAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("whisper rejected the API key: %w", err)
		case http.StatusRequestEntityTooLarge:
			return fmt.Errorf("audio exceeds the whisper upload limit: %w", err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("whisper rate limit reached: %w", err)
		}
	}
	return fmt.Errorf("transcription API error: %w", err)
}
