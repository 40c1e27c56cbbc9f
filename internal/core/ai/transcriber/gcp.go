package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/media"
)

// GCPMaxFileSize keeps inline requests under the 10 MB content limit.
const GCPMaxFileSize = 9 * 1024 * 1024

// GCP implements Transcriber with Google Cloud Speech-to-Text.
type GCP struct {
	client   *speech.Client
	model    string
	language string
}

// NewGCP creates a client using GOOGLE_APPLICATION_CREDENTIALS_JSON or
// GOOGLE_APPLICATION_CREDENTIALS, falling back to default credentials.
func NewGCP(ctx context.Context, cfg config.TranscriptionConfig) (*GCP, error) {
	c, err := speech.NewClient(ctx, clientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &GCP{
		client:   c,
		model:    cfg.Model,
		language: bcp47Language(cfg.Language),
	}, nil
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (g *GCP) Name() string { return "gcp" }

func (g *GCP) MaxFileSize() int64 { return GCPMaxFileSize }

// Close releases the gRPC connection.
func (g *GCP) Close() error {
	return g.client.Close()
}

func (g *GCP) Transcribe(ctx context.Context, wavPath string) (*Result, error) {
	info, err := media.Probe(wavPath)
	if err != nil {
		return nil, err
	}
	audio, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(info.SampleRate),
			AudioChannelCount:          int32(info.Channels),
			LanguageCode:               g.language,
			Model:                      g.model,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	op, err := g.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech longrunningrecognize: %w", err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("speech longrunningrecognize: %w", err)
	}

	result := &Result{Language: g.language, Duration: info.Duration}
	var texts []string
	var prevEnd time.Duration
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		text := strings.TrimSpace(alts[0].GetTranscript())
		if text == "" {
			continue
		}
		end := r.GetResultEndTime().AsDuration()
		result.Segments = append(result.Segments, Segment{Start: prevEnd, End: end, Text: text})
		prevEnd = end
		texts = append(texts, text)
		if lc := r.GetLanguageCode(); lc != "" {
			result.Language = lc
		}
	}
	result.Text = strings.Join(texts, " ")
	return result, nil
}

// bcp47Language expands short tags to the regional codes Speech-to-Text
// expects.
func bcp47Language(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "id", "id-id":
		return "id-ID"
	case "ms", "ms-my":
		return "ms-MY"
	case "en", "en-us":
		return "en-US"
	}
	return lang
}

// shortLanguage reduces "id-ID" to the ISO-639-1 code Whisper accepts.
func shortLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}
