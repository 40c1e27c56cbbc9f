package transcriber

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalModel describes a downloadable whisper.cpp ggml model.
type LocalModel struct {
	Name        string `json:"name"`
	FileName    string `json:"file_name"`
	Size        string `json:"size"`
	Description string `json:"description"`
	URL         string `json:"-"`
}

const ggmlBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// LocalModels lists the models `copywriter models download` can fetch.
var LocalModels = []LocalModel{
	{Name: "tiny", FileName: "ggml-tiny.bin", Size: "75MB", Description: "Fastest, lowest accuracy"},
	{Name: "base", FileName: "ggml-base.bin", Size: "142MB", Description: "Fast, fair accuracy"},
	{Name: "small", FileName: "ggml-small.bin", Size: "466MB", Description: "Good accuracy for short clips (default)"},
	{Name: "medium", FileName: "ggml-medium.bin", Size: "1.5GB", Description: "Better accuracy, slower"},
	{Name: "large-v3-turbo", FileName: "ggml-large-v3-turbo.bin", Size: "1.6GB", Description: "Best accuracy, GPU recommended"},
}

// DefaultLocalModel is the whisper.cpp model used when none is configured.
const DefaultLocalModel = "small"

func init() {
	for i := range LocalModels {
		LocalModels[i].URL = ggmlBaseURL + LocalModels[i].FileName
	}
}

// DefaultModelsDir returns the directory holding local ggml models.
func DefaultModelsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "copywriter", "models"), nil
}

// normalizeModelName strips the "whisper-" and "ggml-" decorations.
func normalizeModelName(name string) string {
	name = strings.TrimPrefix(name, "whisper-")
	name = strings.TrimPrefix(name, "ggml-")
	name = strings.TrimSuffix(name, ".bin")
	if name == "large-turbo" {
		name = "large-v3-turbo"
	}
	return name
}

// GetLocalModel returns a model by name.
func GetLocalModel(name string) *LocalModel {
	name = normalizeModelName(name)
	for i := range LocalModels {
		if LocalModels[i].Name == name {
			return &LocalModels[i]
		}
	}
	return nil
}

// ModelPath resolves a model name, file name or absolute path to a file.
func ModelPath(model, modelsDir string) (string, error) {
	if model == "" {
		model = DefaultLocalModel
	}
	if filepath.IsAbs(model) {
		return model, nil
	}
	if modelsDir == "" {
		var err error
		modelsDir, err = DefaultModelsDir()
		if err != nil {
			return "", err
		}
	}
	if m := GetLocalModel(model); m != nil {
		return filepath.Join(modelsDir, m.FileName), nil
	}
	return filepath.Join(modelsDir, model), nil
}

// IsDownloaded reports whether the model file exists and is non-empty.
func IsDownloaded(model, modelsDir string) bool {
	path, err := ModelPath(model, modelsDir)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// DownloadModel fetches a model into modelsDir unless it is already there
// and returns its path. progress may be nil.
func DownloadModel(ctx context.Context, name, modelsDir string, progress func(done, total int64)) (string, error) {
	m := GetLocalModel(name)
	if m == nil {
		return "", fmt.Errorf("unknown model: %s", name)
	}
	dest, err := ModelPath(m.Name, modelsDir)
	if err != nil {
		return "", err
	}
	if IsDownloaded(m.Name, modelsDir) {
		return dest, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create models directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download model: HTTP %d", resp.StatusCode)
	}

	tmpPath := dest + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	var src io.Reader = resp.Body
	if progress != nil {
		src = &progressReader{r: resp.Body, total: resp.ContentLength, fn: progress}
	}
	_, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr == nil {
			copyErr = closeErr
		}
		return "", fmt.Errorf("failed to write model file: %w", copyErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename model file: %w", err)
	}
	return dest, nil
}

type progressReader struct {
	r     io.Reader
	done  int64
	total int64
	fn    func(done, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.done += int64(n)
	p.fn(p.done, p.total)
	return n, err
}
