package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

type fakeRunner struct {
	calls int
	job   ai.Job
	files map[string]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, job ai.Job) (*ai.Outcome, error) {
	f.calls++
	f.job = job
	f.files = make(map[string]string)
	for _, r := range job.References {
		if r.File != nil {
			data, _ := io.ReadAll(r.File)
			f.files[r.FileName] = string(data)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Outcome{Result: &copywriter.Result{
		Text:     "Bocor lagi? mau promo alat rumah!",
		Editable: true,
		Model:    job.Request.ModelID(),
		Provider: "openai",
	}}, nil
}

type fakeResolver struct {
	transcript *reference.Transcript
	err        error
}

func (f *fakeResolver) Resolve(context.Context, reference.Input) (*reference.Transcript, error) {
	return f.transcript, f.err
}

func newTestServer(t *testing.T, runner Runner, resolver ai.ReferenceResolver, mutate ...func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.DefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}
	return New(Options{Config: cfg, Pipeline: runner, Resolver: resolver}).Handler()
}

func doJSON(h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (Response, map[string]any) {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)

	w := doJSON(h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, false, data["references"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGenerate(t *testing.T) {
	runner := &fakeRunner{}
	h := newTestServer(t, runner, nil)

	w := doJSON(h, http.MethodPost, "/api/generate", map[string]any{
		"product_name": "Silikon Keran Air",
		"features":     "anti bocor",
		"language":     "Indonesia",
		"references":   []string{"https://www.tiktok.com/@a/video/1", " "},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, data := decode(t, w)
	assert.Equal(t, "Bocor lagi? mau promo alat rumah!", data["text"])
	assert.Equal(t, true, data["editable"])
	assert.Equal(t, "copywriting-Silikon Keran Air.txt", data["filename"])

	require.Equal(t, 1, runner.calls)
	assert.Equal(t, copywriter.DefaultCount, runner.job.Request.Count())
	assert.Equal(t, config.DefaultModel, runner.job.Request.ModelID())
	require.Len(t, runner.job.References, 1)
	assert.Equal(t, "https://www.tiktok.com/@a/video/1", runner.job.References[0].URL)
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "empty name", body: map[string]any{"product_name": "  "}},
		{name: "count zero", body: map[string]any{"product_name": "x", "count": 0}},
		{name: "count too high", body: map[string]any{"product_name": "x", "count": 21}},
		{name: "unknown language", body: map[string]any{"product_name": "x", "language": "Jawa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			h := newTestServer(t, runner, nil)

			w := doJSON(h, http.MethodPost, "/api/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp, _ := decode(t, w)
			assert.Nil(t, resp.Data)
			assert.Equal(t, 0, runner.calls)
		})
	}
}

func TestGenerateEmptyNameMessage(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)

	w := doJSON(h, http.MethodPost, "/api/generate?lang=id", map[string]any{"product_name": ""})
	resp, _ := decode(t, w)
	assert.Equal(t, "Nama Produk wajib diisi!", resp.Message)
}

func TestGenerateErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generation", err: &copywriter.GenerationServiceError{Provider: "openai", Model: "gpt-4o", Err: errors.New("overloaded")}, want: http.StatusBadGateway},
		{name: "unavailable", err: &reference.UnavailableError{Source: "x", Reason: "private"}, want: http.StatusUnprocessableEntity},
		{name: "transcription", err: &reference.TranscriptionError{Source: "x", Err: errors.New("stt down")}, want: http.StatusUnprocessableEntity},
		{name: "config", err: &config.ConfigError{Key: "OPENAI_API_KEY", Reason: "missing"}, want: http.StatusServiceUnavailable},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeRunner{err: tt.err}, nil)

			w := doJSON(h, http.MethodPost, "/api/generate", map[string]any{"product_name": "x"})
			assert.Equal(t, tt.want, w.Code)
			resp, _ := decode(t, w)
			assert.Nil(t, resp.Data, "no partial result on error")
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}

func TestGenerateForm(t *testing.T) {
	runner := &fakeRunner{}
	h := newTestServer(t, runner, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("product_name", "Lampu Tidur"))
	require.NoError(t, mw.WriteField("count", "5"))
	require.NoError(t, mw.WriteField("language", "English"))
	require.NoError(t, mw.WriteField("ref1_link", "https://youtu.be/abc"))
	fw, err := mw.CreateFormFile("ref2_file", "clip.mp4")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate/form", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, 1, runner.calls)
	assert.Equal(t, 5, runner.job.Request.Count())
	assert.Equal(t, copywriter.English, runner.job.Request.Language())

	refs := runner.job.References
	require.Len(t, refs, ai.MaxReferences)
	assert.Equal(t, "https://youtu.be/abc", refs[0].URL)
	assert.Equal(t, "clip.mp4", refs[1].FileName)
	assert.True(t, refs[2].IsZero())
	assert.Equal(t, "fake video bytes", runner.files["clip.mp4"])
}

func TestGenerateFormBadCount(t *testing.T) {
	runner := &fakeRunner{}
	h := newTestServer(t, runner, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("product_name", "x"))
	require.NoError(t, mw.WriteField("count", "tiga"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate/form", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, runner.calls)
}

func TestGenerateFormTooLarge(t *testing.T) {
	runner := &fakeRunner{}
	h := newTestServer(t, runner, nil, func(c *config.Config) { c.Reference.MaxUploadMB = 1 })

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("product_name", "Lampu Tidur"))
	fw, err := mw.CreateFormFile("ref1_file", "clip.mp4")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0}, 5<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate/form", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), i18n.GetTranslations(config.DefaultConfig().Language).Errors.UploadTooLarge)
	assert.Equal(t, 0, runner.calls)
}

func TestTranscribe(t *testing.T) {
	tests := []struct {
		name     string
		resolver ai.ReferenceResolver
		status   int
		want     any
	}{
		{name: "transcript", resolver: &fakeResolver{transcript: &reference.Transcript{Source: "u", Text: "halo guys"}}, status: http.StatusOK, want: "halo guys"},
		{name: "null", resolver: &fakeResolver{}, status: http.StatusOK, want: nil},
		{name: "disabled", resolver: nil, status: http.StatusUnprocessableEntity},
		{name: "failure", resolver: &fakeResolver{err: &reference.TranscriptionError{Source: "u", Err: errors.New("x")}}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeRunner{}, tt.resolver)

			w := doJSON(h, http.MethodPost, "/api/transcribe", map[string]string{"url": "https://youtu.be/abc"})
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			_, data := decode(t, w)
			assert.Equal(t, tt.want, data["transcript"])
		})
	}
}

func TestExport(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)

	w := doJSON(h, http.MethodPost, "/api/export", map[string]string{
		"product_name": "Silikon Keran Air",
		"text":         "hasil edit",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "copywriting-Silikon Keran Air.txt")
	assert.Equal(t, "hasil edit\n", w.Body.String())

	w = doJSON(h, http.MethodPost, "/api/export", map[string]string{"product_name": "x", "text": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	runner := &fakeRunner{}
	h := newTestServer(t, runner, nil, func(c *config.Config) { c.Server.APIKey = "secret" })

	w := doJSON(h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(h, http.MethodPost, "/api/generate", map[string]any{"product_name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, runner.calls)

	w = doJSON(h, http.MethodPost, "/api/generate", map[string]any{"product_name": "x"}, "X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestModels(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)

	w := doJSON(h, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, config.DefaultModel, data["default"])
	assert.NotEmpty(t, data["models"])
}

func TestI18n(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)

	w := doJSON(h, http.MethodGet, "/api/i18n?lang=en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "en", data["language"])
}

func TestIndexPage(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "id-ID")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Contains(t, body, "Nama Produk")
	assert.Contains(t, body, "Referensi 3 - Link Video (opsional)")
	assert.Contains(t, body, `name="ref3_file"`)
	assert.Contains(t, body, `value="gpt-4o" selected`)
}

func TestFormPageEscapes(t *testing.T) {
	var buf bytes.Buffer
	err := formPage(pageData{
		Lang:   `id"><script>alert(1)</script>`,
		T:      i18n.GetTranslations("id"),
		Models: []copywriter.Model{{ID: "m<1>", Name: "A & B"}},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	body := buf.String()
	assert.NotContains(t, body, "<script>alert(1)")
	assert.Contains(t, body, `value="m&lt;1&gt;"`)
	assert.Contains(t, body, "A &amp; B")
	assert.NotContains(t, body, " selected", "no default model given")
}

func TestIndexPageAPIKeyField(t *testing.T) {
	h := newTestServer(t, &fakeRunner{}, nil)
	w := doJSON(h, http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), `id="api_key"`)

	h = newTestServer(t, &fakeRunner{}, nil, func(c *config.Config) { c.Server.APIKey = "secret" })
	w = doJSON(h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="api_key"`)
	assert.Contains(t, body, `headers["X-API-Key"]`)
}

func TestGenerateFormWithAPIKey(t *testing.T) {
	runner := &fakeRunner{}
	h := newTestServer(t, runner, nil, func(c *config.Config) { c.Server.APIKey = "secret" })

	post := func(key string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("product_name", "Lampu Tidur"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/generate/form", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, post("").Code)
	assert.Equal(t, 0, runner.calls)

	w := post("secret")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, runner.calls)

	w = doJSON(h, http.MethodPost, "/api/export", map[string]string{"product_name": "x", "text": "y"}, "X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, w.Code)
}
