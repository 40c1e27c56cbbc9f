package server

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/output"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
	"github.com/dianajengpr/copywritingassistant/internal/core/version"
)

// GenerateRequest is the request body for POST /api/generate
type GenerateRequest struct {
	ProductName       string   `json:"product_name"`
	Features          string   `json:"features,omitempty"`
	ExtraInstructions string   `json:"extra_instructions,omitempty"`
	Language          string   `json:"language,omitempty"`
	Count             *int     `json:"count,omitempty"`
	Model             string   `json:"model,omitempty"`
	References        []string `json:"references,omitempty"`
}

// TranscribeRequest is the JSON body for POST /api/transcribe
type TranscribeRequest struct {
	URL string `json:"url" binding:"required"`
}

// ExportRequest is the request body for POST /api/export
type ExportRequest struct {
	ProductName string `json:"product_name"`
	Text        string `json:"text" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"status":     "ok",
			"version":    version.Version,
			"references": s.resolver != nil,
		},
		Message: "everything is good",
	})
}

func (s *Server) handleModels(c *gin.Context) {
	languages := make([]string, len(copywriter.Languages))
	for i, l := range copywriter.Languages {
		languages[i] = string(l)
	}
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"models":    copywriter.Models,
			"default":   s.cfg.Generation.DefaultModel,
			"languages": languages,
			"count": gin.H{
				"min":     copywriter.MinCount,
				"max":     copywriter.MaxCount,
				"default": copywriter.DefaultCount,
			},
		},
		Message: "models retrieved",
	})
}

func (s *Server) handleI18n(c *gin.Context) {
	lang := s.lang(c)
	t := i18n.GetTranslations(lang)
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"language": lang,
			"form":     t.Form,
			"errors":   t.Errors,
		},
		Message: "translations retrieved",
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, &copywriter.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	count := copywriter.DefaultCount
	if body.Count != nil {
		count = *body.Count
	}
	req, err := copywriter.NewRequest(copywriter.RequestInput{
		ProductName:       body.ProductName,
		Features:          body.Features,
		ExtraInstructions: body.ExtraInstructions,
		Language:          body.Language,
		Count:             count,
		Model:             body.Model,
	}, s.cfg.Generation.DefaultModel)
	if err != nil {
		s.respondError(c, err)
		return
	}

	refs := make([]reference.Input, 0, len(body.References))
	for _, u := range body.References {
		if u = strings.TrimSpace(u); u != "" {
			refs = append(refs, reference.Input{URL: u})
		}
	}
	s.runJob(c, ai.Job{Request: req, References: refs})
}

func (s *Server) handleGenerateForm(c *gin.Context) {
	if err := s.parseMultipart(c); err != nil {
		s.respondError(c, err)
		return
	}

	count := copywriter.DefaultCount
	if raw := strings.TrimSpace(c.PostForm("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, &copywriter.ValidationError{Field: "count", Reason: "must be a whole number"})
			return
		}
		count = n
	}

	req, err := copywriter.NewRequest(copywriter.RequestInput{
		ProductName:       c.PostForm("product_name"),
		Features:          c.PostForm("features"),
		ExtraInstructions: c.PostForm("extra_instructions"),
		Language:          c.PostForm("language"),
		Count:             count,
		Model:             c.PostForm("model"),
	}, s.cfg.Generation.DefaultModel)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var refs []reference.Input
	for slot := 1; slot <= ai.MaxReferences; slot++ {
		in, closeFn, err := formReference(c, slot)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if closeFn != nil {
			defer closeFn()
		}
		refs = append(refs, in)
	}
	s.runJob(c, ai.Job{Request: req, References: refs})
}

func (s *Server) runJob(c *gin.Context, job ai.Job) {
	out, err := s.pipeline.Run(c.Request.Context(), job)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"text":       out.Result.Text,
			"editable":   out.Result.Editable,
			"model":      out.Result.Model,
			"provider":   out.Result.Provider,
			"issues":     out.Result.Issues,
			"references": out.References,
			"filename":   output.Filename(job.Request.ProductName()),
		},
		Message: "copy generated",
	})
}

// formReference reads slot n of the multipart form. The link wins over the
// file when both are given.
func formReference(c *gin.Context, n int) (reference.Input, func(), error) {
	link := strings.TrimSpace(c.PostForm(fmt.Sprintf("ref%d_link", n)))
	if link != "" {
		return reference.Input{URL: link}, nil, nil
	}

	fh, err := c.FormFile(fmt.Sprintf("ref%d_file", n))
	if err == http.ErrMissingFile {
		return reference.Input{}, nil, nil
	}
	if err != nil {
		return reference.Input{}, nil, &copywriter.ValidationError{Field: fmt.Sprintf("ref%d_file", n), Reason: err.Error()}
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (reference.Input, func(), error) {
	if fh.Size == 0 {
		return reference.Input{}, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return reference.Input{}, nil, &reference.UnavailableError{Source: fh.Filename, Reason: "cannot read upload", Err: err}
	}
	return reference.Input{FileName: fh.Filename, File: f}, func() { f.Close() }, nil
}

func (s *Server) handleTranscribe(c *gin.Context) {
	var in reference.Input
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := s.parseMultipart(c); err != nil {
			s.respondError(c, err)
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			s.respondError(c, &copywriter.ValidationError{Field: "file", Reason: err.Error()})
			return
		}
		upload, closeFn, err := openUpload(fh)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if closeFn != nil {
			defer closeFn()
		}
		in = upload
	} else {
		var body TranscribeRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			s.respondError(c, &copywriter.ValidationError{Field: "url", Reason: "is required"})
			return
		}
		in = reference.Input{URL: strings.TrimSpace(body.URL)}
	}
	if in.IsZero() {
		s.respondError(c, &copywriter.ValidationError{Field: "file", Reason: "is empty"})
		return
	}

	t, err := s.resolveReference(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if t == nil {
		c.JSON(http.StatusOK, Response{
			Code:    200,
			Data:    gin.H{"source": in.Source(), "transcript": nil},
			Message: "no usable speech in reference",
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"source":     t.Source,
			"transcript": t.Text,
			"language":   t.Language,
			"duration":   t.Duration.Seconds(),
		},
		Message: "reference transcribed",
	})
}

func (s *Server) handleExport(c *gin.Context) {
	var body ExportRequest
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		s.respondError(c, &copywriter.ValidationError{Field: "text", Reason: "is required"})
		return
	}

	name := output.Filename(body.ProductName)
	text := body.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// parseMultipart reads the whole body before any field is looked up, so an
// oversized upload is reported as such and not as a missing field.
func (s *Server) parseMultipart(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxFormBytes())
	err := c.Request.ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &copywriter.ValidationError{
			Field:  "body",
			Reason: fmt.Sprintf("larger than %d bytes", tooLarge.Limit),
			Err:    err,
		}
	}
	return &copywriter.ValidationError{Field: "body", Reason: err.Error(), Err: err}
}

// maxFormBytes bounds a whole multipart body: every reference slot at the
// upload limit plus room for the text fields.
func (s *Server) maxFormBytes() int64 {
	return int64(ai.MaxReferences)*s.cfg.MaxUploadBytes() + 1<<20
}
