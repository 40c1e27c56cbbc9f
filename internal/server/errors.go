package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		ve *copywriter.ValidationError
		ue *reference.UnavailableError
		te *reference.TranscriptionError
		ge *copywriter.GenerationServiceError
	)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ue), errors.As(err, &te):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ge):
		return http.StatusBadGateway
	case config.IsConfigError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// localizedMessage prefixes the error with a translated summary.
func localizedMessage(t *i18n.Translations, status int, err error) string {
	if status == http.StatusRequestEntityTooLarge {
		return fmt.Sprintf("%s: %v", t.Errors.UploadTooLarge, err)
	}

	var ve *copywriter.ValidationError
	if errors.As(err, &ve) {
		switch ve.Field {
		case "product_name":
			return t.Errors.ProductNameRequired
		case "count":
			return fmt.Sprintf(t.Errors.CountRange, copywriter.MinCount, copywriter.MaxCount)
		}
		return fmt.Sprintf("%s: %v", t.Errors.InvalidRequest, err)
	}

	var te *reference.TranscriptionError
	switch {
	case errors.As(err, &te):
		return fmt.Sprintf("%s: %v", t.Errors.TranscriptionFailed, err)
	case status == http.StatusUnprocessableEntity:
		return fmt.Sprintf("%s: %v", t.Errors.ReferenceUnavailable, err)
	case status == http.StatusBadGateway:
		return fmt.Sprintf("%s: %v", t.Errors.GenerationFailed, err)
	case status == http.StatusServiceUnavailable:
		return fmt.Sprintf("%s: %v", t.Errors.ConfigMissing, err)
	}
	return err.Error()
}

// respondError sends the envelope with no data. 5xx failures other than
// config errors are reported to Sentry.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		captureError(c, err)
	}
	if status >= 500 {
		s.log.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err,
			"request_id", c.GetString("request_id"))
	} else {
		s.log.Warn("request rejected", "path", c.Request.URL.Path, "status", status, "error", err,
			"request_id", c.GetString("request_id"))
	}

	c.JSON(status, Response{
		Code:    status,
		Data:    nil,
		Message: localizedMessage(s.translations(c), status, err),
	})
}

// translations picks the UI language from ?lang=, Accept-Language and the
// configured default.
func (s *Server) translations(c *gin.Context) *i18n.Translations {
	return i18n.GetTranslations(s.lang(c))
}

func (s *Server) lang(c *gin.Context) string {
	return i18n.Match(c.Query("lang"), c.GetHeader("Accept-Language"), s.cfg.Language)
}
