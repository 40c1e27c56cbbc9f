package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
)

//go:generate templ generate -f page.templ

// pageData is everything the form needs to render.
type pageData struct {
	Lang         string
	T            *i18n.Translations
	Models       []copywriter.Model
	DefaultModel string
	// AuthRequired shows the API key field; the page sends it as X-API-Key.
	AuthRequired bool
}

func (s *Server) handleIndex(c *gin.Context) {
	lang := s.lang(c)
	page := formPage(pageData{
		Lang:         lang,
		T:            i18n.GetTranslations(lang),
		Models:       copywriter.Models,
		DefaultModel: s.cfg.Generation.DefaultModel,
		AuthRequired: s.cfg.Server.APIKey != "",
	})

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		s.log.Error("failed to render page", "error", err)
	}
}
