package handlers

import (
	"net/http"

	"github.com/accordmanpower/cmsapi/internal/services"
)

// SitemapHandler serves sitemap.xml.
type SitemapHandler struct {
	sitemapService *services.SitemapService
}

func NewSitemapHandler(sitemapService *services.SitemapService) *SitemapHandler {
	return &SitemapHandler{sitemapService: sitemapService}
}

func (h *SitemapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.sitemapService.Generate(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
