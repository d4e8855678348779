package handlers

import (
	"net/http"

	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/accordmanpower/cmsapi/types"
	"github.com/go-chi/chi/v5"
)

// SeoHandler serves SEO settings lookups and admin CRUD.
type SeoHandler struct {
	seoService *services.SeoService
}

func NewSeoHandler(seoService *services.SeoService) *SeoHandler {
	return &SeoHandler{seoService: seoService}
}

// Lookup responds with the settings for the page type, or JSON null.
func (h *SeoHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	settings, err := h.seoService.Lookup(r.Context(), chi.URLParam(r, "pageType"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SeoHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.seoService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *SeoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	settings, err := h.seoService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SeoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.SeoSettingsInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	settings, err := h.seoService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SeoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req types.SeoSettingsInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	settings, err := h.seoService.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SeoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.seoService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
