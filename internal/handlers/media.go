package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/internal/logger"
	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	formFieldFile      = "file"
	maxMultipartMemory = 8 << 20
	multipartOverhead  = 1 << 20
)

// MediaHandler accepts editor uploads and serves stored media.
type MediaHandler struct {
	mediaService *services.MediaService
	metrics      Metrics
}

// NewMediaHandler returns a handler; mediaService may be nil when storage
// is not configured, in which case uploads answer 503.
func NewMediaHandler(mediaService *services.MediaService, metrics Metrics) *MediaHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &MediaHandler{mediaService: mediaService, metrics: metrics}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.mediaService == nil {
		writeError(w, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.mediaService.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeServiceError(w, r, apperr.Wrap(apperr.Validation, "file is too large", err))
			return
		}
		writeServiceError(w, r, apperr.Wrap(apperr.Validation, "invalid multipart form", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		writeServiceError(w, r, apperr.Wrap(apperr.Validation, "file is required", err))
		return
	}
	defer file.Close()

	obj, err := h.mediaService.Upload(r.Context(), file, header.Size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.RecordMediaUpload()

	writeJSON(w, http.StatusCreated, obj)
}

// Serve streams a stored object. Keys are immutable, so responses are
// cacheable for a year.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.mediaService == nil {
		writeError(w, http.StatusNotFound, "Media not found")
		return
	}

	rc, contentType, err := h.mediaService.Open(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.FromContext(r.Context()).Warn("stream media", zap.Error(err))
	}
}
