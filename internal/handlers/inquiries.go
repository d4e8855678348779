package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/accordmanpower/cmsapi/types"
)

// InquiryHandler serves the public inquiry form and the admin inbox.
type InquiryHandler struct {
	inquiryService *services.InquiryService
	metrics        Metrics
}

func NewInquiryHandler(inquiryService *services.InquiryService, metrics Metrics) *InquiryHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &InquiryHandler{inquiryService: inquiryService, metrics: metrics}
}

type InquiryCreatedResponse struct {
	Success bool          `json:"success"`
	Inquiry types.Inquiry `json:"inquiry"`
}

func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req types.InquiryInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	inquiry, err := h.inquiryService.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.RecordInquiryCreated()

	writeJSON(w, http.StatusOK, InquiryCreatedResponse{Success: true, Inquiry: inquiry})
}

func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.inquiryService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiries)
}

func (h *InquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	inquiry, err := h.inquiryService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiry)
}

func (h *InquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req types.InquiryStatusInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	inquiry, err := h.inquiryService.UpdateStatus(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiry)
}

// Export downloads every inquiry as CSV. The document is built in memory
// so a storage failure still yields a clean JSON error.
func (h *InquiryHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.inquiryService.ExportCSV(r.Context(), &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("inquiries-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
