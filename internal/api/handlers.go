package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/starford/pebblesync/internal/apperr"
	"github.com/starford/pebblesync/internal/importer"
)

// Handler holds API route handlers.
type Handler struct {
	imp *importer.Importer
}

// NewHandler creates a new Handler.
func NewHandler(imp *importer.Importer) *Handler {
	return &Handler{imp: imp}
}

// TriggerImport handles POST /api/import. The optional "force" query
// parameter bypasses dedupe and existing-file skips. The run executes
// synchronously; a run already in flight yields 409.
func (h *Handler) TriggerImport(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	sum, err := h.imp.Run(r.Context(), force)
	if err != nil {
		writeJSON(w, importErrorStatus(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Summary: sum, Message: sum.String()})
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		LastRun:    h.imp.LastSummary(),
		LedgerSize: h.imp.LedgerSize(),
	})
}

// ResetHistory handles POST /api/history/reset.
func (h *Handler) ResetHistory(w http.ResponseWriter, _ *http.Request) {
	if err := h.imp.ResetHistory(); err != nil {
		writeJSON(w, importErrorStatus(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, ResetResponse{Cleared: true})
}

// importErrorStatus maps importer failures onto HTTP status codes.
func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperr.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized),
		errors.Is(err, apperr.ErrNetwork),
		errors.Is(err, apperr.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
