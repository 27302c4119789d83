package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

// Handler handles HTTP requests for weekly exports.
type Handler struct {
	service *Service
}

// NewHandler creates a new export handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate handles POST /v1/export/week
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	// An empty body exports the current week as CSV.
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dto, err := h.service.Generate(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to generate export")
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// HandleDownload handles GET /v1/export/week/download?id=
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	data, ctype, name, err := h.service.Fetch(ctx, ownerUserID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch export")
		return
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Export not found")
		return
	}
	if errors.Is(err, storage.ErrUnavailable) {
		writeError(w, http.StatusBadGateway, "backend_unavailable", "Storage backend is unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", fallback)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
