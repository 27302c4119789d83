package plans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

// Handler handles HTTP requests for weekly plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/plans?week_key=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	resp, err := h.service.ListWeek(ctx, ownerUserID, r.URL.Query().Get("week_key"))
	if err != nil {
		writeServiceError(w, err, "Failed to list plans")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleAssign handles POST /v1/plans/assign
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dto, err := h.service.Assign(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to assign meal")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// HandleClear handles DELETE /v1/plans/{id}
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.service.Clear(ctx, ownerUserID, id); err != nil {
		writeServiceError(w, err, "Failed to clear assignment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDaySummary handles GET /v1/plans/day?day=&week_key=
func (h *Handler) HandleDaySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	day := r.URL.Query().Get("day")
	if day == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "day is required")
		return
	}

	dto, err := h.service.DaySummary(ctx, ownerUserID, r.URL.Query().Get("week_key"), day)
	if err != nil {
		writeServiceError(w, err, "Failed to build day summary")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Meal not found")
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
