package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

// Handler handles HTTP requests for planner settings.
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/settings
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	dto, err := h.service.GetOrDefault(ctx, ownerUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// HandleSave handles PUT /v1/settings
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dto, err := h.service.Save(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// HandleToggleSlot handles POST /v1/settings/toggle-slot
func (h *Handler) HandleToggleSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req ToggleSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dto, err := h.service.Toggle(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to toggle slot")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
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
