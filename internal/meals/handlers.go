package meals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

// Handler handles HTTP requests for the meal catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new meals handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/meals?q=&slot=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	items, err := h.service.Search(ctx, ownerUserID, SearchQuery{
		Text: r.URL.Query().Get("q"),
		Slot: r.URL.Query().Get("slot"),
	})
	if err != nil {
		writeServiceError(w, err, "Failed to list meals")
		return
	}

	writeJSON(w, http.StatusOK, ListMealsResponse{Items: items, Total: len(items)})
}

// HandleCreate handles POST /v1/meals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID, ok := userctx.GetUserID(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dto, err := h.service.Add(ctx, ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to create meal")
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// HandleUpdate handles PATCH /v1/meals/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dto, err := h.service.Update(ctx, ownerUserID, id, req)
	if err != nil {
		writeServiceError(w, err, "Failed to update meal")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// HandleDelete handles DELETE /v1/meals/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Remove(ctx, ownerUserID, id); err != nil {
		writeServiceError(w, err, "Failed to delete meal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
