package auth

import (
	"encoding/json"
	"net/http"

	"github.com/kaylahuffman7/Plated-v2/internal/config"
)

// Handler handles auth HTTP requests.
type Handler struct {
	config  *config.Config
	service *Service
}

func NewHandler(cfg *config.Config, service *Service) *Handler {
	return &Handler{config: cfg, service: service}
}

// HandleDevAuth handles POST /v1/auth/dev. Only available when
// AUTH_MODE=dev.
func (h *Handler) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	if h.config.AuthMode != "dev" {
		writeError(w, http.StatusForbidden, "forbidden", "Dev authentication is disabled")
		return
	}

	resp, err := h.service.SignInDev()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
