package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kaylahuffman7/Plated-v2/internal/config"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

func devConfig() *config.Config {
	return &config.Config{
		AuthMode:      "dev",
		AuthRequired:  true,
		JWTSecret:     "test-secret",
		JWTIssuer:     "plated",
		JWTTTLMinutes: 60,
	}
}

func TestSignInDevRoundTrip(t *testing.T) {
	service := NewService(devConfig())

	resp, err := service.SignInDev()
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.UserID != "dev-user" {
		t.Errorf("unexpected response: %+v", resp)
	}

	sub, err := service.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "dev-user" {
		t.Errorf("expected dev-user subject, got %s", sub)
	}
}

func TestVerifyJWT_WrongSecret(t *testing.T) {
	service := NewService(devConfig())
	resp, _ := service.SignInDev()

	other := devConfig()
	other.JWTSecret = "different-secret"
	if _, err := NewService(other).VerifyJWT(resp.AccessToken); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRequireAuth(t *testing.T) {
	cfg := devConfig()
	service := NewService(cfg)
	middleware := NewMiddleware(cfg, service)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = userctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware.RequireAuth(next)

	// No token: rejected.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meals", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Public paths stay open.
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 on public path, got %d", rec.Code)
	}

	// Valid token: user id lands in context.
	resp, _ := service.SignInDev()
	req := httptest.NewRequest(http.MethodGet, "/v1/meals", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rec.Code)
	}
	if gotUserID != "dev-user" {
		t.Errorf("expected dev-user in context, got %q", gotUserID)
	}
}

func TestHandleDevAuth_DisabledMode(t *testing.T) {
	cfg := devConfig()
	cfg.AuthMode = "none"
	handler := NewHandler(cfg, NewService(cfg))

	rec := httptest.NewRecorder()
	handler.HandleDevAuth(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestHandleDevAuth(t *testing.T) {
	cfg := devConfig()
	handler := NewHandler(cfg, NewService(cfg))

	rec := httptest.NewRecorder()
	handler.HandleDevAuth(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp DevAuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" || resp.ExpiresIn == 0 {
		t.Errorf("incomplete response: %+v", resp)
	}
}
