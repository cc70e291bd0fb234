package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"
)

type stubValidator struct {
	claims *models.Claims
	err    error
}

func (v *stubValidator) ValidateToken(string) (*models.Claims, error) {
	return v.claims, v.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingHeader(t *testing.T) {
	h := middleware.Auth(&stubValidator{})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthBadScheme(t *testing.T) {
	h := middleware.Auth(&stubValidator{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	h := middleware.Auth(&stubValidator{err: services.ErrInvalidToken})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	h := middleware.Auth(&stubValidator{err: services.ErrTokenExpired})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthAttachesClaims(t *testing.T) {
	claims := &models.Claims{UserID: "u1", Email: "u@example.com", Role: models.RoleUser}
	var got *models.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetClaims(r.Context())
	})
	h := middleware.Auth(&stubValidator{claims: claims})(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.UserID != "u1" || got.Role != models.RoleUser {
		t.Fatalf("claims not attached: %+v", got)
	}
}

func TestRequireRoles(t *testing.T) {
	h := middleware.RequireRoles(models.RoleCorporation, models.RoleAdmin)(okHandler())

	// no claims on context
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no claims: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &models.Claims{UserID: "u1", Role: models.RoleUser}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &models.Claims{UserID: "c1", Role: models.RoleCorporation}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("allowed role: status = %d, want 200", rec.Code)
	}
}
