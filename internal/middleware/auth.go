package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenValidator verifies a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.Claims, error)
}

// Auth creates a middleware enforcing a valid bearer token. Verified
// claims are attached to the request context for downstream role checks.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				if errors.Is(err, services.ErrTokenExpired) {
					respondError(w, "Token expired", http.StatusUnauthorized)
					return
				}
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles creates a middleware allowing only the listed roles.
// It must run after Auth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				respondError(w, "Authorization required", http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				respondError(w, "Access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims extracts verified claims from the context
func GetClaims(ctx context.Context) *models.Claims {
	claims, ok := ctx.Value(claimsKey).(*models.Claims)
	if !ok {
		return nil
	}
	return claims
}

// WithClaims attaches claims to a context. Used by the WebSocket handler,
// which authenticates via query parameter, and by tests.
func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// respondError sends an error response in the common envelope
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
