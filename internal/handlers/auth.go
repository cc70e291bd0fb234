package handlers

import (
	"encoding/json"
	"net/http"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// authUser is the account view returned from auth endpoints
type authUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toAuthUser(u *models.User) authUser {
	return authUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.users.Signup(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("User signed up")

	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Signup successful",
		Token:   token,
		Data:    toAuthUser(user),
	})
}

// loginRequest is the payload for POST /api/auth/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Data:    toAuthUser(user),
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so there is
// no server-side session to invalidate.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, response{Success: true, Message: "Logged out"})
}
