package handlers

import (
	"net/http"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/services"
	"resqhome-backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// ProfileHandler handles the self-profile endpoints
type ProfileHandler struct {
	users *services.UserService
	store storage.Store
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(users *services.UserService, store storage.Store) *ProfileHandler {
	return &ProfileHandler{users: users, store: store}
}

// Get handles GET /api/user/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	user, err := h.users.Profile(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// Update handles PUT /api/user/update-profile (multipart)
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	in := services.UpdateProfileInput{
		Name:    formValue(r, "name"),
		City:    formValue(r, "city"),
		Bio:     formValue(r, "bio"),
		Website: formValue(r, "website"),
	}
	if v := formValue(r, "password"); v != nil {
		in.CurrentPassword = *v
	}
	if v := formValue(r, "newPassword"); v != nil {
		in.NewPassword = *v
	}

	picURL, err := saveUpload(r, h.store, "profilePic", storage.DirProfiles)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to store profile picture")
		respondError(w, "Failed to store profile picture", http.StatusInternalServerError)
		return
	}
	if picURL != "" {
		in.ProfilePicURL = &picURL
	}

	user, err := h.users.UpdateProfile(r.Context(), claims.UserID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Profile updated successfully",
		Data:    user,
	})
}
