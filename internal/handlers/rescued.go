package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"
	"resqhome-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RescuedHandler handles rescued animal endpoints
type RescuedHandler struct {
	rescue *services.RescueService
	store  storage.Store
}

// NewRescuedHandler creates a new rescued handler
func NewRescuedHandler(rescue *services.RescueService, store storage.Store) *RescuedHandler {
	return &RescuedHandler{rescue: rescue, store: store}
}

// PublicList handles GET /api/rescued
func (h *RescuedHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	params := services.ListParams{
		City: r.URL.Query().Get("city"),
		Type: r.URL.Query().Get("type"),
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		params.Limit = v
	}

	animals, meta, err := h.rescue.ListPage(r.Context(), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if animals == nil {
		animals = []*models.Rescued{}
	}
	respondJSON(w, http.StatusOK, response{Success: true, Data: animals, Meta: meta})
}

// PublicGet handles GET /api/rescued/{id}
func (h *RescuedHandler) PublicGet(w http.ResponseWriter, r *http.Request) {
	animal, err := h.rescue.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, animal)
}

// Promote handles POST /api/corp/report/{id}/rescue
func (h *RescuedHandler) Promote(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	animal, err := h.rescue.Promote(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("report_id", chi.URLParam(r, "id")).
		Str("rescued_id", animal.ID).
		Str("user_id", claims.UserID).
		Msg("Report promoted to rescued")

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Animal marked as rescued successfully",
		Data:    animal,
	})
}

// List handles GET /api/corp/rescued
func (h *RescuedHandler) List(w http.ResponseWriter, r *http.Request) {
	animals, err := h.rescue.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if animals == nil {
		animals = []*models.Rescued{}
	}
	respondData(w, http.StatusOK, animals)
}

// Get handles GET /api/corp/rescued/{id}
func (h *RescuedHandler) Get(w http.ResponseWriter, r *http.Request) {
	animal, err := h.rescue.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, animal)
}

// Create handles POST /api/corp/rescued (multipart, image field "image")
func (h *RescuedHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	imageURL, err := saveUpload(r, h.store, "image", storage.DirRescued)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to store rescued image")
		respondError(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	animal, err := h.rescue.Create(r.Context(), claims.UserID, services.CreateRescuedInput{
		Name:        r.FormValue("name"),
		Type:        r.FormValue("type"),
		Age:         r.FormValue("age"),
		City:        r.FormValue("city"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
		ImageURL:    imageURL,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusCreated, animal)
}

// Update handles PUT /api/corp/rescued/{id}
func (h *RescuedHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateRescuedInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	animal, err := h.rescue.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, animal)
}

// Delete handles DELETE /api/corp/rescued/{id}
func (h *RescuedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rescue.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true, Message: "Deleted"})
}

// medicalRequest is the payload for medical note submission
type medicalRequest struct {
	Note string `json:"note"`
}

// AddMedical handles POST /api/corp/rescued/{id}/medical
func (h *RescuedHandler) AddMedical(w http.ResponseWriter, r *http.Request) {
	var in medicalRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	animal, err := h.rescue.AddMedical(r.Context(), chi.URLParam(r, "id"), in.Note)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, animal)
}
