package handlers

import (
	"net/http"
	"strconv"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"
	"resqhome-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdoptionHandler handles listing endpoints
type AdoptionHandler struct {
	adoptions *services.AdoptionService
	store     storage.Store
}

// NewAdoptionHandler creates a new adoption handler
func NewAdoptionHandler(adoptions *services.AdoptionService, store storage.Store) *AdoptionHandler {
	return &AdoptionHandler{adoptions: adoptions, store: store}
}

// listingUploads stores the file fields shared by create and edit
func (h *AdoptionHandler) listingUploads(r *http.Request) (images, medicalImages []string, videoURL string, err error) {
	images, err = saveUploads(r, h.store, "images", storage.DirAdoption)
	if err != nil {
		return nil, nil, "", err
	}
	medicalImages, err = saveUploads(r, h.store, "medicalImages", storage.DirAdoptionMedical)
	if err != nil {
		return nil, nil, "", err
	}
	videoURL, err = saveUpload(r, h.store, "video", storage.DirAdoptionVideos)
	if err != nil {
		return nil, nil, "", err
	}
	return images, medicalImages, videoURL, nil
}

// medicalNotes collects the repeated medicalHistory text fields
func medicalNotes(r *http.Request) []string {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.Value["medicalHistory"]
}

// Create handles POST /api/corp/adoption/create (multipart)
func (h *AdoptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	images, medicalImages, videoURL, err := h.listingUploads(r)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to store listing files")
		respondError(w, "Failed to store files", http.StatusInternalServerError)
		return
	}

	in := services.CreateListingInput{
		Name:          r.FormValue("name"),
		Type:          r.FormValue("type"),
		Breed:         r.FormValue("breed"),
		Age:           r.FormValue("age"),
		Gender:        r.FormValue("gender"),
		Weight:        r.FormValue("weight"),
		Color:         r.FormValue("color"),
		Description:   r.FormValue("description"),
		City:          r.FormValue("city"),
		Address:       r.FormValue("address"),
		Images:        images,
		MedicalImages: medicalImages,
		VideoURL:      videoURL,
		MedicalNotes:  medicalNotes(r),
		RescuedID:     r.FormValue("rescuedId"),
	}
	if v, err := strconv.ParseBool(r.FormValue("vaccinated")); err == nil {
		in.Vaccinated = v
	}

	animal, err := h.adoptions.CreateListing(r.Context(), claims.UserID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("listing_id", animal.ID).
		Str("user_id", claims.UserID).
		Msg("Adoption listing created")

	respondData(w, http.StatusCreated, animal)
}

// List handles GET /api/corp/adoptions
func (h *AdoptionHandler) List(w http.ResponseWriter, r *http.Request) {
	animals, err := h.adoptions.ListListings(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if animals == nil {
		animals = []*models.AdoptionAnimal{}
	}
	respondData(w, http.StatusOK, animals)
}

// Get handles GET /api/corp/adoption/{id}
func (h *AdoptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	animal, err := h.adoptions.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, animal)
}

// Edit handles PUT /api/corp/adoption/{id}/edit (multipart partial update)
func (h *AdoptionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	images, medicalImages, videoURL, err := h.listingUploads(r)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to store listing files")
		respondError(w, "Failed to store files", http.StatusInternalServerError)
		return
	}

	in := services.UpdateListingInput{
		Name:          formValue(r, "name"),
		Type:          formValue(r, "type"),
		Breed:         formValue(r, "breed"),
		Age:           formValue(r, "age"),
		Gender:        formValue(r, "gender"),
		Weight:        formValue(r, "weight"),
		Color:         formValue(r, "color"),
		Description:   formValue(r, "description"),
		City:          formValue(r, "city"),
		Address:       formValue(r, "address"),
		Images:        images,
		MedicalImages: medicalImages,
		MedicalNotes:  medicalNotes(r),
	}
	if videoURL != "" {
		in.VideoURL = &videoURL
	}
	if v := formValue(r, "vaccinated"); v != nil {
		if b, err := strconv.ParseBool(*v); err == nil {
			in.Vaccinated = &b
		}
	}

	animal, err := h.adoptions.UpdateListing(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, animal)
}

// Delete handles DELETE /api/corp/adoption/{id}
func (h *AdoptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.adoptions.DeleteListing(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true, Message: "Listing deleted"})
}
