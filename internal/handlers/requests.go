package handlers

import (
	"encoding/json"
	"net/http"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RequestsHandler handles adoption request endpoints
type RequestsHandler struct {
	adoptions *services.AdoptionService
}

// NewRequestsHandler creates a new requests handler
func NewRequestsHandler(adoptions *services.AdoptionService) *RequestsHandler {
	return &RequestsHandler{adoptions: adoptions}
}

// Adopt handles POST /api/user/adopt/{animalId}
func (h *RequestsHandler) Adopt(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	req, err := h.adoptions.Request(r.Context(), claims.UserID, chi.URLParam(r, "animalId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("request_id", req.ID).
		Str("animal_id", req.AnimalID).
		Str("user_id", claims.UserID).
		Msg("Adoption request submitted")

	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Adoption request submitted",
		Data:    req,
	})
}

// MyAdoptions handles GET /api/user/my-adoptions
func (h *RequestsHandler) MyAdoptions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	buckets, err := h.adoptions.MyRequests(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, buckets)
}

// List handles GET /api/corp/adoption-requests/requests
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.adoptions.ListRequests(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []*models.AdoptionRequestDetail{}
	}
	respondData(w, http.StatusOK, requests)
}

// Get handles GET /api/corp/adoption-requests/requests/{id}
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.adoptions.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, detail)
}

// UpdateStatus handles PUT /api/corp/adoption-requests/requests/{id}/status
func (h *RequestsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.adoptions.UpdateRequestStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("request_id", req.ID).
		Str("status", req.Status).
		Msg("Adoption request status updated")

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Status updated",
		Data:    req,
	})
}
