package handlers

import (
	"encoding/json"
	"net/http"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"
	"resqhome-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles incident report endpoints
type ReportHandler struct {
	reports *services.ReportService
	store   storage.Store
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, store storage.Store) *ReportHandler {
	return &ReportHandler{reports: reports, store: store}
}

// Create handles POST /api/user/report (multipart, image field "photo")
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	in := services.CreateReportInput{
		Type:        r.FormValue("type"),
		Description: r.FormValue("description"),
		City:        r.FormValue("city"),
		Address:     r.FormValue("address"),
	}

	if loc := r.FormValue("location"); loc != "" {
		var point models.LatLng
		if err := json.Unmarshal([]byte(loc), &point); err != nil {
			respondError(w, "Invalid location", http.StatusBadRequest)
			return
		}
		in.Location = &point
	}

	imageURL, err := saveUpload(r, h.store, "photo", storage.DirReports)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to store report image")
		respondError(w, "Failed to store image", http.StatusInternalServerError)
		return
	}
	in.ImageURL = imageURL

	report, err := h.reports.Create(r.Context(), claims.UserID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("report_id", report.ID).
		Str("user_id", claims.UserID).
		Str("city", report.City).
		Msg("Report filed")

	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Report saved successfully",
		Data:    report,
	})
}

// ListMine handles GET /api/user/my-reports
func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	reports, err := h.reports.ListMine(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}
	respondData(w, http.StatusOK, reports)
}

// Get handles GET /api/user/report/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	report, err := h.reports.Get(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

// Delete handles DELETE /api/user/delete-report/{id}
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := h.reports.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true, Message: "Report deleted"})
}

// ListAll handles GET /api/corp/reports
func (h *ReportHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}
	respondData(w, http.StatusOK, reports)
}

// updateStatusRequest is the payload for status updates
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/corp/reports/update-status/{id}
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.reports.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}
