package handlers

import (
	"net/http"

	"resqhome-backend/internal/services"
)

// DashboardHandler handles the corp dashboard endpoint
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get handles GET /api/corp/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}
