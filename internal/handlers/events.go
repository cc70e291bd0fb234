package handlers

import (
	"net/http"

	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"
	"resqhome-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// EventsHandler upgrades dashboard WebSocket subscriptions
type EventsHandler struct {
	hub       *services.EventHub
	validator middleware.TokenValidator
	upgrader  websocket.Upgrader
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *services.EventHub, validator middleware.TokenValidator) *EventsHandler {
	return &EventsHandler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /ws?token=... The token travels as a query
// parameter because browser WebSocket clients cannot set headers.
// Only corporation and admin accounts may subscribe.
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "Token required", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.ValidateToken(token)
	if err != nil {
		respondError(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleCorporation && claims.Role != models.RoleAdmin {
		respondError(w, "Access denied", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("WebSocket upgrade failed")
		return
	}

	h.hub.Register(claims.UserID, conn)
	defer h.hub.Unregister(claims.UserID, conn)

	// Drain the connection until the client goes away; subscribers
	// only receive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
