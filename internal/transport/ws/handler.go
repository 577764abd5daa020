package ws

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"scoreboard/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.ReplayHub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.ReplayHub, logger *zap.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Scoreboards are public and meant to be embedded
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.URL.Query().Get("replay"))
	if roomCode == "" {
		http.Error(w, "replay is required", http.StatusBadRequest)
		return
	}

	session, err := h.hub.GetSession(roomCode)
	if err != nil {
		http.Error(w, "Replay not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	viewerID := uuid.New().String()
	client := NewClient(conn, session, viewerID, h.logger)

	// Greet before registering so the snapshot precedes any broadcast
	client.sendConnected()
	session.RegisterViewer(viewerID, client)

	h.logger.Info("websocket connected",
		zap.String("roomCode", roomCode),
		zap.String("viewerID", viewerID),
	)

	client.Run()
}
