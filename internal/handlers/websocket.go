package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // clients connect from app webviews and simulators
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub         *services.WSHub
	userService *services.UserService
	chatService *services.ChatService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	userService *services.UserService,
	chatService *services.ChatService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
		chatService: chatService,
	}
}

// HandleWebSocket handles WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.userService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer func() {
		// Leaving the session flushes any viewed conversation first, so
		// the unread state settles before the presence slot clears.
		if err := h.chatService.LeaveConversation(context.Background(), userID); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to leave conversation on disconnect")
		}
		h.hub.Unregister(userID, conn)
	}()

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	// Initial badge state
	h.chatService.PushUnreadCounts(r.Context(), userID)

	// Handle frames
	ctx := r.Context()
	for {
		_, frameBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var frame services.Event
		if err := json.Unmarshal(frameBytes, &frame); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to parse WebSocket frame")
			h.sendError(userID, "Invalid frame format")
			continue
		}

		if err := h.handleFrame(ctx, userID, frame); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", frame.Type).Msg("Failed to handle frame")
			h.sendError(userID, err.Error())
		}
	}
}

// handleFrame processes incoming WebSocket frames
func (h *WebSocketHandler) handleFrame(ctx context.Context, userID string, frame services.Event) error {
	switch frame.Type {
	case services.FrameViewing:
		if frame.MatchID == "" {
			return h.sendError(userID, "match_id is required")
		}
		return h.chatService.EnterConversation(ctx, userID, frame.MatchID)
	case services.FrameStopViewing:
		return h.chatService.LeaveConversation(ctx, userID)
	case services.FrameMarkRead:
		if frame.MatchID == "" {
			return h.sendError(userID, "match_id is required")
		}
		return h.chatService.MarkRead(ctx, userID, frame.MatchID)
	default:
		return h.sendError(userID, "Unknown frame type")
	}
}

// sendError sends an error event to a user
func (h *WebSocketHandler) sendError(userID, message string) error {
	return h.hub.SendToUser(userID, services.Event{
		Type:    services.EventError,
		Message: message,
	})
}
