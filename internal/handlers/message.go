package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	chatService *services.ChatService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(chatService *services.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/v1/matches/{match_id}/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	matchID := chi.URLParam(r, "match_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chatService.SendMessage(ctx, userID, matchID, req.Content)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("match_id", matchID).
			Msg("Failed to send message")
		respondError(w, err.Error(), statusForErrorOrNotFound(err))
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// ListMessages handles GET /api/v1/matches/{match_id}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	matchID := chi.URLParam(r, "match_id")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, total, err := h.chatService.ListMessages(ctx, userID, matchID, limit, offset)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("match_id", matchID).
			Msg("Failed to list messages")
		respondError(w, err.Error(), statusForErrorOrNotFound(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"total":    total,
	})
}

// MarkRead handles POST /api/v1/matches/{match_id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	matchID := chi.URLParam(r, "match_id")

	if err := h.chatService.MarkRead(ctx, userID, matchID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("match_id", matchID).
			Msg("Failed to mark messages read")
		respondError(w, err.Error(), statusForErrorOrNotFound(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetUnread handles GET /api/v1/unread
func (h *MessageHandler) GetUnread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	counts, total, err := h.chatService.UnreadCounts(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load unread counts")
		respondError(w, "failed to load unread counts", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": counts,
		"total":   total,
	})
}
