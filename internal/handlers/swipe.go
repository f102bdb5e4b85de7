package handlers

import (
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SwipeHandler handles swipe-related HTTP requests
type SwipeHandler struct {
	swipeService *services.SwipeService
}

// NewSwipeHandler creates a new swipe handler
func NewSwipeHandler(swipeService *services.SwipeService) *SwipeHandler {
	return &SwipeHandler{swipeService: swipeService}
}

// SwipeRequest represents the request body for a swipe
type SwipeRequest struct {
	TargetID string `json:"target_id"`
	Liked    bool   `json:"liked"`
}

// SwipeResponse represents the swipe result
type SwipeResponse struct {
	Matched bool          `json:"matched"`
	Match   *models.Match `json:"match,omitempty"`
}

// Swipe handles POST /api/v1/swipes
func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TargetID == "" {
		respondError(w, "target_id is required", http.StatusBadRequest)
		return
	}

	match, err := h.swipeService.Swipe(ctx, userID, req.TargetID, req.Liked)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("target_id", req.TargetID).
			Msg("Failed to record swipe")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, SwipeResponse{
		Matched: match != nil,
		Match:   match,
	})
}
