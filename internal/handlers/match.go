package handlers

import (
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MatchHandler handles match-related HTTP requests
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// ListMatches handles GET /api/v1/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	matches, err := h.matchService.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list matches")
		respondError(w, "failed to list matches", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetMatch handles GET /api/v1/matches/{match_id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	matchID := chi.URLParam(r, "match_id")

	match, err := h.matchService.GetForUser(ctx, userID, matchID)
	if err != nil {
		respondError(w, err.Error(), statusForErrorOrNotFound(err))
		return
	}

	respondJSON(w, http.StatusOK, match)
}

// RenotifyRequest represents the request body for a notification re-trigger
type RenotifyRequest struct {
	MatchID string `json:"match_id"`
}

// RenotifyMatch handles POST /api/v1/notifications/match. It re-runs match
// notification delivery; already-notified participants are skipped.
func (h *MatchHandler) RenotifyMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RenotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MatchID == "" {
		respondError(w, "match_id is required", http.StatusBadRequest)
		return
	}

	if err := h.matchService.Renotify(ctx, req.MatchID); err != nil {
		log.Error().Err(err).Str("match_id", req.MatchID).Msg("Failed to re-trigger match notification")
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func statusForErrorOrNotFound(err error) int {
	if status := statusForError(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusNotFound
}
