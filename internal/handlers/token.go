package handlers

import (
	"net/http"

	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// TokenHandler mints short-lived access tokens for the messaging API
type TokenHandler struct {
	userService *services.UserService
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(userService *services.UserService) *TokenHandler {
	return &TokenHandler{userService: userService}
}

// AccessTokenResponse represents the access token response
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetAccessToken handles GET /api/v1/auth/access-token
func (h *TokenHandler) GetAccessToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	token, err := h.userService.GenerateMessagingToken(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to mint messaging token")
		respondError(w, "failed to mint token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, AccessTokenResponse{
		AccessToken: token,
		ExpiresIn:   3600,
	})
}
