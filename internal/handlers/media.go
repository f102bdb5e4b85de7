package handlers

import (
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MediaHandler handles profile media HTTP requests
type MediaHandler struct {
	mediaService *services.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadURLRequest represents the request body for an upload URL
type UploadURLRequest struct {
	ContentType string `json:"content_type"`
}

// GetUploadURL handles POST /api/v1/media/profile-photo
func (h *MediaHandler) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	resp, err := h.mediaService.GetProfilePhotoUploadURL(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate upload URL")
		respondError(w, "failed to generate upload URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ConfirmPhotoRequest represents the request body for confirming an upload
type ConfirmPhotoRequest struct {
	PhotoURL string `json:"photo_url"`
}

// ConfirmPhoto handles POST /api/v1/media/profile-photo/confirm
func (h *MediaHandler) ConfirmPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req ConfirmPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.mediaService.ConfirmProfilePhoto(ctx, userID, req.PhotoURL); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to confirm profile photo")
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
