package services

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/models"
)

// MatchService exposes match queries and the notification re-trigger.
type MatchService struct {
	matches  MatchStore
	notifier *Notifier
}

// NewMatchService creates a new match service
func NewMatchService(matches MatchStore, notifier *Notifier) *MatchService {
	return &MatchService{
		matches:  matches,
		notifier: notifier,
	}
}

// ListByUser returns all matches involving the user, newest first
func (s *MatchService) ListByUser(ctx context.Context, userID string) ([]*models.Match, error) {
	return s.matches.GetByUserID(ctx, userID)
}

// GetForUser returns a match the user participates in
func (s *MatchService) GetForUser(ctx context.Context, userID, matchID string) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("match not found: %w", err)
	}
	if !match.HasUser(userID) {
		return nil, ErrNotParticipant
	}
	return match, nil
}

// Renotify re-runs match notification delivery. Participants already
// flagged as notified are skipped, so this is safe to call repeatedly.
func (s *MatchService) Renotify(ctx context.Context, matchID string) error {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("match not found: %w", err)
	}
	s.notifier.NotifyMatch(ctx, match)
	return nil
}
