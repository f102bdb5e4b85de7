package services

import (
	"context"
	"fmt"
	"time"

	"swipe-match-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// SwipeService records swipe decisions and detects mutual likes.
type SwipeService struct {
	swipes   SwipeStore
	matches  MatchStore
	users    UserStore
	notifier *Notifier
	events   EventSink
}

// NewSwipeService creates a new swipe service
func NewSwipeService(swipes SwipeStore, matches MatchStore, users UserStore, notifier *Notifier, events EventSink) *SwipeService {
	return &SwipeService{
		swipes:   swipes,
		matches:  matches,
		users:    users,
		notifier: notifier,
		events:   events,
	}
}

// Swipe records a like or pass from actor to target. On a mutual like it
// creates the match through a conditional insert keyed on the sorted pair,
// so concurrent detection from both sides yields exactly one match row.
// Returns the match when the swipe completed one, nil otherwise.
func (s *SwipeService) Swipe(ctx context.Context, actorID, targetID string, liked bool) (*models.Match, error) {
	if actorID == targetID {
		return nil, ErrSelfSwipe
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, fmt.Errorf("target not found: %w", err)
	}

	swipe := &models.Swipe{
		ActorID:   actorID,
		TargetID:  targetID,
		Liked:     liked,
		CreatedAt: time.Now(),
	}
	if err := s.swipes.Upsert(ctx, swipe); err != nil {
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}

	if !liked {
		return nil, nil
	}

	mutual, err := s.swipes.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}
	if !mutual {
		return nil, nil
	}

	match := models.NewMatch(actorID, targetID, time.Now())
	created, err := s.matches.Create(ctx, match)
	if err != nil {
		// Re-swiping the same target re-runs detection, so the caller may
		// simply retry.
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if !created {
		// The other side won the race; the existing row is the match.
		return s.matches.GetByID(ctx, match.ID)
	}

	log.Info().
		Str("match_id", match.ID).
		Str("user_a_id", match.UserAID).
		Str("user_b_id", match.UserBID).
		Msg("Match created")

	s.notifier.NotifyMatch(ctx, match)

	for _, userID := range []string{match.UserAID, match.UserBID} {
		if !s.events.IsOnline(userID) {
			continue
		}
		if err := s.events.SendToUser(userID, Event{Type: EventMatchCreated, Data: match}); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to send match event")
		}
	}

	return match, nil
}
