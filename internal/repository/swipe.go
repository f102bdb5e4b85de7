package repository

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SwipeRepository handles database operations for swipes
type SwipeRepository struct {
	db *pgxpool.Pool
}

// NewSwipeRepository creates a new swipe repository
func NewSwipeRepository(db *pgxpool.Pool) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Upsert records a swipe decision. Re-swiping the same target overwrites
// the previous decision, so there is always one row per (actor, target).
func (r *SwipeRepository) Upsert(ctx context.Context, swipe *models.Swipe) error {
	query := `
		INSERT INTO swipes (actor_id, target_id, liked, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (actor_id, target_id) DO UPDATE SET liked = EXCLUDED.liked
	`
	_, err := r.db.Exec(ctx, query, swipe.ActorID, swipe.TargetID, swipe.Liked, swipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert swipe: %w", err)
	}
	return nil
}

// HasLiked checks whether actor has an active like on target
func (r *SwipeRepository) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM swipes WHERE actor_id = $1 AND target_id = $2 AND liked)`
	var liked bool
	err := r.db.QueryRow(ctx, query, actorID, targetID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("failed to check mutual like: %w", err)
	}
	return liked, nil
}
