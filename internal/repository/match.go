package repository

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepository handles database operations for matches
type MatchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a match if it does not exist yet. The match ID is the
// sorted pair key, so two concurrent mutual-like detections collapse to a
// single row; the second insert reports created=false instead of failing.
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) (bool, error) {
	query := `
		INSERT INTO matches (id, user_a_id, user_b_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, match.ID, match.UserAID, match.UserBID, match.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create match: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetByID retrieves a match by ID
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at, notified_a, notified_b, unread_a, unread_b
		FROM matches
		WHERE id = $1
	`
	var match models.Match
	err := r.db.QueryRow(ctx, query, id).Scan(
		&match.ID, &match.UserAID, &match.UserBID, &match.CreatedAt,
		&match.NotifiedA, &match.NotifiedB, &match.UnreadA, &match.UnreadB,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("match not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &match, nil
}

// GetByUserID retrieves all matches involving a user, newest first
func (r *MatchRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Match, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at, notified_a, notified_b, unread_a, unread_b
		FROM matches
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches by user id: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID, &match.UserAID, &match.UserBID, &match.CreatedAt,
			&match.NotifiedA, &match.NotifiedB, &match.UnreadA, &match.UnreadB,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// SetNotified marks the match notification as delivered to userID
func (r *MatchRepository) SetNotified(ctx context.Context, matchID, userID string) error {
	query := `
		UPDATE matches SET
			notified_a = notified_a OR user_a_id = $2,
			notified_b = notified_b OR user_b_id = $2
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, matchID, userID)
	if err != nil {
		return fmt.Errorf("failed to set notified flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match not found")
	}
	return nil
}

// UnreadCounts returns the unread counter of every match involving userID
func (r *MatchRepository) UnreadCounts(ctx context.Context, userID string) ([]models.MatchUnread, error) {
	query := `
		SELECT id, CASE WHEN user_a_id = $1 THEN unread_a ELSE unread_b END
		FROM matches
		WHERE user_a_id = $1 OR user_b_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread counts: %w", err)
	}
	defer rows.Close()

	var counts []models.MatchUnread
	for rows.Next() {
		var mu models.MatchUnread
		if err := rows.Scan(&mu.MatchID, &mu.UnreadCount); err != nil {
			return nil, fmt.Errorf("failed to scan unread count: %w", err)
		}
		counts = append(counts, mu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unread counts: %w", err)
	}

	return counts, nil
}
