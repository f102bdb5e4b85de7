package repository

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message and bumps the recipient's unread counter on the
// match row in the same transaction, so the counter never drifts from the
// messages it counts.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message, recipientID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO messages (id, match_id, sender_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, insertQuery,
		msg.ID, msg.MatchID, msg.SenderID, msg.Content, msg.IsRead, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	counterQuery := `
		UPDATE matches SET
			unread_a = unread_a + CASE WHEN user_a_id = $2 THEN 1 ELSE 0 END,
			unread_b = unread_b + CASE WHEN user_b_id = $2 THEN 1 ELSE 0 END
		WHERE id = $1
	`
	result, err := tx.Exec(ctx, counterQuery, msg.MatchID, recipientID)
	if err != nil {
		return fmt.Errorf("failed to bump unread counter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

// MarkRead flips is_read on every message in the match authored by the
// other participant and resets the reader's unread counter, atomically.
// Idempotent: a second call matches zero rows and succeeds.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID, readerID string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	readQuery := `
		UPDATE messages SET is_read = TRUE
		WHERE match_id = $1 AND sender_id <> $2 AND NOT is_read
	`
	result, err := tx.Exec(ctx, readQuery, matchID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	flipped := int(result.RowsAffected())

	counterQuery := `
		UPDATE matches SET
			unread_a = CASE WHEN user_a_id = $2 THEN 0 ELSE unread_a END,
			unread_b = CASE WHEN user_b_id = $2 THEN 0 ELSE unread_b END
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, counterQuery, matchID, readerID); err != nil {
		return 0, fmt.Errorf("failed to reset unread counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit mark read: %w", err)
	}
	return flipped, nil
}

// ListByMatch retrieves messages for a match with pagination, oldest first
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID string, limit, offset int) ([]*models.Message, int, error) {
	countQuery := `SELECT COUNT(*) FROM messages WHERE match_id = $1`
	var total int
	err := r.db.QueryRow(ctx, countQuery, matchID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
		SELECT id, match_id, sender_id, content, is_read, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, matchID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID, &msg.MatchID, &msg.SenderID, &msg.Content, &msg.IsRead, &msg.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, total, nil
}
