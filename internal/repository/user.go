package repository

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User, verifyCode string) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, bio, photo_url, push_token, email_verified, verify_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.Bio,
		user.PhotoURL, user.PushToken, user.EmailVerified, verifyCode, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, bio, photo_url, push_token, email_verified, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Bio,
		&user.PhotoURL, &user.PushToken, &user.EmailVerified, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, bio, photo_url, push_token, email_verified, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Bio,
		&user.PhotoURL, &user.PushToken, &user.EmailVerified, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// MarkVerified flips email_verified when the code matches. Returns false
// when no row matched (wrong code or unknown email).
func (r *UserRepository) MarkVerified(ctx context.Context, email, code string) (bool, error) {
	query := `
		UPDATE users SET email_verified = TRUE, verify_code = NULL
		WHERE email = $1 AND verify_code = $2
	`
	result, err := r.db.Exec(ctx, query, email, code)
	if err != nil {
		return false, fmt.Errorf("failed to mark user verified: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, userID, displayName, bio string) error {
	query := `UPDATE users SET display_name = $1, bio = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, displayName, bio, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// UpdatePhotoURL sets the profile photo URL for a user
func (r *UserRepository) UpdatePhotoURL(ctx context.Context, userID, photoURL string) error {
	query := `UPDATE users SET photo_url = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, photoURL, userID)
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// Discover returns verified profiles the user has not swiped on yet
func (r *UserRepository) Discover(ctx context.Context, userID string, limit int) ([]*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, bio, photo_url, push_token, email_verified, created_at
		FROM users
		WHERE id <> $1
		  AND email_verified
		  AND id NOT IN (SELECT target_id FROM swipes WHERE actor_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to discover users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Bio,
			&user.PhotoURL, &user.PushToken, &user.EmailVerified, &user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
