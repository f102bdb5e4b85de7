package services

import (
	"context"

	"swipe-match-backend/internal/models"
)

// UserStore is the storage contract required by the services layer for users.
type UserStore interface {
	Create(ctx context.Context, user *models.User, verifyCode string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkVerified(ctx context.Context, email, code string) (bool, error)
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	UpdateProfile(ctx context.Context, userID, displayName, bio string) error
	UpdatePhotoURL(ctx context.Context, userID, photoURL string) error
	Discover(ctx context.Context, userID string, limit int) ([]*models.User, error)
}

// SwipeStore is the storage contract for swipe decisions.
type SwipeStore interface {
	Upsert(ctx context.Context, swipe *models.Swipe) error
	HasLiked(ctx context.Context, actorID, targetID string) (bool, error)
}

// MatchStore is the storage contract for matches. Create must be a
// conditional insert keyed on the deterministic pair ID.
type MatchStore interface {
	Create(ctx context.Context, match *models.Match) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Match, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Match, error)
	SetNotified(ctx context.Context, matchID, userID string) error
	UnreadCounts(ctx context.Context, userID string) ([]models.MatchUnread, error)
}

// MessageStore is the storage contract for messages. Create and MarkRead
// must mutate the match unread counters in the same transaction.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message, recipientID string) error
	MarkRead(ctx context.Context, matchID, readerID string) (int, error)
	ListByMatch(ctx context.Context, matchID string, limit, offset int) ([]*models.Message, int, error)
}

// UnreadCache caches per-user unread totals.
type UnreadCache interface {
	GetTotal(ctx context.Context, userID string) (int, bool, error)
	SetTotal(ctx context.Context, userID string, total int) error
	Invalidate(ctx context.Context, userID string) error
}

// PushSender delivers a push notification to a device token.
type PushSender interface {
	Push(ctx context.Context, deviceToken, title, body string, badge int) error
}

// EventSink delivers realtime events to connected users.
type EventSink interface {
	SendToUser(userID string, event Event) error
	IsOnline(userID string) bool
}
