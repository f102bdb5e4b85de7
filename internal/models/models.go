package models

import "time"

// User represents a user in the system
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	PushToken     *string   `json:"push_token,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Swipe represents a one-directional like or pass decision.
// One row per (actor, target); a re-swipe overwrites the decision.
type Swipe struct {
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

// Match represents a mutual-like relationship between two users.
// UserAID is always the lexicographically smaller ID, and the match ID is
// derived from the sorted pair, so one pair can only ever map to one row.
type Match struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
	NotifiedA bool      `json:"notified_a"`
	NotifiedB bool      `json:"notified_b"`
	UnreadA   int       `json:"unread_a"`
	UnreadB   int       `json:"unread_b"`
}

// MatchKey returns the deterministic match ID for an unordered pair of users.
func MatchKey(userID1, userID2 string) string {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return userID1 + ":" + userID2
}

// NewMatch builds a Match for the given pair with participants in canonical order.
func NewMatch(userID1, userID2 string, createdAt time.Time) *Match {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return &Match{
		ID:        MatchKey(userID1, userID2),
		UserAID:   userID1,
		UserBID:   userID2,
		CreatedAt: createdAt,
	}
}

// OtherUser returns the participant that is not userID.
func (m *Match) OtherUser(userID string) string {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// HasUser reports whether userID is a participant of the match.
func (m *Match) HasUser(userID string) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// UnreadFor returns the unread counter belonging to userID.
func (m *Match) UnreadFor(userID string) int {
	if m.UserAID == userID {
		return m.UnreadA
	}
	return m.UnreadB
}

// NotifiedFor returns whether the match notification was already sent to userID.
func (m *Match) NotifiedFor(userID string) bool {
	if m.UserAID == userID {
		return m.NotifiedA
	}
	return m.NotifiedB
}

// Message represents a chat message inside a match
type Message struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchUnread carries the unread counter of one match for one user
type MatchUnread struct {
	MatchID     string `json:"match_id"`
	UnreadCount int    `json:"unread_count"`
}
