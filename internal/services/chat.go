package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swipe-match-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChatService handles messaging and unread tracking within matches.
//
// The unread counters on the match rows are authoritative and are mutated
// transactionally with every message insert and mark-read batch. The Redis
// total is a cache with delete-on-write invalidation, used for push badges.
type ChatService struct {
	messages MessageStore
	matches  MatchStore
	users    UserStore
	cache    UnreadCache
	presence *Presence
	events   EventSink
	notifier *Notifier
}

// NewChatService creates a new chat service
func NewChatService(
	messages MessageStore,
	matches MatchStore,
	users UserStore,
	cache UnreadCache,
	presence *Presence,
	events EventSink,
	notifier *Notifier,
) *ChatService {
	return &ChatService{
		messages: messages,
		matches:  matches,
		users:    users,
		cache:    cache,
		presence: presence,
		events:   events,
		notifier: notifier,
	}
}

// SendMessage stores a message and fans it out: realtime event and updated
// unread counts to the recipient, plus a push notification unless the
// recipient is viewing the conversation.
func (s *ChatService) SendMessage(ctx context.Context, senderID, matchID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("match not found: %w", err)
	}
	if !match.HasUser(senderID) {
		return nil, ErrNotParticipant
	}
	recipientID := match.OtherUser(senderID)

	msg := &models.Message{
		ID:        uuid.New().String(),
		MatchID:   matchID,
		SenderID:  senderID,
		Content:   content,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(ctx, msg, recipientID); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if err := s.cache.Invalidate(ctx, recipientID); err != nil {
		log.Error().Err(err).Str("user_id", recipientID).Msg("Failed to invalidate unread cache")
	}

	if s.events.IsOnline(recipientID) {
		if err := s.events.SendToUser(recipientID, Event{Type: EventNewMessage, MatchID: matchID, Data: msg}); err != nil {
			log.Error().Err(err).Str("user_id", recipientID).Msg("Failed to send message event")
		}
		s.PushUnreadCounts(ctx, recipientID)
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		log.Error().Err(err).Str("user_id", senderID).Msg("Failed to resolve message sender")
		return msg, nil
	}

	badge, err := s.UnreadTotal(ctx, recipientID)
	if err != nil {
		log.Error().Err(err).Str("user_id", recipientID).Msg("Failed to compute unread badge")
		badge = 0
	}
	s.notifier.NotifyMessage(ctx, match, sender, recipientID, content, badge)

	return msg, nil
}

// MarkRead marks every message from the other participant as read and
// resets the reader's unread counter. Idempotent; a second call is a no-op.
func (s *ChatService) MarkRead(ctx context.Context, userID, matchID string) error {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("match not found: %w", err)
	}
	if !match.HasUser(userID) {
		return ErrNotParticipant
	}

	flipped, err := s.messages.MarkRead(ctx, matchID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to invalidate unread cache")
	}

	if flipped > 0 {
		log.Debug().
			Str("match_id", matchID).
			Str("user_id", userID).
			Int("count", flipped).
			Msg("Messages marked read")
	}

	if s.events.IsOnline(userID) {
		s.PushUnreadCounts(ctx, userID)
	}

	return nil
}

// ListMessages returns paginated message history for a match the user
// participates in
func (s *ChatService) ListMessages(ctx context.Context, userID, matchID string, limit, offset int) ([]*models.Message, int, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, 0, fmt.Errorf("match not found: %w", err)
	}
	if !match.HasUser(userID) {
		return nil, 0, ErrNotParticipant
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.messages.ListByMatch(ctx, matchID, limit, offset)
}

// UnreadCounts returns the per-match unread counts for a user with
// presence suppression applied: the match currently being viewed always
// reports zero, even if unread messages arrived during the viewing window.
func (s *ChatService) UnreadCounts(ctx context.Context, userID string) ([]models.MatchUnread, int, error) {
	counts, err := s.matches.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load unread counts: %w", err)
	}

	viewing, _ := s.presence.Viewing(userID)
	total := 0
	for i := range counts {
		if counts[i].MatchID == viewing {
			counts[i].UnreadCount = 0
		}
		total += counts[i].UnreadCount
	}
	return counts, total, nil
}

// UnreadTotal returns the raw unread total for a user, served from the
// Redis cache when present and repopulated from storage on a miss. No
// presence suppression: this value feeds the push badge, and push for a
// viewed conversation is suppressed entirely.
func (s *ChatService) UnreadTotal(ctx context.Context, userID string) (int, error) {
	if total, ok, err := s.cache.GetTotal(ctx, userID); err == nil && ok {
		return total, nil
	} else if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to read unread cache")
	}

	counts, err := s.matches.UnreadCounts(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load unread counts: %w", err)
	}
	total := 0
	for _, mu := range counts {
		total += mu.UnreadCount
	}

	if err := s.cache.SetTotal(ctx, userID, total); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to populate unread cache")
	}
	return total, nil
}

// EnterConversation transitions the user's presence to viewing matchID and
// flushes the conversation's unread state so the badge clears on open. A
// previously viewed conversation is flushed as if the user had left it.
func (s *ChatService) EnterConversation(ctx context.Context, userID, matchID string) error {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("match not found: %w", err)
	}
	if !match.HasUser(userID) {
		return ErrNotParticipant
	}

	previous := s.presence.StartViewing(userID, matchID)
	if previous != "" {
		if err := s.MarkRead(ctx, userID, previous); err != nil {
			log.Error().
				Err(err).
				Str("match_id", previous).
				Str("user_id", userID).
				Msg("Failed to flush replaced conversation")
		}
	}

	return s.MarkRead(ctx, userID, matchID)
}

// LeaveConversation flushes the viewed conversation's unread state and
// then clears presence, in that order, so that messages arriving during
// the flush are still covered by the viewing window.
func (s *ChatService) LeaveConversation(ctx context.Context, userID string) error {
	matchID, ok := s.presence.Viewing(userID)
	if !ok {
		return nil
	}

	err := s.MarkRead(ctx, userID, matchID)
	if err != nil {
		log.Error().
			Err(err).
			Str("match_id", matchID).
			Str("user_id", userID).
			Msg("Failed to flush conversation on leave")
	}

	s.presence.StopViewing(userID)
	return err
}

// PushUnreadCounts sends the user's current unread counts over the hub.
// Errors are logged and dropped; the next change self-heals the badge.
func (s *ChatService) PushUnreadCounts(ctx context.Context, userID string) {
	counts, total, err := s.UnreadCounts(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load unread counts for event")
		return
	}
	event := Event{
		Type: EventUnreadCounts,
		Data: map[string]interface{}{
			"matches": counts,
			"total":   total,
		},
	}
	if err := s.events.SendToUser(userID, event); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send unread counts event")
	}
}
