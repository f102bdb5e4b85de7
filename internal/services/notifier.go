package services

import (
	"context"
	"fmt"

	"swipe-match-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Notifier sends push notifications for new matches and messages.
//
// Match notifications are flagged per participant on the match row and the
// flag is only set after a successful send, so delivery is at-most-once as
// long as the flag update succeeds. If the send succeeds and the flag
// update fails, the next trigger may deliver a duplicate: at-least-once in
// practice, intended at-most-once.
type Notifier struct {
	users    UserStore
	matches  MatchStore
	push     PushSender
	presence *Presence
}

// NewNotifier creates a new notifier
func NewNotifier(users UserStore, matches MatchStore, push PushSender, presence *Presence) *Notifier {
	return &Notifier{
		users:    users,
		matches:  matches,
		push:     push,
		presence: presence,
	}
}

// NotifyMatch notifies both participants of a match. Participants already
// flagged as notified are skipped, which makes re-triggering idempotent.
// Failures are logged and dropped; notifications are not safety-critical.
func (n *Notifier) NotifyMatch(ctx context.Context, match *models.Match) {
	for _, recipientID := range []string{match.UserAID, match.UserBID} {
		if match.NotifiedFor(recipientID) {
			continue
		}

		other, err := n.users.GetByID(ctx, match.OtherUser(recipientID))
		if err != nil {
			log.Error().Err(err).Str("match_id", match.ID).Msg("Failed to resolve match partner")
			continue
		}

		recipient, err := n.users.GetByID(ctx, recipientID)
		if err != nil {
			log.Error().Err(err).Str("match_id", match.ID).Msg("Failed to resolve match recipient")
			continue
		}

		if recipient.PushToken != nil {
			err := n.push.Push(ctx, *recipient.PushToken,
				"It's a match!",
				fmt.Sprintf("You matched with %s", other.DisplayName),
				0,
			)
			if err != nil {
				// Flag stays false so the next trigger retries.
				log.Error().
					Err(err).
					Str("match_id", match.ID).
					Str("user_id", recipientID).
					Msg("Failed to send match notification")
				continue
			}
		}

		if err := n.matches.SetNotified(ctx, match.ID, recipientID); err != nil {
			log.Error().
				Err(err).
				Str("match_id", match.ID).
				Str("user_id", recipientID).
				Msg("Failed to set notified flag, duplicate notification possible")
		}
	}
}

// NotifyMessage notifies the recipient of a new message. Delivery is
// suppressed while the recipient is viewing the conversation.
func (n *Notifier) NotifyMessage(ctx context.Context, match *models.Match, sender *models.User, recipientID, preview string, badge int) {
	if n.presence.IsViewing(recipientID, match.ID) {
		return
	}

	recipient, err := n.users.GetByID(ctx, recipientID)
	if err != nil {
		log.Error().Err(err).Str("match_id", match.ID).Msg("Failed to resolve message recipient")
		return
	}
	if recipient.PushToken == nil {
		return
	}

	err = n.push.Push(ctx, *recipient.PushToken, sender.DisplayName, preview, badge)
	if err != nil {
		log.Error().
			Err(err).
			Str("match_id", match.ID).
			Str("user_id", recipientID).
			Msg("Failed to send message notification")
	}
}
