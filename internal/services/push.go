package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNSPusher delivers push notifications through Apple's push service
// using token-based authentication.
type APNSPusher struct {
	client *apns2.Client
	topic  string
}

// NewAPNSPusher creates an APNs client from a .p8 signing key
func NewAPNSPusher(keyFile, keyID, teamID, topic string, production bool) (*APNSPusher, error) {
	authKey, err := token.AuthKeyFromFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	})
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSPusher{
		client: client,
		topic:  topic,
	}, nil
}

// Push sends an alert notification to a device token
func (p *APNSPusher) Push(ctx context.Context, deviceToken, title, body string, badge int) error {
	pl := payload.NewPayload().
		AlertTitle(title).
		AlertBody(body).
		Sound("default")
	if badge > 0 {
		pl = pl.Badge(badge)
	}

	res, err := p.client.PushWithContext(ctx, &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       p.topic,
		Payload:     pl,
	})
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}

// NopPusher is used when APNs is not configured. Notifications are logged
// and dropped.
type NopPusher struct{}

// Push logs the notification instead of delivering it
func (NopPusher) Push(_ context.Context, deviceToken, title, body string, badge int) error {
	log.Debug().
		Str("device_token", deviceToken).
		Str("title", title).
		Str("body", body).
		Int("badge", badge).
		Msg("Push delivery disabled, notification dropped")
	return nil
}
