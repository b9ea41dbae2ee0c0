// Package notification delivers bid notifications to users. Every notifier
// implements the auction domain NotificationService.
package notification

import (
	"context"
	"time"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
)

var log = logger.GetLogger()

// Kind tells the recipient what happened.
type Kind string

const (
	KindBidPlaced Kind = "bid_placed"
	KindOverbid   Kind = "overbid"
)

// Notification is the payload delivered to a user.
type Notification struct {
	Kind      Kind      `json:"kind"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

func newNotification(kind Kind, recipient string, now time.Time) Notification {
	n := Notification{Kind: kind, Recipient: recipient, At: now}
	switch kind {
	case KindBidPlaced:
		n.Message = "Your bid was placed"
	case KindOverbid:
		n.Message = "You have been outbid"
	}
	return n
}

// sender delivers one notification through a concrete channel.
type sender interface {
	send(ctx context.Context, n Notification) error
}

// service adapts a sender to domain.NotificationService.
type service struct {
	sender sender
	clock  clock.Clock
}

var _ domain.NotificationService = (*service)(nil)

func (s *service) SendBidPlacedNotification(ctx context.Context, recipient string) error {
	return s.sender.send(ctx, newNotification(KindBidPlaced, recipient, s.clock.Now()))
}

func (s *service) SendOverbidNotification(ctx context.Context, recipient string) error {
	return s.sender.send(ctx, newNotification(KindOverbid, recipient, s.clock.Now()))
}
