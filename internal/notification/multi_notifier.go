package notification

import (
	"context"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Multi fans every notification out to all notifiers. A failing notifier does
// not stop the others; their errors are combined.
type Multi []domain.NotificationService

func (m Multi) SendBidPlacedNotification(ctx context.Context, recipient string) error {
	var err error
	for _, n := range m {
		err = multierr.Append(err, n.SendBidPlacedNotification(ctx, recipient))
	}
	m.logFailure(err, KindBidPlaced, recipient)
	return err
}

func (m Multi) SendOverbidNotification(ctx context.Context, recipient string) error {
	var err error
	for _, n := range m {
		err = multierr.Append(err, n.SendOverbidNotification(ctx, recipient))
	}
	m.logFailure(err, KindOverbid, recipient)
	return err
}

func (m Multi) logFailure(err error, kind Kind, recipient string) {
	if err == nil {
		return
	}
	log.Debug("Notification fan-out had failures",
		zap.String("kind", string(kind)),
		zap.String("recipient", recipient),
		zap.Int("failures", len(multierr.Errors(err))),
	)
}
