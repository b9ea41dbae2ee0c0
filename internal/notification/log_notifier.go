package notification

import (
	"context"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"go.uber.org/zap"
)

type logSender struct {
	log *zap.Logger
}

// NewLogNotifier writes every notification to l at Info level.
func NewLogNotifier(l *zap.Logger, clk clock.Clock) domain.NotificationService {
	return &service{sender: logSender{log: l}, clock: clk}
}

func (s logSender) send(_ context.Context, n Notification) error {
	s.log.Info("Notification",
		zap.String("kind", string(n.Kind)),
		zap.String("recipient", n.Recipient),
		zap.String("message", n.Message),
	)
	return nil
}
