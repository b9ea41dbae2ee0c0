package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"github.com/go-redis/redis/v8"
)

// Publisher is the part of *redis.Client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisSender struct {
	client  Publisher
	channel string
}

// NewRedisNotifier publishes notifications as JSON on a redis pub/sub channel,
// so other instances can forward them to their own websocket clients.
func NewRedisNotifier(client Publisher, channel string, clk clock.Clock) domain.NotificationService {
	return &service{sender: redisSender{client: client, channel: channel}, clock: clk}
}

func (s redisSender) send(ctx context.Context, n Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redis notifier: marshal: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis notifier: publish on %s: %w", s.channel, err)
	}
	return nil
}
