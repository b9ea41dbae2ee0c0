package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
)

var now = time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)

type fakeUsers struct {
	sent map[string][][]byte
	err  error
}

func (f *fakeUsers) SendToUser(userID string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = map[string][][]byte{}
	}
	f.sent[userID] = append(f.sent[userID], data)
	return nil
}

type published struct {
	channel string
	message []byte
}

type fakePublisher struct {
	messages []published
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.messages = append(f.messages, published{channel: channel, message: message.([]byte)})
	return redis.NewIntResult(1, f.err)
}

type countingNotifier struct {
	bidPlaced, overbid []string
	err                error
}

func (c *countingNotifier) SendBidPlacedNotification(_ context.Context, recipient string) error {
	c.bidPlaced = append(c.bidPlaced, recipient)
	return c.err
}

func (c *countingNotifier) SendOverbidNotification(_ context.Context, recipient string) error {
	c.overbid = append(c.overbid, recipient)
	return c.err
}

func TestWebSocketNotifier(t *testing.T) {
	users := &fakeUsers{}
	n := NewWebSocketNotifier(users, clock.NewMock(now))

	require.NoError(t, n.SendBidPlacedNotification(context.Background(), "alice"))
	require.NoError(t, n.SendOverbidNotification(context.Background(), "bob"))

	require.Len(t, users.sent["alice"], 1)
	var msg ServerNotificationMessage
	require.NoError(t, json.Unmarshal(users.sent["alice"][0], &msg))
	assert.Equal(t, MessageTypeServerNotification, msg.Type)
	assert.Equal(t, KindBidPlaced, msg.Payload.Kind)
	assert.Equal(t, "alice", msg.Payload.Recipient)
	assert.True(t, msg.Payload.At.Equal(now))

	require.Len(t, users.sent["bob"], 1)
	require.NoError(t, json.Unmarshal(users.sent["bob"][0], &msg))
	assert.Equal(t, KindOverbid, msg.Payload.Kind)
	assert.Equal(t, "You have been outbid", msg.Payload.Message)
}

func TestWebSocketNotifier_UserOffline(t *testing.T) {
	offline := errors.New("user not connected")
	n := NewWebSocketNotifier(&fakeUsers{err: offline}, clock.NewMock(now))

	err := n.SendBidPlacedNotification(context.Background(), "alice")
	assert.ErrorIs(t, err, offline)
}

func TestRedisNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedisNotifier(pub, "auction_notifications", clock.NewMock(now))

	require.NoError(t, n.SendOverbidNotification(context.Background(), "alice"))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "auction_notifications", pub.messages[0].channel)
	var got Notification
	require.NoError(t, json.Unmarshal(pub.messages[0].message, &got))
	assert.Equal(t, KindOverbid, got.Kind)
	assert.Equal(t, "alice", got.Recipient)
}

func TestRedisNotifier_PublishError(t *testing.T) {
	down := errors.New("connection refused")
	n := NewRedisNotifier(&fakePublisher{err: down}, "ch", clock.NewMock(now))

	err := n.SendBidPlacedNotification(context.Background(), "alice")
	assert.ErrorIs(t, err, down)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core), clock.NewMock(now))

	require.NoError(t, n.SendBidPlacedNotification(context.Background(), "alice"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "bid_placed", fields["kind"])
	assert.Equal(t, "alice", fields["recipient"])
}

func TestMulti_DeliversToAllAndCombinesErrors(t *testing.T) {
	first := &countingNotifier{err: errors.New("first down")}
	second := &countingNotifier{}
	third := &countingNotifier{err: errors.New("third down")}
	var m domain.NotificationService = Multi{first, second, third}

	err := m.SendBidPlacedNotification(context.Background(), "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, first.err)
	assert.ErrorIs(t, err, third.err)
	for _, n := range []*countingNotifier{first, second, third} {
		assert.Equal(t, []string{"alice"}, n.bidPlaced)
	}

	second.err = nil
	m = Multi{second}
	require.NoError(t, m.SendOverbidNotification(context.Background(), "bob"))
	assert.Equal(t, []string{"bob"}, second.overbid)
}
