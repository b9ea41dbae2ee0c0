package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
)

// MessageTypeServerNotification is the websocket message type carrying a Notification.
const MessageTypeServerNotification = "server_notification"

// UserSender pushes raw messages to a connected user, e.g. *websocket.Hub.
type UserSender interface {
	SendToUser(userID string, data []byte) error
}

// ServerNotificationMessage is the websocket envelope of a Notification
type ServerNotificationMessage struct {
	Type    string       `json:"type"`
	Payload Notification `json:"payload"`
}

type websocketSender struct {
	users UserSender
}

// NewWebSocketNotifier pushes notifications to the recipient's open connections.
func NewWebSocketNotifier(users UserSender, clk clock.Clock) domain.NotificationService {
	return &service{sender: websocketSender{users: users}, clock: clk}
}

func (s websocketSender) send(_ context.Context, n Notification) error {
	data, err := json.Marshal(ServerNotificationMessage{Type: MessageTypeServerNotification, Payload: n})
	if err != nil {
		return fmt.Errorf("websocket notifier: marshal: %w", err)
	}
	if err := s.users.SendToUser(n.Recipient, data); err != nil {
		return fmt.Errorf("websocket notifier: %s: %w", n.Recipient, err)
	}
	return nil
}
