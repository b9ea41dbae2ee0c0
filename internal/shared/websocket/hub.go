package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// ErrUserNotConnected is returned when a message targets a user with no open connection.
var ErrUserNotConnected = errors.New("user not connected")

var (
	ErrClientNotRegistered = errors.New("client not registered")
	ErrSendBufferFull      = errors.New("client send buffer full")
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Capacity of the hub queues and of every client's send buffer.
	queueSize = 256
)

// Hub keeps client's registry and routes outbound messages to users
type Hub struct {
	// Registered clients, grouped by user ID. One user may have several tabs open.
	mu      sync.RWMutex
	clients map[string]map[*Client]bool

	outbound   chan *Message
	register   chan *Client
	unregister chan *Client
	// InboundMessages is listened to by module-specific handlers (e.g, auction handler)
	InboundMessages chan *ClientMessage
}

// Client represents a ws individual connection
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The user that opened the connection.
	UserID string
	// Unique identifier for the connection
	ID string
}

// Message is an outbound payload for every connection of one user.
type Message struct {
	UserID string
	Data   []byte
}

// ClientMessage is used for wraping the client and data message received.
// is used to send inbound messages from the client to the hub handlers
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		outbound:        make(chan *Message, queueSize),
		register:        make(chan *Client, queueSize),
		unregister:      make(chan *Client, queueSize),
		clients:         make(map[string]map[*Client]bool),
		InboundMessages: make(chan *ClientMessage, queueSize),
	}
}

// NewClient builds a client for conn with a buffered send channel.
func NewClient(hub *Hub, conn *websocket.Conn, userID, id string) *Client {
	return &Client{Hub: hub, Conn: conn, Send: make(chan []byte, queueSize), UserID: userID, ID: id}
}

// Run starts the hub listening in their channels
func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket Hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket Hub shutting down due to context cancellation")
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; !ok {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			total := h.countLocked()
			h.mu.Unlock()
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("userID", client.UserID),
				zap.Int("total_clients", total),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			removed := h.removeLocked(client)
			total := h.countLocked()
			h.mu.Unlock()
			if removed {
				log.Info("Client unregistered",
					zap.String("clientID", client.ID),
					zap.String("userID", client.UserID),
					zap.Int("total_clients", total),
				)
			}

		case message := <-h.outbound:
			h.mu.Lock()
			clients := h.clients[message.UserID]
			log.Debug("Sending message to user", zap.String("userID", message.UserID), zap.Int("clients", len(clients)))
			for client := range clients {
				select {
				case client.Send <- message.Data:
				default:
					// slow or gone, drop the connection
					h.removeLocked(client)
					log.Warn("Failed to send message to client, unregistering",
						zap.String("clientID", client.ID),
						zap.String("userID", client.UserID),
					)
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked deletes client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.clients[client.UserID]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.UserID)
	}
	return true
}

func (h *Hub) countLocked() int {
	count := 0
	for _, userClients := range h.clients {
		count += len(userClients)
	}
	return count
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// IsConnected reports whether userID has at least one registered connection.
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// RegisterClient register a new client in the hub
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
		log.Debug("Client queued for registration",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
		if client.Conn != nil {
			_ = client.Conn.Close()
		}
	}
}

// UnregisterClient delete a client from the hub
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
		log.Debug("Client queued for unregistration",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
	}
}

// SendToUser queues data for every connection of userID.
func (h *Hub) SendToUser(userID string, data []byte) error {
	if !h.IsConnected(userID) {
		return ErrUserNotConnected
	}
	select {
	case h.outbound <- &Message{UserID: userID, Data: data}:
		log.Debug("Message queued for user", zap.String("userID", userID))
		return nil
	default:
		log.Error("Outbound channel is full, message dropped", zap.String("userID", userID))
		return errors.New("websocket hub: outbound queue full")
	}
}

// SendToClient queues data for one connection. Send is only written under h.mu,
// the same lock the hub holds when it closes the channel.
func (h *Hub) SendToClient(client *Client, data []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client.UserID][client] {
		return ErrClientNotRegistered
	}
	select {
	case client.Send <- data:
		return nil
	default:
		log.Warn("Client send buffer full, message dropped",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
		return ErrSendBufferFull
	}
}

// ReadPump reads messages from the websocket and forwards them to InboundMessages.
// It must run in its own goroutine per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
		log.Info("ReadPump stopped for client",
			zap.String("clientID", c.ID),
			zap.String("userID", c.UserID),
		)
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	log.Info("ReadPump started for client",
		zap.String("clientID", c.ID),
		zap.String("userID", c.UserID),
		zap.String("remote_addr", c.Conn.RemoteAddr().String()),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("ReadPump context cancelled for client",
				zap.String("clientID", c.ID),
				zap.String("userID", c.UserID),
			)
			return
		default:
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
			} else {
				log.Info("WebSocket connection closed by peer",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
			}
			return
		}

		log.Debug("Received message from client",
			zap.String("clientID", c.ID),
			zap.String("userID", c.UserID),
			zap.ByteString("message", message),
		)

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			// handlers are not keeping up
			log.Error("Hub InboundMessages channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("userID", c.UserID),
				zap.ByteString("message", message),
			)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// invoking WriteControl and WriteMessage from a single goroutine.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
		log.Info("WritePump stopped for client",
			zap.String("clientID", c.ID),
			zap.String("userID", c.UserID),
		)
	}()

	for {
		select {
		case <-ctx.Done():
			err := c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			if err != nil {
				log.Error("Failed to send close control message",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
			}
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The Hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one JSON document per frame
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error("Failed to write ping message to client",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
