package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/vinylAuction/internal/auction/application"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/cristianortiz/vinylAuction/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler handles the ws inbound msgs wich are specific for auction module
type AuctionWSHandler struct {
	auctionService application.AuctionService
	hub            *websocket.Hub
}

// NewAuctionWSHandler creates a new instance of AuctionWSHandler
func NewAuctionWSHandler(auctionService application.AuctionService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		auctionService: auctionService,
		hub:            hub,
	}
}

// RegisterRoutes mounts GET /ws/:userId. Connections live until the peer leaves or ctx ends.
func (h *AuctionWSHandler) RegisterRoutes(ctx context.Context, router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/:userId", fiberws.New(func(conn *fiberws.Conn) {
		userID := conn.Params("userId")
		client := websocket.NewClient(h.hub, conn, userID, uuid.NewString())
		h.hub.RegisterClient(client)

		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}))
}

// ListenForMessages processes the hub inbound channel until ctx ends
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages from hub")
			return
		case msg := <-h.hub.InboundMessages:
			// inline, so frames of one connection reach PlaceBid in the order they were sent
			h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMessage dispatch the message by this type
func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBidMessage(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *AuctionWSHandler) handleClientBidMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format")
		return
	}
	if bidMsg.Payload.AuctionID == "" {
		h.sendErrorToClient(client, "auction_id is required")
		return
	}

	cmd := application.PlaceBidDTO{
		AuctionID: bidMsg.Payload.AuctionID,
		BidderID:  client.UserID,
		Amount:    bidMsg.Payload.Amount,
	}
	if placed := h.auctionService.PlaceBid(ctx, cmd); placed.IsFailure() {
		h.sendErrorToClient(client, placed.Reason())
		return
	}

	state := h.auctionService.GetAuction(ctx, cmd.AuctionID)
	if state.IsFailure() {
		h.sendErrorToClient(client, "failed to get updated auction state")
		return
	}
	h.sendToClient(client, ServerAuctionUpdateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerAuctionUpdate},
		Payload:     state.Value(),
	})
}

// sendErrorToClient serializes and sends an error msg to a specific client
func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{MessageTypeServerError},
	}
	errMsg.Payload.Error = errorMessage
	h.sendToClient(client, errMsg)
}

func (h *AuctionWSHandler) sendToClient(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}
	if err := h.hub.SendToClient(client, data); err != nil {
		log.Warn("could not send msg to client", zap.String("clientID", client.ID), zap.Error(err))
		return
	}
	log.Debug("sent message to client", zap.String("clientID", client.ID))
}
