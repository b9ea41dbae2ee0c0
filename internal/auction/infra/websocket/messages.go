package websocket

import (
	"github.com/cristianortiz/vinylAuction/internal/auction/application"
	"github.com/shopspring/decimal"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientBid           MessageType = "client_bid"            // client msg to make a bid
	MessageTypeServerAuctionUpdate MessageType = "server_auction_update" // server msg with the auction state after a bid
	MessageTypeServerError         MessageType = "server_error"          // server msg indicating error
)

// BaseMessage is base struct for all the WS messages, includes a Type field for identify the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is DTO for a bid message sent by the client. The bidder is
// the user the connection belongs to.
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID string          `json:"auction_id"`
		Amount    decimal.Decimal `json:"amount"`
	} `json:"payload"`
}

// ServerAuctionUpdateMessage carries the auction state after an accepted bid
type ServerAuctionUpdateMessage struct {
	BaseMessage
	Payload *application.AuctionStateDTO `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}
