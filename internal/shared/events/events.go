package events

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind enumerates every domain event the system emits.
type Kind int

const (
	KindBidPlaced Kind = iota + 1
	KindAuctionFinished
)

// Kinds lists all known event kinds.
func Kinds() []Kind {
	return []Kind{KindBidPlaced, KindAuctionFinished}
}

func (k Kind) String() string {
	switch k {
	case KindBidPlaced:
		return "BidPlaced"
	case KindAuctionFinished:
		return "AuctionFinished"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBidPlaced, KindAuctionFinished:
		return true
	}
	return false
}

// DomainEvent is a read-only fact recorded by an aggregate.
// The set of implementations is closed to this package.
type DomainEvent interface {
	Kind() Kind
	AggregateID() string
	OccurredAt() time.Time
	domainEvent()
}

// BidPlaced is recorded when an auction accepts a bid.
// PreviousBidUserID is empty when the accepted bid is the first one.
type BidPlaced struct {
	AuctionID         string
	NewBidUserID      string
	PreviousBidUserID string
	Amount            decimal.Decimal
	At                time.Time
}

func (e BidPlaced) Kind() Kind            { return KindBidPlaced }
func (e BidPlaced) AggregateID() string   { return e.AuctionID }
func (e BidPlaced) OccurredAt() time.Time { return e.At }
func (BidPlaced) domainEvent()            {}

// PreviousBidder returns the outbid user, if any.
func (e BidPlaced) PreviousBidder() (string, bool) {
	return e.PreviousBidUserID, e.PreviousBidUserID != ""
}

// AuctionFinished is recorded when an auction closes.
// WinnerID is empty when the auction closed without bids.
type AuctionFinished struct {
	AuctionID  string
	VinylID    string
	SellerID   string
	WinnerID   string
	FinalPrice decimal.Decimal
	At         time.Time
}

func (e AuctionFinished) Kind() Kind            { return KindAuctionFinished }
func (e AuctionFinished) AggregateID() string   { return e.AuctionID }
func (e AuctionFinished) OccurredAt() time.Time { return e.At }
func (AuctionFinished) domainEvent()            {}

// Winner returns the winning bidder, if any.
func (e AuctionFinished) Winner() (string, bool) {
	return e.WinnerID, e.WinnerID != ""
}
