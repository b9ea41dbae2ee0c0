package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is an offer accepted (or about to be) by an Auction.
// It is a value: the auction stores a copy and never changes it.
type Bid struct {
	ID       string
	BidderID string //user who makes the bid
	Amount   decimal.Decimal
	Date     time.Time
}

// NewBid builds a bid with an explicit id. Amount must be positive.
func NewBid(id, bidderID string, amount decimal.Decimal, date time.Time) (Bid, error) {
	if !amount.IsPositive() {
		return Bid{}, ErrInvalidBidAmount
	}
	return Bid{
		ID:       id,
		BidderID: bidderID,
		Amount:   amount,
		Date:     date,
	}, nil
}

// CreateBid builds a bid with a fresh id.
func CreateBid(bidderID string, amount decimal.Decimal, date time.Time) (Bid, error) {
	return NewBid(uuid.NewString(), bidderID, amount, date)
}
