package domain

import (
	"time"

	"github.com/cristianortiz/vinylAuction/internal/shared/events"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Status represents the state of an auction. open -> closed is the only transition.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Auction is the aggregate root for the sale of one vinyl.
// It is not safe for concurrent use; callers serialize commands per auction id.
type Auction struct {
	events.AggregateRoot

	endDate       time.Time
	startingPrice decimal.Decimal
	sellerID      string
	vinylID       string
	bids          []Bid
	status        Status
}

// NewAuction creates an open auction. The starting price must be positive and
// the end date strictly after now.
func NewAuction(id string, endDate time.Time, startingPrice decimal.Decimal, sellerID, vinylID string, now time.Time) (*Auction, error) {
	if !startingPrice.IsPositive() {
		return nil, ErrInvalidStartingPrice
	}
	if !endDate.After(now) {
		return nil, ErrEndDateNotInFuture
	}
	return &Auction{
		AggregateRoot: events.NewAggregateRoot(id),
		endDate:       endDate,
		startingPrice: startingPrice,
		sellerID:      sellerID,
		vinylID:       vinylID,
		status:        StatusOpen,
	}, nil
}

// MustNewAuction is NewAuction for callers holding already validated input.
func MustNewAuction(id string, endDate time.Time, startingPrice decimal.Decimal, sellerID, vinylID string, now time.Time) *Auction {
	a, err := NewAuction(id, endDate, startingPrice, sellerID, vinylID, now)
	if err != nil {
		panic(err)
	}
	return a
}

// PlaceBid accepts bid if it beats the current price, falls within the auction
// period, the auction is open and the bidder is not the seller, checked in that order.
// On success a BidPlaced event is recorded.
func (a *Auction) PlaceBid(bid Bid) result.Result[Bid] {
	if bid.Amount.LessThanOrEqual(a.CurrentPrice()) {
		a.rejectBid(bid, ErrBidAmountTooLow)
		return result.Fail[Bid](ErrBidAmountTooLow)
	}
	if bid.Date.After(a.endDate) {
		a.rejectBid(bid, ErrBidOutsidePeriod)
		return result.Fail[Bid](ErrBidOutsidePeriod)
	}
	if a.status != StatusOpen {
		a.rejectBid(bid, ErrBiddingClosed)
		return result.Fail[Bid](ErrBiddingClosed)
	}
	if bid.BidderID == a.sellerID {
		a.rejectBid(bid, ErrSellerSelfBid)
		return result.Fail[Bid](ErrSellerSelfBid)
	}

	var previousBidder string
	if last, ok := a.CurrentBid(); ok {
		previousBidder = last.BidderID
	}
	a.bids = append(a.bids, bid)

	a.AddDomainEvent(events.BidPlaced{
		AuctionID:         a.ID(),
		NewBidUserID:      bid.BidderID,
		PreviousBidUserID: previousBidder,
		Amount:            bid.Amount,
		At:                bid.Date,
	})

	log.Info("Bid placed successfully",
		zap.String("auctionID", a.ID()),
		zap.String("bidID", bid.ID),
		zap.String("bidderID", bid.BidderID),
		zap.Stringer("amount", bid.Amount),
	)
	return result.Ok(bid)
}

func (a *Auction) rejectBid(bid Bid, reason error) {
	log.Warn("Bid rejected",
		zap.String("auctionID", a.ID()),
		zap.String("bidderID", bid.BidderID),
		zap.Stringer("amount", bid.Amount),
		zap.Stringer("currentPrice", a.CurrentPrice()),
		zap.String("reason", reason.Error()),
	)
}

// Finish closes the auction once its end date has been reached and records an
// AuctionFinished event naming the last bidder as winner.
func (a *Auction) Finish(now time.Time) result.Result[*Auction] {
	if a.status != StatusOpen {
		log.Warn("Attempted to finish auction that is not open",
			zap.String("auctionID", a.ID()),
			zap.String("status", string(a.status)),
		)
		return result.Fail[*Auction](ErrAuctionNotOpen)
	}
	if a.endDate.After(now) {
		log.Warn("Attempted to finish auction before its end date",
			zap.String("auctionID", a.ID()),
			zap.Time("endDate", a.endDate),
			zap.Time("now", now),
		)
		return result.Fail[*Auction](ErrAuctionNotEnded)
	}

	a.status = StatusClosed

	var winner string
	if last, ok := a.CurrentBid(); ok {
		winner = last.BidderID
	}
	a.AddDomainEvent(events.AuctionFinished{
		AuctionID:  a.ID(),
		VinylID:    a.vinylID,
		SellerID:   a.sellerID,
		WinnerID:   winner,
		FinalPrice: a.CurrentPrice(),
		At:         now,
	})

	log.Info("Auction finished",
		zap.String("auctionID", a.ID()),
		zap.String("winnerID", winner),
		zap.Stringer("finalPrice", a.CurrentPrice()),
	)
	return result.Ok(a)
}

// CurrentPrice is the amount of the last accepted bid, or the starting price.
func (a *Auction) CurrentPrice() decimal.Decimal {
	if last, ok := a.CurrentBid(); ok {
		return last.Amount
	}
	return a.startingPrice
}

// CurrentBid returns the last accepted bid.
func (a *Auction) CurrentBid() (Bid, bool) {
	if len(a.bids) == 0 {
		return Bid{}, false
	}
	return a.bids[len(a.bids)-1], true
}

// Bids returns the accepted bids in acceptance order.
func (a *Auction) Bids() []Bid {
	out := make([]Bid, len(a.bids))
	copy(out, a.bids)
	return out
}

func (a *Auction) IsFinished() bool               { return a.status == StatusClosed }
func (a *Auction) Status() Status                 { return a.status }
func (a *Auction) EndDate() time.Time             { return a.endDate }
func (a *Auction) StartingPrice() decimal.Decimal { return a.startingPrice }
func (a *Auction) SellerID() string               { return a.sellerID }
func (a *Auction) VinylID() string                { return a.vinylID }

// AuctionSnapshot is the persisted form of an Auction.
type AuctionSnapshot struct {
	ID            string
	EndDate       time.Time
	StartingPrice decimal.Decimal
	SellerID      string
	VinylID       string
	Status        Status
	Bids          []Bid
}

// Snapshot copies the auction state. Pending events are not part of it.
func (a *Auction) Snapshot() AuctionSnapshot {
	return AuctionSnapshot{
		ID:            a.ID(),
		EndDate:       a.endDate,
		StartingPrice: a.startingPrice,
		SellerID:      a.sellerID,
		VinylID:       a.vinylID,
		Status:        a.status,
		Bids:          a.Bids(),
	}
}

// RestoreAuction rebuilds a stored auction. The end date is not required to be
// in the future, since stored auctions may already be over.
func RestoreAuction(s AuctionSnapshot) (*Auction, error) {
	if !s.StartingPrice.IsPositive() {
		return nil, ErrInvalidStartingPrice
	}
	if s.Status != StatusOpen && s.Status != StatusClosed {
		return nil, ErrInvalidStatus
	}
	bids := make([]Bid, len(s.Bids))
	copy(bids, s.Bids)
	return &Auction{
		AggregateRoot: events.NewAggregateRoot(s.ID),
		endDate:       s.EndDate,
		startingPrice: s.StartingPrice,
		sellerID:      s.SellerID,
		vinylID:       s.VinylID,
		bids:          bids,
		status:        s.Status,
	}, nil
}
