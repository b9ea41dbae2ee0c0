package domain

import (
	"context"
	"time"
)

// AuctionRepository stores auctions. GetByID returns (nil, nil) when the id is unknown.
// Save is an upsert keyed by the auction id.
type AuctionRepository interface {
	GetByID(ctx context.Context, id string) (*Auction, error)
	Save(ctx context.Context, auction *Auction) error
}

// ExpiredAuctionFinder lists open auctions whose end date is not after t.
type ExpiredAuctionFinder interface {
	GetOpenEndedBefore(ctx context.Context, t time.Time) ([]*Auction, error)
}

// NotificationService delivers bidder notifications. Delivery is best effort.
type NotificationService interface {
	SendBidPlacedNotification(ctx context.Context, recipient string) error
	SendOverbidNotification(ctx context.Context, recipient string) error
}
