package postgres

import (
	"context"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// insertBids stores the bids of an auction in order. Bids are append only, so
// rows already present are left alone.
func insertBids(ctx context.Context, q querier, auctionID string, bids []domain.Bid) error {
	if len(bids) == 0 {
		return nil
	}
	query := `
        INSERT INTO bids (id, auction_id, seq, bidder_id, amount, bid_date)
        VALUES ($1, $2, $3, $4, $5::numeric, $6)
        ON CONFLICT (id) DO NOTHING
    `
	batch := &pgx.Batch{}
	for i, b := range bids {
		batch.Queue(query, b.ID, auctionID, i, b.BidderID, b.Amount.String(), b.Date)
	}
	return q.SendBatch(ctx, batch).Close()
}

// getBidsByAuctionID returns the bids of an auction in the order they were accepted.
func getBidsByAuctionID(ctx context.Context, q querier, auctionID string) ([]domain.Bid, error) {
	query := `
        SELECT id, bidder_id, amount::text, bid_date
        FROM bids
        WHERE auction_id = $1
        ORDER BY seq ASC
    `
	rows, err := q.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Bid, error) {
		var (
			b      domain.Bid
			amount string
		)
		if err := row.Scan(&b.ID, &b.BidderID, &amount, &b.Date); err != nil {
			return domain.Bid{}, err
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return domain.Bid{}, fmt.Errorf("invalid bid amount %q: %w", amount, err)
		}
		b.Amount = a
		return b, nil
	})
}
