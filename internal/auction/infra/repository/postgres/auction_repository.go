package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// AuctionRepository implements domain.AuctionRepository and
// domain.ExpiredAuctionFinder on top of postgres.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository creates a new instance of AuctionRepository
func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// Save upserts the auction row and appends bids not stored yet, in one transaction.
// Amounts travel as text so no precision is lost on the way to NUMERIC.
func (r *AuctionRepository) Save(ctx context.Context, auction *domain.Auction) error {
	s := auction.Snapshot()
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
        INSERT INTO auctions (id, seller_id, vinyl_id, starting_price, end_date, status)
        VALUES ($1, $2, $3, $4::numeric, $5, $6)
        ON CONFLICT (id) DO UPDATE
        SET
            status = EXCLUDED.status,
            updated_at = NOW();
    `
		if _, err := tx.Exec(ctx, query,
			s.ID,
			s.SellerID,
			s.VinylID,
			s.StartingPrice.String(),
			s.EndDate,
			string(s.Status),
		); err != nil {
			return fmt.Errorf("failed to upsert auction %s: %w", s.ID, err)
		}
		if err := insertBids(ctx, tx, s.ID, s.Bids); err != nil {
			return fmt.Errorf("failed to insert bids of auction %s: %w", s.ID, err)
		}
		return nil
	})
}

// GetByID returns (nil, nil) when the auction does not exist.
func (r *AuctionRepository) GetByID(ctx context.Context, id string) (*domain.Auction, error) {
	query := `
        SELECT id, seller_id, vinyl_id, starting_price::text, end_date, status
        FROM auctions
        WHERE id = $1
    `
	s, err := scanAuction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.restore(ctx, s)
}

// GetOpenEndedBefore returns open auctions whose end date is not after t, oldest first.
func (r *AuctionRepository) GetOpenEndedBefore(ctx context.Context, t time.Time) ([]*domain.Auction, error) {
	query := `
        SELECT id, seller_id, vinyl_id, starting_price::text, end_date, status
        FROM auctions
        WHERE status = $1 AND end_date <= $2
        ORDER BY end_date ASC
    `
	rows, err := r.pool.Query(ctx, query, string(domain.StatusOpen), t)
	if err != nil {
		return nil, err
	}
	snapshots, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuctionSnapshot, error) {
		return scanAuction(row)
	})
	if err != nil {
		return nil, err
	}

	auctions := make([]*domain.Auction, 0, len(snapshots))
	for _, s := range snapshots {
		a, err := r.restore(ctx, s)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}

func (r *AuctionRepository) restore(ctx context.Context, s domain.AuctionSnapshot) (*domain.Auction, error) {
	bids, err := getBidsByAuctionID(ctx, r.pool, s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids of auction %s: %w", s.ID, err)
	}
	s.Bids = bids
	return domain.RestoreAuction(s)
}

func scanAuction(row pgx.Row) (domain.AuctionSnapshot, error) {
	var (
		s      domain.AuctionSnapshot
		price  string
		status string
	)
	if err := row.Scan(&s.ID, &s.SellerID, &s.VinylID, &price, &s.EndDate, &status); err != nil {
		return domain.AuctionSnapshot{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("invalid starting price %q: %w", price, err)
	}
	s.StartingPrice = p
	s.Status = domain.Status(status)
	return s, nil
}
