package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
)

// AuctionRepository keeps auction snapshots in memory. Every GetByID returns a
// fresh aggregate, so unsaved changes never leak between callers.
type AuctionRepository struct {
	mu       sync.RWMutex
	auctions map[string]domain.AuctionSnapshot
}

func NewAuctionRepository() *AuctionRepository {
	return &AuctionRepository{auctions: make(map[string]domain.AuctionSnapshot)}
}

func (r *AuctionRepository) GetByID(_ context.Context, id string) (*domain.Auction, error) {
	r.mu.RLock()
	s, ok := r.auctions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return domain.RestoreAuction(s)
}

func (r *AuctionRepository) Save(_ context.Context, auction *domain.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[auction.ID()] = auction.Snapshot()
	return nil
}

// GetOpenEndedBefore returns open auctions whose end date is not after t, oldest first.
func (r *AuctionRepository) GetOpenEndedBefore(_ context.Context, t time.Time) ([]*domain.Auction, error) {
	r.mu.RLock()
	var due []domain.AuctionSnapshot
	for _, s := range r.auctions {
		if s.Status == domain.StatusOpen && !s.EndDate.After(t) {
			due = append(due, s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(due, func(i, j int) bool { return due[i].EndDate.Before(due[j].EndDate) })

	auctions := make([]*domain.Auction, 0, len(due))
	for _, s := range due {
		a, err := domain.RestoreAuction(s)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}
