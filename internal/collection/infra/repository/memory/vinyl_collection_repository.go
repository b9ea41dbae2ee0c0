package memory

import (
	"context"
	"sync"

	"github.com/cristianortiz/vinylAuction/internal/collection/domain"
)

type storedVinyl struct {
	id, title, artist string
}

// VinylCollectionRepository keeps copies of collections in memory, keyed by user id.
type VinylCollectionRepository struct {
	mu          sync.RWMutex
	collections map[string][]storedVinyl
}

func NewVinylCollectionRepository() *VinylCollectionRepository {
	return &VinylCollectionRepository{collections: make(map[string][]storedVinyl)}
}

func (r *VinylCollectionRepository) GetByUserID(_ context.Context, userID string) (*domain.VinylCollection, error) {
	r.mu.RLock()
	stored, ok := r.collections[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	c := domain.NewVinylCollection(userID)
	for _, v := range stored {
		c.AddVinyl(domain.NewVinyl(v.id, v.title, v.artist, userID))
	}
	return c, nil
}

func (r *VinylCollectionRepository) Save(ctx context.Context, collection *domain.VinylCollection) error {
	return r.SaveAll(ctx, collection)
}

// SaveAll stores every collection under one lock.
func (r *VinylCollectionRepository) SaveAll(_ context.Context, collections ...*domain.VinylCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range collections {
		vinyls := c.Vinyls()
		stored := make([]storedVinyl, 0, len(vinyls))
		for _, v := range vinyls {
			stored = append(stored, storedVinyl{id: v.ID(), title: v.Title(), artist: v.Artist()})
		}
		r.collections[c.ID()] = stored
	}
	return nil
}
