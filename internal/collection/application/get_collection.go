package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/collection/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
)

// VinylDTO is a vinyl as exposed to the UI
type VinylDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// CollectionDTO is the read model of a user's collection
type CollectionDTO struct {
	UserID string     `json:"user_id"`
	Vinyls []VinylDTO `json:"vinyls"`
}

// GetCollectionUseCase returns the vinyls owned by a user.
type GetCollectionUseCase struct {
	repo domain.VinylCollectionRepository
}

func NewGetCollectionUseCase(repo domain.VinylCollectionRepository) *GetCollectionUseCase {
	return &GetCollectionUseCase{repo: repo}
}

func (uc *GetCollectionUseCase) Execute(ctx context.Context, userID string) result.Result[*CollectionDTO] {
	c, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return result.Fail[*CollectionDTO](fmt.Errorf("get collection use case: failed to get collection %s: %w", userID, err))
	}
	if c == nil {
		return result.Fail[*CollectionDTO](domain.ErrCollectionNotFound)
	}

	dto := &CollectionDTO{UserID: c.ID(), Vinyls: make([]VinylDTO, 0, c.Len())}
	for _, v := range c.Vinyls() {
		dto.Vinyls = append(dto.Vinyls, VinylDTO{ID: v.ID(), Title: v.Title(), Artist: v.Artist()})
	}
	return result.Ok(dto)
}
