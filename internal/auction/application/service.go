package application

import (
	"context"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
)

// AuctionService defines application interface layer of auction module
// exposes uses cases to external layer, aka infra
type AuctionService interface {
	// PlaceBid handles logic when a user makes a bid on an auction
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) result.Result[domain.Bid]
	// FinishAuction closes an auction whose end date has passed
	FinishAuction(ctx context.Context, cmd FinishAuctionDTO) result.Result[*domain.Auction]
	GetAuction(ctx context.Context, auctionID string) result.Result[*AuctionStateDTO]
}

// concret implementation of AuctionService (struct)
type auctionService struct {
	placeBidUC      *PlaceBidUseCase
	finishAuctionUC *FinishAuctionUseCase
	getAuctionUC    *GetAuctionUseCase
}

// NewAuctionService wires the use cases and registers their event subscriptions.
func NewAuctionService(placeBidUC *PlaceBidUseCase, finishAuctionUC *FinishAuctionUseCase, getAuctionUC *GetAuctionUseCase) AuctionService {
	placeBidUC.SetupSubscriptions()
	finishAuctionUC.SetupSubscriptions()
	return &auctionService{
		placeBidUC:      placeBidUC,
		finishAuctionUC: finishAuctionUC,
		getAuctionUC:    getAuctionUC,
	}
}

// PlaceBid implements AuctionService.
func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) result.Result[domain.Bid] {
	return as.placeBidUC.Execute(ctx, cmd)
}

// FinishAuction implements AuctionService.
func (as *auctionService) FinishAuction(ctx context.Context, cmd FinishAuctionDTO) result.Result[*domain.Auction] {
	return as.finishAuctionUC.Execute(ctx, cmd)
}

// GetAuction implements AuctionService.
func (as *auctionService) GetAuction(ctx context.Context, auctionID string) result.Result[*AuctionStateDTO] {
	return as.getAuctionUC.Execute(ctx, auctionID)
}
