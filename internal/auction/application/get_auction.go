package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
	"github.com/shopspring/decimal"
)

// BidDTO is a single accepted bid exposed to the UI/WS
type BidDTO struct {
	ID       string          `json:"id"`
	BidderID string          `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// AuctionStateDTO is the output DTO exposing the auction state to the UI/WS
type AuctionStateDTO struct {
	AuctionID     string          `json:"auction_id"`
	SellerID      string          `json:"seller_id"`
	VinylID       string          `json:"vinyl_id"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	EndDate       time.Time       `json:"end_date"`
	Status        string          `json:"status"`
	LastBidUserID string          `json:"last_bid_user_id,omitempty"`
	Bids          []BidDTO        `json:"bids"`
}

// GetAuctionUseCase retrieves the current state of an auction
type GetAuctionUseCase struct {
	auctionRepo domain.AuctionRepository
}

// NewGetAuctionUseCase creates a new instance of GetAuctionUseCase.
func NewGetAuctionUseCase(auctionRepo domain.AuctionRepository) *GetAuctionUseCase {
	return &GetAuctionUseCase{auctionRepo: auctionRepo}
}

func (uc *GetAuctionUseCase) Execute(ctx context.Context, auctionID string) result.Result[*AuctionStateDTO] {
	auction, err := uc.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return result.Fail[*AuctionStateDTO](fmt.Errorf("get auction use case: failed to get auction %s: %w", auctionID, err))
	}
	if auction == nil {
		return result.Fail[*AuctionStateDTO](domain.ErrAuctionNotFound)
	}
	return result.Ok(NewAuctionStateDTO(auction))
}

// NewAuctionStateDTO maps the aggregate to its read model.
func NewAuctionStateDTO(a *domain.Auction) *AuctionStateDTO {
	dto := &AuctionStateDTO{
		AuctionID:     a.ID(),
		SellerID:      a.SellerID(),
		VinylID:       a.VinylID(),
		StartingPrice: a.StartingPrice(),
		CurrentPrice:  a.CurrentPrice(),
		EndDate:       a.EndDate(),
		Status:        string(a.Status()),
		Bids:          []BidDTO{},
	}
	if last, ok := a.CurrentBid(); ok {
		dto.LastBidUserID = last.BidderID
	}
	for _, b := range a.Bids() {
		dto.Bids = append(dto.Bids, BidDTO{ID: b.ID, BidderID: b.BidderID, Amount: b.Amount, Date: b.Date})
	}
	return dto
}
