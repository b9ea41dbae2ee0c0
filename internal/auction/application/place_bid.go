package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"github.com/cristianortiz/vinylAuction/internal/shared/events"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidDTO is the input of PlaceBidUseCase
type PlaceBidDTO struct {
	AuctionID string
	BidderID  string
	Amount    decimal.Decimal
}

// PlaceBidUseCase places a bid on an auction and notifies the bidders involved.
type PlaceBidUseCase struct {
	auctionRepo domain.AuctionRepository
	notifier    domain.NotificationService
	dispatcher  *events.Dispatcher
	clock       clock.Clock
	locks       *AuctionLocks
}

// NewPlaceBidUseCase creates a new instance of PlaceBidUseCase, dependencies are injected
func NewPlaceBidUseCase(auctionRepo domain.AuctionRepository,
	notifier domain.NotificationService,
	dispatcher *events.Dispatcher,
	clk clock.Clock,
	locks *AuctionLocks) *PlaceBidUseCase {

	return &PlaceBidUseCase{
		auctionRepo: auctionRepo,
		notifier:    notifier,
		dispatcher:  dispatcher,
		clock:       clk,
		locks:       locks,
	}
}

// SetupSubscriptions registers the BidPlaced notification handler.
func (uc *PlaceBidUseCase) SetupSubscriptions() {
	uc.dispatcher.OnBidPlaced(uc.onBidPlaced)
}

// onBidPlaced notifies the new bidder and the outbid one. Notifications are best
// effort, a failed delivery is logged and never fails the bid.
func (uc *PlaceBidUseCase) onBidPlaced(ctx context.Context, e events.BidPlaced) error {
	if err := uc.notifier.SendBidPlacedNotification(ctx, e.NewBidUserID); err != nil {
		log.Warn("Bid placed notification failed",
			zap.String("auctionID", e.AuctionID),
			zap.String("recipient", e.NewBidUserID),
			zap.Error(err),
		)
	}
	if previous, ok := e.PreviousBidder(); ok {
		if err := uc.notifier.SendOverbidNotification(ctx, previous); err != nil {
			log.Warn("Overbid notification failed",
				zap.String("auctionID", e.AuctionID),
				zap.String("recipient", previous),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) result.Result[domain.Bid] {
	log.Info("Executing PlaceBidUseCase",
		zap.String("auctionID", cmd.AuctionID),
		zap.String("bidderID", cmd.BidderID),
		zap.Stringer("amount", cmd.Amount),
	)
	unlock := uc.locks.Lock(cmd.AuctionID)
	defer unlock()

	// 1. load the aggregate
	auction, err := uc.auctionRepo.GetByID(ctx, cmd.AuctionID)
	if err != nil {
		log.Error("PlaceBidUseCase: Failed to get auction",
			zap.String("auctionID", cmd.AuctionID),
			zap.Error(err),
		)
		return result.Fail[domain.Bid](fmt.Errorf("place bid use case: failed to get auction %s: %w", cmd.AuctionID, err))
	}
	if auction == nil {
		return result.Fail[domain.Bid](domain.ErrAuctionNotFound)
	}
	auction.AttachDispatcher(uc.dispatcher)

	// 2. build the bid, non positive amounts are rejected here
	bid, err := domain.CreateBid(cmd.BidderID, cmd.Amount, uc.clock.Now())
	if err != nil {
		log.Warn("PlaceBidUseCase: Invalid bid",
			zap.String("auctionID", cmd.AuctionID),
			zap.Stringer("amount", cmd.Amount),
			zap.Error(err),
		)
		return result.Fail[domain.Bid](err)
	}

	// 3. domain command, business rules live in the aggregate
	placed := auction.PlaceBid(bid)
	if placed.IsFailure() {
		return placed
	}

	// 4. persist before dispatching so subscribers observe the stored state
	if err := uc.auctionRepo.Save(ctx, auction); err != nil {
		uc.dispatcher.DiscardEventsForAggregate(auction.ID())
		log.Error("PlaceBidUseCase: Failed to save auction",
			zap.String("auctionID", cmd.AuctionID),
			zap.String("bidID", bid.ID),
			zap.Error(err),
		)
		return result.Fail[domain.Bid](fmt.Errorf("place bid use case: failed to save auction %s: %w", cmd.AuctionID, err))
	}

	// 5. flush BidPlaced to subscribers
	if err := uc.dispatcher.DispatchEventsForAggregate(ctx, auction.ID()); err != nil {
		log.Error("PlaceBidUseCase: Event dispatch failed",
			zap.String("auctionID", cmd.AuctionID),
			zap.Error(err),
		)
	}

	return placed
}
