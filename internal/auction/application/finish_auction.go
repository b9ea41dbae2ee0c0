package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	collection "github.com/cristianortiz/vinylAuction/internal/collection/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"github.com/cristianortiz/vinylAuction/internal/shared/events"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
	"go.uber.org/zap"
)

// ErrTransferFailed wraps failures of the vinyl transfer that follows a finished auction.
var ErrTransferFailed = errors.New("vinyl transfer failed")

// FinishAuctionDTO is the input of FinishAuctionUseCase
type FinishAuctionDTO struct {
	AuctionID string
}

// FinishAuctionUseCase closes an auction and moves the vinyl to the winner's collection.
type FinishAuctionUseCase struct {
	auctionRepo    domain.AuctionRepository
	collectionRepo collection.VinylCollectionRepository
	dispatcher     *events.Dispatcher
	clock          clock.Clock
	locks          *AuctionLocks
}

// NewFinishAuctionUseCase creates a new instance of FinishAuctionUseCase, dependencies are injected
func NewFinishAuctionUseCase(auctionRepo domain.AuctionRepository,
	collectionRepo collection.VinylCollectionRepository,
	dispatcher *events.Dispatcher,
	clk clock.Clock,
	locks *AuctionLocks) *FinishAuctionUseCase {

	return &FinishAuctionUseCase{
		auctionRepo:    auctionRepo,
		collectionRepo: collectionRepo,
		dispatcher:     dispatcher,
		clock:          clk,
		locks:          locks,
	}
}

// SetupSubscriptions registers the AuctionFinished transfer handler.
func (uc *FinishAuctionUseCase) SetupSubscriptions() {
	uc.dispatcher.OnAuctionFinished(uc.onAuctionFinished)
}

// onAuctionFinished moves the auctioned vinyl from the seller to the winner.
// Both collections are written with one SaveAll, so either both change or neither does.
func (uc *FinishAuctionUseCase) onAuctionFinished(ctx context.Context, e events.AuctionFinished) error {
	winnerID, ok := e.Winner()
	if !ok {
		log.Info("Auction finished without bids, nothing to transfer",
			zap.String("auctionID", e.AuctionID))
		return nil
	}

	auction, err := uc.auctionRepo.GetByID(ctx, e.AuctionID)
	if err != nil {
		return fmt.Errorf("%w: failed to get auction %s: %w", ErrTransferFailed, e.AuctionID, err)
	}
	if auction == nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, domain.ErrAuctionNotFound)
	}
	if !auction.IsFinished() {
		return fmt.Errorf("%w: %w", ErrTransferFailed, domain.ErrAuctionNotClosed)
	}

	sellerCollection, err := uc.collectionRepo.GetByUserID(ctx, e.SellerID)
	if err != nil {
		return fmt.Errorf("%w: failed to get collection %s: %w", ErrTransferFailed, e.SellerID, err)
	}
	winnerCollection, err := uc.collectionRepo.GetByUserID(ctx, winnerID)
	if err != nil {
		return fmt.Errorf("%w: failed to get collection %s: %w", ErrTransferFailed, winnerID, err)
	}
	if sellerCollection == nil || winnerCollection == nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, collection.ErrCollectionNotFound)
	}

	removed := sellerCollection.RemoveVinylByID(e.VinylID)
	if removed.IsFailure() {
		return fmt.Errorf("%w: %w", ErrTransferFailed, removed.Err())
	}
	added := winnerCollection.AddVinyl(removed.Value())
	if added.IsFailure() {
		return fmt.Errorf("%w: %w", ErrTransferFailed, added.Err())
	}

	if err := uc.collectionRepo.SaveAll(ctx, winnerCollection, sellerCollection); err != nil {
		return fmt.Errorf("%w: failed to save collections: %w", ErrTransferFailed, err)
	}

	log.Info("Vinyl transferred to auction winner",
		zap.String("auctionID", e.AuctionID),
		zap.String("vinylID", e.VinylID),
		zap.String("sellerID", e.SellerID),
		zap.String("winnerID", winnerID),
	)
	return nil
}

func (uc *FinishAuctionUseCase) Execute(ctx context.Context, cmd FinishAuctionDTO) result.Result[*domain.Auction] {
	log.Info("Executing FinishAuctionUseCase", zap.String("auctionID", cmd.AuctionID))

	unlock := uc.locks.Lock(cmd.AuctionID)
	defer unlock()

	auction, err := uc.auctionRepo.GetByID(ctx, cmd.AuctionID)
	if err != nil {
		log.Error("FinishAuctionUseCase: Failed to get auction",
			zap.String("auctionID", cmd.AuctionID),
			zap.Error(err),
		)
		return result.Fail[*domain.Auction](fmt.Errorf("finish auction use case: failed to get auction %s: %w", cmd.AuctionID, err))
	}
	if auction == nil {
		return result.Fail[*domain.Auction](domain.ErrAuctionNotFound)
	}
	auction.AttachDispatcher(uc.dispatcher)

	finished := auction.Finish(uc.clock.Now())
	if finished.IsFailure() {
		return finished
	}

	if err := uc.auctionRepo.Save(ctx, auction); err != nil {
		uc.dispatcher.DiscardEventsForAggregate(auction.ID())
		log.Error("FinishAuctionUseCase: Failed to save auction",
			zap.String("auctionID", cmd.AuctionID),
			zap.Error(err),
		)
		return result.Fail[*domain.Auction](fmt.Errorf("finish auction use case: failed to save auction %s: %w", cmd.AuctionID, err))
	}

	// The auction stays closed even if the transfer fails. It is no longer open, so the
	// closer will not pick it up again: the vinyl has to be moved by hand.
	if err := uc.dispatcher.DispatchEventsForAggregate(ctx, auction.ID()); err != nil {
		fields := []zap.Field{
			zap.String("auctionID", cmd.AuctionID),
			zap.Error(err),
		}
		if errors.Is(err, ErrTransferFailed) {
			winner, _ := auction.CurrentBid()
			fields = append(fields,
				zap.Bool("manualTransferRequired", true),
				zap.String("vinylID", auction.VinylID()),
				zap.String("sellerID", auction.SellerID()),
				zap.String("winnerID", winner.BidderID),
			)
		}
		log.Error("FinishAuctionUseCase: Event dispatch failed", fields...)
		return result.Fail[*domain.Auction](err)
	}

	return finished
}
