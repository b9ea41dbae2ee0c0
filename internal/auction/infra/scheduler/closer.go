package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/auction/application"
	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Finisher closes a single auction, implemented by application.AuctionService.
type Finisher interface {
	FinishAuction(ctx context.Context, cmd application.FinishAuctionDTO) result.Result[*domain.Auction]
}

// AuctionCloser periodically finishes open auctions whose end date has passed.
type AuctionCloser struct {
	cron     *cron.Cron
	finder   domain.ExpiredAuctionFinder
	finisher Finisher
	clock    clock.Clock
}

func NewAuctionCloser(finder domain.ExpiredAuctionFinder, finisher Finisher, clk clock.Clock) *AuctionCloser {
	return &AuctionCloser{
		cron:     cron.New(),
		finder:   finder,
		finisher: finisher,
		clock:    clk,
	}
}

// Start schedules the closer with a cron spec such as "@every 1m".
func (s *AuctionCloser) Start(ctx context.Context, spec string) error {
	log.Info("Starting auction closer", zap.String("schedule", spec))
	if _, err := s.cron.AddFunc(spec, func() { s.CloseExpired(ctx) }); err != nil {
		return fmt.Errorf("auction closer: invalid schedule %q: %w", spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (s *AuctionCloser) Stop() {
	log.Info("Stopping auction closer")
	<-s.cron.Stop().Done()
}

// CloseExpired finishes every due auction once and returns how many were closed.
// Failures are logged and left for the next pass.
func (s *AuctionCloser) CloseExpired(ctx context.Context) int {
	due, err := s.finder.GetOpenEndedBefore(ctx, s.clock.Now())
	if err != nil {
		log.Error("Auction closer: failed to list expired auctions", zap.Error(err))
		return 0
	}

	closed := 0
	for _, a := range due {
		r := s.finisher.FinishAuction(ctx, application.FinishAuctionDTO{AuctionID: a.ID()})
		if r.IsFailure() {
			if errors.Is(r.Err(), application.ErrTransferFailed) {
				// closed but not transferred, later passes will not see it again
				log.Error("Auction closer: auction closed, vinyl transfer needs manual action",
					zap.String("auctionID", a.ID()),
					zap.String("vinylID", a.VinylID()),
					zap.Bool("manualTransferRequired", true),
					zap.Error(r.Err()),
				)
				continue
			}
			log.Error("Auction closer: failed to finish auction",
				zap.String("auctionID", a.ID()),
				zap.Error(r.Err()),
			)
			continue
		}
		closed++
	}
	if len(due) > 0 {
		log.Info("Auction closer pass done", zap.Int("due", len(due)), zap.Int("closed", closed))
	}
	return closed
}
