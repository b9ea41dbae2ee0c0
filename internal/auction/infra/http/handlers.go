package http

import (
	"errors"
	"time"

	"github.com/cristianortiz/vinylAuction/internal/auction/application"
	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// business rule violations, reported as 422
var unprocessable = []error{
	domain.ErrInvalidBidAmount,
	domain.ErrBidAmountTooLow,
	domain.ErrBidOutsidePeriod,
	domain.ErrBiddingClosed,
	domain.ErrSellerSelfBid,
	domain.ErrAuctionNotOpen,
	domain.ErrAuctionNotEnded,
	domain.ErrAuctionNotClosed,
}

// PlaceBidRequest is the body of POST /auctions/:id/bids
type PlaceBidRequest struct {
	BidderID string          `json:"bidderId"`
	Amount   decimal.Decimal `json:"amount"`
}

// BidResponse is returned for an accepted bid
type BidResponse struct {
	ID       string          `json:"id"`
	BidderID string          `json:"bidderId"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuctionHandler exposes the auction use cases over REST
type AuctionHandler struct {
	auctionService application.AuctionService
}

func NewAuctionHandler(auctionService application.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

// RegisterRoutes mounts the auction endpoints on router.
func (h *AuctionHandler) RegisterRoutes(router fiber.Router) {
	auctions := router.Group("/auctions")
	auctions.Get("/:id", h.getAuction)
	auctions.Post("/:id/bids", h.placeBid)
	auctions.Post("/:id/finish", h.finishAuction)
}

func (h *AuctionHandler) placeBid(c *fiber.Ctx) error {
	var req PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.BidderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "bidderId is required"})
	}

	placed := h.auctionService.PlaceBid(c.UserContext(), application.PlaceBidDTO{
		AuctionID: c.Params("id"),
		BidderID:  req.BidderID,
		Amount:    req.Amount,
	})
	if placed.IsFailure() {
		return writeError(c, placed.Err())
	}
	bid := placed.Value()
	return c.Status(fiber.StatusCreated).JSON(BidResponse{
		ID:       bid.ID,
		BidderID: bid.BidderID,
		Amount:   bid.Amount,
		Date:     bid.Date,
	})
}

func (h *AuctionHandler) finishAuction(c *fiber.Ctx) error {
	finished := h.auctionService.FinishAuction(c.UserContext(), application.FinishAuctionDTO{AuctionID: c.Params("id")})
	if finished.IsFailure() {
		return writeError(c, finished.Err())
	}
	return c.JSON(application.NewAuctionStateDTO(finished.Value()))
}

func (h *AuctionHandler) getAuction(c *fiber.Ctx) error {
	state := h.auctionService.GetAuction(c.UserContext(), c.Params("id"))
	if state.IsFailure() {
		return writeError(c, state.Err())
	}
	return c.JSON(state.Value())
}

// writeError maps a use case failure to a status code.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, application.ErrTransferFailed):
		// the auction is closed, the vinyl could not be moved
	case errors.Is(err, domain.ErrAuctionNotFound):
		status = fiber.StatusNotFound
	case isUnprocessable(err):
		status = fiber.StatusUnprocessableEntity
	}
	if status == fiber.StatusInternalServerError {
		log.Error("Auction request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

func isUnprocessable(err error) bool {
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
