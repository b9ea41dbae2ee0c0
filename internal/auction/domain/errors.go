package domain

import "errors"

// Construction errors. Constructors refuse to build an invalid aggregate.
var (
	ErrInvalidStartingPrice = errors.New("Starting price must be greater than zero.")
	ErrEndDateNotInFuture   = errors.New("End date must be in the future.")
	ErrInvalidBidAmount     = errors.New("Bid amount must be greater than zero.")
	ErrInvalidStatus        = errors.New("auction status must be open or closed")
)

// Business failures returned through result.Result.
var (
	ErrBidAmountTooLow  = errors.New("Bid amount must be higher than the current price.")
	ErrBidOutsidePeriod = errors.New("Bid date must be within the auction period.")
	ErrBiddingClosed    = errors.New("Auction is not open")
	ErrSellerSelfBid    = errors.New("Seller cannot bid on their own auction")
	ErrAuctionNotOpen   = errors.New("Auction is not open.")
	ErrAuctionNotEnded  = errors.New("Auction is not finished yet.")
	ErrAuctionNotFound  = errors.New("Auction not found")
	ErrAuctionNotClosed = errors.New("Auction is not finished")
)
