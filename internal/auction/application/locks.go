package application

import "sync"

// AuctionLocks serializes commands per auction id. Reading the current price and
// appending a bid must not interleave with another command on the same auction.
type AuctionLocks struct {
	mu    sync.Mutex
	locks map[string]*auctionLock
}

type auctionLock struct {
	mu   sync.Mutex
	refs int
}

func NewAuctionLocks() *AuctionLocks {
	return &AuctionLocks{locks: make(map[string]*auctionLock)}
}

// Lock blocks until the auction id is free and returns the matching unlock.
func (l *AuctionLocks) Lock(auctionID string) (unlock func()) {
	l.mu.Lock()
	lk, ok := l.locks[auctionID]
	if !ok {
		lk = &auctionLock{}
		l.locks[auctionID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, auctionID)
		}
		l.mu.Unlock()
	}
}

func (l *AuctionLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
