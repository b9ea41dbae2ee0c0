package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianortiz/vinylAuction/internal/shared/events"
)

type testAggregate struct {
	events.AggregateRoot
}

func newTestAggregate(id string, d *events.Dispatcher) *testAggregate {
	a := &testAggregate{AggregateRoot: events.NewAggregateRoot(id)}
	a.AttachDispatcher(d)
	return a
}

func bidPlaced(aggID, bidder, previous string) events.BidPlaced {
	return events.BidPlaced{
		AuctionID:         aggID,
		NewBidUserID:      bidder,
		PreviousBidUserID: previous,
		Amount:            decimal.NewFromInt(150),
		At:                time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestDispatchEventsForAggregate_DeliversOnce(t *testing.T) {
	d := events.NewDispatcher()
	var got []events.BidPlaced
	d.OnBidPlaced(func(_ context.Context, e events.BidPlaced) error {
		got = append(got, e)
		return nil
	})

	agg := newTestAggregate("a1", d)
	agg.AddDomainEvent(bidPlaced("a1", "bidder1", ""))
	require.True(t, d.IsMarked("a1"))

	require.NoError(t, d.DispatchEventsForAggregate(context.Background(), "a1"))
	require.Len(t, got, 1)
	assert.Equal(t, "bidder1", got[0].NewBidUserID)
	assert.Empty(t, agg.DomainEvents())
	assert.False(t, d.IsMarked("a1"))

	// A second flush has nothing left to deliver.
	require.NoError(t, d.DispatchEventsForAggregate(context.Background(), "a1"))
	assert.Len(t, got, 1)
}

func TestDispatchEventsForAggregate_UnmarkedIsNoop(t *testing.T) {
	d := events.NewDispatcher()
	calls := 0
	d.Register(events.KindBidPlaced, func(context.Context, events.DomainEvent) error {
		calls++
		return nil
	})

	// Aggregate records events but was never attached to this dispatcher.
	agg := &testAggregate{AggregateRoot: events.NewAggregateRoot("a1")}
	agg.AddDomainEvent(bidPlaced("a1", "bidder1", ""))

	require.NoError(t, d.DispatchEventsForAggregate(context.Background(), "a1"))
	assert.Zero(t, calls)
	assert.Len(t, agg.DomainEvents(), 1)
}

func TestDispatch_HandlerAndEventOrder(t *testing.T) {
	d := events.NewDispatcher()
	var trace []string
	d.Register(events.KindBidPlaced, func(_ context.Context, e events.DomainEvent) error {
		trace = append(trace, "first:"+e.(events.BidPlaced).NewBidUserID)
		return nil
	})
	d.Register(events.KindBidPlaced, func(_ context.Context, e events.DomainEvent) error {
		trace = append(trace, "second:"+e.(events.BidPlaced).NewBidUserID)
		return nil
	})

	agg := newTestAggregate("a1", d)
	agg.AddDomainEvent(bidPlaced("a1", "u1", ""))
	agg.AddDomainEvent(bidPlaced("a1", "u2", "u1"))

	require.NoError(t, d.DispatchEventsForAggregate(context.Background(), "a1"))
	assert.Equal(t, []string{"first:u1", "second:u1", "first:u2", "second:u2"}, trace)
}

func TestDispatch_NoHandlersDropsEvent(t *testing.T) {
	d := events.NewDispatcher()
	err := d.Dispatch(context.Background(), events.AuctionFinished{AuctionID: "a1"})
	assert.NoError(t, err)
}

func TestDispatch_RoutesByKind(t *testing.T) {
	d := events.NewDispatcher()
	var bids, finishes int
	d.OnBidPlaced(func(context.Context, events.BidPlaced) error { bids++; return nil })
	d.OnAuctionFinished(func(context.Context, events.AuctionFinished) error { finishes++; return nil })

	require.NoError(t, d.Dispatch(context.Background(), events.AuctionFinished{AuctionID: "a1"}))
	assert.Equal(t, 0, bids)
	assert.Equal(t, 1, finishes)
}

func TestDispatchEventsForAggregate_ErrorsAreCombined(t *testing.T) {
	d := events.NewDispatcher()
	errA := errors.New("a failed")
	calledAfterFailure := false
	d.Register(events.KindBidPlaced, func(context.Context, events.DomainEvent) error { return errA })
	d.Register(events.KindBidPlaced, func(context.Context, events.DomainEvent) error {
		calledAfterFailure = true
		return nil
	})

	agg := newTestAggregate("a1", d)
	agg.AddDomainEvent(bidPlaced("a1", "u1", ""))

	err := d.DispatchEventsForAggregate(context.Background(), "a1")
	assert.ErrorIs(t, err, errA)
	assert.True(t, calledAfterFailure)
	assert.Empty(t, agg.DomainEvents())
	assert.False(t, d.IsMarked("a1"))
}

func TestMarkAggregateForDispatch_Idempotent(t *testing.T) {
	d := events.NewDispatcher()
	calls := 0
	d.OnBidPlaced(func(context.Context, events.BidPlaced) error { calls++; return nil })

	agg := newTestAggregate("a1", d)
	agg.AddDomainEvent(bidPlaced("a1", "u1", ""))
	d.MarkAggregateForDispatch(agg)
	d.MarkAggregateForDispatch(agg)

	require.NoError(t, d.DispatchEventsForAggregate(context.Background(), "a1"))
	assert.Equal(t, 1, calls)
}

func TestAttachDispatcher_MarksPendingEvents(t *testing.T) {
	d := events.NewDispatcher()
	agg := &testAggregate{AggregateRoot: events.NewAggregateRoot("a1")}
	agg.AddDomainEvent(bidPlaced("a1", "u1", ""))
	assert.False(t, d.IsMarked("a1"))

	agg.AttachDispatcher(d)
	assert.True(t, d.IsMarked("a1"))
}

func TestRegister_UnknownKindPanics(t *testing.T) {
	d := events.NewDispatcher()
	assert.Panics(t, func() {
		d.Register(events.Kind(99), func(context.Context, events.DomainEvent) error { return nil })
	})
}

func TestDispatchers_AreIsolated(t *testing.T) {
	d1, d2 := events.NewDispatcher(), events.NewDispatcher()
	var c1, c2 int
	d1.OnBidPlaced(func(context.Context, events.BidPlaced) error { c1++; return nil })
	d2.OnBidPlaced(func(context.Context, events.BidPlaced) error { c2++; return nil })

	agg := newTestAggregate("a1", d1)
	agg.AddDomainEvent(bidPlaced("a1", "u1", ""))

	require.NoError(t, d2.DispatchEventsForAggregate(context.Background(), "a1"))
	require.NoError(t, d1.DispatchEventsForAggregate(context.Background(), "a1"))
	assert.Equal(t, 1, c1)
	assert.Equal(t, 0, c2)
}

func TestClearHandlers(t *testing.T) {
	d := events.NewDispatcher()
	calls := 0
	d.OnBidPlaced(func(context.Context, events.BidPlaced) error { calls++; return nil })
	d.ClearHandlers()

	require.NoError(t, d.Dispatch(context.Background(), bidPlaced("a1", "u1", "")))
	assert.Zero(t, calls)
}

func TestEventAccessors(t *testing.T) {
	e := bidPlaced("a1", "u2", "u1")
	prev, ok := e.PreviousBidder()
	assert.True(t, ok)
	assert.Equal(t, "u1", prev)
	assert.Equal(t, "a1", e.AggregateID())
	assert.Equal(t, "BidPlaced", e.Kind().String())

	f := events.AuctionFinished{AuctionID: "a1"}
	_, ok = f.Winner()
	assert.False(t, ok)
	assert.Equal(t, "AuctionFinished", f.Kind().String())
	assert.Equal(t, "Kind(7)", events.Kind(7).String())
}

func TestAggregateRootEquals(t *testing.T) {
	a := events.NewAggregateRoot("x")
	b := events.NewAggregateRoot("x")
	c := events.NewAggregateRoot("y")
	assert.True(t, a.Equals(&b))
	assert.False(t, a.Equals(&c))
	assert.False(t, a.Equals(nil))
}

func TestDiscardEventsForAggregate(t *testing.T) {
	d := events.NewDispatcher()
	calls := 0
	d.OnBidPlaced(func(context.Context, events.BidPlaced) error { calls++; return nil })

	agg := newTestAggregate("a1", d)
	agg.AddDomainEvent(bidPlaced("a1", "u1", ""))
	d.DiscardEventsForAggregate("a1")

	assert.False(t, d.IsMarked("a1"))
	assert.Empty(t, agg.DomainEvents())
	require.NoError(t, d.DispatchEventsForAggregate(context.Background(), "a1"))
	assert.Zero(t, calls)
}
