package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Handler reacts to a dispatched event.
type Handler func(ctx context.Context, event DomainEvent) error

// Dispatcher keeps the subscriber registry and the worklist of aggregates with
// undispatched events. Handlers run synchronously, in registration order.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[Kind][]Handler
	marked   map[string]HasPendingEvents
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
		marked:   make(map[string]HasPendingEvents),
	}
}

// Register appends h to the handlers of kind. Registering an unknown kind panics.
func (d *Dispatcher) Register(kind Kind, h Handler) {
	if !kind.Valid() {
		panic(fmt.Sprintf("events: register for unknown kind %s", kind))
	}
	if h == nil {
		panic("events: register nil handler")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], h)
}

// OnBidPlaced registers a typed BidPlaced handler.
func (d *Dispatcher) OnBidPlaced(h func(ctx context.Context, e BidPlaced) error) {
	d.Register(KindBidPlaced, func(ctx context.Context, e DomainEvent) error {
		bp, ok := e.(BidPlaced)
		if !ok {
			return fmt.Errorf("events: expected BidPlaced, got %T", e)
		}
		return h(ctx, bp)
	})
}

// OnAuctionFinished registers a typed AuctionFinished handler.
func (d *Dispatcher) OnAuctionFinished(h func(ctx context.Context, e AuctionFinished) error) {
	d.Register(KindAuctionFinished, func(ctx context.Context, e DomainEvent) error {
		af, ok := e.(AuctionFinished)
		if !ok {
			return fmt.Errorf("events: expected AuctionFinished, got %T", e)
		}
		return h(ctx, af)
	})
}

// MarkAggregateForDispatch adds aggregate to the worklist. An aggregate with the
// same identity already marked is kept.
func (d *Dispatcher) MarkAggregateForDispatch(aggregate HasPendingEvents) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.marked[aggregate.ID()]; ok {
		return
	}
	d.marked[aggregate.ID()] = aggregate
}

// IsMarked reports whether the aggregate id has undispatched events.
func (d *Dispatcher) IsMarked(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.marked[id]
	return ok
}

// DispatchEventsForAggregate flushes the buffered events of the aggregate id.
// Unknown ids are a no-op. Every event reaches every handler once, even when
// some handlers fail; the buffer is cleared and the failures are returned combined.
func (d *Dispatcher) DispatchEventsForAggregate(ctx context.Context, id string) error {
	d.mu.Lock()
	aggregate, ok := d.marked[id]
	d.mu.Unlock()
	if !ok {
		return nil
	}

	var errs error
	for _, e := range aggregate.DomainEvents() {
		errs = multierr.Append(errs, d.Dispatch(ctx, e))
	}

	aggregate.ClearEvents()
	d.mu.Lock()
	if d.marked[id] == aggregate {
		delete(d.marked, id)
	}
	d.mu.Unlock()

	return errs
}

// DiscardEventsForAggregate drops the buffered events of the aggregate id without
// dispatching them. Used when the state that produced them could not be persisted.
func (d *Dispatcher) DiscardEventsForAggregate(id string) {
	d.mu.Lock()
	aggregate, ok := d.marked[id]
	delete(d.marked, id)
	d.mu.Unlock()
	if ok {
		aggregate.ClearEvents()
	}
}

// Dispatch delivers e to the handlers of its kind. Events without handlers are dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, e DomainEvent) error {
	d.mu.Lock()
	hs := append([]Handler(nil), d.handlers[e.Kind()]...)
	d.mu.Unlock()

	if len(hs) == 0 {
		log.Debug("No handlers for event, dropping",
			zap.Stringer("kind", e.Kind()),
			zap.String("aggregateID", e.AggregateID()),
		)
		return nil
	}

	var errs error
	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			log.Error("Event handler failed",
				zap.Stringer("kind", e.Kind()),
				zap.String("aggregateID", e.AggregateID()),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// ClearHandlers drops every registered handler.
func (d *Dispatcher) ClearHandlers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[Kind][]Handler)
}

// ClearMarkedAggregates empties the worklist without dispatching.
func (d *Dispatcher) ClearMarkedAggregates() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marked = make(map[string]HasPendingEvents)
}
