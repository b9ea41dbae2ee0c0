package events

// HasPendingEvents is the capability the dispatcher needs from an aggregate.
type HasPendingEvents interface {
	ID() string
	DomainEvents() []DomainEvent
	ClearEvents()
}

// Marker receives aggregates that recorded events not yet dispatched.
type Marker interface {
	MarkAggregateForDispatch(aggregate HasPendingEvents)
}

// AggregateRoot gives an aggregate its identity and an append-only event buffer.
// Embed it by value in the concrete aggregate.
type AggregateRoot struct {
	id      string
	pending []DomainEvent
	marker  Marker
}

func NewAggregateRoot(id string) AggregateRoot {
	return AggregateRoot{id: id}
}

func (r *AggregateRoot) ID() string { return r.id }

// Equals compares aggregates by identity.
func (r *AggregateRoot) Equals(other HasPendingEvents) bool {
	return other != nil && r.id == other.ID()
}

// AttachDispatcher binds the aggregate to a marker. Events already buffered are
// announced immediately, later ones as they are recorded.
func (r *AggregateRoot) AttachDispatcher(m Marker) {
	r.marker = m
	if m != nil && len(r.pending) > 0 {
		m.MarkAggregateForDispatch(r)
	}
}

// AddDomainEvent buffers e and marks the aggregate for dispatch.
func (r *AggregateRoot) AddDomainEvent(e DomainEvent) {
	r.pending = append(r.pending, e)
	if r.marker != nil {
		r.marker.MarkAggregateForDispatch(r)
	}
}

// DomainEvents returns a copy of the buffered events in recording order.
func (r *AggregateRoot) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *AggregateRoot) ClearEvents() {
	r.pending = nil
}
