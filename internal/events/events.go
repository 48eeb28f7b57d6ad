package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents the kinds of events the engine emits
type EventType string

const (
	EventTypeLoanIssued          EventType = "loan.issued"
	EventTypeLoanRepaid          EventType = "loan.repaid"
	EventTypeLoanUpdated         EventType = "loan.updated"
	EventTypeReturnsDistributed  EventType = "returns.distributed"
	EventTypeAuthorityConfigured EventType = "authority.configured"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

type LoanIssuedEvent struct {
	LoanID   uint64 `json:"loan_id"`
	Business string `json:"business"`
	Creator  string `json:"creator"`
	Amount   int64  `json:"amount"`
	Fee      int64  `json:"fee"`
}

func (e LoanIssuedEvent) Type() EventType { return EventTypeLoanIssued }

// LoanRepaidEvent carries Closed=true for the repayment that completed the loan.
type LoanRepaidEvent struct {
	LoanID       uint64 `json:"loan_id"`
	Amount       int64  `json:"amount"`
	RepaidAmount int64  `json:"repaid_amount"`
	Closed       bool   `json:"closed"`
}

func (e LoanRepaidEvent) Type() EventType { return EventTypeLoanRepaid }

type LoanUpdatedEvent struct {
	LoanID       uint64 `json:"loan_id"`
	Amount       int64  `json:"amount"`
	InterestRate int64  `json:"interest_rate"`
	Updater      string `json:"updater"`
}

func (e LoanUpdatedEvent) Type() EventType { return EventTypeLoanUpdated }

type ReturnsDistributedEvent struct {
	LoanID      uint64 `json:"loan_id"`
	Business    string `json:"business"`
	Multiplier  int64  `json:"multiplier"`
	TotalReturn int64  `json:"total_return"`
	Burned      int64  `json:"burned"`
}

func (e ReturnsDistributedEvent) Type() EventType { return EventTypeReturnsDistributed }

type AuthorityConfiguredEvent struct {
	Identity string `json:"identity"`
}

func (e AuthorityConfiguredEvent) Type() EventType { return EventTypeAuthorityConfigured }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
	ordered  []Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// SubscribeOrdered adds a handler that receives every event on the emitting
// goroutine, in emit order. It must return quickly; StreamSink.Handle only queues.
func (b *Bus) SubscribeOrdered(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ordered = append(b.ordered, handler)
}

// Emit publishes an event to all registered handlers. Ordered handlers run first,
// inline; the rest run on their own goroutines. A panicking handler is logged and
// does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	ordered := append([]Handler(nil), b.ordered...)
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.all))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(ordered) + len(handlers),
	}).Debug("Emitting event to handlers")

	for i, h := range ordered {
		dispatch(ctx, event, h, i)
	}
	for i, h := range handlers {
		go dispatch(ctx, event, h, len(ordered)+i)
	}
}

func dispatch(ctx context.Context, event Event, h Handler, handlerIndex int) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": handlerIndex,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()
	h(ctx, event)
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. A nil underlying bus drops the events.
func (b *TransactionalBus) Flush() {
	if b.real != nil {
		// handlers outlive the request, so they get a fresh context
		eventCtx := context.Background()
		for _, ev := range b.pending {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
}

// Discard is called after a rollback.
func (b *TransactionalBus) Discard() {
	if len(b.pending) > 0 {
		log.WithField("pendingEventCount", len(b.pending)).Debug("Discarding events of rolled back transaction")
	}
	b.pending = nil
}

// Pending returns the events waiting for commit.
func (b *TransactionalBus) Pending() []Event { return b.pending }
