// internal/events/handler.go
package events

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Handler receives events from the bus. Handle runs on the dispatch
// goroutine, so it must return quickly.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// PoolOf returns the pool an event refers to. Configuration and token
// events are not tied to a pool and report false.
func PoolOf(event Event) (solana.PublicKey, bool) {
	switch e := event.(type) {
	case *PoolCreatedEvent:
		return e.Pool, true
	case *LiquidityAddedEvent:
		return e.Pool, true
	case *LiquidityRemovedEvent:
		return e.Pool, true
	case *TradeEvent:
		return e.Trade.Pool, true
	}
	return solana.PublicKey{}, false
}

// ForPool drops pool events of other pools before they reach next.
// Events without a pool (configuration, lockdown, token issue) pass through.
func ForPool(pool solana.PublicKey, next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, event Event) error {
		if p, ok := PoolOf(event); ok && !p.Equals(pool) {
			return nil
		}
		return next.Handle(ctx, event)
	})
}

// Subscription is returned by Subscribe.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	id       string
	eventBus *Bus
	typ      EventType
}

// Unsubscribe removes the handler from the bus. Repeated calls are no-ops.
func (s *subscription) Unsubscribe() {
	s.eventBus.unsubscribe(s.id, s.typ)
}
