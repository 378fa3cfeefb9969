/* local.go
 * Contains the in-process bus. Handlers run synchronously inside Publish, so the cascade has completed by the time
 * the request that recorded the result returns
 * Authors: Zachary Bower
 */

package events

import (
	"context"
	"errors"
	"sync"
)

// LocalBus is a Bus that delivers events to handlers in the publishing goroutine
type LocalBus struct {
	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

// NewLocalBus creates an empty in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// Publish runs every subscribed handler in subscription order
// Preconditions: Receives context and the event
// Postconditions: Every handler has run. Returns the errors of all failing handlers joined together
func (b *LocalBus) Publish(ctx context.Context, event GameResultRecorded) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return errors.New("bus is closed")
	}
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler
func (b *LocalBus) Subscribe(handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("bus is closed")
	}
	b.handlers = append(b.handlers, handler)
	return nil
}

// Close stops delivery. Publishing after Close returns an error
func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = nil
	return nil
}
