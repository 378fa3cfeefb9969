/* nats.go
 * Contains the NATS backed bus, used when the api and the recomputation step run as separate processes or when more
 * than one api instance is deployed
 * Authors: Zachary Bower
 */

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// DefaultSubject is the subject game result events are published on
const DefaultSubject = "confidencepool.events.game-result"

// NATSConfig holds configuration for the NATS connection
type NATSConfig struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultNATSConfig returns default NATS configuration
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Subject:       DefaultSubject,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// NATSBus is a Bus backed by core NATS publish/subscribe
type NATSBus struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
	mu      sync.Mutex
	subs    []*nats.Subscription
}

// NewNATSBus connects to NATS
// Preconditions: Receives NATS configuration with a non empty URL
// Postconditions: Returns a connected bus, or an error if the connection fails
func NewNATSBus(cfg NATSConfig) (*NATSBus, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url cannot be empty")
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}

	opts := []nats.Option{
		nats.Name("confidence-pool"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = nats.DefaultTimeout
	}
	opts = append(opts, nats.Timeout(cfg.Timeout))

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Str("subject", cfg.Subject).Msg("connected to NATS")
	return &NATSBus{nc: nc, subject: cfg.Subject, timeout: cfg.Timeout}, nil
}

// Publish sends an event and flushes the connection so the server has it before returning
func (b *NATSBus) Publish(ctx context.Context, event GameResultRecorded) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := eventMsg(b.subject, event)
	if err != nil {
		return err
	}
	if err := b.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := b.nc.FlushTimeout(b.timeout); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}

	log.Debug().
		Str("event_id", event.ID.String()).
		Str("game_id", event.GameID.Hex()).
		Msg("published game result event")
	return nil
}

// eventMsg builds the core NATS message carrying an event
func eventMsg(subject string, event GameResultRecorded) (*nats.Msg, error) {
	data, err := encodeEvent(event)
	if err != nil {
		return nil, err
	}
	return &nats.Msg{Subject: subject, Data: data}, nil
}

// Subscribe registers a handler for events on the bus subject. Handler failures are logged; core NATS has no
// redelivery
func (b *NATSBus) Subscribe(handler Handler) error {
	sub, err := b.nc.Subscribe(b.subject, func(msg *nats.Msg) {
		event, err := decodeEvent(msg.Data)
		if err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("dropping malformed event")
			return
		}
		if err := handler(context.Background(), event); err != nil {
			log.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("game_id", event.GameID.Hex()).
				Msg("failed to handle game result event")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.subject, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

// Close drains subscriptions and closes the connection
func (b *NATSBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe")
		}
	}
	b.subs = nil
	return b.nc.Drain()
}
