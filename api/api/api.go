/* api.go
 * This file contains the API type, the entry point for interacting with the confidence pool. Callers (the web server
 * and the discord bot) should only use the methods on API, not the sub packages for storage, logic and events.
 * Methods are split by area: pools.go, games.go, participants.go, picks.go and standings.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"

	"confidence-pool/api/events"
	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// API provides methods for interacting with the confidence pool data layer
type API struct {
	Store store.Interface
	Bus   events.Bus
	Clock clockwork.Clock

	// DefaultTotalGames is used for new pools that do not set a game count and for stored pools without one
	DefaultTotalGames int
}

// New creates an API around an existing store and bus. The pick recomputation step is subscribed to the bus here
// Preconditions: Receives a store, an optional bus (an in-process bus is used when nil) and an optional clock
// Postconditions: Returns the API, or an error if the recomputation step could not subscribe to the bus
func New(s store.Interface, bus events.Bus, clock clockwork.Clock) (*API, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	if bus == nil {
		bus = events.NewLocalBus()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if err := events.NewRecomputer(s).Attach(bus); err != nil {
		return nil, fmt.Errorf("failed to subscribe recomputer: %w", err)
	}

	return &API{
		Store:             s,
		Bus:               bus,
		Clock:             clock,
		DefaultTotalGames: store.DefaultTotalGames,
	}, nil
}

// NewAPI creates a new API instance connected to mongo
// Preconditions: Receives context, database name, mongo URI and an optional bus
// Postconditions: Returns the API, or an error if it occurs
func NewAPI(ctx context.Context, dbName string, mongoURI string, bus events.Bus) (*API, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI are required")
	}
	clock := clockwork.NewRealClock()

	s, err := store.NewStore(ctx, dbName, mongoURI, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return New(s, bus, clock)
}

// Close closes the bus and the store connection
func (a *API) Close(ctx context.Context) error {
	var errs []error
	if err := a.Bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close bus: %w", err))
	}
	if err := a.Store.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disconnect store: %w", err))
	}
	return errors.Join(errs...)
}

// totalGames returns the configured number of games for a pool
func (a *API) totalGames(pool store.Pool) int {
	if pool.TotalGames > 0 {
		return pool.TotalGames
	}
	if a.DefaultTotalGames > 0 {
		return a.DefaultTotalGames
	}
	return store.DefaultTotalGames
}

// requirePoolAdmin loads a pool and checks that the caller administers it
func (a *API) requirePoolAdmin(ctx context.Context, poolID, callerID primitive.ObjectID) (store.Pool, error) {
	pool, err := a.Store.GetPool(ctx, poolID)
	if err != nil {
		return store.Pool{}, err
	}
	if pool.Admin != callerID {
		return store.Pool{}, fmt.Errorf("%w: you are not the admin of this pool", shared.ErrForbidden)
	}
	return pool, nil
}

// activePool loads the pool currently in play
func (a *API) activePool(ctx context.Context) (store.Pool, error) {
	poolID, err := a.Store.GetActivePoolID(ctx)
	if err != nil {
		return store.Pool{}, err
	}
	pool, err := a.Store.GetPool(ctx, poolID)
	if errors.Is(err, shared.ErrNotFound) {
		log.Warn().Str("pool_id", poolID.Hex()).Msg("active pool no longer exists")
		return store.Pool{}, shared.ErrNoActivePool
	}
	return pool, err
}
