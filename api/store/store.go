/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split by collection:
 * pools, games, participants, picks and settings. Each of these files contain methods for interacting with that
 * part of the database
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"confidence-pool/api/shared"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections holds the handles for each collection used by the store
type Collections struct {
	Pools        *mongo.Collection
	Games        *mongo.Collection
	Participants *mongo.Collection
	Picks        *mongo.Collection
	Settings     *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
	Clock       clockwork.Clock
}

// Function for initialising Store. Initialises db connection, collection handles and indexes
// Preconditions: Receives context, strings containing dbName and mongoURI, and the clock used for timestamps
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string, clock clockwork.Clock) (*Store, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI cannot be empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := newStoreFromDatabase(client, client.Database(dbName), clock)
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	log.Info().Str("database", dbName).Msg("connected to mongo")
	return s, nil
}

// newStoreFromDatabase wires the collection handles for an already connected database
func newStoreFromDatabase(client *mongo.Client, db *mongo.Database, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		Client:   client,
		Database: db,
		Clock:    clock,
		Collections: Collections{
			Pools:        db.Collection("pools"),
			Games:        db.Collection("games"),
			Participants: db.Collection("participants"),
			Picks:        db.Collection("picks"),
			Settings:     db.Collection("settings"),
		},
	}
}

// EnsureIndexes creates the indexes the store relies on. The picks index enforces one pick per picker, game and pool
// Preconditions: Receives context
// Postconditions: Indexes exist in the db, or an error is returned
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Collections.Picks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "participantid", Value: 1},
				{Key: "dependentid", Value: 1},
				{Key: "gameid", Value: 1},
				{Key: "poolid", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("picker_game_pool_unique"),
		},
		{Keys: bson.D{{Key: "poolid", Value: 1}}},
		{Keys: bson.D{{Key: "gameid", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create pick indexes: %w", err)
	}

	_, err = s.Collections.Games.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "poolid", Value: 1}, {Key: "gametime", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create game indexes: %w", err)
	}

	_, err = s.Collections.Participants.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participatingpools.poolid", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create participant indexes: %w", err)
	}
	return nil
}

// Disconnect closes the connection to mongo
func (s *Store) Disconnect(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}

// storageError wraps an unexpected driver error so callers can tell it apart from validation errors
func storageError(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, errors.Join(shared.ErrStorageFailure, err))
}

// notFound converts mongo.ErrNoDocuments into shared.ErrNotFound, wrapping any other error as a storage failure
func notFound(kind string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %w", kind, shared.ErrNotFound)
	}
	return storageError(fmt.Sprintf("error fetching %s from db", kind), err)
}
