/* pools.go
 * Contains the methods for interacting with the pools collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"confidence-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatePool inserts a new pool
// Preconditions: Receives context and the pool to insert. The pool's dates and game count have already been validated
// Postconditions: Returns the stored pool with its id and timestamps set, or an error if it occurs
func (s *Store) CreatePool(ctx context.Context, pool Pool) (Pool, error) {
	now := s.Clock.Now()
	pool.ID = primitive.NewObjectID()
	pool.CreatedAt = now
	pool.UpdatedAt = now
	if pool.Participants == nil {
		pool.Participants = []primitive.ObjectID{}
	}

	if _, err := s.Collections.Pools.InsertOne(ctx, pool); err != nil {
		return Pool{}, storageError("failed to insert new pool", err)
	}
	return pool, nil
}

// GetPool does DB lookup for a pool by id
// Preconditions: Receives context and pool id
// Postconditions: Returns the pool, an ErrNotFound error if it does not exist, or an error if it occurs
func (s *Store) GetPool(ctx context.Context, poolID primitive.ObjectID) (Pool, error) {
	var pool Pool
	err := s.Collections.Pools.FindOne(ctx, bson.M{"_id": poolID}).Decode(&pool)
	if err != nil {
		return Pool{}, notFound("pool", err)
	}
	return pool, nil
}

// UpdatePool updates the settings of an existing pool. Participants are not touched, use AddPoolParticipant and
// RemovePoolParticipant for membership
// Preconditions: Receives context and the pool with updated settings
// Postconditions: Updates the pool in the db, or returns an error if it does not exist or the update fails
func (s *Store) UpdatePool(ctx context.Context, pool Pool) error {
	update := bson.M{
		"$set": bson.M{
			"name":       pool.Name,
			"round":      pool.Round,
			"startdate":  pool.StartDate,
			"enddate":    pool.EndDate,
			"totalgames": pool.TotalGames,
			"entryfee":   pool.EntryFee,
			"updatedat":  s.Clock.Now(),
		},
	}
	res, err := s.Collections.Pools.UpdateOne(ctx, bson.M{"_id": pool.ID}, update)
	if err != nil {
		return storageError("failed to update pool", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("pool %w", shared.ErrNotFound)
	}
	return nil
}

// ListAdminPools gets every pool administered by a participant, newest first
// Preconditions: Receives context and admin participant id
// Postconditions: Returns slice of pools (possibly empty), or an error if it occurs
func (s *Store) ListAdminPools(ctx context.Context, adminID primitive.ObjectID) ([]Pool, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})
	cursor, err := s.Collections.Pools.Find(ctx, bson.M{"admin": adminID}, opts)
	if err != nil {
		return nil, storageError("error fetching pools from db", err)
	}

	pools := []Pool{}
	if err = cursor.All(ctx, &pools); err != nil {
		return nil, storageError("error unpacking cursor into slice of pools", err)
	}
	return pools, nil
}

// AddPoolParticipant adds a participant to a pool's participant set. Adding an existing participant is a no-op
// Preconditions: Receives context, pool id and participant id
// Postconditions: Participant is in the pool's participant set, or an error is returned
func (s *Store) AddPoolParticipant(ctx context.Context, poolID, participantID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"participants": participantID},
		"$set":      bson.M{"updatedat": s.Clock.Now()},
	}
	res, err := s.Collections.Pools.UpdateOne(ctx, bson.M{"_id": poolID}, update)
	if err != nil {
		return storageError("failed to add participant to pool", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("pool %w", shared.ErrNotFound)
	}
	return nil
}

// RemovePoolParticipant removes a participant from a pool's participant set. A missing pool is not an error
// Preconditions: Receives context, pool id and participant id
// Postconditions: Participant is no longer in the pool's participant set, or an error is returned
func (s *Store) RemovePoolParticipant(ctx context.Context, poolID, participantID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"participants": participantID},
		"$set":  bson.M{"updatedat": s.Clock.Now()},
	}
	if _, err := s.Collections.Pools.UpdateOne(ctx, bson.M{"_id": poolID}, update); err != nil {
		return storageError("failed to remove participant from pool", err)
	}
	return nil
}
