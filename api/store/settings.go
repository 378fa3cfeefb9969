/* settings.go
 * Contains the methods for interacting with the settings collection. The collection holds exactly one document, which
 * records the pool currently in play
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"confidence-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetActivePoolID returns the id of the pool currently in play
// Preconditions: Receives context
// Postconditions: Returns the active pool id, ErrNoActivePool if none has been set, or an error if it occurs
func (s *Store) GetActivePoolID(ctx context.Context) (primitive.ObjectID, error) {
	var settings Settings
	err := s.Collections.Settings.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, shared.ErrNoActivePool
		}
		return primitive.NilObjectID, storageError("error fetching settings from db", err)
	}
	if settings.ActivePoolID.IsZero() {
		return primitive.NilObjectID, shared.ErrNoActivePool
	}
	return settings.ActivePoolID, nil
}

// SetActivePoolID records the pool currently in play. Only one pool can be active because there is only one
// settings document
// Preconditions: Receives context and the pool id
// Postconditions: Settings document is created or updated, or an error is returned
func (s *Store) SetActivePoolID(ctx context.Context, poolID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"activepoolid": poolID,
			"updatedat":    s.Clock.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.Collections.Settings.UpdateOne(ctx, bson.M{"_id": settingsID}, update, opts); err != nil {
		return storageError(fmt.Sprintf("failed to set active pool %s", poolID.Hex()), err)
	}
	return nil
}
