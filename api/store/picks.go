/* picks.go
 * Contains the methods for interacting with the picks collection. Every write is keyed by the
 * (participantid, dependentid, gameid, poolid) tuple, which is backed by a unique index
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"confidence-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertPick inserts a new pick
// Preconditions: Receives context and a validated pick
// Postconditions: Returns the stored pick, an ErrDuplicatePick error if the picker already has a pick for this game in
// this pool, or an error if it occurs
func (s *Store) InsertPick(ctx context.Context, pick Pick) (Pick, error) {
	now := s.Clock.Now()
	pick.ID = primitive.NewObjectID()
	pick.CreatedAt = now
	pick.UpdatedAt = now

	if _, err := s.Collections.Picks.InsertOne(ctx, pick); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Pick{}, fmt.Errorf("%w: game %s", shared.ErrDuplicatePick, pick.GameID.Hex())
		}
		return Pick{}, storageError("failed to insert new pick", err)
	}
	return pick, nil
}

// UpsertPick inserts a pick, or overwrites the selected team and confidence points of the picker's existing pick for
// the same game and pool. This is a single conditional upsert, there is no separate lookup
// Preconditions: Receives context and a validated pick
// Postconditions: Returns the pick as stored after the write, or an error if it occurs
func (s *Store) UpsertPick(ctx context.Context, pick Pick) (Pick, error) {
	filter, update := pickUpsert(pick, s.Clock.Now())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored Pick
	err := s.Collections.Picks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	// Two concurrent upserts on the same key can race on the insert. The loser gets a duplicate key error and
	// retrying turns it into an update of the winner's document
	if mongo.IsDuplicateKeyError(err) {
		err = s.Collections.Picks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return Pick{}, storageError("failed to upsert pick", err)
	}
	return stored, nil
}

// UpsertPicks upserts a batch of picks with one ordered bulk write. A failure stops the batch; picks before the failing
// one stay written
// Preconditions: Receives context and a slice of validated picks
// Postconditions: Returns the number of picks inserted or updated, or an error if it occurs
func (s *Store) UpsertPicks(ctx context.Context, picks []Pick) (int, error) {
	if len(picks) == 0 {
		return 0, nil
	}

	now := s.Clock.Now()
	models := make([]mongo.WriteModel, 0, len(picks))
	for _, pick := range picks {
		filter, update := pickUpsert(pick, now)
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	res, err := s.Collections.Picks.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, storageError("failed to write picks", err)
	}
	return int(res.MatchedCount + res.UpsertedCount), nil
}

// ListPicks gets the picks matching a filter
// Preconditions: Receives context and a PickFilter
// Postconditions: Returns slice of picks (possibly empty), or an error if it occurs
func (s *Store) ListPicks(ctx context.Context, filter PickFilter) ([]Pick, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.Collections.Picks.Find(ctx, pickFilterDoc(filter), opts)
	if err != nil {
		return nil, storageError("error fetching picks from db", err)
	}

	picks := []Pick{}
	if err = cursor.All(ctx, &picks); err != nil {
		return nil, storageError("error unpacking cursor into slice of picks", err)
	}
	return picks, nil
}

// CountPicks counts the picks matching a filter
// Preconditions: Receives context and a PickFilter
// Postconditions: Returns the number of matching picks, or an error if it occurs
func (s *Store) CountPicks(ctx context.Context, filter PickFilter) (int64, error) {
	n, err := s.Collections.Picks.CountDocuments(ctx, pickFilterDoc(filter))
	if err != nil {
		return 0, storageError("error counting picks", err)
	}
	return n, nil
}

// MarkPicksCorrect sets isCorrect on every pick for a game to whether its selected team is the winner
// Preconditions: Receives context, game id and the winning team
// Postconditions: Returns the number of picks updated, or an error if it occurs
func (s *Store) MarkPicksCorrect(ctx context.Context, gameID primitive.ObjectID, winner string) (int64, error) {
	if winner == "" {
		return 0, errors.New("winner cannot be empty")
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "iscorrect", Value: bson.D{{Key: "$eq", Value: bson.A{"$selectedteam", winner}}}},
		}}},
	}
	res, err := s.Collections.Picks.UpdateMany(ctx, bson.M{"gameid": gameID}, update)
	if err != nil {
		return 0, storageError("failed to update pick correctness", err)
	}
	return res.ModifiedCount, nil
}

// ResetPickCorrectness sets isCorrect back to null on every pick for a game. Used when a game is reopened
// Preconditions: Receives context and game id
// Postconditions: Returns the number of picks updated, or an error if it occurs
func (s *Store) ResetPickCorrectness(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	update := bson.M{"$set": bson.M{"iscorrect": nil}}
	res, err := s.Collections.Picks.UpdateMany(ctx, bson.M{"gameid": gameID}, update)
	if err != nil {
		return 0, storageError("failed to reset pick correctness", err)
	}
	return res.ModifiedCount, nil
}

// pickKey builds the filter for the unique (participantid, dependentid, gameid, poolid) tuple. A self pick matches
// dependentid null
func pickKey(pick Pick) bson.D {
	var dependent interface{}
	if pick.DependentID != nil {
		dependent = *pick.DependentID
	}
	return bson.D{
		{Key: "participantid", Value: pick.ParticipantID},
		{Key: "dependentid", Value: dependent},
		{Key: "gameid", Value: pick.GameID},
		{Key: "poolid", Value: pick.PoolID},
	}
}

// pickUpsert builds the filter and update documents for a conditional upsert of a pick
func pickUpsert(pick Pick, now time.Time) (bson.D, bson.D) {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "selectedteam", Value: pick.SelectedTeam},
			{Key: "confidencepoints", Value: pick.ConfidencePoints},
			{Key: "iscorrect", Value: pick.IsCorrect},
			{Key: "updatedat", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "round", Value: pick.Round},
			{Key: "createdat", Value: now},
		}},
	}
	return pickKey(pick), update
}

// pickFilterDoc converts a PickFilter into a query document
func pickFilterDoc(filter PickFilter) bson.D {
	doc := bson.D{}
	if !filter.PoolID.IsZero() {
		doc = append(doc, bson.E{Key: "poolid", Value: filter.PoolID})
	}
	if !filter.GameID.IsZero() {
		doc = append(doc, bson.E{Key: "gameid", Value: filter.GameID})
	}
	if filter.Picker != nil {
		var dependent interface{}
		if filter.Picker.DependentID != nil {
			dependent = *filter.Picker.DependentID
		}
		doc = append(doc,
			bson.E{Key: "participantid", Value: filter.Picker.ParticipantID},
			bson.E{Key: "dependentid", Value: dependent},
		)
	} else if !filter.ParticipantID.IsZero() {
		doc = append(doc, bson.E{Key: "participantid", Value: filter.ParticipantID})
	}
	return doc
}
