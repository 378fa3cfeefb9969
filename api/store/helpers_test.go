/* helpers_test.go
 * Contains test helper functions for store package tests
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// testTime is the fixed time the fake clock starts at in store tests
var testTime = time.Date(2025, time.January, 11, 18, 0, 0, 0, time.UTC)

// newMockedStore creates a Store whose collections all point at the mtest mock collection.
// Every operation consumes the next queued mock response, so tests queue responses in call order.
func newMockedStore(mt *mtest.T) *Store {
	s := newStoreFromDatabase(mt.Client, mt.DB, clockwork.NewFakeClockAt(testTime))
	s.Collections = Collections{
		Pools:        mt.Coll,
		Games:        mt.Coll,
		Participants: mt.Coll,
		Picks:        mt.Coll,
		Settings:     mt.Coll,
	}
	return s
}

// namespace returns the "db.collection" string used in mocked cursor responses
func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

// updateResponse builds a mocked response for an update command
func updateResponse(matched, modified int) bson.D {
	return bson.D{
		{Key: "ok", Value: 1},
		{Key: "n", Value: matched},
		{Key: "nModified", Value: modified},
	}
}

// findAndModifyResponse builds a mocked response for a findAndModify command returning doc
func findAndModifyResponse(doc bson.D) bson.D {
	return bson.D{
		{Key: "ok", Value: 1},
		{Key: "value", Value: doc},
	}
}

// CreateTestStore creates a Store connected to a real test database.
// Returns the store and a cleanup function that drops the database.
func CreateTestStore(ctx context.Context, mongoURI string) (*Store, func(), error) {
	s, err := NewStore(ctx, "test_confidence_pool", mongoURI, clockwork.NewRealClock())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		s.Database.Drop(context.TODO())
		s.Client.Disconnect(context.TODO())
	}
	return s, cleanup, nil
}

// pickDoc builds the stored form of a pick for mocked responses
func pickDoc(pick Pick) bson.D {
	var dependent interface{}
	if pick.DependentID != nil {
		dependent = *pick.DependentID
	}
	var isCorrect interface{}
	if pick.IsCorrect != nil {
		isCorrect = *pick.IsCorrect
	}
	return bson.D{
		{Key: "_id", Value: pick.ID},
		{Key: "participantid", Value: pick.ParticipantID},
		{Key: "dependentid", Value: dependent},
		{Key: "gameid", Value: pick.GameID},
		{Key: "poolid", Value: pick.PoolID},
		{Key: "round", Value: string(pick.Round)},
		{Key: "selectedteam", Value: pick.SelectedTeam},
		{Key: "confidencepoints", Value: pick.ConfidencePoints},
		{Key: "iscorrect", Value: isCorrect},
	}
}

// gameDoc builds the stored form of a game for mocked responses
func gameDoc(game Game) bson.D {
	return bson.D{
		{Key: "_id", Value: game.ID},
		{Key: "poolid", Value: game.PoolID},
		{Key: "round", Value: string(game.Round)},
		{Key: "gametitle", Value: game.GameTitle},
		{Key: "hometeam", Value: game.HomeTeam},
		{Key: "awayteam", Value: game.AwayTeam},
		{Key: "gametime", Value: game.GameTime},
		{Key: "iscomplete", Value: game.IsComplete},
		{Key: "winner", Value: game.Winner},
	}
}
