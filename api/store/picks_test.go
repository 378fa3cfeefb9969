/* picks_test.go
 * Contains unit tests for the picks collection methods
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"testing"

	"confidence-pool/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func samplePick() Pick {
	return Pick{
		ParticipantID:    primitive.NewObjectID(),
		GameID:           primitive.NewObjectID(),
		PoolID:           primitive.NewObjectID(),
		Round:            shared.RoundWildCard,
		SelectedTeam:     "Buffalo Bills",
		ConfidencePoints: 6,
	}
}

// region InsertPick tests

func TestInsertPick(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts pick with timestamps", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		stored, err := s.InsertPick(context.Background(), samplePick())
		require.NoError(mt, err)
		assert.False(mt, stored.ID.IsZero())
		assert.Equal(mt, testTime, stored.CreatedAt)
		assert.Equal(mt, testTime, stored.UpdatedAt)
	})

	mt.Run("duplicate key maps to ErrDuplicatePick", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := s.InsertPick(context.Background(), samplePick())
		assert.ErrorIs(mt, err, shared.ErrDuplicatePick)
	})

	mt.Run("other write errors are storage failures", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))

		_, err := s.InsertPick(context.Background(), samplePick())
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
		assert.NotErrorIs(mt, err, shared.ErrDuplicatePick)
	})
}

// endregion

// region UpsertPick tests

func TestUpsertPick(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns stored document", func(mt *mtest.T) {
		s := newMockedStore(mt)
		pick := samplePick()
		pick.ID = primitive.NewObjectID()
		pick.ConfidencePoints = 4
		mt.AddMockResponses(findAndModifyResponse(pickDoc(pick)))

		stored, err := s.UpsertPick(context.Background(), pick)
		require.NoError(mt, err)
		assert.Equal(mt, pick.ID, stored.ID)
		assert.Equal(mt, 4, stored.ConfidencePoints)
		assert.Nil(mt, stored.DependentID)
		assert.Nil(mt, stored.IsCorrect)
	})

	mt.Run("keeps dependent and correctness", func(mt *mtest.T) {
		s := newMockedStore(mt)
		pick := samplePick()
		dependent := primitive.NewObjectID()
		correct := true
		pick.ID = primitive.NewObjectID()
		pick.DependentID = &dependent
		pick.IsCorrect = &correct
		mt.AddMockResponses(findAndModifyResponse(pickDoc(pick)))

		stored, err := s.UpsertPick(context.Background(), pick)
		require.NoError(mt, err)
		require.NotNil(mt, stored.DependentID)
		assert.Equal(mt, dependent, *stored.DependentID)
		require.NotNil(mt, stored.IsCorrect)
		assert.True(mt, *stored.IsCorrect)
	})

	mt.Run("retries once after a duplicate key race", func(mt *mtest.T) {
		s := newMockedStore(mt)
		pick := samplePick()
		pick.ID = primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Message: "E11000 duplicate key error",
				Name:    "DuplicateKey",
			}),
			findAndModifyResponse(pickDoc(pick)),
		)

		stored, err := s.UpsertPick(context.Background(), pick)
		require.NoError(mt, err)
		assert.Equal(mt, pick.ID, stored.ID)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))

		_, err := s.UpsertPick(context.Background(), samplePick())
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

// endregion

// region UpsertPicks tests

func TestUpsertPicks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty batch does nothing", func(mt *mtest.T) {
		s := newMockedStore(mt)

		n, err := s.UpsertPicks(context.Background(), nil)
		require.NoError(mt, err)
		assert.Equal(mt, 0, n)
	})

	mt.Run("counts matched and upserted picks", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "n", Value: 2},
			{Key: "nModified", Value: 1},
			{Key: "upserted", Value: bson.A{
				bson.D{{Key: "index", Value: 1}, {Key: "_id", Value: primitive.NewObjectID()}},
			}},
		})

		n, err := s.UpsertPicks(context.Background(), []Pick{samplePick(), samplePick()})
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})

	mt.Run("write error fails the batch", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    2,
			Message: "bad value",
		}))

		_, err := s.UpsertPicks(context.Background(), []Pick{samplePick()})
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

// endregion

// region ListPicks and CountPicks tests

func TestListPicks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns picks", func(mt *mtest.T) {
		s := newMockedStore(mt)
		first, second := samplePick(), samplePick()
		first.ID, second.ID = primitive.NewObjectID(), primitive.NewObjectID()
		second.SelectedTeam = "Houston Texans"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, pickDoc(first), pickDoc(second)))

		picks, err := s.ListPicks(context.Background(), PickFilter{PoolID: first.PoolID})
		require.NoError(mt, err)
		require.Len(mt, picks, 2)
		assert.Equal(mt, "Buffalo Bills", picks[0].SelectedTeam)
		assert.Equal(mt, "Houston Texans", picks[1].SelectedTeam)
	})

	mt.Run("no picks returns empty slice", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		picks, err := s.ListPicks(context.Background(), PickFilter{})
		require.NoError(mt, err)
		assert.NotNil(mt, picks)
		assert.Empty(mt, picks)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))

		_, err := s.ListPicks(context.Background(), PickFilter{})
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

func TestCountPicks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns count", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: 3}}))

		picker := shared.Self(primitive.NewObjectID())
		n, err := s.CountPicks(context.Background(), PickFilter{PoolID: primitive.NewObjectID(), Picker: &picker})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}

func TestPickFilterDoc(t *testing.T) {
	poolID := primitive.NewObjectID()
	participantID := primitive.NewObjectID()
	dependentID := primitive.NewObjectID()

	t.Run("self picker matches null dependent", func(t *testing.T) {
		picker := shared.Self(participantID)
		doc := pickFilterDoc(PickFilter{PoolID: poolID, Picker: &picker}).Map()
		assert.Equal(t, poolID, doc["poolid"])
		assert.Equal(t, participantID, doc["participantid"])
		assert.Contains(t, doc, "dependentid")
		assert.Nil(t, doc["dependentid"])
	})

	t.Run("dependent picker", func(t *testing.T) {
		picker := shared.ForDependent(participantID, dependentID)
		doc := pickFilterDoc(PickFilter{Picker: &picker}).Map()
		assert.Equal(t, dependentID, doc["dependentid"])
		assert.NotContains(t, doc, "poolid")
	})

	t.Run("participant id matches every picker of an account", func(t *testing.T) {
		doc := pickFilterDoc(PickFilter{ParticipantID: participantID}).Map()
		assert.Equal(t, participantID, doc["participantid"])
		assert.NotContains(t, doc, "dependentid")
	})
}

// endregion

// region Correctness tests

func TestMarkPicksCorrect(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns modified count", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(4, 4))

		n, err := s.MarkPicksCorrect(context.Background(), primitive.NewObjectID(), "Kansas City Chiefs")
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), n)
	})

	mt.Run("empty winner is rejected", func(mt *mtest.T) {
		s := newMockedStore(mt)

		_, err := s.MarkPicksCorrect(context.Background(), primitive.NewObjectID(), "")
		assert.Error(mt, err)
	})
}

func TestResetPickCorrectness(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns modified count", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(2, 2))

		n, err := s.ResetPickCorrectness(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))

		_, err := s.ResetPickCorrectness(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

// endregion
