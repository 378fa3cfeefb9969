/* pools_test.go
 * Contains unit tests for the pools and settings collection methods
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"testing"
	"time"

	"confidence-pool/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func poolDoc(id, admin primitive.ObjectID, name string, participants ...primitive.ObjectID) bson.D {
	members := bson.A{}
	for _, p := range participants {
		members = append(members, p)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "admin", Value: admin},
		{Key: "round", Value: string(shared.RoundWildCard)},
		{Key: "startdate", Value: testTime},
		{Key: "enddate", Value: testTime.Add(14 * 24 * time.Hour)},
		{Key: "totalgames", Value: 13},
		{Key: "entryfee", Value: 20},
		{Key: "participants", Value: members},
	}
}

// region Pool tests

func TestCreatePool(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets id and timestamps", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		pool, err := s.CreatePool(context.Background(), Pool{Name: "2025 Playoffs", TotalGames: 13})
		require.NoError(mt, err)
		assert.False(mt, pool.ID.IsZero())
		assert.Equal(mt, testTime, pool.CreatedAt)
		assert.NotNil(mt, pool.Participants)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))

		_, err := s.CreatePool(context.Background(), Pool{Name: "2025 Playoffs"})
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

func TestGetPool(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		s := newMockedStore(mt)
		id, admin, member := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, poolDoc(id, admin, "2025 Playoffs", member)))

		pool, err := s.GetPool(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, "2025 Playoffs", pool.Name)
		assert.Equal(mt, shared.RoundWildCard, pool.Round)
		assert.True(mt, pool.HasParticipant(member))
		assert.False(mt, pool.HasParticipant(admin))
	})

	mt.Run("not found", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := s.GetPool(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})
}

func TestUpdatePool(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updates existing pool", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		err := s.UpdatePool(context.Background(), Pool{ID: primitive.NewObjectID(), Name: "Renamed"})
		assert.NoError(mt, err)
	})

	mt.Run("missing pool", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.UpdatePool(context.Background(), Pool{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})
}

func TestListAdminPools(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns pools", func(mt *mtest.T) {
		s := newMockedStore(mt)
		admin := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			poolDoc(primitive.NewObjectID(), admin, "2025 Playoffs"),
			poolDoc(primitive.NewObjectID(), admin, "2024 Playoffs"),
		))

		pools, err := s.ListAdminPools(context.Background(), admin)
		require.NoError(mt, err)
		require.Len(mt, pools, 2)
		assert.Equal(mt, "2025 Playoffs", pools[0].Name)
	})
}

func TestPoolParticipants(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("add participant", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		assert.NoError(mt, s.AddPoolParticipant(context.Background(), primitive.NewObjectID(), primitive.NewObjectID()))
	})

	mt.Run("add participant to missing pool", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.AddPoolParticipant(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})

	mt.Run("remove participant from missing pool is not an error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		assert.NoError(mt, s.RemovePoolParticipant(context.Background(), primitive.NewObjectID(), primitive.NewObjectID()))
	})
}

// endregion

// region Settings tests

func TestGetActivePoolID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("active pool set", func(mt *mtest.T) {
		s := newMockedStore(mt)
		poolID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "global"},
			{Key: "activepoolid", Value: poolID},
		}))

		id, err := s.GetActivePoolID(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, poolID, id)
	})

	mt.Run("no settings document", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := s.GetActivePoolID(context.Background())
		assert.ErrorIs(mt, err, shared.ErrNoActivePool)
	})

	mt.Run("settings without pool", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "global"},
		}))

		_, err := s.GetActivePoolID(context.Background())
		assert.ErrorIs(mt, err, shared.ErrNoActivePool)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))

		_, err := s.GetActivePoolID(context.Background())
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

func TestSetActivePoolID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts settings", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		assert.NoError(mt, s.SetActivePoolID(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))

		err := s.SetActivePoolID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, shared.ErrStorageFailure)
	})
}

// endregion
