/* participants_test.go
 * Contains unit tests for the participants collection methods
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

func participantDoc(id primitive.ObjectID, username, displayName string, dependents ...Dependent) bson.D {
	deps := bson.A{}
	for _, d := range dependents {
		deps = append(deps, bson.D{{Key: "_id", Value: d.ID}, {Key: "displayname", Value: d.DisplayName}})
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "token", Value: "secret-token"},
		{Key: "username", Value: username},
		{Key: "displayname", Value: displayName},
		{Key: "dependents", Value: deps},
		{Key: "participatingpools", Value: bson.A{}},
	}
}

func TestCreateParticipant(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("initialises collections", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p, err := s.CreateParticipant(context.Background(), Participant{Username: "zach", Token: "abc"})
		require.NoError(mt, err)
		assert.False(mt, p.ID.IsZero())
		assert.NotNil(mt, p.Dependents)
		assert.NotNil(mt, p.ParticipatingPools)
		assert.Equal(mt, testTime, p.CreatedAt)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := s.CreateParticipant(context.Background(), Participant{Username: "zach", Token: "abc"})
		assert.ErrorIs(mt, err, shared.ErrInvalidInput)
	})
}

func TestGetParticipant(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by id with dependents", func(mt *mtest.T) {
		s := newMockedStore(mt)
		id := primitive.NewObjectID()
		dep := Dependent{ID: primitive.NewObjectID(), DisplayName: "Sam"}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, participantDoc(id, "zach", "Zach", dep)))

		p, err := s.GetParticipant(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, "Zach", p.Name())
		found, ok := p.FindDependent(dep.ID)
		require.True(mt, ok)
		assert.Equal(mt, "Sam", found.DisplayName)
	})

	mt.Run("by token", func(mt *mtest.T) {
		s := newMockedStore(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, participantDoc(id, "zach", "")))

		p, err := s.GetParticipantByToken(context.Background(), "secret-token")
		require.NoError(mt, err)
		assert.Equal(mt, id, p.ID)
		assert.Equal(mt, "zach", p.Name())
	})

	mt.Run("unknown token", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := s.GetParticipantByToken(context.Background(), "nope")
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})
}

func TestUpdateParticipantProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updated", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		err := s.UpdateParticipantProfile(context.Background(), Participant{ID: primitive.NewObjectID(), DisplayName: "Zach B"})
		assert.NoError(mt, err)
	})

	mt.Run("missing participant", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.UpdateParticipantProfile(context.Background(), Participant{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})
}

func TestListPoolParticipants(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns members", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			participantDoc(primitive.NewObjectID(), "alice", "Alice"),
			participantDoc(primitive.NewObjectID(), "bob", "Bob"),
		))

		participants, err := s.ListPoolParticipants(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		require.Len(mt, participants, 2)
		assert.Equal(mt, "Bob", participants[1].Name())
	})
}

func TestMemberships(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("add membership", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		err := s.AddMembership(context.Background(), primitive.NewObjectID(), PoolMembership{PoolID: primitive.NewObjectID(), JoinedAt: testTime})
		assert.NoError(mt, err)
	})

	mt.Run("existing membership is not an error", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.AddMembership(context.Background(), primitive.NewObjectID(), PoolMembership{PoolID: primitive.NewObjectID()})
		assert.NoError(mt, err)
	})

	mt.Run("remove membership of missing participant", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.RemoveMembership(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})
}

func TestDependents(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("add dependent", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		err := s.AddDependent(context.Background(), primitive.NewObjectID(), Dependent{ID: primitive.NewObjectID(), DisplayName: "Sam"})
		assert.NoError(mt, err)
	})

	mt.Run("rename unknown dependent", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.RenameDependent(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "Sammy")
		assert.ErrorIs(mt, err, shared.ErrDependentNotFound)
	})

	mt.Run("remove dependent", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		assert.NoError(mt, s.RemoveDependent(context.Background(), primitive.NewObjectID(), primitive.NewObjectID()))
	})

	mt.Run("remove unknown dependent", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := s.RemoveDependent(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, shared.ErrDependentNotFound)
	})
}
