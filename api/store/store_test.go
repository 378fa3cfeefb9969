/* store_test.go
 * Contains unit tests for store construction and error helpers
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"testing"

	"confidence-pool/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestNewStoreRequiresArguments(t *testing.T) {
	_, err := NewStore(context.Background(), "", "mongodb://localhost:27017", nil)
	assert.Error(t, err)

	_, err = NewStore(context.Background(), "pool", "", nil)
	assert.Error(t, err)
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates all indexes", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, s.EnsureIndexes(context.Background()))
	})

	mt.Run("pick index failure", func(mt *mtest.T) {
		s := newMockedStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad index"}))

		err := s.EnsureIndexes(context.Background())
		assert.ErrorContains(mt, err, "pick indexes")
	})
}

func TestStoreErrorHelpers(t *testing.T) {
	err := notFound("pool", mongo.ErrNoDocuments)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NotErrorIs(t, err, shared.ErrStorageFailure)
	assert.EqualError(t, err, "pool not found")

	cause := errors.New("connection reset")
	err = notFound("pool", cause)
	assert.ErrorIs(t, err, shared.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)

	err = storageError("failed to write", cause)
	assert.ErrorIs(t, err, shared.ErrStorageFailure)
	assert.ErrorContains(t, err, "failed to write")
}

func TestDisconnectWithoutClient(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Disconnect(context.Background()))
}
