/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// Pools
	CreatePool(ctx context.Context, pool Pool) (Pool, error)
	GetPool(ctx context.Context, poolID primitive.ObjectID) (Pool, error)
	UpdatePool(ctx context.Context, pool Pool) error
	ListAdminPools(ctx context.Context, adminID primitive.ObjectID) ([]Pool, error)
	AddPoolParticipant(ctx context.Context, poolID, participantID primitive.ObjectID) error
	RemovePoolParticipant(ctx context.Context, poolID, participantID primitive.ObjectID) error

	// Settings
	GetActivePoolID(ctx context.Context) (primitive.ObjectID, error)
	SetActivePoolID(ctx context.Context, poolID primitive.ObjectID) error

	// Games
	CreateGame(ctx context.Context, game Game) (Game, error)
	GetGame(ctx context.Context, gameID primitive.ObjectID) (Game, error)
	UpdateGame(ctx context.Context, game Game) error
	ListGames(ctx context.Context, poolID primitive.ObjectID) ([]Game, error)
	SetGameResult(ctx context.Context, gameID primitive.ObjectID, winner string, isComplete bool) (Game, error)

	// Participants
	CreateParticipant(ctx context.Context, participant Participant) (Participant, error)
	GetParticipant(ctx context.Context, participantID primitive.ObjectID) (Participant, error)
	GetParticipantByToken(ctx context.Context, token string) (Participant, error)
	UpdateParticipantProfile(ctx context.Context, participant Participant) error
	ListPoolParticipants(ctx context.Context, poolID primitive.ObjectID) ([]Participant, error)
	AddMembership(ctx context.Context, participantID primitive.ObjectID, membership PoolMembership) error
	RemoveMembership(ctx context.Context, participantID, poolID primitive.ObjectID) error
	AddDependent(ctx context.Context, participantID primitive.ObjectID, dependent Dependent) error
	RenameDependent(ctx context.Context, participantID, dependentID primitive.ObjectID, displayName string) error
	RemoveDependent(ctx context.Context, participantID, dependentID primitive.ObjectID) error

	// Picks
	InsertPick(ctx context.Context, pick Pick) (Pick, error)
	UpsertPick(ctx context.Context, pick Pick) (Pick, error)
	UpsertPicks(ctx context.Context, picks []Pick) (int, error)
	ListPicks(ctx context.Context, filter PickFilter) ([]Pick, error)
	CountPicks(ctx context.Context, filter PickFilter) (int64, error)
	MarkPicksCorrect(ctx context.Context, gameID primitive.ObjectID, winner string) (int64, error)
	ResetPickCorrectness(ctx context.Context, gameID primitive.ObjectID) (int64, error)

	Disconnect(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
