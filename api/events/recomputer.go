/* recomputer.go
 * Contains the consumer that keeps each pick's isCorrect flag in line with the latest recorded result of its game
 * Authors: Zachary Bower
 */

package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CorrectnessStore is the part of the record store the Recomputer writes to
type CorrectnessStore interface {
	MarkPicksCorrect(ctx context.Context, gameID primitive.ObjectID, winner string) (int64, error)
	ResetPickCorrectness(ctx context.Context, gameID primitive.ObjectID) (int64, error)
}

// Recomputer applies GameResultRecorded events to the picks of the game
type Recomputer struct {
	store CorrectnessStore
}

func NewRecomputer(store CorrectnessStore) *Recomputer {
	return &Recomputer{store: store}
}

// Handle sets isCorrect = (selectedTeam == winner) on every pick for a completed game, or resets isCorrect to null
// when the game was reopened. Applying the same event twice gives the same result
// Preconditions: Receives context and the event
// Postconditions: Picks for the game are updated, or an error is returned
func (r *Recomputer) Handle(ctx context.Context, event GameResultRecorded) error {
	var (
		updated int64
		err     error
	)
	if event.IsComplete && event.Winner != "" {
		updated, err = r.store.MarkPicksCorrect(ctx, event.GameID, event.Winner)
	} else {
		updated, err = r.store.ResetPickCorrectness(ctx, event.GameID)
	}
	if err != nil {
		return fmt.Errorf("recompute picks for game %s: %w", event.GameID.Hex(), err)
	}

	log.Info().
		Str("event_id", event.ID.String()).
		Str("game_id", event.GameID.Hex()).
		Bool("is_complete", event.IsComplete).
		Str("winner", event.Winner).
		Int64("picks_updated", updated).
		Msg("recomputed pick correctness")
	return nil
}

// Attach subscribes the Recomputer to a bus
func (r *Recomputer) Attach(bus Bus) error {
	return bus.Subscribe(r.Handle)
}
