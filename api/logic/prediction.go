/* prediction.go
 * Contains the logic for turning validated picks into pick records ready to be written to the db
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"

	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GamesByID indexes a slice of games by id
func GamesByID(games []store.Game) map[primitive.ObjectID]store.Game {
	byID := make(map[primitive.ObjectID]store.Game, len(games))
	for _, game := range games {
		byID[game.ID] = game
	}
	return byID
}

// GeneratePicks builds the pick records to be stored for a picker
// Preconditions: Receives the picker, picks that passed ValidatePicks, and the games those picks reference indexed by id
// Postconditions: Returns one store.Pick per validated pick, in input order. The selected team is replaced with the
// game's canonical team name and, if the game is already complete, isCorrect is set. Returns ErrNotFound if a game
// does not exist, ErrInvalidInput if a game belongs to another pool, or ErrInvalidTeamSelection if the selected team
// is not playing in the game
func GeneratePicks(picker shared.Picker, picks []ValidatedPick, games map[primitive.ObjectID]store.Game) ([]store.Pick, error) {
	generated := make([]store.Pick, 0, len(picks))
	for i, pick := range picks {
		game, ok := games[pick.GameID]
		if !ok {
			return nil, fmt.Errorf("pick %d: game %s %w", i, pick.GameID.Hex(), shared.ErrNotFound)
		}
		if game.PoolID != pick.PoolID {
			return nil, fmt.Errorf("%w: pick %d: game %s is not in pool %s", shared.ErrInvalidInput, i, pick.GameID.Hex(), pick.PoolID.Hex())
		}

		team, ok := ResolveTeam(pick.SelectedTeam, game)
		if !ok {
			return nil, fmt.Errorf("%w: pick %d: '%s' is not playing in %s vs %s", shared.ErrInvalidTeamSelection, i,
				pick.SelectedTeam, game.HomeTeam, game.AwayTeam)
		}

		record := store.Pick{
			ParticipantID:    picker.ParticipantID,
			DependentID:      picker.DependentID,
			GameID:           pick.GameID,
			PoolID:           pick.PoolID,
			Round:            pick.Round,
			SelectedTeam:     team,
			ConfidencePoints: pick.ConfidencePoints,
		}
		if game.IsComplete && game.Winner != "" {
			correct := team == game.Winner
			record.IsCorrect = &correct
		}
		generated = append(generated, record)
	}
	return generated, nil
}

// DropCompletedGames removes picks whose game is already complete. Picks for unknown games are kept so that
// GeneratePicks can report them
// Preconditions: Receives validated picks and the games they reference indexed by id
// Postconditions: Returns the picks for games that are still open, in input order
func DropCompletedGames(picks []ValidatedPick, games map[primitive.ObjectID]store.Game) []ValidatedPick {
	open := make([]ValidatedPick, 0, len(picks))
	for _, pick := range picks {
		if game, ok := games[pick.GameID]; ok && game.IsComplete {
			continue
		}
		open = append(open, pick)
	}
	return open
}
