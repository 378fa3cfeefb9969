/* games.go
 * Contains the API methods for managing games and recording their results
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"strings"

	"confidence-pool/api/events"
	"confidence-pool/api/logic"
	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateGame adds a game to a pool. Only the pool admin can add games
// Preconditions: Receives context, the authenticated admin id, pool id and the game attributes. Title, both teams and
// game time are required; round defaults to the pool's round
// Postconditions: Returns the created game, or an error if it occurs
func (a *API) CreateGame(ctx context.Context, callerID, poolID primitive.ObjectID, input GameInput) (store.Game, error) {
	pool, err := a.requirePoolAdmin(ctx, poolID, callerID)
	if err != nil {
		return store.Game{}, err
	}

	game := store.Game{PoolID: poolID, Round: pool.Round}
	if game.Round == "" {
		game.Round = shared.RoundWildCard
	}
	if err := applyGameInput(&game, input); err != nil {
		return store.Game{}, err
	}
	if game.GameTitle == "" || game.HomeTeam == "" || game.AwayTeam == "" || game.GameTime.IsZero() {
		return store.Game{}, fmt.Errorf("%w: gameTitle, homeTeam, awayTeam and gameTime are required", shared.ErrInvalidInput)
	}

	created, err := a.Store.CreateGame(ctx, game)
	if err != nil {
		return store.Game{}, err
	}
	log.Info().Str("pool_id", poolID.Hex()).Str("game_id", created.ID.Hex()).Str("title", created.GameTitle).Msg("game created")
	return created, nil
}

// UpdateGame changes the attributes of a game. The result is changed with RecordGameResult
// Preconditions: Receives context, the authenticated admin id, game id and the attributes to change
// Postconditions: Returns the updated game, or an error if it occurs
func (a *API) UpdateGame(ctx context.Context, callerID, gameID primitive.ObjectID, input GameInput) (store.Game, error) {
	game, err := a.Store.GetGame(ctx, gameID)
	if err != nil {
		return store.Game{}, err
	}
	if _, err := a.requirePoolAdmin(ctx, game.PoolID, callerID); err != nil {
		return store.Game{}, err
	}
	if err := applyGameInput(&game, input); err != nil {
		return store.Game{}, err
	}
	if err := a.Store.UpdateGame(ctx, game); err != nil {
		return store.Game{}, err
	}
	return game, nil
}

// ListGames gets every game of a pool ordered by game time
// Preconditions: Receives context and pool id
// Postconditions: Returns the games (possibly empty), or an error if it occurs
func (a *API) ListGames(ctx context.Context, poolID primitive.ObjectID) ([]GameView, error) {
	games, err := a.Store.ListGames(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return gameViews(games), nil
}

// UpcomingGames gets the games of the active pool that have not kicked off yet or are still undecided
// Preconditions: Receives context
// Postconditions: Returns the games ordered by game time, ErrNoActivePool, or an error if it occurs
func (a *API) UpcomingGames(ctx context.Context) ([]GameView, error) {
	pool, err := a.activePool(ctx)
	if err != nil {
		return nil, err
	}
	games, err := a.Store.ListGames(ctx, pool.ID)
	if err != nil {
		return nil, err
	}

	now := a.Clock.Now()
	var upcoming []store.Game
	for _, game := range games {
		if game.GameTime.After(now) || !game.IsComplete {
			upcoming = append(upcoming, game)
		}
	}
	return gameViews(upcoming), nil
}

// RecordGameResult marks a game complete with a winner, or reopens it. A GameResultRecorded event is published so
// that every pick on the game has its isCorrect flag brought in line with the result
// Preconditions: Receives context, the authenticated admin id, game id and the result. When IsComplete is true the
// winner must be one of the game's teams (matched the same way as pick selections)
// Postconditions: Returns the recorded result, or an error if it occurs. An error from the event bus is returned after
// the game itself has been updated
func (a *API) RecordGameResult(ctx context.Context, callerID, gameID primitive.ObjectID, req GameResultRequest) (GameResult, error) {
	game, err := a.Store.GetGame(ctx, gameID)
	if err != nil {
		return GameResult{}, err
	}
	if _, err := a.requirePoolAdmin(ctx, game.PoolID, callerID); err != nil {
		return GameResult{}, err
	}

	winner := ""
	if req.IsComplete {
		var ok bool
		if winner, ok = logic.ResolveTeam(req.Winner, game); !ok {
			return GameResult{}, fmt.Errorf("%w: winner '%s' must be %s or %s", shared.ErrInvalidInput, req.Winner, game.HomeTeam, game.AwayTeam)
		}
	}

	updated, err := a.Store.SetGameResult(ctx, gameID, winner, req.IsComplete)
	if err != nil {
		return GameResult{}, err
	}
	result := GameResult{
		GameID:     updated.ID,
		GameTitle:  updated.GameTitle,
		Winner:     updated.Winner,
		IsComplete: updated.IsComplete,
	}

	event := events.NewGameResultRecorded(updated.ID, updated.PoolID, updated.Winner, updated.IsComplete, a.Clock.Now())
	if err := a.Bus.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("game_id", gameID.Hex()).Msg("failed to publish game result")
		return result, fmt.Errorf("game result saved but picks were not updated: %w", err)
	}

	log.Info().
		Str("game_id", gameID.Hex()).
		Bool("is_complete", updated.IsComplete).
		Str("winner", updated.Winner).
		Msg("game result recorded")
	return result, nil
}

// applyGameInput copies the provided attributes onto a game
func applyGameInput(game *store.Game, input GameInput) error {
	if input.GameTitle != nil {
		game.GameTitle = strings.TrimSpace(*input.GameTitle)
	}
	if input.HomeTeam != nil {
		game.HomeTeam = strings.TrimSpace(*input.HomeTeam)
	}
	if input.AwayTeam != nil {
		game.AwayTeam = strings.TrimSpace(*input.AwayTeam)
	}
	if input.GameTime != nil {
		game.GameTime = input.GameTime.UTC()
	}
	if input.Round != nil {
		round, err := shared.ParseRound(*input.Round)
		if err != nil {
			return err
		}
		game.Round = round
	}
	if input.TVNetwork != nil {
		game.TVNetwork = strings.TrimSpace(*input.TVNetwork)
	}
	if game.HomeTeam != "" && strings.EqualFold(game.HomeTeam, game.AwayTeam) {
		return fmt.Errorf("%w: home and away team must be different", shared.ErrInvalidInput)
	}
	return nil
}

// gameViews adds a display status to each game
func gameViews(games []store.Game) []GameView {
	views := make([]GameView, 0, len(games))
	for _, game := range games {
		status := "Scheduled"
		if game.IsComplete {
			status = "Final"
		}
		views = append(views, GameView{Game: game, Status: status})
	}
	return views
}
