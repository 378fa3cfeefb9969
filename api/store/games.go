/* games.go
 * Contains the methods for interacting with the games collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"confidence-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateGame inserts a new game. New games are never complete and have no winner
// Preconditions: Receives context and the game to insert
// Postconditions: Returns the stored game with its id set, or an error if it occurs
func (s *Store) CreateGame(ctx context.Context, game Game) (Game, error) {
	game.ID = primitive.NewObjectID()
	game.IsComplete = false
	game.Winner = ""

	if _, err := s.Collections.Games.InsertOne(ctx, game); err != nil {
		return Game{}, storageError("failed to insert new game", err)
	}
	return game, nil
}

// GetGame does DB lookup for a game by id
// Preconditions: Receives context and game id
// Postconditions: Returns the game, an ErrNotFound error if it does not exist, or an error if it occurs
func (s *Store) GetGame(ctx context.Context, gameID primitive.ObjectID) (Game, error) {
	var game Game
	if err := s.Collections.Games.FindOne(ctx, bson.M{"_id": gameID}).Decode(&game); err != nil {
		return Game{}, notFound("game", err)
	}
	return game, nil
}

// UpdateGame updates the scheduling attributes of a game (title, round, teams, time, network). The result is only
// changed through SetGameResult
// Preconditions: Receives context and the game with updated attributes
// Postconditions: Updates the game in the db, or returns an error if it does not exist or the update fails
func (s *Store) UpdateGame(ctx context.Context, game Game) error {
	update := bson.M{
		"$set": bson.M{
			"gametitle": game.GameTitle,
			"round":     game.Round,
			"hometeam":  game.HomeTeam,
			"awayteam":  game.AwayTeam,
			"gametime":  game.GameTime,
			"tvnetwork": game.TVNetwork,
		},
	}
	res, err := s.Collections.Games.UpdateOne(ctx, bson.M{"_id": game.ID}, update)
	if err != nil {
		return storageError("failed to update game", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game %w", shared.ErrNotFound)
	}
	return nil
}

// ListGames gets all games for a pool ordered by kickoff time
// Preconditions: Receives context and pool id
// Postconditions: Returns slice of games (possibly empty), or an error if it occurs
func (s *Store) ListGames(ctx context.Context, poolID primitive.ObjectID) ([]Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "gametime", Value: 1}})
	cursor, err := s.Collections.Games.Find(ctx, bson.M{"poolid": poolID}, opts)
	if err != nil {
		return nil, storageError("error fetching games from db", err)
	}

	games := []Game{}
	if err = cursor.All(ctx, &games); err != nil {
		return nil, storageError("error unpacking cursor into slice of games", err)
	}
	return games, nil
}

// SetGameResult records the outcome of a game. Reopening a game (isComplete false) clears the winner
// Preconditions: Receives context, game id, winner and completion flag
// Postconditions: Returns the updated game, an ErrNotFound error if it does not exist, or an error if it occurs
func (s *Store) SetGameResult(ctx context.Context, gameID primitive.ObjectID, winner string, isComplete bool) (Game, error) {
	if !isComplete {
		winner = ""
	}
	update := bson.M{
		"$set": bson.M{
			"winner":     winner,
			"iscomplete": isComplete,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var game Game
	err := s.Collections.Games.FindOneAndUpdate(ctx, bson.M{"_id": gameID}, update, opts).Decode(&game)
	if err != nil {
		return Game{}, notFound("game", err)
	}
	return game, nil
}
