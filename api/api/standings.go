/* standings.go
 * Contains the API method for the standings of the active pool
 * Authors: Zachary Bower
 */

package api

import (
	"context"

	"confidence-pool/api/logic"
	"confidence-pool/api/store"
)

// GetStandings scores every picker of the active pool and ranks them. Every participant and dependent of the pool is
// listed, including those with no picks
// Preconditions: Receives context
// Postconditions: Returns the standings, ErrNoActivePool if no pool is in play, or an error if it occurs
func (a *API) GetStandings(ctx context.Context) (StandingsResponse, error) {
	pool, err := a.activePool(ctx)
	if err != nil {
		return StandingsResponse{}, err
	}

	games, err := a.Store.ListGames(ctx, pool.ID)
	if err != nil {
		return StandingsResponse{}, err
	}
	picks, err := a.Store.ListPicks(ctx, store.PickFilter{PoolID: pool.ID})
	if err != nil {
		return StandingsResponse{}, err
	}
	participants, err := a.Store.ListPoolParticipants(ctx, pool.ID)
	if err != nil {
		return StandingsResponse{}, err
	}

	totalGames := a.totalGames(pool)
	records := logic.ScorePickers(totalGames, games, picks, logic.RosterPickers(participants))
	ranked := logic.RankStandings(records)

	completed := 0
	for _, game := range games {
		if game.IsComplete {
			completed++
		}
	}

	entries := make([]StandingEntry, 0, len(ranked))
	for _, s := range ranked {
		entries = append(entries, StandingEntry{
			Rank:           s.Rank,
			PickerView:     pickerView(s.PickerInfo),
			EarnedPoints:   s.EarnedPoints,
			PossiblePoints: s.PossiblePoints,
			LostPoints:     s.LostPoints,
			CorrectPicks:   s.CorrectPicks,
			TotalPicks:     s.TotalPicks,
			CompletedPicks: s.CompletedPicks,
		})
	}

	return StandingsResponse{
		PoolID:               pool.ID,
		PoolName:             pool.Name,
		CompletedGames:       completed,
		GamesCreated:         len(games),
		TotalGames:           totalGames,
		TotalAvailablePoints: logic.TotalAvailablePoints(totalGames),
		Standings:            entries,
	}, nil
}
