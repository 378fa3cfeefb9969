/* picks.go
 * Contains the API methods for submitting and reading picks
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"

	"confidence-pool/api/logic"
	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmitPicks validates and stores a batch of picks for the caller or one of their dependents. The whole batch is
// validated before anything is written. Writes happen one pick at a time; if one fails the picks before it stay
// written and the error is returned
// Preconditions: Receives context, the authenticated participant id and the request
// Postconditions: Returns the number of picks written and the stored picks, or a validation or storage error
func (a *API) SubmitPicks(ctx context.Context, callerID primitive.ObjectID, req SubmitPicksRequest) (SubmitPicksResult, error) {
	if req.ParticipantID != nil && *req.ParticipantID != callerID {
		return SubmitPicksResult{}, fmt.Errorf("%w: cannot submit picks for another participant", shared.ErrForbidden)
	}
	if req.Picks == nil {
		return SubmitPicksResult{}, fmt.Errorf("%w: picks are required", shared.ErrInvalidInput)
	}

	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return SubmitPicksResult{}, err
	}

	validated, picker, err := logic.ValidatePicks(participant, req.DependentID, req.Picks)
	if err != nil {
		return SubmitPicksResult{}, err
	}

	games, err := a.gamesForPicks(ctx, validated)
	if err != nil {
		return SubmitPicksResult{}, err
	}
	picks, err := logic.GeneratePicks(picker, validated, games)
	if err != nil {
		return SubmitPicksResult{}, err
	}

	stored := make([]store.Pick, 0, len(picks))
	for _, pick := range picks {
		var saved store.Pick
		if req.Upsert {
			saved, err = a.Store.UpsertPick(ctx, pick)
		} else {
			saved, err = a.Store.InsertPick(ctx, pick)
		}
		if err != nil {
			log.Error().Err(err).
				Str("picker", picker.Key()).
				Int("written", len(stored)).
				Int("batch", len(picks)).
				Msg("pick batch stopped")
			return SubmitPicksResult{WrittenCount: len(stored), Picks: stored}, err
		}
		stored = append(stored, saved)
	}

	log.Info().
		Str("picker", picker.Key()).
		Bool("upsert", req.Upsert).
		Int("written", len(stored)).
		Msg("picks saved")
	return SubmitPicksResult{WrittenCount: len(stored), Picks: stored}, nil
}

// AdminSubmitPicks lets a pool admin save picks on behalf of a participant or their dependent. Picks for games that
// are already complete are skipped without error; the rest are upserted in one ordered batch
// Preconditions: Receives context, the authenticated admin id, the pool id and the request
// Postconditions: Returns the number of picks written, or a validation, authorisation or storage error
func (a *API) AdminSubmitPicks(ctx context.Context, callerID, poolID primitive.ObjectID, req AdminPicksRequest) (SubmitPicksResult, error) {
	if _, err := a.requirePoolAdmin(ctx, poolID, callerID); err != nil {
		return SubmitPicksResult{}, err
	}
	if req.ParticipantID.IsZero() || req.Picks == nil {
		return SubmitPicksResult{}, fmt.Errorf("%w: participantId and picks are required", shared.ErrInvalidInput)
	}

	participant, err := a.Store.GetParticipant(ctx, req.ParticipantID)
	if err != nil {
		return SubmitPicksResult{}, err
	}

	// The pool comes from the path, so picks may leave it out
	inputs := make([]logic.PickInput, len(req.Picks))
	for i, pick := range req.Picks {
		if pick.PoolID == nil {
			pick.PoolID = &poolID
		}
		inputs[i] = pick
	}

	validated, picker, err := logic.ValidatePicks(participant, req.DependentID, inputs)
	if err != nil {
		return SubmitPicksResult{}, err
	}
	for i, pick := range validated {
		if pick.PoolID != poolID {
			return SubmitPicksResult{}, fmt.Errorf("%w: pick %d is for another pool", shared.ErrInvalidInput, i)
		}
	}

	gameList, err := a.Store.ListGames(ctx, poolID)
	if err != nil {
		return SubmitPicksResult{}, err
	}
	games := logic.GamesByID(gameList)

	open := logic.DropCompletedGames(validated, games)
	if len(open) == 0 {
		log.Info().Str("picker", picker.Key()).Msg("no picks to save, all games already complete")
		return SubmitPicksResult{}, nil
	}

	picks, err := logic.GeneratePicks(picker, open, games)
	if err != nil {
		return SubmitPicksResult{}, err
	}
	written, err := a.Store.UpsertPicks(ctx, picks)
	if err != nil {
		return SubmitPicksResult{}, err
	}

	log.Info().
		Str("admin", callerID.Hex()).
		Str("picker", picker.Key()).
		Int("skipped", len(validated)-len(open)).
		Int("written", written).
		Msg("admin saved picks")
	return SubmitPicksResult{WrittenCount: written}, nil
}

// ListPicks gets the caller's picks (or one of their dependent's picks) for a pool, joined with each game
// Preconditions: Receives context, the authenticated participant id, pool id and optional dependent id
// Postconditions: Returns the picks ordered by game time (possibly empty), or an error if it occurs
func (a *API) ListPicks(ctx context.Context, callerID, poolID primitive.ObjectID, dependentID *primitive.ObjectID) ([]PickView, error) {
	picker, err := a.ownedPicker(ctx, callerID, dependentID)
	if err != nil {
		return nil, err
	}

	picks, err := a.Store.ListPicks(ctx, store.PickFilter{PoolID: poolID, Picker: &picker})
	if err != nil {
		return nil, err
	}
	gameList, err := a.Store.ListGames(ctx, poolID)
	if err != nil {
		return nil, err
	}

	// Walk games rather than picks so the result is in game time order
	byGame := make(map[primitive.ObjectID]store.Pick, len(picks))
	for _, pick := range picks {
		byGame[pick.GameID] = pick
	}
	views := []PickView{}
	for _, game := range gameList {
		pick, ok := byGame[game.ID]
		if !ok {
			continue
		}
		views = append(views, PickView{
			PickID:           pick.ID,
			GameID:           game.ID,
			GameTitle:        game.GameTitle,
			HomeTeam:         game.HomeTeam,
			AwayTeam:         game.AwayTeam,
			SelectedTeam:     pick.SelectedTeam,
			ConfidencePoints: pick.ConfidencePoints,
			IsComplete:       game.IsComplete,
			Winner:           game.Winner,
			IsCorrect:        pick.IsCorrect,
			GameTime:         game.GameTime,
			Round:            string(pick.Round),
			DependentID:      pick.DependentID,
			CreatedAt:        pick.CreatedAt,
		})
	}
	return views, nil
}

// GetPickStatus reports how many of a pool's games the caller (or their dependent) has picked
// Preconditions: Receives context, the authenticated participant id, pool id and optional dependent id
// Postconditions: Returns the pick status, or an error if it occurs
func (a *API) GetPickStatus(ctx context.Context, callerID, poolID primitive.ObjectID, dependentID *primitive.ObjectID) (PickStatus, error) {
	picker, err := a.ownedPicker(ctx, callerID, dependentID)
	if err != nil {
		return PickStatus{}, err
	}

	made, err := a.Store.CountPicks(ctx, store.PickFilter{PoolID: poolID, Picker: &picker})
	if err != nil {
		return PickStatus{}, err
	}
	games, err := a.Store.ListGames(ctx, poolID)
	if err != nil {
		return PickStatus{}, err
	}

	remaining := len(games) - int(made)
	if remaining < 0 {
		remaining = 0
	}
	return PickStatus{
		PicksMade:      int(made),
		RemainingPicks: remaining,
		IsComplete:     int(made) >= len(games) && len(games) > 0,
	}, nil
}

// GetPicksSummary builds the grid of every picker's picks for every game of the active pool, newest game first.
// Every picker who has made a pick is listed, including pickers who have since left the pool
// Preconditions: Receives context
// Postconditions: Returns the summary, ErrNoActivePool, or an error if it occurs
func (a *API) GetPicksSummary(ctx context.Context) (PicksSummary, error) {
	pool, err := a.activePool(ctx)
	if err != nil {
		return PicksSummary{}, err
	}
	games, err := a.Store.ListGames(ctx, pool.ID)
	if err != nil {
		return PicksSummary{}, err
	}
	picks, err := a.Store.ListPicks(ctx, store.PickFilter{PoolID: pool.ID})
	if err != nil {
		return PicksSummary{}, err
	}
	participants, err := a.Store.ListPoolParticipants(ctx, pool.ID)
	if err != nil {
		return PicksSummary{}, err
	}

	points := make(map[string]PointsSummary)
	cells := make(map[primitive.ObjectID]map[string]PickCell)
	for _, pick := range picks {
		key := pick.Picker().Key()
		summary := points[key]
		summary.MaxPoints += pick.ConfidencePoints
		if pick.IsCorrect != nil && *pick.IsCorrect {
			summary.TotalPoints += pick.ConfidencePoints
		}
		points[key] = summary

		if cells[pick.GameID] == nil {
			cells[pick.GameID] = make(map[string]PickCell)
		}
		cells[pick.GameID][key] = PickCell{
			SelectedTeam:     pick.SelectedTeam,
			ConfidencePoints: pick.ConfidencePoints,
			IsCorrect:        pick.IsCorrect,
		}
	}

	pickers, err := a.summaryPickers(ctx, picks, participants)
	if err != nil {
		return PicksSummary{}, err
	}

	gamePicks := make([]GamePicks, 0, len(games))
	for i := len(games) - 1; i >= 0; i-- {
		game := games[i]
		gameCells := cells[game.ID]
		if gameCells == nil {
			gameCells = map[string]PickCell{}
		}
		gamePicks = append(gamePicks, GamePicks{
			GameID:    game.ID,
			GameTitle: game.GameTitle,
			HomeTeam:  game.HomeTeam,
			AwayTeam:  game.AwayTeam,
			GameTime:  game.GameTime,
			Round:     string(game.Round),
			Picks:     gameCells,
		})
	}

	return PicksSummary{
		PoolID:        pool.ID,
		PoolName:      pool.Name,
		Round:         string(pool.Round),
		Games:         gamePicks,
		Pickers:       pickers,
		PointsSummary: points,
	}, nil
}

// ownedPicker returns the picker for the caller, or for one of the caller's dependents
func (a *API) ownedPicker(ctx context.Context, callerID primitive.ObjectID, dependentID *primitive.ObjectID) (shared.Picker, error) {
	if dependentID == nil {
		return shared.Self(callerID), nil
	}
	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return shared.Picker{}, err
	}
	if _, ok := participant.FindDependent(*dependentID); !ok {
		return shared.Picker{}, fmt.Errorf("%w: %s", shared.ErrDependentNotFound, dependentID.Hex())
	}
	return shared.ForDependent(callerID, *dependentID), nil
}

// gamesForPicks loads the games of every pool referenced by a batch
func (a *API) gamesForPicks(ctx context.Context, picks []logic.ValidatedPick) (map[primitive.ObjectID]store.Game, error) {
	games := make(map[primitive.ObjectID]store.Game)
	loaded := make(map[primitive.ObjectID]bool)
	for _, pick := range picks {
		if loaded[pick.PoolID] {
			continue
		}
		loaded[pick.PoolID] = true

		poolGames, err := a.Store.ListGames(ctx, pick.PoolID)
		if err != nil {
			return nil, err
		}
		for _, game := range poolGames {
			games[game.ID] = game
		}
	}
	return games, nil
}

// pickerView converts a picker description for API responses
// summaryPickers lists every distinct picker that appears in picks. Current members come first in roster order,
// followed by pickers no longer on the roster in the order their picks were found
func (a *API) summaryPickers(ctx context.Context, picks []store.Pick, participants []store.Participant) ([]PickerView, error) {
	picked := make(map[string]bool)
	for _, pick := range picks {
		picked[pick.Picker().Key()] = true
	}

	pickers := []PickerView{}
	listed := make(map[string]bool)
	for _, info := range logic.RosterPickers(participants) {
		key := info.Picker.Key()
		if picked[key] {
			pickers = append(pickers, pickerView(info))
			listed[key] = true
		}
	}

	for _, pick := range picks {
		picker := pick.Picker()
		key := picker.Key()
		if listed[key] {
			continue
		}
		info, err := a.formerPicker(ctx, picker)
		if err != nil {
			return nil, err
		}
		pickers = append(pickers, pickerView(info))
		listed[key] = true
	}
	return pickers, nil
}

// formerPicker names a picker who is not on the pool roster. A participant that no longer exists is listed under
// the picker key
func (a *API) formerPicker(ctx context.Context, picker shared.Picker) (logic.PickerInfo, error) {
	info := logic.PickerInfo{Picker: picker, DisplayName: picker.Key()}
	participant, err := a.Store.GetParticipant(ctx, picker.ParticipantID)
	if errors.Is(err, shared.ErrNotFound) {
		return info, nil
	}
	if err != nil {
		return logic.PickerInfo{}, err
	}

	if !picker.IsDependent() {
		info.DisplayName = participant.Name()
		return info, nil
	}
	info.ParentName = participant.Name()
	if dependent, ok := participant.FindDependent(*picker.DependentID); ok {
		info.DisplayName = dependent.DisplayName
	}
	return info, nil
}

func pickerView(info logic.PickerInfo) PickerView {
	return PickerView{
		PickerID:      info.Picker.Key(),
		ParticipantID: info.Picker.ParticipantID,
		DependentID:   info.Picker.DependentID,
		DisplayName:   info.DisplayName,
		ParentName:    info.ParentName,
		IsDependent:   info.Picker.IsDependent(),
	}
}
