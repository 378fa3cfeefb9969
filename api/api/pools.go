/* pools.go
 * Contains the API methods for creating, joining and administering pools
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePool creates a pool administered by the caller. The caller joins the pool and it becomes the active pool
// Preconditions: Receives context, the authenticated participant id and the pool settings. Name, start date and end
// date are required
// Postconditions: Returns the created pool, or an error if it occurs
func (a *API) CreatePool(ctx context.Context, callerID primitive.ObjectID, input PoolInput) (PoolView, error) {
	if input.Name == nil || input.StartDate == nil || input.EndDate == nil {
		return PoolView{}, fmt.Errorf("%w: name, startDate and endDate are required", shared.ErrInvalidInput)
	}
	if _, err := a.Store.GetParticipant(ctx, callerID); err != nil {
		return PoolView{}, err
	}

	pool := store.Pool{
		Admin:        callerID,
		Round:        shared.RoundWildCard,
		TotalGames:   a.totalGames(store.Pool{}),
		Participants: []primitive.ObjectID{callerID},
	}
	if err := applyPoolInput(&pool, input); err != nil {
		return PoolView{}, err
	}

	created, err := a.Store.CreatePool(ctx, pool)
	if err != nil {
		return PoolView{}, err
	}
	joinedAt := a.Clock.Now()
	if err := a.Store.AddMembership(ctx, callerID, store.PoolMembership{PoolID: created.ID, JoinedAt: joinedAt}); err != nil {
		return PoolView{}, err
	}
	if err := a.Store.SetActivePoolID(ctx, created.ID); err != nil {
		return PoolView{}, err
	}

	log.Info().Str("pool_id", created.ID.Hex()).Str("admin", callerID.Hex()).Str("name", created.Name).Msg("pool created")
	return PoolView{
		Pool:             created,
		IsActive:         true,
		IsAdmin:          true,
		JoinedAt:         &joinedAt,
		ParticipantCount: len(created.Participants),
	}, nil
}

// GetPool gets a pool by id
// Preconditions: Receives context, the authenticated participant id and pool id
// Postconditions: Returns the pool, or an error if it occurs
func (a *API) GetPool(ctx context.Context, callerID, poolID primitive.ObjectID) (PoolView, error) {
	pool, err := a.Store.GetPool(ctx, poolID)
	if err != nil {
		return PoolView{}, err
	}
	return a.poolView(ctx, pool, callerID, nil), nil
}

// UpdatePool changes the settings of a pool. Only the pool admin can do this
// Preconditions: Receives context, the authenticated admin id, pool id and the settings to change
// Postconditions: Returns the updated pool, or an error if it occurs
func (a *API) UpdatePool(ctx context.Context, callerID, poolID primitive.ObjectID, input PoolInput) (PoolView, error) {
	pool, err := a.requirePoolAdmin(ctx, poolID, callerID)
	if err != nil {
		return PoolView{}, err
	}
	if err := applyPoolInput(&pool, input); err != nil {
		return PoolView{}, err
	}
	if err := a.Store.UpdatePool(ctx, pool); err != nil {
		return PoolView{}, err
	}
	return a.poolView(ctx, pool, callerID, nil), nil
}

// ListAdminPools gets the pools the caller administers, newest first
func (a *API) ListAdminPools(ctx context.Context, callerID primitive.ObjectID) ([]PoolView, error) {
	pools, err := a.Store.ListAdminPools(ctx, callerID)
	if err != nil {
		return nil, err
	}
	activeID := a.activePoolID(ctx)
	views := make([]PoolView, 0, len(pools))
	for _, pool := range pools {
		views = append(views, a.poolView(ctx, pool, callerID, &activeID))
	}
	return views, nil
}

// JoinPool adds the caller to a pool
// Preconditions: Receives context, the authenticated participant id and pool id
// Postconditions: Returns the pool, ErrInvalidInput if the caller already joined it, or an error if it occurs
func (a *API) JoinPool(ctx context.Context, callerID, poolID primitive.ObjectID) (PoolView, error) {
	pool, err := a.Store.GetPool(ctx, poolID)
	if err != nil {
		return PoolView{}, err
	}
	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return PoolView{}, err
	}
	if _, joined := participant.Membership(poolID); joined || pool.HasParticipant(callerID) {
		return PoolView{}, fmt.Errorf("%w: already a participant in this pool", shared.ErrInvalidInput)
	}

	joinedAt := a.Clock.Now()
	if err := a.Store.AddMembership(ctx, callerID, store.PoolMembership{PoolID: poolID, JoinedAt: joinedAt}); err != nil {
		return PoolView{}, err
	}
	if err := a.Store.AddPoolParticipant(ctx, poolID, callerID); err != nil {
		return PoolView{}, err
	}
	pool.Participants = append(pool.Participants, callerID)

	log.Info().Str("pool_id", poolID.Hex()).Str("participant", callerID.Hex()).Msg("participant joined pool")
	return a.poolView(ctx, pool, callerID, nil), nil
}

// LeavePool removes the caller from a pool. Picks already made are kept
// Preconditions: Receives context, the authenticated participant id and pool id
// Postconditions: Caller is no longer a participant, or an error is returned
func (a *API) LeavePool(ctx context.Context, callerID, poolID primitive.ObjectID) error {
	if _, err := a.Store.GetPool(ctx, poolID); err != nil {
		return err
	}
	if err := a.Store.RemoveMembership(ctx, callerID, poolID); err != nil {
		return err
	}
	if err := a.Store.RemovePoolParticipant(ctx, poolID, callerID); err != nil {
		return err
	}
	log.Info().Str("pool_id", poolID.Hex()).Str("participant", callerID.Hex()).Msg("participant left pool")
	return nil
}

// ActivatePool makes a pool the one currently in play. Only its admin can do this
// Preconditions: Receives context, the authenticated admin id and pool id
// Postconditions: Returns the pool, or an error if it occurs
func (a *API) ActivatePool(ctx context.Context, callerID, poolID primitive.ObjectID) (PoolView, error) {
	pool, err := a.requirePoolAdmin(ctx, poolID, callerID)
	if err != nil {
		return PoolView{}, err
	}
	if err := a.Store.SetActivePoolID(ctx, poolID); err != nil {
		return PoolView{}, err
	}
	log.Info().Str("pool_id", poolID.Hex()).Msg("pool activated")
	return a.poolView(ctx, pool, callerID, &poolID), nil
}

// GetActivePool gets the pool currently in play. The caller must have joined it
// Preconditions: Receives context and the authenticated participant id
// Postconditions: Returns the pool with the caller's join date, ErrNoActivePool, ErrForbidden if the caller is not a
// participant, or an error if it occurs
func (a *API) GetActivePool(ctx context.Context, callerID primitive.ObjectID) (PoolView, error) {
	pool, err := a.activePool(ctx)
	if err != nil {
		return PoolView{}, err
	}
	if !pool.HasParticipant(callerID) {
		return PoolView{}, fmt.Errorf("%w: you are not a participant in the active pool", shared.ErrForbidden)
	}
	return a.poolView(ctx, pool, callerID, &pool.ID), nil
}

// PoolParticipants lists the participants of a pool with how many picks they and each of their dependents have made.
// Only the pool admin can see this
// Preconditions: Receives context, the authenticated admin id and pool id
// Postconditions: Returns the participants in order of registration, or an error if it occurs
func (a *API) PoolParticipants(ctx context.Context, callerID, poolID primitive.ObjectID) ([]ParticipantPicks, error) {
	if _, err := a.requirePoolAdmin(ctx, poolID, callerID); err != nil {
		return nil, err
	}
	participants, err := a.Store.ListPoolParticipants(ctx, poolID)
	if err != nil {
		return nil, err
	}
	games, err := a.Store.ListGames(ctx, poolID)
	if err != nil {
		return nil, err
	}
	totalGames := len(games)

	result := make([]ParticipantPicks, 0, len(participants))
	for _, p := range participants {
		self := shared.Self(p.ID)
		count, err := a.Store.CountPicks(ctx, store.PickFilter{PoolID: poolID, Picker: &self})
		if err != nil {
			return nil, err
		}

		entry := ParticipantPicks{
			ParticipantID: p.ID,
			Username:      p.Username,
			DisplayName:   p.DisplayName,
			Email:         p.Email,
			PicksCount:    int(count),
			TotalGames:    totalGames,
			PicksComplete: totalGames > 0 && int(count) >= totalGames,
			Dependents:    []DependentPicks{},
		}
		for _, d := range p.Dependents {
			picker := shared.ForDependent(p.ID, d.ID)
			depCount, err := a.Store.CountPicks(ctx, store.PickFilter{PoolID: poolID, Picker: &picker})
			if err != nil {
				return nil, err
			}
			entry.Dependents = append(entry.Dependents, DependentPicks{
				DependentID:   d.ID,
				DisplayName:   d.DisplayName,
				ParentID:      p.ID,
				ParentName:    p.Name(),
				PicksCount:    int(depCount),
				TotalGames:    totalGames,
				PicksComplete: totalGames > 0 && int(depCount) >= totalGames,
			})
		}
		result = append(result, entry)
	}
	return result, nil
}

// applyPoolInput copies the provided settings onto a pool and checks the result
func applyPoolInput(pool *store.Pool, input PoolInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", shared.ErrInvalidInput)
		}
		pool.Name = name
	}
	if input.Round != nil {
		round, err := shared.ParseRound(*input.Round)
		if err != nil {
			return err
		}
		pool.Round = round
	}
	if input.StartDate != nil {
		pool.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		pool.EndDate = input.EndDate.UTC()
	}
	if input.TotalGames != nil {
		if *input.TotalGames < 1 {
			return fmt.Errorf("%w: totalGames must be a positive number", shared.ErrInvalidInput)
		}
		pool.TotalGames = *input.TotalGames
	}
	if input.EntryFee != nil {
		if *input.EntryFee < 0 {
			return fmt.Errorf("%w: entryFee cannot be negative", shared.ErrInvalidInput)
		}
		pool.EntryFee = *input.EntryFee
	}
	if !pool.EndDate.After(pool.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", shared.ErrInvalidInput)
	}
	return nil
}

// activePoolID returns the active pool id, or the zero id if there is none or the lookup fails
func (a *API) activePoolID(ctx context.Context) primitive.ObjectID {
	id, err := a.Store.GetActivePoolID(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNoActivePool) {
			log.Warn().Err(err).Msg("failed to look up active pool")
		}
		return primitive.NilObjectID
	}
	return id
}

// poolView builds the caller's view of a pool. When activeID is nil the active pool is looked up
func (a *API) poolView(ctx context.Context, pool store.Pool, callerID primitive.ObjectID, activeID *primitive.ObjectID) PoolView {
	var active primitive.ObjectID
	if activeID != nil {
		active = *activeID
	} else {
		active = a.activePoolID(ctx)
	}

	view := PoolView{
		Pool:             pool,
		IsActive:         !active.IsZero() && active == pool.ID,
		IsAdmin:          pool.Admin == callerID,
		ParticipantCount: len(pool.Participants),
	}

	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		log.Warn().Err(err).Str("participant", callerID.Hex()).Msg("failed to look up pool membership")
		return view
	}
	if membership, ok := participant.Membership(pool.ID); ok {
		joinedAt := membership.JoinedAt
		view.JoinedAt = &joinedAt
	}
	return view
}
