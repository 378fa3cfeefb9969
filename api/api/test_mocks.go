/* test_mocks.go
 * Contains an in-memory implementation of store.Interface for testing the API package and its callers. It follows the
 * semantics of the mongo store: unique pick keys, upserts, ordering of list results and not found errors
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockStore implements the store Interface for testing
type MockStore struct {
	mu sync.Mutex

	Clock clockwork.Clock

	// Storage for mock data, in insertion order
	Pools        []store.Pool
	Games        []store.Game
	Participants []store.Participant
	Picks        []store.Pick
	ActivePoolID primitive.ObjectID

	// Error injection for testing error paths, keyed by method name e.g. "ListGames"
	Errors map[string]error

	// PickWriteLimit, when set, is the number of picks that can be written before every further pick write fails
	PickWriteLimit *int
	pickWrites     int
}

// NewMockStore creates an empty MockStore with a fake clock
func NewMockStore() *MockStore {
	return &MockStore{
		Clock:  clockwork.NewFakeClockAt(time.Date(2025, time.January, 11, 18, 0, 0, 0, time.UTC)),
		Errors: make(map[string]error),
	}
}

// region Test helpers

// FailOn makes every call to the named method return err
func (m *MockStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Errors == nil {
		m.Errors = make(map[string]error)
	}
	m.Errors[method] = err
}

// LimitPickWrites lets n more picks be written, after which pick writes fail with a storage error
func (m *MockStore) LimitPickWrites(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PickWriteLimit = &n
	m.pickWrites = 0
}

// AllPicks returns a copy of every stored pick
func (m *MockStore) AllPicks() []store.Pick {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Pick(nil), m.Picks...)
}

func (m *MockStore) fail(method string) error {
	if m.Errors == nil {
		return nil
	}
	return m.Errors[method]
}

func (m *MockStore) now() time.Time {
	if m.Clock == nil {
		m.Clock = clockwork.NewRealClock()
	}
	return m.Clock.Now()
}

func (m *MockStore) pickWriteAllowed() error {
	if m.PickWriteLimit == nil {
		return nil
	}
	if m.pickWrites >= *m.PickWriteLimit {
		return fmt.Errorf("mock write limit reached: %w", shared.ErrStorageFailure)
	}
	m.pickWrites++
	return nil
}

func copyParticipant(p store.Participant) store.Participant {
	p.Dependents = append([]store.Dependent{}, p.Dependents...)
	p.ParticipatingPools = append([]store.PoolMembership{}, p.ParticipatingPools...)
	return p
}

func copyPool(p store.Pool) store.Pool {
	p.Participants = append([]primitive.ObjectID{}, p.Participants...)
	return p
}

// endregion

// region Pools

func (m *MockStore) CreatePool(ctx context.Context, pool store.Pool) (store.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreatePool"); err != nil {
		return store.Pool{}, err
	}
	now := m.now()
	pool.ID = primitive.NewObjectID()
	pool.CreatedAt = now
	pool.UpdatedAt = now
	if pool.Participants == nil {
		pool.Participants = []primitive.ObjectID{}
	}
	m.Pools = append(m.Pools, copyPool(pool))
	return pool, nil
}

func (m *MockStore) findPool(poolID primitive.ObjectID) int {
	for i, p := range m.Pools {
		if p.ID == poolID {
			return i
		}
	}
	return -1
}

func (m *MockStore) GetPool(ctx context.Context, poolID primitive.ObjectID) (store.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetPool"); err != nil {
		return store.Pool{}, err
	}
	i := m.findPool(poolID)
	if i < 0 {
		return store.Pool{}, fmt.Errorf("pool %w", shared.ErrNotFound)
	}
	return copyPool(m.Pools[i]), nil
}

func (m *MockStore) UpdatePool(ctx context.Context, pool store.Pool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdatePool"); err != nil {
		return err
	}
	i := m.findPool(pool.ID)
	if i < 0 {
		return fmt.Errorf("pool %w", shared.ErrNotFound)
	}
	stored := &m.Pools[i]
	stored.Name = pool.Name
	stored.Round = pool.Round
	stored.StartDate = pool.StartDate
	stored.EndDate = pool.EndDate
	stored.TotalGames = pool.TotalGames
	stored.EntryFee = pool.EntryFee
	stored.UpdatedAt = m.now()
	return nil
}

func (m *MockStore) ListAdminPools(ctx context.Context, adminID primitive.ObjectID) ([]store.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListAdminPools"); err != nil {
		return nil, err
	}
	pools := []store.Pool{}
	for i := len(m.Pools) - 1; i >= 0; i-- {
		if m.Pools[i].Admin == adminID {
			pools = append(pools, copyPool(m.Pools[i]))
		}
	}
	return pools, nil
}

func (m *MockStore) AddPoolParticipant(ctx context.Context, poolID, participantID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AddPoolParticipant"); err != nil {
		return err
	}
	i := m.findPool(poolID)
	if i < 0 {
		return fmt.Errorf("pool %w", shared.ErrNotFound)
	}
	if !m.Pools[i].HasParticipant(participantID) {
		m.Pools[i].Participants = append(m.Pools[i].Participants, participantID)
	}
	return nil
}

func (m *MockStore) RemovePoolParticipant(ctx context.Context, poolID, participantID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RemovePoolParticipant"); err != nil {
		return err
	}
	i := m.findPool(poolID)
	if i < 0 {
		return nil
	}
	kept := []primitive.ObjectID{}
	for _, id := range m.Pools[i].Participants {
		if id != participantID {
			kept = append(kept, id)
		}
	}
	m.Pools[i].Participants = kept
	return nil
}

// endregion

// region Settings

func (m *MockStore) GetActivePoolID(ctx context.Context) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetActivePoolID"); err != nil {
		return primitive.NilObjectID, err
	}
	if m.ActivePoolID.IsZero() {
		return primitive.NilObjectID, shared.ErrNoActivePool
	}
	return m.ActivePoolID, nil
}

func (m *MockStore) SetActivePoolID(ctx context.Context, poolID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetActivePoolID"); err != nil {
		return err
	}
	m.ActivePoolID = poolID
	return nil
}

// endregion

// region Games

func (m *MockStore) CreateGame(ctx context.Context, game store.Game) (store.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateGame"); err != nil {
		return store.Game{}, err
	}
	game.ID = primitive.NewObjectID()
	game.IsComplete = false
	game.Winner = ""
	m.Games = append(m.Games, game)
	return game, nil
}

func (m *MockStore) findGame(gameID primitive.ObjectID) int {
	for i, g := range m.Games {
		if g.ID == gameID {
			return i
		}
	}
	return -1
}

func (m *MockStore) GetGame(ctx context.Context, gameID primitive.ObjectID) (store.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetGame"); err != nil {
		return store.Game{}, err
	}
	i := m.findGame(gameID)
	if i < 0 {
		return store.Game{}, fmt.Errorf("game %w", shared.ErrNotFound)
	}
	return m.Games[i], nil
}

func (m *MockStore) UpdateGame(ctx context.Context, game store.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateGame"); err != nil {
		return err
	}
	i := m.findGame(game.ID)
	if i < 0 {
		return fmt.Errorf("game %w", shared.ErrNotFound)
	}
	stored := &m.Games[i]
	stored.GameTitle = game.GameTitle
	stored.Round = game.Round
	stored.HomeTeam = game.HomeTeam
	stored.AwayTeam = game.AwayTeam
	stored.GameTime = game.GameTime
	stored.TVNetwork = game.TVNetwork
	return nil
}

func (m *MockStore) ListGames(ctx context.Context, poolID primitive.ObjectID) ([]store.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListGames"); err != nil {
		return nil, err
	}
	games := []store.Game{}
	for _, g := range m.Games {
		if g.PoolID == poolID {
			games = append(games, g)
		}
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].GameTime.Before(games[j].GameTime) })
	return games, nil
}

func (m *MockStore) SetGameResult(ctx context.Context, gameID primitive.ObjectID, winner string, isComplete bool) (store.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetGameResult"); err != nil {
		return store.Game{}, err
	}
	i := m.findGame(gameID)
	if i < 0 {
		return store.Game{}, fmt.Errorf("game %w", shared.ErrNotFound)
	}
	if !isComplete {
		winner = ""
	}
	m.Games[i].Winner = winner
	m.Games[i].IsComplete = isComplete
	return m.Games[i], nil
}

// endregion

// region Participants

func (m *MockStore) CreateParticipant(ctx context.Context, participant store.Participant) (store.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateParticipant"); err != nil {
		return store.Participant{}, err
	}
	for _, p := range m.Participants {
		if p.Token == participant.Token || p.Username == participant.Username {
			return store.Participant{}, fmt.Errorf("%w: participant already exists", shared.ErrInvalidInput)
		}
	}
	participant.ID = primitive.NewObjectID()
	participant.CreatedAt = m.now()
	if participant.Dependents == nil {
		participant.Dependents = []store.Dependent{}
	}
	if participant.ParticipatingPools == nil {
		participant.ParticipatingPools = []store.PoolMembership{}
	}
	m.Participants = append(m.Participants, copyParticipant(participant))
	return participant, nil
}

func (m *MockStore) findParticipant(participantID primitive.ObjectID) int {
	for i, p := range m.Participants {
		if p.ID == participantID {
			return i
		}
	}
	return -1
}

func (m *MockStore) GetParticipant(ctx context.Context, participantID primitive.ObjectID) (store.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetParticipant"); err != nil {
		return store.Participant{}, err
	}
	i := m.findParticipant(participantID)
	if i < 0 {
		return store.Participant{}, fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	return copyParticipant(m.Participants[i]), nil
}

func (m *MockStore) GetParticipantByToken(ctx context.Context, token string) (store.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetParticipantByToken"); err != nil {
		return store.Participant{}, err
	}
	for _, p := range m.Participants {
		if p.Token == token {
			return copyParticipant(p), nil
		}
	}
	return store.Participant{}, fmt.Errorf("participant %w", shared.ErrNotFound)
}

func (m *MockStore) UpdateParticipantProfile(ctx context.Context, participant store.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateParticipantProfile"); err != nil {
		return err
	}
	i := m.findParticipant(participant.ID)
	if i < 0 {
		return fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	m.Participants[i].DisplayName = participant.DisplayName
	m.Participants[i].Email = participant.Email
	m.Participants[i].Location = participant.Location
	return nil
}

func (m *MockStore) ListPoolParticipants(ctx context.Context, poolID primitive.ObjectID) ([]store.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListPoolParticipants"); err != nil {
		return nil, err
	}
	participants := []store.Participant{}
	for _, p := range m.Participants {
		if _, ok := p.Membership(poolID); ok {
			participants = append(participants, copyParticipant(p))
		}
	}
	return participants, nil
}

func (m *MockStore) AddMembership(ctx context.Context, participantID primitive.ObjectID, membership store.PoolMembership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AddMembership"); err != nil {
		return err
	}
	i := m.findParticipant(participantID)
	if i < 0 {
		return nil
	}
	if _, ok := m.Participants[i].Membership(membership.PoolID); !ok {
		m.Participants[i].ParticipatingPools = append(m.Participants[i].ParticipatingPools, membership)
	}
	return nil
}

func (m *MockStore) RemoveMembership(ctx context.Context, participantID, poolID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RemoveMembership"); err != nil {
		return err
	}
	i := m.findParticipant(participantID)
	if i < 0 {
		return fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	kept := []store.PoolMembership{}
	for _, ms := range m.Participants[i].ParticipatingPools {
		if ms.PoolID != poolID {
			kept = append(kept, ms)
		}
	}
	m.Participants[i].ParticipatingPools = kept
	return nil
}

func (m *MockStore) AddDependent(ctx context.Context, participantID primitive.ObjectID, dependent store.Dependent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AddDependent"); err != nil {
		return err
	}
	i := m.findParticipant(participantID)
	if i < 0 {
		return fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	m.Participants[i].Dependents = append(m.Participants[i].Dependents, dependent)
	return nil
}

func (m *MockStore) RenameDependent(ctx context.Context, participantID, dependentID primitive.ObjectID, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RenameDependent"); err != nil {
		return err
	}
	i := m.findParticipant(participantID)
	if i < 0 {
		return shared.ErrDependentNotFound
	}
	for j := range m.Participants[i].Dependents {
		if m.Participants[i].Dependents[j].ID == dependentID {
			m.Participants[i].Dependents[j].DisplayName = displayName
			return nil
		}
	}
	return shared.ErrDependentNotFound
}

func (m *MockStore) RemoveDependent(ctx context.Context, participantID, dependentID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RemoveDependent"); err != nil {
		return err
	}
	i := m.findParticipant(participantID)
	if i < 0 {
		return shared.ErrDependentNotFound
	}
	deps := m.Participants[i].Dependents
	for j := range deps {
		if deps[j].ID == dependentID {
			m.Participants[i].Dependents = append(deps[:j:j], deps[j+1:]...)
			return nil
		}
	}
	return shared.ErrDependentNotFound
}

// endregion

// region Picks

// pickKey is the unique (participant, dependent, game, pool) key of a pick
func pickKey(pick store.Pick) string {
	return pick.Picker().Key() + "/" + pick.GameID.Hex() + "/" + pick.PoolID.Hex()
}

func (m *MockStore) findPick(key string) int {
	for i, p := range m.Picks {
		if pickKey(p) == key {
			return i
		}
	}
	return -1
}

func (m *MockStore) InsertPick(ctx context.Context, pick store.Pick) (store.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertPick"); err != nil {
		return store.Pick{}, err
	}
	if m.findPick(pickKey(pick)) >= 0 {
		return store.Pick{}, fmt.Errorf("%w: game %s", shared.ErrDuplicatePick, pick.GameID.Hex())
	}
	if err := m.pickWriteAllowed(); err != nil {
		return store.Pick{}, err
	}
	now := m.now()
	pick.ID = primitive.NewObjectID()
	pick.CreatedAt = now
	pick.UpdatedAt = now
	m.Picks = append(m.Picks, pick)
	return pick, nil
}

// upsertPick writes a pick the same way as the store's conditional upsert. The caller must hold the lock
func (m *MockStore) upsertPick(pick store.Pick) (store.Pick, error) {
	if err := m.pickWriteAllowed(); err != nil {
		return store.Pick{}, err
	}
	now := m.now()
	if i := m.findPick(pickKey(pick)); i >= 0 {
		stored := &m.Picks[i]
		stored.SelectedTeam = pick.SelectedTeam
		stored.ConfidencePoints = pick.ConfidencePoints
		stored.IsCorrect = pick.IsCorrect
		stored.UpdatedAt = now
		return *stored, nil
	}
	pick.ID = primitive.NewObjectID()
	pick.CreatedAt = now
	pick.UpdatedAt = now
	m.Picks = append(m.Picks, pick)
	return pick, nil
}

func (m *MockStore) UpsertPick(ctx context.Context, pick store.Pick) (store.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpsertPick"); err != nil {
		return store.Pick{}, err
	}
	return m.upsertPick(pick)
}

func (m *MockStore) UpsertPicks(ctx context.Context, picks []store.Pick) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpsertPicks"); err != nil {
		return 0, err
	}
	written := 0
	for _, pick := range picks {
		if _, err := m.upsertPick(pick); err != nil {
			return 0, err
		}
		written++
	}
	return written, nil
}

func matchesFilter(pick store.Pick, filter store.PickFilter) bool {
	if !filter.PoolID.IsZero() && pick.PoolID != filter.PoolID {
		return false
	}
	if !filter.GameID.IsZero() && pick.GameID != filter.GameID {
		return false
	}
	if filter.Picker != nil {
		return pick.Picker().Equal(*filter.Picker)
	}
	return filter.ParticipantID.IsZero() || pick.ParticipantID == filter.ParticipantID
}

func (m *MockStore) ListPicks(ctx context.Context, filter store.PickFilter) ([]store.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListPicks"); err != nil {
		return nil, err
	}
	picks := []store.Pick{}
	for _, p := range m.Picks {
		if matchesFilter(p, filter) {
			picks = append(picks, p)
		}
	}
	return picks, nil
}

func (m *MockStore) CountPicks(ctx context.Context, filter store.PickFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CountPicks"); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range m.Picks {
		if matchesFilter(p, filter) {
			n++
		}
	}
	return n, nil
}

func (m *MockStore) MarkPicksCorrect(ctx context.Context, gameID primitive.ObjectID, winner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("MarkPicksCorrect"); err != nil {
		return 0, err
	}
	if winner == "" {
		return 0, errors.New("winner cannot be empty")
	}
	var n int64
	for i := range m.Picks {
		if m.Picks[i].GameID == gameID {
			correct := m.Picks[i].SelectedTeam == winner
			m.Picks[i].IsCorrect = &correct
			n++
		}
	}
	return n, nil
}

func (m *MockStore) ResetPickCorrectness(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ResetPickCorrectness"); err != nil {
		return 0, err
	}
	var n int64
	for i := range m.Picks {
		if m.Picks[i].GameID == gameID {
			m.Picks[i].IsCorrect = nil
			n++
		}
	}
	return n, nil
}

// endregion

func (m *MockStore) Disconnect(ctx context.Context) error {
	return nil
}

// Ensure MockStore implements Interface
var _ store.Interface = (*MockStore)(nil)
