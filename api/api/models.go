/* models.go
 * This file contain the request and response structs that are used by api consumers
 * Authors: Zachary Bower
 */

package api

import (
	"time"

	"confidence-pool/api/logic"
	"confidence-pool/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// region Picks

// SubmitPicksRequest is a batch of picks submitted by a participant for themself or one of their dependents.
// ParticipantID is optional; when given it must be the caller
type SubmitPicksRequest struct {
	ParticipantID *primitive.ObjectID `json:"participantId,omitempty"`
	DependentID   *primitive.ObjectID `json:"dependentId,omitempty"`
	Picks         []logic.PickInput   `json:"picks"`
	Upsert        bool                `json:"upsert"`
}

// AdminPicksRequest is a batch of picks a pool admin submits on behalf of a participant
type AdminPicksRequest struct {
	ParticipantID primitive.ObjectID  `json:"participantId"`
	DependentID   *primitive.ObjectID `json:"dependentId,omitempty"`
	Picks         []logic.PickInput   `json:"picks"`
}

// SubmitPicksResult is the outcome of a pick submission
type SubmitPicksResult struct {
	WrittenCount int          `json:"writtenCount"`
	Picks        []store.Pick `json:"picks,omitempty"`
}

// PickView is a stored pick joined with its game
type PickView struct {
	PickID           primitive.ObjectID  `json:"pickId"`
	GameID           primitive.ObjectID  `json:"gameId"`
	GameTitle        string              `json:"gameTitle"`
	HomeTeam         string              `json:"homeTeam"`
	AwayTeam         string              `json:"awayTeam"`
	SelectedTeam     string              `json:"selectedTeam"`
	ConfidencePoints int                 `json:"confidencePoints"`
	IsComplete       bool                `json:"isComplete"`
	Winner           string              `json:"winner"`
	IsCorrect        *bool               `json:"isCorrect"`
	GameTime         time.Time           `json:"gameTime"`
	Round            string              `json:"round"`
	DependentID      *primitive.ObjectID `json:"dependentId"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// PickStatus reports how many of a pool's games a picker has picked
type PickStatus struct {
	PicksMade      int  `json:"picksMade"`
	RemainingPicks int  `json:"remainingPicks"`
	IsComplete     bool `json:"isComplete"`
}

// PicksSummary is every picker's picks for every game of the active pool
type PicksSummary struct {
	PoolID        primitive.ObjectID       `json:"poolId"`
	PoolName      string                   `json:"poolName"`
	Round         string                   `json:"round"`
	Games         []GamePicks              `json:"games"`
	Pickers       []PickerView             `json:"pickers"`
	PointsSummary map[string]PointsSummary `json:"pointsSummary"`
}

// GamePicks is one game and the picks made for it, keyed by picker id
type GamePicks struct {
	GameID    primitive.ObjectID  `json:"gameId"`
	GameTitle string              `json:"gameTitle"`
	HomeTeam  string              `json:"homeTeam"`
	AwayTeam  string              `json:"awayTeam"`
	GameTime  time.Time           `json:"gameTime"`
	Round     string              `json:"round"`
	Picks     map[string]PickCell `json:"picks"`
}

// PickCell is a single pick in the summary grid
type PickCell struct {
	SelectedTeam     string `json:"selectedTeam"`
	ConfidencePoints int    `json:"confidencePoints"`
	IsCorrect        *bool  `json:"isCorrect"`
}

// PickerView identifies a picker in API responses
type PickerView struct {
	PickerID      string              `json:"pickerId"`
	ParticipantID primitive.ObjectID  `json:"participantId"`
	DependentID   *primitive.ObjectID `json:"dependentId"`
	DisplayName   string              `json:"displayName"`
	ParentName    string              `json:"parentName,omitempty"`
	IsDependent   bool                `json:"isDependent"`
}

// PointsSummary is the points a picker has won so far and the points they have put on the line
type PointsSummary struct {
	TotalPoints int `json:"totalPoints"`
	MaxPoints   int `json:"maxPoints"`
}

// endregion

// region Games

// GameInput holds the attributes of a game for create and update. Nil fields are left unchanged on update
type GameInput struct {
	GameTitle *string    `json:"gameTitle"`
	HomeTeam  *string    `json:"homeTeam"`
	AwayTeam  *string    `json:"awayTeam"`
	GameTime  *time.Time `json:"gameTime"`
	Round     *string    `json:"round"`
	TVNetwork *string    `json:"tvNetwork"`
}

// GameResultRequest records the outcome of a game, or reopens it when IsComplete is false
type GameResultRequest struct {
	Winner     string `json:"winner"`
	IsComplete bool   `json:"isComplete"`
}

// GameResult is the outcome of a game after it was recorded
type GameResult struct {
	GameID     primitive.ObjectID `json:"gameId"`
	GameTitle  string             `json:"gameTitle"`
	Winner     string             `json:"winner"`
	IsComplete bool               `json:"isComplete"`
}

// GameView is a game with a display status
type GameView struct {
	store.Game
	Status string `json:"status"`
}

// endregion

// region Pools

// PoolInput holds the settings of a pool for create and update. Nil fields are left unchanged on update
type PoolInput struct {
	Name       *string    `json:"name"`
	Round      *string    `json:"round"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	TotalGames *int       `json:"totalGames"`
	EntryFee   *float64   `json:"entryFee"`
}

// PoolView is a pool as seen by a participant
type PoolView struct {
	store.Pool
	IsActive         bool       `json:"isActive"`
	IsAdmin          bool       `json:"isAdmin"`
	JoinedAt         *time.Time `json:"joinedAt,omitempty"`
	ParticipantCount int        `json:"participantCount"`
}

// ParticipantPicks is a pool participant with the number of picks they and their dependents have made
type ParticipantPicks struct {
	ParticipantID primitive.ObjectID `json:"participantId"`
	Username      string             `json:"username"`
	DisplayName   string             `json:"displayName"`
	Email         string             `json:"email,omitempty"`
	PicksCount    int                `json:"picksCount"`
	TotalGames    int                `json:"totalGames"`
	PicksComplete bool               `json:"picksComplete"`
	Dependents    []DependentPicks   `json:"dependents"`
}

// DependentPicks is a dependent with the number of picks made for them
type DependentPicks struct {
	DependentID   primitive.ObjectID `json:"dependentId"`
	DisplayName   string             `json:"displayName"`
	ParentID      primitive.ObjectID `json:"parentId"`
	ParentName    string             `json:"parentName"`
	PicksCount    int                `json:"picksCount"`
	TotalGames    int                `json:"totalGames"`
	PicksComplete bool               `json:"picksComplete"`
}

// endregion

// region Participants

// RegisterRequest holds the details of a new participant. Username is generated from the display name when empty
type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Location    string `json:"location"`
}

// Registration is returned once on registration; the token is the participant's credential
type Registration struct {
	Token       string            `json:"token"`
	Participant store.Participant `json:"participant"`
}

// ProfileInput holds profile changes. Nil fields are left unchanged
type ProfileInput struct {
	DisplayName *string `json:"displayName"`
	Email       *string `json:"email"`
	Location    *string `json:"location"`
}

// endregion

// region Standings

// StandingsResponse is the ranked standings of the active pool
type StandingsResponse struct {
	PoolID               primitive.ObjectID `json:"poolId"`
	PoolName             string             `json:"poolName"`
	CompletedGames       int                `json:"completedGames"`
	GamesCreated         int                `json:"gamesCreated"`
	TotalGames           int                `json:"totalGames"`
	TotalAvailablePoints int                `json:"totalAvailablePoints"`
	Standings            []StandingEntry    `json:"standings"`
}

// StandingEntry is one ranked picker
type StandingEntry struct {
	Rank int `json:"rank"`
	PickerView
	EarnedPoints   int `json:"earnedPoints"`
	PossiblePoints int `json:"possiblePoints"`
	LostPoints     int `json:"lostPoints"`
	CorrectPicks   int `json:"correctPicks"`
	TotalPicks     int `json:"totalPicks"`
	CompletedPicks int `json:"completedPicks"`
}

// endregion
