/* models.go
 * This file contain the structs that relate to DB objects: pools, games, participants, picks and the global settings
 * record
 * Authors: Zachary Bower
 */

package store

import (
	"confidence-pool/api/shared"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTotalGames is the number of games in an NFL playoff bracket (6 wild card, 4 divisional, 2 conference, 1 super bowl)
const DefaultTotalGames = 13

// Pool is a single pick'em competition. Whether it is the active pool is recorded in Settings, not on the pool
type Pool struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Admin        primitive.ObjectID   `bson:"admin" json:"admin"`
	Round        shared.Round         `bson:"round" json:"round"`
	StartDate    time.Time            `bson:"startdate" json:"startDate"`
	EndDate      time.Time            `bson:"enddate" json:"endDate"`
	TotalGames   int                  `bson:"totalgames" json:"totalGames"`
	EntryFee     float64              `bson:"entryfee,omitempty" json:"entryFee,omitempty"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	CreatedAt    time.Time            `bson:"createdat" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedat" json:"updatedAt"`
}

// HasParticipant reports whether the participant has joined the pool
func (p Pool) HasParticipant(participantID primitive.ObjectID) bool {
	for _, id := range p.Participants {
		if id == participantID {
			return true
		}
	}
	return false
}

// Game is a single playoff game belonging to a pool
type Game struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PoolID     primitive.ObjectID `bson:"poolid" json:"poolId"`
	Round      shared.Round       `bson:"round" json:"round"`
	GameTitle  string             `bson:"gametitle" json:"gameTitle"`
	HomeTeam   string             `bson:"hometeam" json:"homeTeam"`
	AwayTeam   string             `bson:"awayteam" json:"awayTeam"`
	GameTime   time.Time          `bson:"gametime" json:"gameTime"`
	TVNetwork  string             `bson:"tvnetwork,omitempty" json:"tvNetwork,omitempty"`
	IsComplete bool               `bson:"iscomplete" json:"isComplete"`
	Winner     string             `bson:"winner" json:"winner"`
}

// Dependent is a managed picker (e.g. a child) that acts under its parent participant's credentials
type Dependent struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName string             `bson:"displayname" json:"displayName"`
	CreatedAt   time.Time          `bson:"createdat" json:"createdAt"`
}

// PoolMembership records when a participant joined a pool
type PoolMembership struct {
	PoolID   primitive.ObjectID `bson:"poolid" json:"poolId"`
	JoinedAt time.Time          `bson:"joinedat" json:"joinedAt"`
}

// Participant is a registered user of the service
type Participant struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token              string             `bson:"token" json:"-"`
	Username           string             `bson:"username" json:"username"`
	DisplayName        string             `bson:"displayname" json:"displayName"`
	Email              string             `bson:"email,omitempty" json:"email,omitempty"`
	Location           string             `bson:"location,omitempty" json:"location,omitempty"`
	Dependents         []Dependent        `bson:"dependents" json:"dependents"`
	ParticipatingPools []PoolMembership   `bson:"participatingpools" json:"participatingPools"`
	CreatedAt          time.Time          `bson:"createdat" json:"createdAt"`
}

// Name returns the name shown in standings: the display name, or the username if no display name is set
func (p Participant) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

// FindDependent returns the dependent with the given id, or false if the participant has no such dependent
func (p Participant) FindDependent(dependentID primitive.ObjectID) (Dependent, bool) {
	for _, d := range p.Dependents {
		if d.ID == dependentID {
			return d, true
		}
	}
	return Dependent{}, false
}

// Membership returns the participant's membership record for a pool, or false if they have not joined it
func (p Participant) Membership(poolID primitive.ObjectID) (PoolMembership, bool) {
	for _, m := range p.ParticipatingPools {
		if m.PoolID == poolID {
			return m, true
		}
	}
	return PoolMembership{}, false
}

// Pick is a single picker's selection for one game. DependentID is stored as null for self picks so that it takes
// part in the unique (participantid, dependentid, gameid, poolid) index
type Pick struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ParticipantID    primitive.ObjectID  `bson:"participantid" json:"participantId"`
	DependentID      *primitive.ObjectID `bson:"dependentid" json:"dependentId"`
	GameID           primitive.ObjectID  `bson:"gameid" json:"gameId"`
	PoolID           primitive.ObjectID  `bson:"poolid" json:"poolId"`
	Round            shared.Round        `bson:"round" json:"round"`
	SelectedTeam     string              `bson:"selectedteam" json:"selectedTeam"`
	ConfidencePoints int                 `bson:"confidencepoints" json:"confidencePoints"`
	IsCorrect        *bool               `bson:"iscorrect" json:"isCorrect"`
	CreatedAt        time.Time           `bson:"createdat" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedat" json:"updatedAt"`
}

// Picker returns the picker the pick was made for
func (p Pick) Picker() shared.Picker {
	if p.DependentID == nil {
		return shared.Self(p.ParticipantID)
	}
	return shared.ForDependent(p.ParticipantID, *p.DependentID)
}

// PickFilter selects picks. Zero valued fields are not filtered on. When Picker is set, only that picker's picks
// (self or a specific dependent) are returned
type PickFilter struct {
	PoolID        primitive.ObjectID
	ParticipantID primitive.ObjectID
	Picker        *shared.Picker
	GameID        primitive.ObjectID
}

// Settings is the single process wide configuration record. It holds the id of the pool currently in play
type Settings struct {
	ID           string             `bson:"_id" json:"id"`
	ActivePoolID primitive.ObjectID `bson:"activepoolid" json:"activePoolId"`
	UpdatedAt    time.Time          `bson:"updatedat" json:"updatedAt"`
}

// settingsID is the _id of the one Settings document
const settingsID = "global"
