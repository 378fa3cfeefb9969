/* models.go
 * This file contain the types that are shared between sub packages: playoff rounds and the Picker identity
 * used by validation, pick storage and scoring
 * Authors: Zachary Bower
 */

package shared

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Round is a stage of the playoff bracket
type Round string

const (
	RoundWildCard   Round = "Wild Card"
	RoundDivisional Round = "Divisional"
	RoundConference Round = "Conference"
	RoundSuperBowl  Round = "Super Bowl"
)

// Rounds lists the playoff rounds in bracket order
var Rounds = []Round{RoundWildCard, RoundDivisional, RoundConference, RoundSuperBowl}

// Valid reports whether r is one of the known playoff rounds
func (r Round) Valid() bool {
	for _, known := range Rounds {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRound converts a string into a Round
// Preconditions: Receives a round name, e.g. "Wild Card"
// Postconditions: Returns the Round, or an ErrInvalidInput error if the name is not a playoff round
func ParseRound(s string) (Round, error) {
	r := Round(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown round '%s'", ErrInvalidInput, s)
	}
	return r, nil
}

// Picker identifies who a pick was made for: either a participant picking for themself, or one of their
// dependents. A nil DependentID means the participant picked for themself.
type Picker struct {
	ParticipantID primitive.ObjectID
	DependentID   *primitive.ObjectID
}

// Self returns the Picker for a participant picking for themself
func Self(participantID primitive.ObjectID) Picker {
	return Picker{ParticipantID: participantID}
}

// ForDependent returns the Picker for a dependent of a participant
func ForDependent(participantID, dependentID primitive.ObjectID) Picker {
	dep := dependentID
	return Picker{ParticipantID: participantID, DependentID: &dep}
}

// IsDependent reports whether the picker is a dependent rather than the participant themself
func (p Picker) IsDependent() bool {
	return p.DependentID != nil
}

// Equal reports whether two pickers refer to the same entry
func (p Picker) Equal(other Picker) bool {
	if p.ParticipantID != other.ParticipantID {
		return false
	}
	if p.DependentID == nil || other.DependentID == nil {
		return p.DependentID == nil && other.DependentID == nil
	}
	return *p.DependentID == *other.DependentID
}

// Key returns a string form of the picker, used as a map key and as the pickerId in API responses.
// Self entries use the participant id, dependents use "participantId:dependentId".
func (p Picker) Key() string {
	if p.DependentID == nil {
		return p.ParticipantID.Hex()
	}
	return p.ParticipantID.Hex() + ":" + p.DependentID.Hex()
}
