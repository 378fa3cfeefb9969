/* errors.go
 * Contains the error values returned across the api packages. Callers should compare using errors.Is and errors.As
 * Authors: Zachary Bower
 */

package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPickData          = errors.New("invalid pick data")
	ErrDependentNotFound        = errors.New("dependent not found")
	ErrDuplicateConfidenceValue = errors.New("duplicate confidence value")
	ErrDuplicatePick            = errors.New("pick already exists")
	ErrInvalidTeamSelection     = errors.New("selected team is not playing in this game")
	ErrNotFound                 = errors.New("not found")
	ErrNoActivePool             = errors.New("no active pool found")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidInput             = errors.New("invalid input")
	ErrStorageFailure           = errors.New("storage failure")
)

// PickFieldErrors lists the missing or invalid fields of a single pick in a submitted batch
type PickFieldErrors struct {
	Index  int      `json:"index"`
	Fields []string `json:"fields"`
}

// InvalidPickDataError is returned when one or more picks in a batch are missing required fields
type InvalidPickDataError struct {
	Picks []PickFieldErrors
}

func (e *InvalidPickDataError) Error() string {
	var str strings.Builder
	str.WriteString("invalid pick data:")
	for _, p := range e.Picks {
		str.WriteString(fmt.Sprintf(" pick %d missing or invalid [%s];", p.Index, strings.Join(p.Fields, ", ")))
	}
	return strings.TrimSuffix(str.String(), ";")
}

func (e *InvalidPickDataError) Unwrap() error {
	return ErrInvalidPickData
}

// DuplicateConfidenceError is returned when two picks in the same round share a confidence value
type DuplicateConfidenceError struct {
	Value int
	Round Round
}

func (e *DuplicateConfidenceError) Error() string {
	return fmt.Sprintf("duplicate points value %d found in %s round", e.Value, e.Round)
}

func (e *DuplicateConfidenceError) Unwrap() error {
	return ErrDuplicateConfidenceValue
}
