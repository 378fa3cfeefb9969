/* validation.go
 * Contains the pick validator. Validation is pure: it works on the submitted batch and the submitting participant's
 * record and performs no reads or writes of its own
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"strings"

	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickInput is a single pick as submitted by a client. Every field is a pointer so that a missing field can be told
// apart from a zero value
type PickInput struct {
	GameID           *primitive.ObjectID `json:"gameId"`
	SelectedTeam     *string             `json:"selectedTeam"`
	ConfidencePoints *int                `json:"confidencePoints"`
	PoolID           *primitive.ObjectID `json:"poolId"`
	Round            *string             `json:"round"`
}

// ValidatedPick is a pick that passed structural validation
type ValidatedPick struct {
	GameID           primitive.ObjectID
	SelectedTeam     string
	ConfidencePoints int
	PoolID           primitive.ObjectID
	Round            shared.Round
}

// ValidatePicks checks a batch of submitted picks. Checks run in order and the first failing check is returned:
//  1. every pick has all of gameId, selectedTeam, confidencePoints, poolId and round, confidencePoints is at least 1,
//     round is a playoff round and no game appears more than once in the batch
//  2. the dependent, if one is given, belongs to the participant
//  3. within each round, no two picks share a confidence value
//
// Preconditions: receives the submitting participant (with their dependents), an optional dependent id and the batch
// Postconditions: returns the validated picks and the picker they belong to, or an InvalidPickDataError,
// ErrDependentNotFound or DuplicateConfidenceError
func ValidatePicks(participant store.Participant, dependentID *primitive.ObjectID, picks []PickInput) ([]ValidatedPick, shared.Picker, error) {
	validated, err := checkPickFields(picks)
	if err != nil {
		return nil, shared.Picker{}, err
	}

	picker := shared.Self(participant.ID)
	if dependentID != nil {
		if _, ok := participant.FindDependent(*dependentID); !ok {
			return nil, shared.Picker{}, fmt.Errorf("%w: %s", shared.ErrDependentNotFound, dependentID.Hex())
		}
		picker = shared.ForDependent(participant.ID, *dependentID)
	}

	if err := checkConfidenceValues(validated); err != nil {
		return nil, shared.Picker{}, err
	}
	return validated, picker, nil
}

// checkPickFields reports every pick that is missing a field or has an invalid value. A pick for a game already
// picked earlier in the batch has an invalid gameId
func checkPickFields(picks []PickInput) ([]ValidatedPick, error) {
	validated := make([]ValidatedPick, 0, len(picks))
	var problems []shared.PickFieldErrors
	seenGames := make(map[primitive.ObjectID]bool)

	for i, pick := range picks {
		var fields []string
		switch {
		case pick.GameID == nil || pick.GameID.IsZero():
			fields = append(fields, "gameId")
		case seenGames[*pick.GameID]:
			fields = append(fields, "gameId")
		default:
			seenGames[*pick.GameID] = true
		}
		if pick.SelectedTeam == nil || strings.TrimSpace(*pick.SelectedTeam) == "" {
			fields = append(fields, "selectedTeam")
		}
		if pick.ConfidencePoints == nil || *pick.ConfidencePoints < 1 {
			fields = append(fields, "confidencePoints")
		}
		if pick.PoolID == nil || pick.PoolID.IsZero() {
			fields = append(fields, "poolId")
		}
		var round shared.Round
		if pick.Round == nil {
			fields = append(fields, "round")
		} else {
			var err error
			if round, err = shared.ParseRound(*pick.Round); err != nil {
				fields = append(fields, "round")
			}
		}

		if len(fields) > 0 {
			problems = append(problems, shared.PickFieldErrors{Index: i, Fields: fields})
			continue
		}
		validated = append(validated, ValidatedPick{
			GameID:           *pick.GameID,
			SelectedTeam:     strings.TrimSpace(*pick.SelectedTeam),
			ConfidencePoints: *pick.ConfidencePoints,
			PoolID:           *pick.PoolID,
			Round:            round,
		})
	}

	if len(problems) > 0 {
		return nil, &shared.InvalidPickDataError{Picks: problems}
	}
	return validated, nil
}

// checkConfidenceValues enforces that confidence values are unique within each round. The same value may be reused
// in a different round
func checkConfidenceValues(picks []ValidatedPick) error {
	pointsByRound := make(map[shared.Round]map[int]bool)
	for _, pick := range picks {
		if pointsByRound[pick.Round] == nil {
			pointsByRound[pick.Round] = make(map[int]bool)
		}
		if pointsByRound[pick.Round][pick.ConfidencePoints] {
			return &shared.DuplicateConfidenceError{Value: pick.ConfidencePoints, Round: pick.Round}
		}
		pointsByRound[pick.Round][pick.ConfidencePoints] = true
	}
	return nil
}
