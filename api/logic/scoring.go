/* scoring.go
 * Contains the scoring engine. Scores are computed from the games and picks of a pool for every picker on the pool's
 * roster
 * Authors: Zachary Bower
 */

package logic

import (
	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickerInfo describes one standings entry: a participant picking for themself, or one of their dependents
type PickerInfo struct {
	Picker      shared.Picker
	DisplayName string
	ParentName  string
}

// ScoreRecord is the score of a single picker
type ScoreRecord struct {
	PickerInfo
	EarnedPoints   int
	PossiblePoints int
	LostPoints     int
	CorrectPicks   int
	TotalPicks     int
	CompletedPicks int
}

// TotalAvailablePoints is the best possible score in a pool: every game picked correctly with the confidence values
// 1 through totalGames
func TotalAvailablePoints(totalGames int) int {
	if totalGames <= 0 {
		return 0
	}
	return totalGames * (totalGames + 1) / 2
}

// RosterPickers lists the pickers of a pool: each participant followed by their dependents, in the order given
// Preconditions: Receives the pool's participants
// Postconditions: Returns one PickerInfo per participant and one per dependent
func RosterPickers(participants []store.Participant) []PickerInfo {
	var pickers []PickerInfo
	for _, p := range participants {
		pickers = append(pickers, PickerInfo{Picker: shared.Self(p.ID), DisplayName: p.Name()})
		for _, d := range p.Dependents {
			pickers = append(pickers, PickerInfo{
				Picker:      shared.ForDependent(p.ID, d.ID),
				DisplayName: d.DisplayName,
				ParentName:  p.Name(),
			})
		}
	}
	return pickers
}

// ScorePickers computes a score record for every picker. A pick counts once its game is complete; it earns its
// confidence points when the selected team is the game's winner and loses them otherwise. Picks made by pickers not
// in the list are ignored
// Preconditions: Receives the pool's configured game count, the pool's games and picks, and the pickers to score
// Postconditions: Returns one ScoreRecord per picker in the same order as pickers
func ScorePickers(totalGames int, games []store.Game, picks []store.Pick, pickers []PickerInfo) []ScoreRecord {
	available := TotalAvailablePoints(totalGames)
	completed := make(map[primitive.ObjectID]store.Game)
	for _, game := range games {
		if game.IsComplete {
			completed[game.ID] = game
		}
	}

	index := make(map[string]int, len(pickers))
	records := make([]ScoreRecord, len(pickers))
	for i, p := range pickers {
		index[p.Picker.Key()] = i
		records[i] = ScoreRecord{PickerInfo: p, PossiblePoints: available}
	}

	for _, pick := range picks {
		i, ok := index[pick.Picker().Key()]
		if !ok {
			continue
		}
		record := &records[i]
		record.TotalPicks++

		game, done := completed[pick.GameID]
		if !done {
			continue
		}
		record.CompletedPicks++
		if pick.SelectedTeam == game.Winner {
			record.EarnedPoints += pick.ConfidencePoints
			record.CorrectPicks++
		} else {
			record.LostPoints += pick.ConfidencePoints
		}
	}

	for i := range records {
		records[i].PossiblePoints = available - records[i].LostPoints
	}
	return records
}
