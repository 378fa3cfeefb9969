/* standings.go
 * Contains the standings ranker
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
)

// Standing is a ranked score record
type Standing struct {
	Rank int
	ScoreRecord
}

// RankStandings orders score records by earned points, highest first, breaking ties by possible points. Records that
// are equal on both keep their input order. Ranks are 1-based and never shared
// Preconditions: Receives the score records to rank
// Postconditions: Returns the ranked standings; the input slice is not modified
func RankStandings(records []ScoreRecord) []Standing {
	sorted := make([]ScoreRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EarnedPoints != sorted[j].EarnedPoints {
			return sorted[i].EarnedPoints > sorted[j].EarnedPoints
		}
		return sorted[i].PossiblePoints > sorted[j].PossiblePoints
	})

	standings := make([]Standing, len(sorted))
	for i, record := range sorted {
		standings[i] = Standing{Rank: i + 1, ScoreRecord: record}
	}
	return standings
}
