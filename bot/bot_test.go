/* bot_test.go
 * Contains unit tests for bot.go functions
 * Authors: Zachary Bower
 */

package bot

import (
	"testing"
	"time"

	"confidence-pool/api/api"
	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region startsWith tests

func TestStartsWith(t *testing.T) {
	tests := []struct {
		input, prefix string
		want          bool
	}{
		{"$help", "$help", true},
		{"$standings 5", "$standings", true},
		{"hello $help", "$help", false},
		{"", "$help", false},
		{"$Help", "$help", false},
		{"$pool", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, startsWith(tt.input, tt.prefix), "%q %q", tt.input, tt.prefix)
	}
}

// endregion

// region commandArgs tests

func TestCommandArgs_NoArgs(t *testing.T) {
	args, err := commandArgs("$standings")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestCommandArgs_QuotedName(t *testing.T) {
	args, err := commandArgs(`$picker "Jane Doe"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, args)
}

func TestCommandArgs_ExtraSpaces(t *testing.T) {
	args, err := commandArgs("  $standings   5 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, args)
}

func TestCommandArgs_UnbalancedQuotes(t *testing.T) {
	_, err := commandArgs(`$picker "Jane Doe`)
	assert.Error(t, err)
}

// endregion

// region standingsLimit tests

func TestStandingsLimit(t *testing.T) {
	n, err := standingsLimit(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultStandingsLimit, n)

	n, err = standingsLimit([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = standingsLimit([]string{"0"})
	assert.Error(t, err)
	_, err = standingsLimit([]string{"lots"})
	assert.Error(t, err)
}

// endregion

// region formatting tests

func entry(rank int, name string, earned, possible int) api.StandingEntry {
	return api.StandingEntry{
		Rank:           rank,
		PickerView:     api.PickerView{DisplayName: name},
		EarnedPoints:   earned,
		PossiblePoints: possible,
	}
}

func TestFormatStandings_Truncates(t *testing.T) {
	res := api.StandingsResponse{
		PoolName:       "Playoffs 2025",
		CompletedGames: 1,
		TotalGames:     13,
		Standings:      []api.StandingEntry{entry(1, "Jane", 13, 91), entry(2, "John", 0, 78), entry(3, "Ann", 0, 70)},
	}

	msg := formatStandings(res, 2)
	assert.Contains(t, msg, "**Playoffs 2025** standings (1 of 13 games final)")
	assert.Contains(t, msg, "1. Jane: 13 pts (91 possible)")
	assert.Contains(t, msg, "2. John: 0 pts (78 possible)")
	assert.NotContains(t, msg, "Ann")
	assert.Contains(t, msg, "...and 1 more")
}

func TestFormatStandings_Empty(t *testing.T) {
	msg := formatStandings(api.StandingsResponse{PoolName: "Playoffs 2025"}, 10)
	assert.Contains(t, msg, "Nobody has joined this pool yet")
}

func TestPickerName_Dependent(t *testing.T) {
	assert.Equal(t, "Junior (Jane)", pickerName(api.PickerView{DisplayName: "Junior", ParentName: "Jane", IsDependent: true}))
	assert.Equal(t, "Jane", pickerName(api.PickerView{DisplayName: "Jane"}))
}

func TestFormatUpcoming(t *testing.T) {
	assert.Equal(t, "No upcoming games", formatUpcoming(nil))

	games := []api.GameView{{
		Game: store.Game{
			Round:     shared.RoundDivisional,
			HomeTeam:  "Baltimore Ravens",
			AwayTeam:  "Pittsburgh Steelers",
			GameTime:  time.Date(2025, time.January, 18, 20, 0, 0, 0, time.UTC),
			TVNetwork: "CBS",
		},
		Status: "Scheduled",
	}}
	msg := formatUpcoming(games)
	assert.Contains(t, msg, "Divisional: Pittsburgh Steelers vs Baltimore Ravens")
	assert.Contains(t, msg, "on CBS")
}

// endregion

// region findPicker tests

func TestFindPicker(t *testing.T) {
	standings := []api.StandingEntry{entry(1, "Jane Doe", 5, 10), entry(2, "John Smith", 3, 10), entry(3, "Janet Doe", 1, 10)}

	found, ok := findPicker(standings, "jane doe")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", found.DisplayName)

	found, ok = findPicker(standings, "smith")
	require.True(t, ok)
	assert.Equal(t, "John Smith", found.DisplayName)

	_, ok = findPicker(standings, "zzz")
	assert.False(t, ok)
}

func TestFindPicker_Ambiguous(t *testing.T) {
	standings := []api.StandingEntry{entry(1, "Team Alpha", 5, 10), entry(2, "Team Omega", 3, 10)}

	_, ok := findPicker(standings, "team")
	assert.False(t, ok)
}

// endregion
