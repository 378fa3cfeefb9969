/* bot.go
 * Contains logic used for creating the bot, parsing commands and formatting replies. Requires a discord bot token, and
 * APIPtr both of which are passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"confidence-pool/api/api"

	"github.com/go-andiamo/splitter"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const defaultStandingsLimit = 10

type Bot struct {
	BotToken string
	APIPtr   *api.API
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
	}, nil
}

// commandArgs splits a message into its arguments, dropping the command itself. Names that contain spaces can be
// wrapped in double quotes (e.g. $picker "Jane Doe")
// Preconditions: Receives the message content
// Postconditions: Returns the arguments after the command, or an error if the quotes are unbalanced
func commandArgs(content string) ([]string, error) {
	// splitter is used over strings.Fields so that quoted names stay together
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}

	args := []string{}
	for i, part := range parts {
		part = strings.TrimSpace(strings.Trim(part, "\"“”"))
		if i == 0 || part == "" {
			continue
		}
		args = append(args, part)
	}
	return args, nil
}

// standingsLimit reads the optional row count of `$standings n`
// Preconditions: Receives the command arguments
// Postconditions: Returns the number of rows to show, or an error if the argument is not a positive integer
func standingsLimit(args []string) (int, error) {
	if len(args) == 0 {
		return defaultStandingsLimit, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a valid number of rows", args[0])
	}
	return n, nil
}

// formatStandings renders the top rows of the standings as a discord message
func formatStandings(res api.StandingsResponse, limit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**%s** standings (%d of %d games final)\n", res.PoolName, res.CompletedGames, res.TotalGames))
	if len(res.Standings) == 0 {
		b.WriteString("Nobody has joined this pool yet")
		return b.String()
	}
	for i, entry := range res.Standings {
		if i >= limit {
			b.WriteString(fmt.Sprintf("...and %d more\n", len(res.Standings)-limit))
			break
		}
		b.WriteString(fmt.Sprintf("%d. %s: %d pts (%d possible)\n", entry.Rank, pickerName(entry.PickerView), entry.EarnedPoints, entry.PossiblePoints))
	}
	return b.String()
}

// formatPool renders the details of the active pool
func formatPool(res api.StandingsResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**%s**\n", res.PoolName))
	b.WriteString(fmt.Sprintf("Games: %d scheduled of %d, %d final\n", res.GamesCreated, res.TotalGames, res.CompletedGames))
	b.WriteString(fmt.Sprintf("Points available per picker: %d\n", res.TotalAvailablePoints))
	b.WriteString(fmt.Sprintf("Pickers: %d", len(res.Standings)))
	return b.String()
}

// formatUpcoming renders the games still to be played
func formatUpcoming(games []api.GameView) string {
	if len(games) == 0 {
		return "No upcoming games"
	}
	var b strings.Builder
	b.WriteString("Upcoming games:\n")
	for _, game := range games {
		b.WriteString(fmt.Sprintf("- %s: %s vs %s, %s (%s)", game.Round, game.AwayTeam, game.HomeTeam,
			game.GameTime.UTC().Format(time.RFC1123), game.Status))
		if game.TVNetwork != "" {
			b.WriteString(" on " + game.TVNetwork)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatPicker renders a single picker's line in the standings
func formatPicker(entry api.StandingEntry, total int) string {
	return fmt.Sprintf("%s is ranked %d of %d with %d pts earned, %d lost and %d still possible (%d/%d picks correct)",
		pickerName(entry.PickerView), entry.Rank, total, entry.EarnedPoints, entry.LostPoints, entry.PossiblePoints,
		entry.CorrectPicks, entry.CompletedPicks)
}

func pickerName(p api.PickerView) string {
	if p.IsDependent && p.ParentName != "" {
		return fmt.Sprintf("%s (%s)", p.DisplayName, p.ParentName)
	}
	return p.DisplayName
}

// findPicker looks up a picker in the standings by display name. An exact (case-insensitive) match wins, otherwise the
// closest fuzzy match is used
// Preconditions: Receives the standings and the name to look for
// Postconditions: Returns the matching entry and true, or false if nothing matches or two pickers match equally well
func findPicker(standings []api.StandingEntry, name string) (api.StandingEntry, bool) {
	names := make([]string, len(standings))
	for i, entry := range standings {
		if strings.EqualFold(entry.DisplayName, name) {
			return entry, true
		}
		names[i] = entry.DisplayName
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return api.StandingEntry{}, false
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return api.StandingEntry{}, false
	}
	return standings[ranks[0].OriginalIndex], true
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
