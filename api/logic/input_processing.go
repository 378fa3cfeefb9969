/* input_processing.go
 * Contains the logic for processing user input and matching team names against a game's teams
 * Authors: Zachary Bower
 */

package logic

import (
	"strings"

	"confidence-pool/api/store"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minMatchLength is the shortest input that can match a team by anything other than its full name
const minMatchLength = 3

// ResolveTeam matches a submitted team name against the two teams playing a game
// Preconditions: Receives the submitted team name and the game
// Postconditions: Returns the canonical team name and true, or false if the input matches neither team or cannot be
// told apart between them
func ResolveTeam(selected string, game store.Game) (string, bool) {
	return matchTeam(selected, []string{game.HomeTeam, game.AwayTeam})
}

// matchTeam finds the valid team name the input refers to. Matching is case-insensitive and runs in three steps,
// stopping at the first step that matches:
//  1. the full team name
//  2. the start of a word in the team name, so "bills" and "green bay" match
//  3. the letters of one word in order with some left out, so "rvns" matches, as long as the first letters agree
//
// Steps 2 and 3 need at least minMatchLength characters, and an input they match against more than one team is
// rejected
func matchTeam(input string, validTeams []string) (string, bool) {
	lowerInput := strings.Join(strings.Fields(strings.ToLower(input)), " ")
	if lowerInput == "" {
		return "", false
	}

	var teams, teamsLower []string
	for _, name := range validTeams {
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if lower == lowerInput {
			return name, true
		}
		teams = append(teams, name)
		teamsLower = append(teamsLower, lower)
	}

	if len([]rune(lowerInput)) < minMatchLength {
		return "", false
	}

	var wordMatches []string
	for i, lower := range teamsLower {
		if startsAtWord(lowerInput, lower) {
			wordMatches = append(wordMatches, teams[i])
		}
	}
	if len(wordMatches) > 0 {
		return onlyMatch(wordMatches)
	}

	var fuzzyMatches []string
	for i, lower := range teamsLower {
		for _, word := range strings.Fields(lower) {
			if word[0] == lowerInput[0] && fuzzy.Match(lowerInput, word) {
				fuzzyMatches = append(fuzzyMatches, teams[i])
				break
			}
		}
	}
	return onlyMatch(fuzzyMatches)
}

// startsAtWord reports whether input appears in name starting at the beginning of a word
func startsAtWord(input, name string) bool {
	for offset := 0; offset < len(name); {
		i := strings.Index(name[offset:], input)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 || name[i-1] == ' ' {
			return true
		}
		offset = i + 1
	}
	return false
}

func onlyMatch(matches []string) (string, bool) {
	if len(matches) != 1 {
		return "", false
	}
	return matches[0], true
}
