/* input_processing.go
 * Contains the logic for processing user input: resolving typed team names against the ranked teams
 */

package logic

import (
	"rankings-bot/api/shared"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ResolveTeams processes team names from user input and matches them to ranked teams.
// Preconditions: receives a slice of user typed names (or abbreviations) and the list of ranked teams
// Postconditions: returns the matched teams in input order, and a slice containing the inputs that matched no team
func ResolveTeams(inputs []string, teams []shared.Team) ([]shared.Team, []string) {
	var resolved []shared.Team
	var invalid []string

	// Lowercase names for matching, keep a lookup back to the team
	byName := make(map[string]shared.Team, len(teams))
	byAbbreviation := make(map[string]shared.Team, len(teams))
	names := make([]string, 0, len(teams))
	for _, team := range teams {
		lower := strings.ToLower(team.Name)
		byName[lower] = team
		names = append(names, lower)
		if team.Abbreviation != "" {
			byAbbreviation[strings.ToLower(team.Abbreviation)] = team
		}
	}

	for _, input := range inputs {
		lowerInput := strings.ToLower(strings.TrimSpace(input))
		if lowerInput == "" {
			invalid = append(invalid, input)
			continue
		}

		// Exact name or abbreviation wins over anything fuzzy
		if team, ok := byName[lowerInput]; ok {
			resolved = append(resolved, team)
			continue
		}
		if team, ok := byAbbreviation[lowerInput]; ok {
			resolved = append(resolved, team)
			continue
		}

		ranks := fuzzy.RankFind(lowerInput, names)
		if len(ranks) == 0 {
			invalid = append(invalid, input)
			continue
		}
		// Lowest distance is the closest match, ties keep list order
		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		resolved = append(resolved, byName[best.Target])
	}
	return resolved, invalid
}

// ResolveTeam resolves a single name. Returns false if nothing matched
func ResolveTeam(input string, teams []shared.Team) (shared.Team, bool) {
	resolved, _ := ResolveTeams([]string{input}, teams)
	if len(resolved) == 0 {
		return shared.Team{}, false
	}
	return resolved[0], true
}
