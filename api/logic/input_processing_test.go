/* input_processing_test.go
 * Contains unit tests for input_processing.go functions
 */

package logic

import (
	"rankings-bot/api/shared"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupTeams() []shared.Team {
	return []shared.Team{
		{ID: "39", Name: "South Africa", Abbreviation: "RSA"},
		{ID: "37", Name: "New Zealand", Abbreviation: "NZL"},
		{ID: "32", Name: "Ireland", Abbreviation: "IRE"},
		{ID: "33", Name: "Italy", Abbreviation: "ITA"},
		{ID: "2", Name: "Samoa", Abbreviation: "SAM"},
	}
}

// TestResolveTeams_ExactMatches tests exact team name matching
func TestResolveTeams_ExactMatches(t *testing.T) {
	resolved, invalid := ResolveTeams([]string{"Ireland", "New Zealand"}, lookupTeams())

	assert.Equal(t, []string{"32", "37"}, []string{resolved[0].ID, resolved[1].ID})
	assert.Empty(t, invalid)
}

// TestResolveTeams_CaseInsensitive tests case-insensitive matching
func TestResolveTeams_CaseInsensitive(t *testing.T) {
	resolved, invalid := ResolveTeams([]string{"SOUTH africa", "italy"}, lookupTeams())

	assert.Len(t, resolved, 2)
	assert.Equal(t, "39", resolved[0].ID)
	assert.Equal(t, "33", resolved[1].ID)
	assert.Empty(t, invalid)
}

// TestResolveTeams_Abbreviation tests matching on the team abbreviation
func TestResolveTeams_Abbreviation(t *testing.T) {
	resolved, invalid := ResolveTeams([]string{"nzl", "RSA"}, lookupTeams())

	assert.Equal(t, "37", resolved[0].ID)
	assert.Equal(t, "39", resolved[1].ID)
	assert.Empty(t, invalid)
}

// TestResolveTeams_FuzzyMatching tests partial names
func TestResolveTeams_FuzzyMatching(t *testing.T) {
	resolved, invalid := ResolveTeams([]string{"zealand", "sth africa"}, lookupTeams())

	assert.Len(t, resolved, 2)
	assert.Equal(t, "37", resolved[0].ID)
	assert.Equal(t, "39", resolved[1].ID)
	assert.Empty(t, invalid)
}

// TestResolveTeams_ClosestMatchWins tests that the closest fuzzy match is chosen when several match
func TestResolveTeams_ClosestMatchWins(t *testing.T) {
	teams := []shared.Team{
		{ID: "1", Name: "Georgia Juniors"},
		{ID: "2", Name: "Georgia"},
	}

	resolved, _ := ResolveTeams([]string{"georgi"}, teams)

	assert.Equal(t, "2", resolved[0].ID)
}

// TestResolveTeams_InvalidTeams tests handling of names that match nothing
func TestResolveTeams_InvalidTeams(t *testing.T) {
	resolved, invalid := ResolveTeams([]string{"Ireland", "Atlantis", "", "Fiji"}, lookupTeams())

	assert.Len(t, resolved, 1)
	assert.Equal(t, []string{"Atlantis", "", "Fiji"}, invalid)
}

// TestResolveTeams_EmptyInput tests behaviour with empty inputs
func TestResolveTeams_EmptyInput(t *testing.T) {
	resolved, invalid := ResolveTeams([]string{}, lookupTeams())

	assert.Empty(t, resolved)
	assert.Empty(t, invalid)
}

// TestResolveTeam_Single tests the single name helper
func TestResolveTeam_Single(t *testing.T) {
	team, ok := ResolveTeam("samoa", lookupTeams())
	assert.True(t, ok)
	assert.Equal(t, "2", team.ID)

	_, ok = ResolveTeam("Narnia", lookupTeams())
	assert.False(t, ok)
}
