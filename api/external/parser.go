/* parser.go
 * Contains the logic used in processing results from the rankings api and parsing data into the shared types other
 * packages use
 */

package external

import (
	"encoding/json"
	"fmt"
	"rankings-bot/api/shared"
	"sort"
	"strings"
	"time"
)

const highWeightEvent = "rugby world cup"

// Function to parse a rankings response body into a snapshot
// Preconditions: Receives the raw json body
// Postconditions: Returns the rankings ordered by position, or an error if the body is not valid rankings json
func ParseRankings(body []byte) (RankingsSnapshot, error) {
	var resp rankingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return RankingsSnapshot{}, fmt.Errorf("error parsing rankings JSON: %w", err)
	}

	entries := resp.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Pos < entries[j].Pos
	})

	rankings := make([]shared.Ranking, 0, len(entries))
	for _, e := range entries {
		if e.Team.ID == "" {
			continue
		}
		rankings = append(rankings, shared.Ranking{
			Team: shared.Team{
				ID:           string(e.Team.ID),
				Name:         e.Team.Name,
				Abbreviation: e.Team.Abbreviation,
			},
			Points:           e.Pts,
			Position:         e.Pos,
			PreviousPoints:   e.Pts,
			PreviousPosition: e.Pos,
		})
	}

	label := resp.Label
	if label == "" {
		label = resp.Effective.Label
	}

	return RankingsSnapshot{
		Label:     label,
		Effective: resp.Effective.Time(),
		Rankings:  rankings,
	}, nil
}

// Function to parse one page of the match listing
// Preconditions: Receives the raw json body
// Postconditions: Returns the matches and paging info, or an error if the body is not valid json
func parseMatchesPage(body []byte) (matchesResponse, error) {
	var resp matchesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return matchesResponse{}, fmt.Errorf("error parsing match JSON: %w", err)
	}
	return resp, nil
}

// Function to convert an api match into a fixture
// Preconditions: Receives the match, the sport code to keep (e.g. "mru") and the date the current rankings took effect
// Postconditions: Returns the fixture and true, or false if the match is for another sport or is missing a team
func FixtureFromMatch(m apiMatch, sport string, rankingsDate time.Time) (shared.Fixture, bool) {
	if len(m.Teams) < 2 || m.Teams[0].ID == "" || m.Teams[1].ID == "" {
		return shared.Fixture{}, false
	}
	if sport != "" && (len(m.Events) == 0 || !strings.EqualFold(m.Events[0].Sport, sport)) {
		return shared.Fixture{}, false
	}

	f := shared.Fixture{
		HomeTeamID: string(m.Teams[0].ID),
		AwayTeamID: string(m.Teams[1].ID),
		Status:     shared.ParseFixtureStatus(m.Status),
		Kickoff:    m.Time.Time(),
		Pool:       poolFromDescription(m.Description),
	}
	if len(m.Events) > 0 {
		f.EventLabel = m.Events[0].Label
		f.IsHighWeight = strings.Contains(strings.ToLower(f.EventLabel), highWeightEvent)
	}
	if m.Venue != nil {
		f.VenueName = m.Venue.Name
		f.NeutralVenue, f.VenueSwitched = venueFlags(m.Venue.Country, m.Teams[0].Name, m.Teams[1].Name)
	}

	// Scores from the api are 0-0 before kick off, only trust them once the match has started
	if hasStarted(f.Status) && len(m.Scores) >= 2 {
		f.HomeScore = shared.IntPtr(m.Scores[0])
		f.AwayScore = shared.IntPtr(m.Scores[1])
	}

	// Results before the rankings date are already part of the published points
	if f.Status == shared.StatusComplete && !rankingsDate.IsZero() && !f.Kickoff.IsZero() && f.Kickoff.Before(rankingsDate) {
		f.AlreadyCounted = true
	}

	return f, true
}

func hasStarted(s shared.FixtureStatus) bool {
	return s.IsLive() || s == shared.StatusComplete
}

// venueFlags decides whether the listed home team is really at home.
// Venue in the away team's country means the home advantage goes the other way, anywhere else but the home
// team's country is neutral. An unknown country keeps the listed home team at home
func venueFlags(country, homeName, awayName string) (neutral, switched bool) {
	country = strings.TrimSpace(country)
	switch {
	case country == "":
		return false, false
	case strings.EqualFold(country, homeName):
		return false, false
	case strings.EqualFold(country, awayName):
		return false, true
	default:
		return true, false
	}
}

// poolFromDescription pulls the pool label out of a match description such as "Pool A" or "Pool B - Round 2"
func poolFromDescription(description string) string {
	for _, part := range strings.Split(description, " - ") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "pool ") {
			return part
		}
	}
	return ""
}
