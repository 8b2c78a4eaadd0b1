/* projection.go
 * Contains the logic for applying fixtures to a ranking table and producing the projected rankings
 */

package logic

import (
	"math"
	"rankings-bot/api/shared"
	"sort"
)

const (
	homeAdvantage    = 3.0
	maxRatingDiff    = 10.0
	bigMarginPoints  = 15
	bigMarginFactor  = 1.5
	highWeightFactor = 2.0
)

// ProjectRankings applies each fixture in order to a copy of the base rankings and returns the re-sorted table.
// Preconditions: Receives the base rankings (in their current order) and an ordered list of fixtures
// Postconditions: Returns a new slice sorted by points descending with positions 1..N, previous values holding the
// base snapshot. Returns nil if the base rankings are empty. Neither input is modified
func ProjectRankings(base []shared.Ranking, fixtures []shared.Fixture) []shared.Ranking {
	if len(base) == 0 {
		return nil
	}

	// Working copy, snapshot previous values before anything changes
	projected := make([]shared.Ranking, len(base))
	index := make(map[string]int, len(base))
	for i, r := range base {
		r.PreviousPoints = r.Points
		r.PreviousPosition = r.Position
		projected[i] = r
		index[r.Team.ID] = i
	}

	for _, fixture := range fixtures {
		if fixture.AlreadyCounted || fixture.HomeTeamID == fixture.AwayTeamID {
			continue
		}
		homeIdx, homeOk := index[fixture.HomeTeamID]
		awayIdx, awayOk := index[fixture.AwayTeamID]
		if !homeOk || !awayOk {
			continue
		}

		homeChange, awayChange, ok := RatingChange(projected[homeIdx].Points, projected[awayIdx].Points, fixture)
		if !ok {
			continue
		}
		projected[homeIdx].Points += homeChange
		projected[awayIdx].Points += awayChange
	}

	// Stable so exact ties keep the base order
	sort.SliceStable(projected, func(i, j int) bool {
		return projected[i].Points > projected[j].Points
	})
	for i := range projected {
		projected[i].Position = i + 1
	}

	return projected
}

// RatingChange calculates the points exchanged by a single fixture.
// Preconditions: Receives the current points of the home and away team and the fixture
// Postconditions: Returns the home and away change (which always sum to zero), and false if the fixture has missing or negative scores
func RatingChange(homePoints, awayPoints float64, fixture shared.Fixture) (float64, float64, bool) {
	if !fixture.HasScores() {
		return 0, 0, false
	}
	homeScore := *fixture.HomeScore
	awayScore := *fixture.AwayScore

	drawComponent := drawComponent(homePoints, awayPoints, fixture)

	var homeChange float64
	switch {
	case homeScore > awayScore+bigMarginPoints:
		homeChange = bigMarginFactor * (1 - drawComponent)
	case homeScore > awayScore:
		homeChange = 1 - drawComponent
	case homeScore == awayScore:
		homeChange = 0 - drawComponent
	case homeScore < awayScore-bigMarginPoints:
		homeChange = bigMarginFactor * (-1 - drawComponent)
	default:
		homeChange = -1 - drawComponent
	}

	if fixture.IsHighWeight {
		homeChange *= highWeightFactor
	}

	return homeChange, -homeChange, true
}

// OutcomeChanges returns the home team's change for each possible result, ordered
// [big win, win, draw, loss, big loss]. Scores on the fixture are ignored
func OutcomeChanges(homePoints, awayPoints float64, fixture shared.Fixture) [5]float64 {
	d := drawComponent(homePoints, awayPoints, fixture)
	weight := 1.0
	if fixture.IsHighWeight {
		weight = highWeightFactor
	}
	return [5]float64{
		weight * bigMarginFactor * (1 - d),
		weight * (1 - d),
		weight * (0 - d),
		weight * (-1 - d),
		weight * bigMarginFactor * (-1 - d),
	}
}

// effectiveHomeRating adds the home advantage unless the venue is neutral. A switched venue means the
// nominal home team is the one travelling, so the advantage goes the other way
func effectiveHomeRating(homePoints float64, fixture shared.Fixture) float64 {
	switch {
	case fixture.NeutralVenue:
		return homePoints
	case fixture.VenueSwitched:
		return homePoints - homeAdvantage
	default:
		return homePoints + homeAdvantage
	}
}

// drawComponent is the capped rating gap as a fraction of a point, in [-1, 1]
func drawComponent(homePoints, awayPoints float64, fixture shared.Fixture) float64 {
	ratingDiff := effectiveHomeRating(homePoints, fixture) - awayPoints
	cappedDiff := math.Min(maxRatingDiff, math.Max(-maxRatingDiff, ratingDiff))
	return cappedDiff / maxRatingDiff
}
