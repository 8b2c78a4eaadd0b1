/* models.go
 * This file contain the errors, constants and helper functions that are used by api consumers
 */

package api

import (
	"errors"
	"fmt"
	"math"
	"rankings-bot/api/shared"
	"strings"
)

var (
	// ErrNotReady is returned while no rankings are available to project from
	ErrNotReady = errors.New("rankings are not available yet")
	// ErrNoFixtures is returned when a channel has no fixtures to work with
	ErrNoFixtures = errors.New("no fixtures have been added")
	// ErrInvalidFixture is returned when fixture input cannot be understood
	ErrInvalidFixture = errors.New("invalid fixture")
)

const (
	// Teams outside the top of the table are only listed in reports if their points moved
	reportTeams = 30
	// Changes smaller than this print as 0.00 so are not shown
	minShownChange = 0.005
)

// FixtureOptions are the optional flags that can follow a fixture in the add command
type FixtureOptions struct {
	Neutral   bool
	Switched  bool
	World     bool
	Counted   bool
	Pool      string
	HomeTries *int
	AwayTries *int
}

// Function to parse fixture option words such as "neutral", "rwc" or "pool=A"
// Preconditions: Receives the option arguments
// Postconditions: Returns the parsed options or an ErrInvalidFixture error naming the first unknown option
func ParseFixtureOptions(args []string) (FixtureOptions, error) {
	var opts FixtureOptions
	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		switch strings.ToLower(key) {
		case "neutral", "n":
			opts.Neutral = true
		case "switched", "away", "s":
			opts.Switched = true
		case "rwc", "world", "w":
			opts.World = true
		case "counted", "c":
			opts.Counted = true
		case "pool", "p":
			if !hasValue || value == "" {
				return opts, fmt.Errorf("%w: pool needs a name, e.g. pool=A", ErrInvalidFixture)
			}
			opts.Pool = value
		case "tries", "t":
			home, away, ok := parseScorePair(value)
			if !hasValue || !ok {
				return opts, fmt.Errorf("%w: tries must look like tries=4-2", ErrInvalidFixture)
			}
			opts.HomeTries, opts.AwayTries = home, away
		default:
			return opts, fmt.Errorf("%w: unknown option '%s'", ErrInvalidFixture, arg)
		}
	}
	if opts.Neutral && opts.Switched {
		return opts, fmt.Errorf("%w: a fixture cannot be both neutral and switched", ErrInvalidFixture)
	}
	return opts, nil
}

// parseScorePair parses "20-10" into two scores
func parseScorePair(s string) (*int, *int, bool) {
	left, right, found := strings.Cut(s, "-")
	if !found {
		return nil, nil, false
	}
	home := shared.ParseScore(left)
	away := shared.ParseScore(right)
	if home == nil || away == nil {
		return nil, nil, false
	}
	return home, away, true
}

// isVersus reports whether a score argument is a placeholder for an unplayed fixture
func isVersus(s string) bool {
	switch strings.ToLower(s) {
	case "v", "vs", "-":
		return true
	}
	return false
}

func formatChange(change float64) string {
	if math.Abs(change) < minShownChange {
		return ""
	}
	if change > 0 {
		return fmt.Sprintf(" (+%.2f)", change)
	}
	return fmt.Sprintf(" (%.2f)", change)
}

func formatSigned(v float64) string {
	if math.Abs(v) < minShownChange {
		return "0.00"
	}
	return fmt.Sprintf("%+.2f", v)
}

func formatMovement(r shared.Ranking) string {
	switch {
	case r.PositionChange() > 0:
		return fmt.Sprintf("↑(%d) ", r.PreviousPosition)
	case r.PositionChange() < 0:
		return fmt.Sprintf("↓(%d) ", r.PreviousPosition)
	default:
		return ""
	}
}

func teamName(rankingsByID map[string]shared.Ranking, id string) string {
	if r, ok := rankingsByID[id]; ok {
		return r.Team.Name
	}
	return id
}
