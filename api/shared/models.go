/* models.go
 * This file contain the structs and helper functions that are shared between sub packages: teams, rankings,
 * fixtures and pool tables
 */

package shared

import (
	"strconv"
	"strings"
	"time"
)

type User struct {
	UserID   string
	Username string
}

// Team is the identity of a ranked team. It is owned by the rankings source and referenced by id everywhere else
type Team struct {
	ID           string
	Name         string
	Abbreviation string
}

// Ranking is one team's entry in a ranking table. Previous values are the snapshot taken before a projection pass
type Ranking struct {
	Team             Team
	Points           float64
	Position         int
	PreviousPoints   float64
	PreviousPosition int
}

// PointsChange returns the points gained (or lost) since the previous snapshot
func (r Ranking) PointsChange() float64 {
	return r.Points - r.PreviousPoints
}

// PositionChange returns the number of places gained since the previous snapshot. Positive means the team moved up
func (r Ranking) PositionChange() int {
	return r.PreviousPosition - r.Position
}

// RankingsByID indexes a ranking slice by team id
func RankingsByID(rankings []Ranking) map[string]Ranking {
	byID := make(map[string]Ranking, len(rankings))
	for _, r := range rankings {
		byID[r.Team.ID] = r
	}
	return byID
}

// Teams returns the teams of a ranking slice in ranking order
func Teams(rankings []Ranking) []Team {
	teams := make([]Team, 0, len(rankings))
	for _, r := range rankings {
		teams = append(teams, r.Team)
	}
	return teams
}

// Fixture is a proposed or completed match. Nil scores or tries mean the value is absent
type Fixture struct {
	HomeTeamID string
	AwayTeamID string
	HomeScore  *int
	AwayScore  *int

	NeutralVenue   bool // no home advantage
	VenueSwitched  bool // the nominal home team is actually travelling
	IsHighWeight   bool // e.g. a world cup match, doubles the change
	AlreadyCounted bool // result already included in the base rankings

	Pool      string
	HomeTries *int
	AwayTries *int
	Status    FixtureStatus

	// Display only
	Kickoff    time.Time
	VenueName  string
	EventLabel string
}

// HasValidTeams reports whether both teams are known and distinct
func (f Fixture) HasValidTeams(rankingsByID map[string]Ranking) bool {
	if f.HomeTeamID == f.AwayTeamID {
		return false
	}
	_, homeOk := rankingsByID[f.HomeTeamID]
	_, awayOk := rankingsByID[f.AwayTeamID]
	return homeOk && awayOk
}

// HasScores reports whether both scores are present and not negative
func (f Fixture) HasScores() bool {
	return f.HomeScore != nil && f.AwayScore != nil && *f.HomeScore >= 0 && *f.AwayScore >= 0
}

// ValidTries returns the try count, or nil if it is absent or negative
func ValidTries(tries *int) *int {
	if tries == nil || *tries < 0 {
		return nil
	}
	return tries
}

// IsValid reports whether the fixture can change the rankings
func (f Fixture) IsValid(rankingsByID map[string]Ranking) bool {
	return f.HasValidTeams(rankingsByID) && f.HasScores()
}

// ParseScore converts user or wire input into a score.
// Preconditions: Receives a string, possibly empty
// Postconditions: Returns a pointer to the score, or nil if the input is empty, non-numeric, fractional or negative
func ParseScore(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// FixtureStatus is the state of a match as reported by the fixture source
type FixtureStatus int

const (
	StatusUpcoming FixtureStatus = iota
	StatusFirstHalf
	StatusHalfTime
	StatusSecondHalf
	StatusComplete
	StatusPostponed
	StatusCancelled
	StatusUnreported
)

var statusCodes = []string{"U", "L1", "LHT", "L2", "C", "P", "CC", "UR"}

var statusNames = []string{"Upcoming", "First half", "Half time", "Second half", "Complete", "Postponed", "Cancelled", "Unreported"}

func (s FixtureStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

// Code returns the short status code used by the rankings api and the share string
func (s FixtureStatus) Code() string {
	if s < 0 || int(s) >= len(statusCodes) {
		return statusCodes[StatusUpcoming]
	}
	return statusCodes[s]
}

// IsLive reports whether the match is in progress
func (s FixtureStatus) IsLive() bool {
	return s == StatusFirstHalf || s == StatusHalfTime || s == StatusSecondHalf
}

// ParseFixtureStatus maps a status code (e.g. "C", "LHT") to a FixtureStatus. Unknown codes are Upcoming
func ParseFixtureStatus(code string) FixtureStatus {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range statusCodes {
		if c == code {
			return FixtureStatus(i)
		}
	}
	return StatusUpcoming
}

// PoolTeamRecord is a team's line in a pool table. Built per aggregation pass and then discarded
type PoolTeamRecord struct {
	Team          Team
	Played        int
	Won           int
	Drawn         int
	Lost          int
	TablePoints   int
	PointsFor     int
	PointsAgainst int
	TriesFor      int
	TriesAgainst  int
	Beat          map[string]bool // opponent ids beaten head-to-head
}

// PointsDifference is points scored minus points conceded
func (p PoolTeamRecord) PointsDifference() int {
	return p.PointsFor - p.PointsAgainst
}

// TriesDifference is tries scored minus tries conceded
func (p PoolTeamRecord) TriesDifference() int {
	return p.TriesFor - p.TriesAgainst
}

// PoolTable is the ordered standings of one pool
type PoolTable struct {
	Pool        string
	HasAnyDraws bool
	Standings   []PoolTeamRecord
}
