/* test_helpers.go
 * Contains test helper functions and mock structures for store package tests
 */

package store

import (
	"context"
	"rankings-bot/api/external"
	"rankings-bot/api/shared"
	"sync"
	"time"
)

// FakeProvider is an external.Provider returning canned data and recording calls
type FakeProvider struct {
	mu sync.Mutex

	Snapshot    external.RankingsSnapshot
	RankingsErr error
	Fixtures    []shared.Fixture
	FixturesErr error

	RankingsCalls int
	FixturesCalls int
	LastFrom      time.Time
	LastTo        time.Time
	LastRankDate  time.Time
}

var _ external.Provider = (*FakeProvider)(nil)

func (f *FakeProvider) FetchRankings(ctx context.Context, sport string) (external.RankingsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RankingsCalls++
	if f.RankingsErr != nil {
		return external.RankingsSnapshot{}, f.RankingsErr
	}
	return f.Snapshot, nil
}

func (f *FakeProvider) FetchFixtures(ctx context.Context, sport string, from, to, rankingsDate time.Time) ([]shared.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FixturesCalls++
	f.LastFrom, f.LastTo, f.LastRankDate = from, to, rankingsDate
	if f.FixturesErr != nil {
		return nil, f.FixturesErr
	}
	return f.Fixtures, nil
}

// CreateSampleSnapshot creates a small rankings snapshot for testing.
func CreateSampleSnapshot() external.RankingsSnapshot {
	rankings := []shared.Ranking{
		{Team: shared.Team{ID: "39", Name: "South Africa", Abbreviation: "RSA"}, Points: 93.94, Position: 1},
		{Team: shared.Team{ID: "32", Name: "Ireland", Abbreviation: "IRE"}, Points: 91.82, Position: 2},
		{Team: shared.Team{ID: "37", Name: "New Zealand", Abbreviation: "NZL"}, Points: 89.41, Position: 3},
		{Team: shared.Team{ID: "42", Name: "France", Abbreviation: "FRA"}, Points: 87.64, Position: 4},
	}
	for i := range rankings {
		rankings[i].PreviousPoints = rankings[i].Points
		rankings[i].PreviousPosition = rankings[i].Position
	}
	return external.RankingsSnapshot{
		Label:     "Mens Rugby",
		Effective: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC),
		Rankings:  rankings,
	}
}

// CreateSampleFixtures creates sample fixtures for testing.
func CreateSampleFixtures() []shared.Fixture {
	return []shared.Fixture{
		{HomeTeamID: "39", AwayTeamID: "32", HomeScore: shared.IntPtr(8), AwayScore: shared.IntPtr(13), Status: shared.StatusComplete},
		{HomeTeamID: "37", AwayTeamID: "42", Status: shared.StatusUpcoming},
		{HomeTeamID: "32", AwayTeamID: "42", Status: shared.StatusPostponed},
	}
}

// fixedClock returns a clock function and a setter for moving it
func fixedClock(start time.Time) (func() time.Time, func(time.Time)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(t time.Time) {
			mu.Lock()
			defer mu.Unlock()
			now = t
		}
}
