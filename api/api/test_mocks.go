/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 */

package api

import (
	"context"
	"fmt"
	"rankings-bot/api/external"
	"rankings-bot/api/shared"
	"rankings-bot/api/store"
	"slices"
	"sync"
	"time"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Snapshot         external.RankingsSnapshot
	UpcomingFixtures []shared.Fixture
	Channels         map[string][]store.ChannelFixture
	Sport            string

	// Error injection for testing error paths
	GetRankingsError           error
	RefreshRankingsError       error
	FetchUpcomingFixturesError error

	// Call tracking
	LastUpcomingDays int
	RefreshCalls     int
}

// NewMockStore creates a new MockStore with a small default ranking table
func NewMockStore() *MockStore {
	rankings := []shared.Ranking{
		{Team: shared.Team{ID: "39", Name: "South Africa", Abbreviation: "RSA"}, Points: 93.94, Position: 1},
		{Team: shared.Team{ID: "32", Name: "Ireland", Abbreviation: "IRE"}, Points: 91.82, Position: 2},
		{Team: shared.Team{ID: "37", Name: "New Zealand", Abbreviation: "NZL"}, Points: 89.41, Position: 3},
		{Team: shared.Team{ID: "42", Name: "France", Abbreviation: "FRA"}, Points: 87.64, Position: 4},
		{Team: shared.Team{ID: "34", Name: "England", Abbreviation: "ENG"}, Points: 81.49, Position: 5},
	}
	for i := range rankings {
		rankings[i].PreviousPoints = rankings[i].Points
		rankings[i].PreviousPosition = rankings[i].Position
	}

	return &MockStore{
		Snapshot: external.RankingsSnapshot{
			Label:     "Mens Rugby",
			Effective: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC),
			Rankings:  rankings,
		},
		Channels: make(map[string][]store.ChannelFixture),
		Sport:    "mru",
	}
}

// GetRankings mock implementation
func (m *MockStore) GetRankings(ctx context.Context) (external.RankingsSnapshot, error) {
	if m.GetRankingsError != nil {
		return external.RankingsSnapshot{}, m.GetRankingsError
	}
	s := m.Snapshot
	s.Rankings = slices.Clone(s.Rankings)
	return s, nil
}

// RefreshRankings mock implementation
func (m *MockStore) RefreshRankings(ctx context.Context) (external.RankingsSnapshot, error) {
	m.mu.Lock()
	m.RefreshCalls++
	m.mu.Unlock()
	if m.RefreshRankingsError != nil {
		return external.RankingsSnapshot{}, m.RefreshRankingsError
	}
	return m.GetRankings(ctx)
}

// FetchUpcomingFixtures mock implementation
func (m *MockStore) FetchUpcomingFixtures(ctx context.Context, days int) ([]shared.Fixture, error) {
	m.LastUpcomingDays = days
	if m.FetchUpcomingFixturesError != nil {
		return nil, m.FetchUpcomingFixturesError
	}
	return slices.Clone(m.UpcomingFixtures), nil
}

// GetFixtures mock implementation
func (m *MockStore) GetFixtures(channelID string) []shared.Fixture {
	m.mu.Lock()
	defer m.mu.Unlock()
	var fixtures []shared.Fixture
	for _, cf := range m.Channels[channelID] {
		fixtures = append(fixtures, cf.Fixture)
	}
	return fixtures
}

// GetChannelFixtures mock implementation
func (m *MockStore) GetChannelFixtures(channelID string) []store.ChannelFixture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Channels[channelID])
}

// SetFixtures mock implementation
func (m *MockStore) SetFixtures(channelID string, user shared.User, fixtures []shared.Fixture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []store.ChannelFixture
	for _, f := range fixtures {
		list = append(list, store.ChannelFixture{Fixture: f, AddedBy: user})
	}
	m.Channels[channelID] = list
}

// AddFixture mock implementation
func (m *MockStore) AddFixture(channelID string, user shared.User, fixture shared.Fixture) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Channels[channelID] = append(m.Channels[channelID], store.ChannelFixture{Fixture: fixture, AddedBy: user})
	return len(m.Channels[channelID])
}

// RemoveFixture mock implementation
func (m *MockStore) RemoveFixture(channelID string, index int) (shared.Fixture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.Channels[channelID]
	if index < 0 || index >= len(list) {
		return shared.Fixture{}, fmt.Errorf("%w: %d", store.ErrFixtureIndex, index+1)
	}
	removed := list[index].Fixture
	m.Channels[channelID] = slices.Delete(list, index, index+1)
	return removed, nil
}

// ClearFixtures mock implementation
func (m *MockStore) ClearFixtures(channelID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.Channels[channelID])
	delete(m.Channels, channelID)
	return n
}

// GetSport mock implementation
func (m *MockStore) GetSport() string {
	return m.Sport
}

// Ensure MockStore implements the interface
var _ store.Interface = (*MockStore)(nil)
