/* fixtures.go
 * Contains the methods for each channel's working fixture list
 */

package store

import (
	"fmt"
	"rankings-bot/api/shared"
	"slices"
)

// GetFixtures returns a copy of the channel's fixtures in the order they were added
func (s *Store) GetFixtures(channelID string) []shared.Fixture {
	s.fixturesMu.RLock()
	defer s.fixturesMu.RUnlock()

	return fixturesOf(s.channels[channelID])
}

// GetChannelFixtures returns a copy of the channel's fixtures with who added each one
func (s *Store) GetChannelFixtures(channelID string) []ChannelFixture {
	s.fixturesMu.RLock()
	defer s.fixturesMu.RUnlock()

	return slices.Clone(s.channels[channelID])
}

// SetFixtures replaces the channel's fixture list
// Preconditions: Receives channel id, the user replacing the list and the new fixtures
// Postconditions: The channel's list is the given fixtures in order. An empty slice clears the list
func (s *Store) SetFixtures(channelID string, user shared.User, fixtures []shared.Fixture) {
	s.fixturesMu.Lock()
	defer s.fixturesMu.Unlock()

	if len(fixtures) == 0 {
		delete(s.channels, channelID)
		return
	}

	now := s.now()
	list := make([]ChannelFixture, len(fixtures))
	for i, f := range fixtures {
		list[i] = ChannelFixture{Fixture: f, AddedBy: user, AddedAt: now}
	}
	s.channels[channelID] = list
}

// AddFixture appends a fixture to the channel's list and returns the new length
func (s *Store) AddFixture(channelID string, user shared.User, fixture shared.Fixture) int {
	s.fixturesMu.Lock()
	defer s.fixturesMu.Unlock()

	s.channels[channelID] = append(s.channels[channelID], ChannelFixture{
		Fixture: fixture,
		AddedBy: user,
		AddedAt: s.now(),
	})
	return len(s.channels[channelID])
}

// RemoveFixture removes the fixture at a zero based index
// Preconditions: Receives channel id and index
// Postconditions: Returns the removed fixture, or ErrFixtureIndex if the index does not exist
func (s *Store) RemoveFixture(channelID string, index int) (shared.Fixture, error) {
	s.fixturesMu.Lock()
	defer s.fixturesMu.Unlock()

	list := s.channels[channelID]
	if index < 0 || index >= len(list) {
		return shared.Fixture{}, fmt.Errorf("%w: %d (have %d)", ErrFixtureIndex, index+1, len(list))
	}

	removed := list[index].Fixture
	list = slices.Delete(slices.Clone(list), index, index+1)
	if len(list) == 0 {
		delete(s.channels, channelID)
	} else {
		s.channels[channelID] = list
	}
	return removed, nil
}

// ClearFixtures empties the channel's list and returns how many fixtures were removed
func (s *Store) ClearFixtures(channelID string) int {
	s.fixturesMu.Lock()
	defer s.fixturesMu.Unlock()

	n := len(s.channels[channelID])
	delete(s.channels, channelID)
	return n
}
