/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"
	"rankings-bot/api/external"
	"rankings-bot/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	GetRankings(ctx context.Context) (external.RankingsSnapshot, error)
	RefreshRankings(ctx context.Context) (external.RankingsSnapshot, error)
	FetchUpcomingFixtures(ctx context.Context, days int) ([]shared.Fixture, error)

	GetFixtures(channelID string) []shared.Fixture
	GetChannelFixtures(channelID string) []ChannelFixture
	SetFixtures(channelID string, user shared.User, fixtures []shared.Fixture)
	AddFixture(channelID string, user shared.User, fixture shared.Fixture) int
	RemoveFixture(channelID string, index int) (shared.Fixture, error)
	ClearFixtures(channelID string) int

	// Getter methods for accessing fields
	GetSport() string
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetSport returns the sport code the store fetches rankings for
func (s *Store) GetSport() string {
	return s.Sport
}
