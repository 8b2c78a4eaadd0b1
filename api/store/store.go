/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into three files:
 * rankings, fixtures and upcoming_fixtures. Each of these files contain methods for interacting with that part of
 * the in memory state
 */

package store

import (
	"fmt"
	"rankings-bot/api/external"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultRankingsTTL = 30 * time.Minute

type Store struct {
	Provider external.Provider
	Sport    string
	TTL      time.Duration

	logger *logrus.Logger
	now    func() time.Time

	// rankingsMu also serialises refreshes so only one fetch runs at a time
	rankingsMu sync.Mutex
	rankings   RankingsRecord

	fixturesMu sync.RWMutex
	channels   map[string][]ChannelFixture
}

// Function for initialising Store
// Preconditions: Receives the rankings provider, sport code (e.g. mru), rankings cache ttl and logger
// Postconditions: Returns pointer to the Store object, or error if the provider or sport are missing
func NewStore(provider external.Provider, sport string, ttl time.Duration, logger *logrus.Logger) (*Store, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	if sport == "" {
		return nil, fmt.Errorf("sport cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultRankingsTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Store{
		Provider: provider,
		Sport:    sport,
		TTL:      ttl,
		logger:   logger,
		now:      time.Now,
		channels: make(map[string][]ChannelFixture),
	}, nil
}
