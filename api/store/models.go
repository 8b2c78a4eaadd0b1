/* models.go
 * This file contains the structs and helper functions for the state held by the store
 */

package store

import (
	"errors"
	"rankings-bot/api/external"
	"rankings-bot/api/shared"
	"slices"
	"time"
)

var (
	ErrNoRankings   = errors.New("no rankings available")
	ErrFixtureIndex = errors.New("fixture index out of range")
)

// RankingsRecord is the cached rankings snapshot and when it goes stale
type RankingsRecord struct {
	Snapshot  external.RankingsSnapshot
	FetchedAt time.Time
	TTL       int64
}

func (r RankingsRecord) IsEmpty() bool {
	return len(r.Snapshot.Rankings) == 0
}

// IsExpired reports whether the record should be refreshed at the given time
func (r RankingsRecord) IsExpired(now time.Time) bool {
	return r.TTL < now.Unix()
}

// ChannelFixture is a fixture in a channel's working list along with who added it
type ChannelFixture struct {
	Fixture shared.Fixture
	AddedBy shared.User
	AddedAt time.Time
}

func cloneSnapshot(s external.RankingsSnapshot) external.RankingsSnapshot {
	s.Rankings = slices.Clone(s.Rankings)
	return s
}

func fixturesOf(list []ChannelFixture) []shared.Fixture {
	fixtures := make([]shared.Fixture, len(list))
	for i, cf := range list {
		fixtures[i] = cf.Fixture
	}
	return fixtures
}
