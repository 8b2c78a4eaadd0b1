/* rankings.go
 * Contains the methods for reading and refreshing the cached rankings snapshot
 */

package store

import (
	"context"
	"fmt"
	"rankings-bot/api/external"
)

// Function to get the current rankings. Checks if the cached snapshot is outdated, if it is, fetches the rankings
// from the provider and updates the cache
// Preconditions: Receives context
// Postconditions: Returns a copy of the latest snapshot. If a refresh fails but an older snapshot is cached, the older
// snapshot is returned. Returns an error only when there are no rankings at all
func (s *Store) GetRankings(ctx context.Context) (external.RankingsSnapshot, error) {
	s.rankingsMu.Lock()
	defer s.rankingsMu.Unlock()

	if !s.rankings.IsEmpty() && !s.rankings.IsExpired(s.now()) {
		return cloneSnapshot(s.rankings.Snapshot), nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		if s.rankings.IsEmpty() {
			return external.RankingsSnapshot{}, fmt.Errorf("%w: %w", ErrNoRankings, err)
		}
		s.logger.WithError(err).Warn("rankings refresh failed, serving cached rankings")
	}
	return cloneSnapshot(s.rankings.Snapshot), nil
}

// Function to force a refresh of the rankings regardless of the ttl
// Preconditions: Receives context
// Postconditions: Returns a copy of the new snapshot, or an error if the fetch failed. The cache is left untouched on error
func (s *Store) RefreshRankings(ctx context.Context) (external.RankingsSnapshot, error) {
	s.rankingsMu.Lock()
	defer s.rankingsMu.Unlock()

	if err := s.refreshLocked(ctx); err != nil {
		return external.RankingsSnapshot{}, err
	}
	return cloneSnapshot(s.rankings.Snapshot), nil
}

// refreshLocked must be called with rankingsMu held
func (s *Store) refreshLocked(ctx context.Context) error {
	s.logger.WithField("sport", s.Sport).Info("updating cached rankings...")

	snapshot, err := s.Provider.FetchRankings(ctx, s.Sport)
	if err != nil {
		return fmt.Errorf("error fetching rankings: %w", err)
	}
	if len(snapshot.Rankings) == 0 {
		return fmt.Errorf("no rankings returned for %s", s.Sport)
	}

	now := s.now()
	s.rankings = RankingsRecord{
		Snapshot:  cloneSnapshot(snapshot),
		FetchedAt: now,
		TTL:       now.Add(s.TTL).Unix(),
	}
	return nil
}
