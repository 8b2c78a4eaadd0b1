/* upcoming_fixtures.go
 * Contains the method used to fetch fixtures from the provider for loading into a channel
 */

package store

import (
	"context"
	"fmt"
	"rankings-bot/api/shared"

	"github.com/sirupsen/logrus"
)

// Function used to fetch fixtures played since the current rankings took effect, up to a number of days from now
// Preconditions: Receives context and number of days ahead to include
// Postconditions: Returns fixtures ordered by kick off, without postponed or cancelled matches, or an error if the
// rankings or fixtures could not be fetched
func (s *Store) FetchUpcomingFixtures(ctx context.Context, days int) ([]shared.Fixture, error) {
	if days < 0 {
		return nil, fmt.Errorf("days cannot be negative")
	}

	snapshot, err := s.GetRankings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := now
	// Results played since the rankings were published still move the points
	if !snapshot.Effective.IsZero() && snapshot.Effective.Before(now) {
		from = snapshot.Effective
	}
	to := now.AddDate(0, 0, days)

	fixtures, err := s.Provider.FetchFixtures(ctx, s.Sport, from, to, snapshot.Effective)
	if err != nil {
		return nil, fmt.Errorf("error fetching upcoming fixtures: %w", err)
	}

	var upcoming []shared.Fixture
	for _, f := range fixtures {
		if f.Status == shared.StatusPostponed || f.Status == shared.StatusCancelled {
			continue
		}
		upcoming = append(upcoming, f)
	}

	s.logger.WithFields(logrus.Fields{
		"fetched": len(fixtures),
		"kept":    len(upcoming),
		"days":    days,
	}).Debug("fetched upcoming fixtures")
	return upcoming, nil
}
