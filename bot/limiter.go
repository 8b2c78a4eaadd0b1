/* limiter.go
 * Contains the per user command rate limiter. Bursts of commands from one user are dropped rather than queued, so
 * rapid edits to a fixture list collapse instead of each triggering a projection
 */

package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle user entry is eligible for cleanup
	maxIdleAge = 10 * time.Minute
)

type userEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter hands out one rate.Limiter per user and prunes idle users inline
type UserRateLimiter struct {
	users map[string]*userEntry
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

// NewUserRateLimiter creates a limiter allowing r commands per second with bursts of b per user
func NewUserRateLimiter(r rate.Limit, b int) *UserRateLimiter {
	return &UserRateLimiter{
		users: make(map[string]*userEntry),
		r:     r,
		b:     b,
	}
}

// GetLimiter returns the limiter for a user, creating it on first use
func (u *UserRateLimiter) GetLimiter(userID string) *rate.Limiter {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.users) > cleanupThreshold {
		cutoff := time.Now().Add(-maxIdleAge)
		for k, e := range u.users {
			if e.lastSeen.Before(cutoff) {
				delete(u.users, k)
			}
		}
	}

	e, exists := u.users[userID]
	if !exists {
		e = &userEntry{limiter: rate.NewLimiter(u.r, u.b)}
		u.users[userID] = e
	}
	e.lastSeen = time.Now()

	return e.limiter
}

// Allow reports whether the user may run a command now
func (u *UserRateLimiter) Allow(userID string) bool {
	return u.GetLimiter(userID).Allow()
}
