/* external.go
 * Contains the logic used to fetch rankings and fixtures from the public rankings api, and return the results to the
 * higher level functions
 */

package external

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"rankings-bot/api/shared"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.wr-rims-prod.pulselive.com"
	userAgent      = "RankingsBot/1.0"
	matchPageSize  = 100
	// Guards against a server that never reports the last page
	maxMatchPages = 50
)

// Client fetches data from the rankings api. Every request waits on the shared limiter
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient creates a client for the api at baseURL. A nil limiter means no rate limiting
func NewClient(baseURL string, limiter *rate.Limiter, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    limiter,
		logger:     logger,
	}
}

// Function to fetch the current rankings for a sport
// Preconditions: Receives context and the sport code (e.g. "mru" for men's, "wru" for women's)
// Postconditions: Returns the rankings snapshot or an error if it occurs
func (c *Client) FetchRankings(ctx context.Context, sport string) (RankingsSnapshot, error) {
	endpoint := fmt.Sprintf("%s/rugby/v3/rankings/%s", c.baseURL, url.PathEscape(sport))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return RankingsSnapshot{}, fmt.Errorf("error fetching rankings: %w", err)
	}

	snapshot, err := ParseRankings(body)
	if err != nil {
		return RankingsSnapshot{}, err
	}
	if len(snapshot.Rankings) == 0 {
		return RankingsSnapshot{}, fmt.Errorf("rankings for %q are empty", sport)
	}

	c.logger.WithFields(logrus.Fields{
		"sport": sport,
		"teams": len(snapshot.Rankings),
		"label": snapshot.Label,
	}).Info("fetched rankings")
	return snapshot, nil
}

// Function to fetch all fixtures of a sport between two dates, following the api's paging
// Preconditions: Receives context, sport code, date range and the date the current rankings took effect
// Postconditions: Returns fixtures sorted by kick off, or an error if any page fails
func (c *Client) FetchFixtures(ctx context.Context, sport string, from, to, rankingsDate time.Time) ([]shared.Fixture, error) {
	var fixtures []shared.Fixture

	for page := 0; page < maxMatchPages; page++ {
		params := url.Values{}
		params.Set("startDate", formatDate(from))
		params.Set("endDate", formatDate(to))
		params.Set("sort", "asc")
		params.Set("pageSize", fmt.Sprint(matchPageSize))
		params.Set("page", pageParam(page))
		endpoint := fmt.Sprintf("%s/rugby/v3/match?%s", c.baseURL, params.Encode())

		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("error fetching fixtures page %d: %w", page, err)
		}

		resp, err := parseMatchesPage(body)
		if err != nil {
			return nil, err
		}

		for _, m := range resp.Content {
			if f, ok := FixtureFromMatch(m, sport, rankingsDate); ok {
				fixtures = append(fixtures, f)
			}
		}

		if !resp.PageInfo.hasNext() {
			break
		}
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		return fixtures[i].Kickoff.Before(fixtures[j].Kickoff)
	})

	c.logger.WithFields(logrus.Fields{
		"sport":    sport,
		"from":     formatDate(from),
		"to":       formatDate(to),
		"fixtures": len(fixtures),
	}).Info("fetched fixtures")
	return fixtures, nil
}

// Function to perform a GET request and return the (decompressed) body
// Preconditions: Receives context and full url
// Postconditions: Returns the body bytes, or an error on transport failure or a non 200 response
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", "gzip")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"url":    endpoint,
		"status": response.StatusCode,
	}).Debug("rankings api response")

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	var reader io.Reader = response.Body
	if response.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
