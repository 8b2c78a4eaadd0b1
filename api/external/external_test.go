/* external_test.go
 * Contains unit tests for external.go HTTP functions using httptest
 */

package external

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(url string) *Client {
	logger, _ := test.NewNullLogger()
	return NewClient(url, nil, logger)
}

// TestFetchRankings_Success tests successful rankings fetching
func TestFetchRankings_Success(t *testing.T) {
	body := loadTestdata(t, "rankings.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rugby/v3/rankings/mru", r.URL.Path)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer server.Close()

	snapshot, err := newTestClient(server.URL).FetchRankings(context.Background(), "mru")

	require.NoError(t, err)
	assert.Len(t, snapshot.Rankings, 4)
	assert.Equal(t, "39", snapshot.Rankings[0].Team.ID)
}

// TestFetchRankings_GzipResponse tests handling of gzip-encoded responses
func TestFetchRankings_GzipResponse(t *testing.T) {
	body := loadTestdata(t, "rankings.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that client accepts gzip
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))

		var buf bytes.Buffer
		gzWriter := gzip.NewWriter(&buf)
		gzWriter.Write(body)
		gzWriter.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	snapshot, err := newTestClient(server.URL).FetchRankings(context.Background(), "mru")

	require.NoError(t, err)
	assert.Len(t, snapshot.Rankings, 4)
}

// TestFetchRankings_ServerError tests handling of non-200 status codes
func TestFetchRankings_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRankings(context.Background(), "mru")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

// TestFetchRankings_Empty tests that an empty ranking table is an error
func TestFetchRankings_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRankings(context.Background(), "wru")

	assert.Error(t, err)
}

// TestFetchRankings_InvalidJSON tests handling of a body that is not json
func TestFetchRankings_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRankings(context.Background(), "mru")

	assert.Error(t, err)
}

// TestFetchFixtures_QueryParams tests the match listing request parameters
func TestFetchFixtures_QueryParams(t *testing.T) {
	body := loadTestdata(t, "matches.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rugby/v3/match", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2023-10-10", q.Get("startDate"))
		assert.Equal(t, "2023-10-17", q.Get("endDate"))
		assert.Equal(t, "asc", q.Get("sort"))
		assert.Equal(t, "100", q.Get("pageSize"))
		assert.Equal(t, "0", q.Get("page"))
		w.Write(body)
	}))
	defer server.Close()

	from := time.Date(2023, 10, 10, 0, 0, 0, 0, time.UTC)
	fixtures, err := newTestClient(server.URL).FetchFixtures(context.Background(), "mru", from, from.AddDate(0, 0, 7), time.Time{})

	require.NoError(t, err)
	require.Len(t, fixtures, 4)
	// Sorted by kick off
	for i := 1; i < len(fixtures); i++ {
		assert.False(t, fixtures[i].Kickoff.Before(fixtures[i-1].Kickoff))
	}
	// No rankings date, nothing is treated as counted
	for _, f := range fixtures {
		assert.False(t, f.AlreadyCounted)
	}
}

// TestFetchFixtures_Paging tests that every page of the listing is fetched
func TestFetchFixtures_Paging(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{"pageInfo":{"page":%s,"numPages":3},"content":[{"teams":[{"id":"1","name":"A"},{"id":"2","name":"B"}],"status":"U","events":[{"sport":"mru"}],"time":{"millis":%s000}}]}`, page, "170000000"+page)
	}))
	defer server.Close()

	fixtures, err := newTestClient(server.URL).FetchFixtures(context.Background(), "mru", time.Now(), time.Now(), time.Time{})

	require.NoError(t, err)
	assert.Len(t, fixtures, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

// TestFetchFixtures_PageError tests that a failing page fails the whole fetch
func TestFetchFixtures_PageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"pageInfo":{"page":0,"numPages":2},"content":[]}`))
	}))
	defer server.Close()

	fixtures, err := newTestClient(server.URL).FetchFixtures(context.Background(), "mru", time.Now(), time.Now(), time.Time{})

	assert.Error(t, err)
	assert.Nil(t, fixtures)
}

// TestClient_RateLimiterCancelled tests that a cancelled context stops a request waiting on the limiter
func TestClient_RateLimiterCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	logger, _ := test.NewNullLogger()
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow()
	client := NewClient(server.URL, limiter, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchRankings(ctx, "mru")
	assert.Error(t, err)
}

// TestNewClient_Defaults tests the defaults applied by NewClient
func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", nil, nil)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.NotNil(t, client.limiter)
	assert.NotNil(t, client.logger)
}
