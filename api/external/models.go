/* models.go
 * This file contains the models used by the external package when fetching data from the rankings api
 */

package external

import (
	"context"
	"encoding/json"
	"rankings-bot/api/shared"
	"strconv"
	"time"
)

// Provider is the source of rankings and fixtures. Implemented by Client, faked in store tests
type Provider interface {
	FetchRankings(ctx context.Context, sport string) (RankingsSnapshot, error)
	FetchFixtures(ctx context.Context, sport string, from, to, rankingsDate time.Time) ([]shared.Fixture, error)
}

// RankingsSnapshot is a published ranking table and the time it took effect
type RankingsSnapshot struct {
	Label     string
	Effective time.Time
	Rankings  []shared.Ranking
}

// flexibleID accepts ids sent either as JSON strings or numbers
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type apiTime struct {
	Millis    float64 `json:"millis"`
	GmtOffset float64 `json:"gmtOffset"`
	Label     string  `json:"label"`
}

func (t apiTime) Time() time.Time {
	if t.Millis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(t.Millis)).UTC()
}

type apiTeam struct {
	ID           flexibleID `json:"id"`
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation"`
}

type rankingEntry struct {
	Pos         int     `json:"pos"`
	PreviousPos int     `json:"previousPos"`
	Pts         float64 `json:"pts"`
	PreviousPts float64 `json:"previousPts"`
	Team        apiTeam `json:"team"`
}

type rankingsResponse struct {
	Label     string         `json:"label"`
	Entries   []rankingEntry `json:"entries"`
	Effective apiTime        `json:"effective"`
}

type apiVenue struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type apiEvent struct {
	ID    flexibleID `json:"id"`
	Label string     `json:"label"`
	Sport string     `json:"sport"`
}

type apiMatch struct {
	MatchID     flexibleID `json:"matchId"`
	Description string     `json:"description"`
	Teams       []apiTeam  `json:"teams"`
	Scores      []int      `json:"scores"`
	Status      string     `json:"status"`
	Venue       *apiVenue  `json:"venue"`
	Events      []apiEvent `json:"events"`
	Time        apiTime    `json:"time"`
}

type pageInfo struct {
	Page       int `json:"page"`
	NumPages   int `json:"numPages"`
	PageSize   int `json:"pageSize"`
	NumEntries int `json:"numEntries"`
}

type matchesResponse struct {
	Content  []apiMatch `json:"content"`
	PageInfo pageInfo   `json:"pageInfo"`
}

func (p pageInfo) hasNext() bool {
	return p.Page+1 < p.NumPages
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func pageParam(page int) string {
	return strconv.Itoa(page)
}
