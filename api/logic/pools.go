/* pools.go
 * Contains the logic for building tournament pool tables from a list of fixtures, including the table points
 * (with bonus points) and the tie-break rules used to order teams on equal table points
 */

package logic

import (
	"cmp"
	"rankings-bot/api/shared"
	"slices"
	"sort"
)

const (
	winTablePoints     = 4
	drawTablePoints    = 2
	tryBonusThreshold  = 4
	losingBonusMargin  = 7
	unlabeledPoolLabel = ""
)

// poolBuilder holds the records of one pool while fixtures are being aggregated
type poolBuilder struct {
	label       string
	hasAnyDraws bool
	records     map[string]*shared.PoolTeamRecord
	order       []string // team ids in order of first appearance
}

// BuildPoolTables groups fixtures by pool and computes the ordered standings of each pool.
// Preconditions: Receives the fixtures, the rankings indexed by team id (used to resolve teams) and the projected
// rankings (used as the last tie-break)
// Postconditions: Returns one PoolTable per pool ordered by pool label. Returns an empty slice if no fixture has
// two resolvable teams
func BuildPoolTables(fixtures []shared.Fixture, rankingsByID map[string]shared.Ranking, final []shared.Ranking) []shared.PoolTable {
	pools := make(map[string]*poolBuilder)

	for _, fixture := range fixtures {
		if !fixture.HasValidTeams(rankingsByID) {
			continue
		}

		pool, ok := pools[fixture.Pool]
		if !ok {
			pool = &poolBuilder{label: fixture.Pool, records: make(map[string]*shared.PoolTeamRecord)}
			pools[fixture.Pool] = pool
		}

		// Teams get a record even when the match has no result yet, so they show as 0 played
		home := pool.record(rankingsByID[fixture.HomeTeamID].Team)
		away := pool.record(rankingsByID[fixture.AwayTeamID].Team)

		if !fixture.HasScores() {
			continue
		}
		pool.addResult(home, away, fixture)
	}

	// Multiple real pools means fixtures without a pool are not part of the tournament
	if len(pools) > 1 {
		delete(pools, unlabeledPoolLabel)
	}

	labels := make([]string, 0, len(pools))
	for label := range pools {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	ratings := make(map[string]float64, len(final))
	for _, r := range final {
		ratings[r.Team.ID] = r.Points
	}

	tables := make([]shared.PoolTable, 0, len(labels))
	for _, label := range labels {
		pool := pools[label]
		tables = append(tables, shared.PoolTable{
			Pool:        label,
			HasAnyDraws: pool.hasAnyDraws,
			Standings:   pool.standings(ratings),
		})
	}
	return tables
}

// record returns the team's record, creating an empty one the first time the team is seen
func (p *poolBuilder) record(team shared.Team) *shared.PoolTeamRecord {
	rec, ok := p.records[team.ID]
	if !ok {
		rec = &shared.PoolTeamRecord{Team: team, Beat: make(map[string]bool)}
		p.records[team.ID] = rec
		p.order = append(p.order, team.ID)
	}
	return rec
}

// addResult updates both records with a scored fixture
func (p *poolBuilder) addResult(home, away *shared.PoolTeamRecord, fixture shared.Fixture) {
	homeScore := *fixture.HomeScore
	awayScore := *fixture.AwayScore
	// Negative try counts are treated as not reported
	homeTriesPtr := shared.ValidTries(fixture.HomeTries)
	awayTriesPtr := shared.ValidTries(fixture.AwayTries)
	homeTries := 0
	if homeTriesPtr != nil {
		homeTries = *homeTriesPtr
	}
	awayTries := 0
	if awayTriesPtr != nil {
		awayTries = *awayTriesPtr
	}

	home.Played++
	away.Played++
	home.PointsFor += homeScore
	home.PointsAgainst += awayScore
	away.PointsFor += awayScore
	away.PointsAgainst += homeScore
	home.TriesFor += homeTries
	home.TriesAgainst += awayTries
	away.TriesFor += awayTries
	away.TriesAgainst += homeTries

	home.TablePoints += tablePoints(homeScore, awayScore, homeTriesPtr)
	away.TablePoints += tablePoints(awayScore, homeScore, awayTriesPtr)

	switch {
	case homeScore > awayScore:
		home.Won++
		away.Lost++
		home.Beat[away.Team.ID] = true
	case awayScore > homeScore:
		away.Won++
		home.Lost++
		away.Beat[home.Team.ID] = true
	default:
		home.Drawn++
		away.Drawn++
		p.hasAnyDraws = true
	}
}

// tablePoints calculates the table points for one side of a match: 4 for a win, 2 for a draw, a bonus point for
// scoring 4 or more tries and a bonus point for losing by 7 or less
func tablePoints(score, opponentScore int, tries *int) int {
	points := 0
	switch {
	case score > opponentScore:
		points = winTablePoints
	case score == opponentScore:
		points = drawTablePoints
	case opponentScore-score <= losingBonusMargin:
		points = 1
	}
	if tries := shared.ValidTries(tries); tries != nil && *tries >= tryBonusThreshold {
		points++
	}
	return points
}

// standings orders the pool's records by table points and breaks ties between teams on the same table points
func (p *poolBuilder) standings(ratings map[string]float64) []shared.PoolTeamRecord {
	records := make([]*shared.PoolTeamRecord, 0, len(p.order))
	for _, id := range p.order {
		records = append(records, p.records[id])
	}

	slices.SortStableFunc(records, func(a, b *shared.PoolTeamRecord) int {
		return cmp.Compare(b.TablePoints, a.TablePoints)
	})

	sorted := make([]shared.PoolTeamRecord, 0, len(records))
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) && records[end].TablePoints == records[start].TablePoints {
			end++
		}
		for _, rec := range sortTeamsOnSameTablePoints(records[start:end], ratings) {
			sorted = append(sorted, *rec)
		}
		start = end
	}
	return sorted
}

// sortTeamsOnSameTablePoints orders a group of teams that are level on table points.
//
// The tie-break operates in this order:
//   - Two teams: the winner of the match between them
//   - Points difference
//   - Tries difference
//   - Points for
//   - Tries for
//   - Projected ranking points
//
// With three or more teams only the top team is taken from the aggregate criteria and the rest of the group is
// broken again with the same rules, so a remaining pair can still be decided head-to-head.
func sortTeamsOnSameTablePoints(tied []*shared.PoolTeamRecord, ratings map[string]float64) []*shared.PoolTeamRecord {
	if len(tied) <= 1 {
		return tied
	}

	if len(tied) == 2 {
		first, second := tied[0], tied[1]
		if first.Beat[second.Team.ID] && !second.Beat[first.Team.ID] {
			return []*shared.PoolTeamRecord{first, second}
		}
		if second.Beat[first.Team.ID] && !first.Beat[second.Team.ID] {
			return []*shared.PoolTeamRecord{second, first}
		}
	}

	sorted := slices.Clone(tied)
	slices.SortStableFunc(sorted, func(a, b *shared.PoolTeamRecord) int {
		return compareAggregate(a, b, ratings)
	})

	if len(sorted) == 2 {
		return sorted
	}

	rest := sortTeamsOnSameTablePoints(sorted[1:], ratings)
	return append([]*shared.PoolTeamRecord{sorted[0]}, rest...)
}

// compareAggregate compares two records on the aggregate criteria, best first
func compareAggregate(a, b *shared.PoolTeamRecord, ratings map[string]float64) int {
	if c := cmp.Compare(b.PointsDifference(), a.PointsDifference()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TriesDifference(), a.TriesDifference()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PointsFor, a.PointsFor); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TriesFor, a.TriesFor); c != 0 {
		return c
	}
	return cmp.Compare(ratings[b.Team.ID], ratings[a.Team.ID])
}
