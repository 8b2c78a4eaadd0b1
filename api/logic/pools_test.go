/* pools_test.go
 * Contains unit tests for pools.go functions
 */

package logic

import (
	"rankings-bot/api/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poolFixture creates a scored pool fixture with tries
func poolFixture(pool, home string, homeScore, awayScore int, away string, homeTries, awayTries int) shared.Fixture {
	f := fixture(home, homeScore, awayScore, away)
	f.Pool = pool
	f.HomeTries = shared.IntPtr(homeTries)
	f.AwayTries = shared.IntPtr(awayTries)
	return f
}

// standingIDs returns the team ids of a pool table in order
func standingIDs(table shared.PoolTable) []string {
	ids := make([]string, 0, len(table.Standings))
	for _, s := range table.Standings {
		ids = append(ids, s.Team.ID)
	}
	return ids
}

// TestBuildPoolTables_Empty tests that no fixtures gives no pools
func TestBuildPoolTables_Empty(t *testing.T) {
	base := baseRankings()

	tables := BuildPoolTables(nil, shared.RankingsByID(base), base)

	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

// TestBuildPoolTables_TablePoints tests win, draw, loss and bonus points
func TestBuildPoolTables_TablePoints(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{
		poolFixture("A", "A", 30, 25, "B", 4, 3), // A win + try bonus = 5, B losing bonus = 1
		poolFixture("A", "C", 10, 10, "D", 1, 4), // C draw = 2, D draw + try bonus = 3
		poolFixture("A", "A", 3, 20, "C", 0, 2),  // A loss by 17 = 0, C win = 4
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, "A", table.Pool)
	assert.True(t, table.HasAnyDraws)

	records := make(map[string]shared.PoolTeamRecord)
	for _, s := range table.Standings {
		records[s.Team.ID] = s
	}

	assert.Equal(t, 5, records["A"].TablePoints)
	assert.Equal(t, 1, records["B"].TablePoints)
	assert.Equal(t, 6, records["C"].TablePoints)
	assert.Equal(t, 3, records["D"].TablePoints)

	a := records["A"]
	assert.Equal(t, 2, a.Played)
	assert.Equal(t, 1, a.Won)
	assert.Equal(t, 1, a.Lost)
	assert.Equal(t, 33, a.PointsFor)
	assert.Equal(t, 45, a.PointsAgainst)
	assert.Equal(t, 4, a.TriesFor)
	assert.Equal(t, 5, a.TriesAgainst)
	assert.True(t, a.Beat["B"])
	assert.True(t, records["C"].Beat["A"])
	assert.Equal(t, 1, records["C"].Drawn)

	assert.Equal(t, []string{"C", "A", "D", "B"}, standingIDs(table))
}

// TestBuildPoolTables_NoTriesNoBonus tests that missing tries never earn a bonus
func TestBuildPoolTables_NoTriesNoBonus(t *testing.T) {
	base := baseRankings()
	f := fixture("A", 40, 0, "B")
	f.Pool = "A"

	tables := BuildPoolTables([]shared.Fixture{f}, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	assert.Equal(t, 4, tables[0].Standings[0].TablePoints)
	assert.Equal(t, 0, tables[0].Standings[0].TriesFor)
	assert.False(t, tables[0].HasAnyDraws)
}

// TestBuildPoolTables_LosingBonusBoundary tests that a loss by exactly 7 earns the bonus and by 8 does not
func TestBuildPoolTables_LosingBonusBoundary(t *testing.T) {
	assert.Equal(t, 1, tablePoints(13, 20, nil))
	assert.Equal(t, 0, tablePoints(12, 20, nil))
	assert.Equal(t, 1, tablePoints(12, 20, shared.IntPtr(4)))
	assert.Equal(t, 5, tablePoints(20, 0, shared.IntPtr(5)))
	assert.Equal(t, 2, tablePoints(10, 10, shared.IntPtr(3)))
	assert.Equal(t, 2, tablePoints(19, 20, shared.IntPtr(4)))
}

// TestBuildPoolTables_HeadToHead tests that a two-way tie goes to the winner of the match between them
func TestBuildPoolTables_HeadToHead(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{
		poolFixture("P", "D", 20, 3, "A", 0, 0),  // D 4, A 0
		poolFixture("P", "A", 70, 0, "C", 0, 0),  // A 4, C 0
		poolFixture("P", "C", 0, 5, "D", 0, 0),   // D 4, C 1
		poolFixture("P", "A", 50, 10, "B", 0, 0), // A 4, B 0
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	records := make(map[string]shared.PoolTeamRecord)
	for _, s := range tables[0].Standings {
		records[s.Team.ID] = s
	}
	require.Equal(t, 8, records["A"].TablePoints)
	require.Equal(t, 8, records["D"].TablePoints)
	require.Greater(t, records["A"].PointsDifference(), records["D"].PointsDifference())

	// D won the match between them, so D ranks first despite the worse points difference
	assert.Equal(t, []string{"D", "A", "C", "B"}, standingIDs(tables[0]))
}

// TestSortTeamsOnSameTablePoints_TwoWayDrawFallsThrough tests that a drawn head-to-head uses points difference
func TestSortTeamsOnSameTablePoints_TwoWayDrawFallsThrough(t *testing.T) {
	a := &shared.PoolTeamRecord{Team: shared.Team{ID: "A"}, PointsFor: 10, PointsAgainst: 20, Beat: map[string]bool{}}
	b := &shared.PoolTeamRecord{Team: shared.Team{ID: "B"}, PointsFor: 30, PointsAgainst: 20, Beat: map[string]bool{}}

	sorted := sortTeamsOnSameTablePoints([]*shared.PoolTeamRecord{a, b}, nil)

	assert.Equal(t, "B", sorted[0].Team.ID)
	assert.Equal(t, "A", sorted[1].Team.ID)
}

// TestSortTeamsOnSameTablePoints_Criteria tests each aggregate criterion in priority order
func TestSortTeamsOnSameTablePoints_Criteria(t *testing.T) {
	tests := []struct {
		name    string
		a, b    shared.PoolTeamRecord
		ratings map[string]float64
	}{
		{
			name: "points difference",
			a:    shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10, TriesFor: 0, TriesAgainst: 9},
			b:    shared.PoolTeamRecord{PointsFor: 50, PointsAgainst: 40, TriesFor: 9},
		},
		{
			name: "tries difference",
			a:    shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10, TriesFor: 5, TriesAgainst: 1},
			b:    shared.PoolTeamRecord{PointsFor: 40, PointsAgainst: 20, TriesFor: 6, TriesAgainst: 4},
		},
		{
			name: "points for",
			a:    shared.PoolTeamRecord{PointsFor: 40, PointsAgainst: 20, TriesFor: 5, TriesAgainst: 2},
			b:    shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10, TriesFor: 9, TriesAgainst: 6},
		},
		{
			name: "tries for",
			a:    shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10, TriesFor: 6, TriesAgainst: 3},
			b:    shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10, TriesFor: 4, TriesAgainst: 1},
		},
		{
			name:    "ranking points",
			a:       shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10},
			b:       shared.PoolTeamRecord{PointsFor: 30, PointsAgainst: 10},
			ratings: map[string]float64{"A": 88.5, "B": 80.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a, tt.b
			a.Team = shared.Team{ID: "A"}
			b.Team = shared.Team{ID: "B"}

			// b first in input, a must still come out on top
			sorted := sortTeamsOnSameTablePoints([]*shared.PoolTeamRecord{&b, &a}, tt.ratings)

			assert.Equal(t, "A", sorted[0].Team.ID)
			assert.Equal(t, "B", sorted[1].Team.ID)
		})
	}
}

// TestSortTeamsOnSameTablePoints_ThreeWayIgnoresHeadToHead tests that three tied teams use aggregates, then
// the remaining pair is decided head-to-head
func TestSortTeamsOnSameTablePoints_ThreeWayIgnoresHeadToHead(t *testing.T) {
	// Circular results: A beat B, B beat C, C beat A
	a := &shared.PoolTeamRecord{Team: shared.Team{ID: "A"}, PointsFor: 40, PointsAgainst: 30, Beat: map[string]bool{"B": true}}
	b := &shared.PoolTeamRecord{Team: shared.Team{ID: "B"}, PointsFor: 50, PointsAgainst: 30, Beat: map[string]bool{"C": true}}
	c := &shared.PoolTeamRecord{Team: shared.Team{ID: "C"}, PointsFor: 35, PointsAgainst: 30, Beat: map[string]bool{"A": true}}

	sorted := sortTeamsOnSameTablePoints([]*shared.PoolTeamRecord{a, b, c}, nil)

	// B has the best points difference and goes top. A vs C is then head-to-head: C beat A
	require.Len(t, sorted, 3)
	assert.Equal(t, "B", sorted[0].Team.ID)
	assert.Equal(t, "C", sorted[1].Team.ID)
	assert.Equal(t, "A", sorted[2].Team.ID)
}

// TestSortTeamsOnSameTablePoints_ThreeWayAggregates tests a three-way tie resolved entirely by aggregates
func TestSortTeamsOnSameTablePoints_ThreeWayAggregates(t *testing.T) {
	a := &shared.PoolTeamRecord{Team: shared.Team{ID: "A"}, PointsFor: 20, PointsAgainst: 20, TriesFor: 2, TriesAgainst: 2, Beat: map[string]bool{}}
	b := &shared.PoolTeamRecord{Team: shared.Team{ID: "B"}, PointsFor: 20, PointsAgainst: 20, TriesFor: 3, TriesAgainst: 2, Beat: map[string]bool{}}
	c := &shared.PoolTeamRecord{Team: shared.Team{ID: "C"}, PointsFor: 25, PointsAgainst: 20, TriesFor: 0, TriesAgainst: 5, Beat: map[string]bool{}}

	sorted := sortTeamsOnSameTablePoints([]*shared.PoolTeamRecord{a, b, c}, nil)

	assert.Equal(t, "C", sorted[0].Team.ID) // points difference
	assert.Equal(t, "B", sorted[1].Team.ID) // tries difference
	assert.Equal(t, "A", sorted[2].Team.ID)
}

// TestSortTeamsOnSameTablePoints_FullyLevel tests that identical records keep their input order
func TestSortTeamsOnSameTablePoints_FullyLevel(t *testing.T) {
	a := &shared.PoolTeamRecord{Team: shared.Team{ID: "A"}, Beat: map[string]bool{}}
	b := &shared.PoolTeamRecord{Team: shared.Team{ID: "B"}, Beat: map[string]bool{}}
	c := &shared.PoolTeamRecord{Team: shared.Team{ID: "C"}, Beat: map[string]bool{}}

	sorted := sortTeamsOnSameTablePoints([]*shared.PoolTeamRecord{a, b, c}, nil)

	assert.Equal(t, "A", sorted[0].Team.ID)
	assert.Equal(t, "B", sorted[1].Team.ID)
	assert.Equal(t, "C", sorted[2].Team.ID)
}

// TestBuildPoolTables_UnscoredFixturesListTeams tests that teams without results still appear with 0 played
func TestBuildPoolTables_UnscoredFixturesListTeams(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{
		{HomeTeamID: "A", AwayTeamID: "B", Pool: "C"},
		{HomeTeamID: "C", AwayTeamID: "D", Pool: "C", HomeScore: shared.IntPtr(10)},
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	require.Len(t, tables[0].Standings, 4)
	for _, s := range tables[0].Standings {
		assert.Zero(t, s.Played)
		assert.Zero(t, s.TablePoints)
	}
	// Level on everything, so the ranking points decide
	assert.Equal(t, []string{"A", "B", "C", "D"}, standingIDs(tables[0]))
}

// TestBuildPoolTables_InvalidTeamsIgnored tests that fixtures with unknown or identical teams are ignored
func TestBuildPoolTables_InvalidTeamsIgnored(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{
		poolFixture("A", "A", 20, 10, "X", 0, 0),
		poolFixture("A", "B", 20, 10, "B", 0, 0),
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	assert.Empty(t, tables)
}

// TestBuildPoolTables_PoolsOrderedAndUnlabeledDropped tests pool ordering and the unlabeled bucket heuristic
func TestBuildPoolTables_PoolsOrderedAndUnlabeledDropped(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{
		poolFixture("D", "A", 20, 10, "B", 0, 0),
		poolFixture("", "A", 20, 10, "C", 0, 0),
		poolFixture("B", "C", 20, 10, "D", 0, 0),
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 2)
	assert.Equal(t, "B", tables[0].Pool)
	assert.Equal(t, "D", tables[1].Pool)
}

// TestBuildPoolTables_SingleUnlabeledPoolKept tests that a fixture set without pools is one round robin
func TestBuildPoolTables_SingleUnlabeledPoolKept(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{
		fixture("A", 20, 10, "B"),
		fixture("C", 20, 10, "D"),
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	assert.Equal(t, "", tables[0].Pool)
	assert.Len(t, tables[0].Standings, 4)
}

// TestBuildPoolTables_AlreadyCountedStillCounts tests that results baked into the rankings still count in pools
func TestBuildPoolTables_AlreadyCountedStillCounts(t *testing.T) {
	base := baseRankings()
	f := poolFixture("A", "A", 20, 10, "B", 0, 0)
	f.AlreadyCounted = true

	tables := BuildPoolTables([]shared.Fixture{f}, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].Standings[0].Played)
}

// TestBuildPoolTables_UsesProjectedRankings tests that the final tie-break reads the projected table
func TestBuildPoolTables_UsesProjectedRankings(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{{HomeTeamID: "A", AwayTeamID: "B", Pool: "A"}}
	projected := []shared.Ranking{
		{Team: base[1].Team, Points: 95},
		{Team: base[0].Team, Points: 90},
	}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), projected)

	require.Len(t, tables, 1)
	assert.Equal(t, []string{"B", "A"}, standingIDs(tables[0]))
}

// TestBuildPoolTables_NegativeScoresIgnored tests that a negative score is treated as no result
func TestBuildPoolTables_NegativeScoresIgnored(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{poolFixture("A", "A", -5, 10, "B", 1, 2)}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	require.Len(t, tables[0].Standings, 2)
	for _, s := range tables[0].Standings {
		assert.Zero(t, s.Played)
		assert.Zero(t, s.TablePoints)
		assert.Zero(t, s.PointsFor)
	}
}

// TestBuildPoolTables_NegativeTriesIgnored tests that negative try counts count as not reported
func TestBuildPoolTables_NegativeTriesIgnored(t *testing.T) {
	base := baseRankings()
	fixtures := []shared.Fixture{poolFixture("A", "A", 30, 10, "B", -4, 5)}

	tables := BuildPoolTables(fixtures, shared.RankingsByID(base), base)

	require.Len(t, tables, 1)
	records := make(map[string]shared.PoolTeamRecord)
	for _, s := range tables[0].Standings {
		records[s.Team.ID] = s
	}
	assert.Equal(t, 4, records["A"].TablePoints)
	assert.Equal(t, 0, records["A"].TriesFor)
	assert.Equal(t, 5, records["A"].TriesAgainst)
	assert.Equal(t, 1, records["B"].TablePoints)
	assert.Equal(t, 5, records["B"].TriesFor)
	assert.Equal(t, 0, tablePoints(5, 20, shared.IntPtr(-4)))
}
