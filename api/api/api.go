/* api.go
 * This file contains the public methods for interacting with this package. For consistent results, functions should
 * only be called from this file, not the sub packages for logic, codec and store
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"rankings-bot/api/codec"
	"rankings-bot/api/logic"
	"rankings-bot/api/shared"
	"rankings-bot/api/store"
	"strings"

	"github.com/sirupsen/logrus"
)

// API provides methods for interacting with the rankings bot data layer
type API struct {
	Store  store.Interface
	logger *logrus.Logger
}

// NewAPI creates a new API instance backed by the given store
func NewAPI(s store.Interface, logger *logrus.Logger) (*API, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &API{Store: s, logger: logger}, nil
}

// rankings fetches the current rankings, mapping store failures to ErrNotReady
func (a *API) rankings(ctx context.Context) ([]shared.Ranking, error) {
	snapshot, err := a.Store.GetRankings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	if len(snapshot.Rankings) == 0 {
		return nil, ErrNotReady
	}
	return snapshot.Rankings, nil
}

// GetRankings returns the current rankings as a report string
func (a *API) GetRankings(ctx context.Context) (string, error) {
	snapshot, err := a.Store.GetRankings(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	if len(snapshot.Rankings) == 0 {
		return "", ErrNotReady
	}

	var response strings.Builder
	if snapshot.Effective.IsZero() {
		response.WriteString("Current rankings:\n")
	} else {
		response.WriteString(fmt.Sprintf("Rankings as of %s:\n", snapshot.Effective.Format("2 January 2006")))
	}
	writeRankings(&response, snapshot.Rankings)
	return response.String(), nil
}

// GetTeams returns the name and abbreviation of every ranked team in ranking order
func (a *API) GetTeams(ctx context.Context) ([]string, error) {
	rankings, err := a.rankings(ctx)
	if err != nil {
		return nil, err
	}

	teams := make([]string, 0, len(rankings))
	for _, r := range rankings {
		if r.Team.Abbreviation != "" {
			teams = append(teams, fmt.Sprintf("%s (%s)", r.Team.Name, r.Team.Abbreviation))
		} else {
			teams = append(teams, r.Team.Name)
		}
	}
	return teams, nil
}

// AddFixture contains the logic to add a fixture to a channel's list.
// Preconditions: Receives the channel, the user adding it and the command arguments in the form
// `Home 20-10 Away [options...]` (or `Home v Away` for an unplayed fixture)
// Postconditions: Stores the fixture and returns a confirmation, or an error if the arguments are invalid
func (a *API) AddFixture(ctx context.Context, channelID string, user shared.User, args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("%w: expected `home score away`, e.g. `$add \"New Zealand\" 20-10 France`", ErrInvalidFixture)
	}

	rankings, err := a.rankings(ctx)
	if err != nil {
		return "", err
	}

	teams, invalidTeams := logic.ResolveTeams([]string{args[0], args[2]}, shared.Teams(rankings))
	if len(invalidTeams) > 0 {
		var str strings.Builder
		str.WriteString("the following team names are invalid:")
		for i := range invalidTeams {
			str.WriteString(fmt.Sprintf(" '%s'", invalidTeams[i]))
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidFixture, str.String())
	}
	home, away := teams[0], teams[1]
	if home.ID == away.ID {
		return "", fmt.Errorf("%w: '%s' cannot play itself", ErrInvalidFixture, home.Name)
	}

	fixture := shared.Fixture{HomeTeamID: home.ID, AwayTeamID: away.ID, Status: shared.StatusUpcoming}
	if !isVersus(args[1]) {
		homeScore, awayScore, ok := parseScorePair(args[1])
		if !ok {
			return "", fmt.Errorf("%w: score '%s' should look like 20-10", ErrInvalidFixture, args[1])
		}
		fixture.HomeScore, fixture.AwayScore = homeScore, awayScore
		fixture.Status = shared.StatusComplete
	}

	opts, err := ParseFixtureOptions(args[3:])
	if err != nil {
		return "", err
	}
	fixture.NeutralVenue = opts.Neutral
	fixture.VenueSwitched = opts.Switched
	fixture.IsHighWeight = opts.World
	fixture.AlreadyCounted = opts.Counted
	fixture.Pool = opts.Pool
	fixture.HomeTries, fixture.AwayTries = opts.HomeTries, opts.AwayTries

	count := a.Store.AddFixture(channelID, user, fixture)
	a.logger.WithFields(logrus.Fields{
		"channel": channelID,
		"user":    user.Username,
		"home":    home.Name,
		"away":    away.Name,
	}).Info("fixture added")

	rankingsByID := shared.RankingsByID(rankings)
	return fmt.Sprintf("Added fixture %d: %s", count, describeFixture(fixture, rankingsByID)), nil
}

// RemoveFixture removes a fixture by its 1 based number in the list
func (a *API) RemoveFixture(ctx context.Context, channelID string, number int) (string, error) {
	removed, err := a.Store.RemoveFixture(channelID, number-1)
	if err != nil {
		return "", err
	}

	var rankingsByID map[string]shared.Ranking
	if rankings, err := a.rankings(ctx); err == nil {
		rankingsByID = shared.RankingsByID(rankings)
	}
	return fmt.Sprintf("Removed fixture %d: %s", number, describeFixture(removed, rankingsByID)), nil
}

// ClearFixtures removes every fixture in the channel
func (a *API) ClearFixtures(channelID string) (string, error) {
	removed := a.Store.ClearFixtures(channelID)
	if removed == 0 {
		return "", ErrNoFixtures
	}
	return fmt.Sprintf("Cleared %d fixtures", removed), nil
}

// ListFixtures contains the logic required to list a channel's fixtures.
// Played fixtures show the points swing they cause against the current rankings, unplayed fixtures show the home
// team's change for each possible result
// Preconditions: Receives the channel
// Postconditions: Returns the numbered fixture list, or ErrNoFixtures if there are none
func (a *API) ListFixtures(ctx context.Context, channelID string) (string, error) {
	fixtures := a.Store.GetFixtures(channelID)
	if len(fixtures) == 0 {
		return "", ErrNoFixtures
	}

	rankings, err := a.rankings(ctx)
	if err != nil {
		return "", err
	}
	rankingsByID := shared.RankingsByID(rankings)

	var response strings.Builder
	response.WriteString("Fixtures:\n")
	for i, f := range fixtures {
		response.WriteString(fmt.Sprintf("%d. %s", i+1, describeFixture(f, rankingsByID)))
		response.WriteString(describeSwing(f, rankingsByID))
		response.WriteString("\n")
	}
	return response.String(), nil
}

// LoadUpcomingFixtures replaces the channel's fixtures with those from the rankings provider
// Preconditions: Receives the channel, user and how many days ahead to look
// Postconditions: Stores the fixtures and returns a summary, or ErrNoFixtures if the provider has none
func (a *API) LoadUpcomingFixtures(ctx context.Context, channelID string, user shared.User, days int) (string, error) {
	fixtures, err := a.Store.FetchUpcomingFixtures(ctx, days)
	if err != nil {
		if errors.Is(err, store.ErrNoRankings) {
			return "", fmt.Errorf("%w: %w", ErrNotReady, err)
		}
		return "", err
	}

	rankings, err := a.rankings(ctx)
	if err != nil {
		return "", err
	}
	rankingsByID := shared.RankingsByID(rankings)

	var valid []shared.Fixture
	for _, f := range fixtures {
		if f.HasValidTeams(rankingsByID) {
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		return "", ErrNoFixtures
	}

	a.Store.SetFixtures(channelID, user, valid)
	a.logger.WithFields(logrus.Fields{
		"channel":  channelID,
		"fixtures": len(valid),
		"skipped":  len(fixtures) - len(valid),
	}).Info("loaded upcoming fixtures")

	return fmt.Sprintf("Loaded %d fixtures for the next %d days. Use `$fixtures` to see them", len(valid), days), nil
}

// ProjectRankings contains the logic required to project the rankings from a channel's fixtures.
// Preconditions: Receives the channel
// Postconditions: Returns the projected table showing movement and points change, or an error if it occurs
func (a *API) ProjectRankings(ctx context.Context, channelID string) (string, error) {
	fixtures := a.Store.GetFixtures(channelID)
	if len(fixtures) == 0 {
		return "", ErrNoFixtures
	}

	rankings, err := a.rankings(ctx)
	if err != nil {
		return "", err
	}

	projected := logic.ProjectRankings(rankings, fixtures)
	if projected == nil {
		return "", ErrNotReady
	}

	counted := 0
	rankingsByID := shared.RankingsByID(rankings)
	for _, f := range fixtures {
		if f.IsValid(rankingsByID) && !f.AlreadyCounted {
			counted++
		}
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Projected rankings after %d of %d fixtures:\n", counted, len(fixtures)))
	writeRankings(&response, projected)
	return response.String(), nil
}

// GetPoolTables builds the pool tables for a channel's fixtures
// Preconditions: Receives the channel
// Postconditions: Returns one table per pool, or ErrNoFixtures if no fixture has two ranked teams
func (a *API) GetPoolTables(ctx context.Context, channelID string) (string, error) {
	fixtures := a.Store.GetFixtures(channelID)
	if len(fixtures) == 0 {
		return "", ErrNoFixtures
	}

	rankings, err := a.rankings(ctx)
	if err != nil {
		return "", err
	}

	projected := logic.ProjectRankings(rankings, fixtures)
	tables := logic.BuildPoolTables(fixtures, shared.RankingsByID(rankings), projected)
	if len(tables) == 0 {
		return "", ErrNoFixtures
	}

	var response strings.Builder
	for i, table := range tables {
		if i > 0 {
			response.WriteString("\n")
		}
		writePoolTable(&response, table)
	}
	return response.String(), nil
}

// ShareFixtures returns the channel's fixtures as a share string that can be loaded with LoadSharedFixtures
func (a *API) ShareFixtures(channelID string) (string, error) {
	fixtures := a.Store.GetFixtures(channelID)
	if len(fixtures) == 0 {
		return "", ErrNoFixtures
	}

	encoded := codec.EncodeFixtures(fixtures)
	if encoded == "" {
		return "", ErrNoFixtures
	}
	return encoded, nil
}

// LoadSharedFixtures replaces the channel's fixtures with those in a share string
// Preconditions: Receives the channel, user and share string
// Postconditions: Stores the decoded fixtures and returns a summary. Fixtures naming unranked teams are skipped,
// and if nothing could be decoded ErrInvalidFixture is returned and the channel is left unchanged
func (a *API) LoadSharedFixtures(ctx context.Context, channelID string, user shared.User, encoded string) (string, error) {
	rankings, err := a.rankings(ctx)
	if err != nil {
		return "", err
	}

	fixtures := codec.DecodeFixtures(encoded, shared.RankingsByID(rankings))
	if len(fixtures) == 0 {
		return "", fmt.Errorf("%w: the shared fixtures could not be read", ErrInvalidFixture)
	}

	a.Store.SetFixtures(channelID, user, fixtures)
	a.logger.WithFields(logrus.Fields{
		"channel":  channelID,
		"fixtures": len(fixtures),
	}).Info("loaded shared fixtures")
	return fmt.Sprintf("Loaded %d fixtures", len(fixtures)), nil
}

// writeRankings writes one line per team: position, movement, name, points and points change
func writeRankings(response *strings.Builder, rankings []shared.Ranking) {
	hidden := 0
	for _, r := range rankings {
		if r.Position > reportTeams && formatChange(r.PointsChange()) == "" {
			hidden++
			continue
		}
		response.WriteString(fmt.Sprintf("%d. %s%s %.2f%s\n", r.Position, formatMovement(r), r.Team.Name, r.Points, formatChange(r.PointsChange())))
	}
	if hidden > 0 {
		response.WriteString(fmt.Sprintf("... and %d more teams\n", hidden))
	}
}

// writePoolTable writes a pool's standings as a fixed width table in a code block
func writePoolTable(response *strings.Builder, table shared.PoolTable) {
	if table.Pool != "" {
		response.WriteString(fmt.Sprintf("**%s**\n", table.Pool))
	}
	response.WriteString("```\n")
	if table.HasAnyDraws {
		response.WriteString(fmt.Sprintf("%-3s %-20s %2s %2s %2s %2s %4s %4s %4s %3s\n", "#", "Team", "P", "W", "D", "L", "PF", "PA", "PD", "Pts"))
	} else {
		response.WriteString(fmt.Sprintf("%-3s %-20s %2s %2s %2s %4s %4s %4s %3s\n", "#", "Team", "P", "W", "L", "PF", "PA", "PD", "Pts"))
	}
	for i, r := range table.Standings {
		if table.HasAnyDraws {
			response.WriteString(fmt.Sprintf("%-3d %-20s %2d %2d %2d %2d %4d %4d %+4d %3d\n", i+1, r.Team.Name, r.Played, r.Won, r.Drawn, r.Lost, r.PointsFor, r.PointsAgainst, r.PointsDifference(), r.TablePoints))
		} else {
			response.WriteString(fmt.Sprintf("%-3d %-20s %2d %2d %2d %4d %4d %+4d %3d\n", i+1, r.Team.Name, r.Played, r.Won, r.Lost, r.PointsFor, r.PointsAgainst, r.PointsDifference(), r.TablePoints))
		}
	}
	response.WriteString("```\n")
}

// describeFixture formats a fixture as e.g. "South Africa 8-13 Ireland (neutral, RWC) [Pool B]"
func describeFixture(f shared.Fixture, rankingsByID map[string]shared.Ranking) string {
	var str strings.Builder
	str.WriteString(teamName(rankingsByID, f.HomeTeamID))
	if f.HasScores() {
		str.WriteString(fmt.Sprintf(" %d-%d ", *f.HomeScore, *f.AwayScore))
	} else {
		str.WriteString(" v ")
	}
	str.WriteString(teamName(rankingsByID, f.AwayTeamID))

	var flags []string
	if f.NeutralVenue {
		flags = append(flags, "neutral")
	}
	if f.VenueSwitched {
		flags = append(flags, "switched")
	}
	if f.IsHighWeight {
		flags = append(flags, "RWC")
	}
	if f.AlreadyCounted {
		flags = append(flags, "counted")
	}
	if f.Status.IsLive() {
		flags = append(flags, f.Status.String())
	}
	if f.HomeTries != nil && f.AwayTries != nil {
		flags = append(flags, fmt.Sprintf("tries %d-%d", *f.HomeTries, *f.AwayTries))
	}
	if len(flags) > 0 {
		str.WriteString(fmt.Sprintf(" (%s)", strings.Join(flags, ", ")))
	}
	if f.Pool != "" {
		str.WriteString(fmt.Sprintf(" [%s]", f.Pool))
	}
	return str.String()
}

// describeSwing shows what a fixture does to the home team's points against the current rankings
func describeSwing(f shared.Fixture, rankingsByID map[string]shared.Ranking) string {
	home, homeOk := rankingsByID[f.HomeTeamID]
	away, awayOk := rankingsByID[f.AwayTeamID]
	if !homeOk || !awayOk || f.AlreadyCounted || f.HomeTeamID == f.AwayTeamID {
		return ""
	}

	if homeChange, _, ok := logic.RatingChange(home.Points, away.Points, f); ok {
		return fmt.Sprintf(": %s %s", home.Team.Name, formatSigned(homeChange))
	}

	changes := logic.OutcomeChanges(home.Points, away.Points, f)
	return fmt.Sprintf(": %s win by 16+ %s, win %s, draw %s, lose %s, lose by 16+ %s", home.Team.Name,
		formatSigned(changes[0]), formatSigned(changes[1]), formatSigned(changes[2]), formatSigned(changes[3]), formatSigned(changes[4]))
}
