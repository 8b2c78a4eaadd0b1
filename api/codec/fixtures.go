/* fixtures.go
 * Contains the encoding used to share a fixture list as a single compact string, e.g. in a link or a chat message.
 * A record is `home,homeScore,awayScore,away,noHome,isRwc` optionally followed by
 * `switched,counted,pool,homeTries,awayTries,status`. Records are separated by `;`
 */

package codec

import (
	"net/url"
	"rankings-bot/api/shared"
	"strconv"
	"strings"
)

const (
	recordSeparator = ";"
	fieldSeparator  = ","
	legacyFields    = 6
	extendedFields  = 12
)

// EncodeFixtures converts a fixture list into a share string.
// Preconditions: Receives a slice of fixtures
// Postconditions: Returns the encoded string. Fixtures missing either team id are left out
func EncodeFixtures(fixtures []shared.Fixture) string {
	records := make([]string, 0, len(fixtures))
	for _, f := range fixtures {
		if f.HomeTeamID == "" || f.AwayTeamID == "" {
			continue
		}
		fields := []string{
			url.QueryEscape(f.HomeTeamID),
			formatOptional(f.HomeScore),
			formatOptional(f.AwayScore),
			url.QueryEscape(f.AwayTeamID),
			formatFlag(f.NeutralVenue),
			formatFlag(f.IsHighWeight),
			formatFlag(f.VenueSwitched),
			formatFlag(f.AlreadyCounted),
			url.QueryEscape(f.Pool),
			formatOptional(f.HomeTries),
			formatOptional(f.AwayTries),
			f.Status.Code(),
		}
		records = append(records, strings.Join(fields, fieldSeparator))
	}
	return strings.Join(records, recordSeparator)
}

// DecodeFixtures parses a share string back into fixtures.
// Preconditions: Receives the encoded string and optionally the rankings indexed by team id
// Postconditions: Returns the fixtures in order. Malformed records are skipped, and when rankingsByID is not nil so
// are records naming a team that is not ranked
func DecodeFixtures(encoded string, rankingsByID map[string]shared.Ranking) []shared.Fixture {
	var fixtures []shared.Fixture
	if strings.TrimSpace(encoded) == "" {
		return fixtures
	}

	for _, record := range strings.Split(strings.TrimSpace(encoded), recordSeparator) {
		f, ok := decodeRecord(record)
		if !ok {
			continue
		}
		if rankingsByID != nil {
			_, homeOk := rankingsByID[f.HomeTeamID]
			_, awayOk := rankingsByID[f.AwayTeamID]
			if !homeOk || !awayOk {
				continue
			}
		}
		fixtures = append(fixtures, f)
	}
	return fixtures
}

// decodeRecord parses a single record, returning false if it is malformed
func decodeRecord(record string) (shared.Fixture, bool) {
	fields := strings.Split(strings.TrimSpace(record), fieldSeparator)
	if len(fields) != legacyFields && len(fields) != extendedFields {
		return shared.Fixture{}, false
	}

	home, err := url.QueryUnescape(fields[0])
	if err != nil || home == "" {
		return shared.Fixture{}, false
	}
	away, err := url.QueryUnescape(fields[3])
	if err != nil || away == "" {
		return shared.Fixture{}, false
	}

	var ok bool
	f := shared.Fixture{HomeTeamID: home, AwayTeamID: away}
	if f.HomeScore, ok = parseOptional(fields[1]); !ok {
		return shared.Fixture{}, false
	}
	if f.AwayScore, ok = parseOptional(fields[2]); !ok {
		return shared.Fixture{}, false
	}
	if f.NeutralVenue, ok = parseFlag(fields[4]); !ok {
		return shared.Fixture{}, false
	}
	if f.IsHighWeight, ok = parseFlag(fields[5]); !ok {
		return shared.Fixture{}, false
	}

	if len(fields) == legacyFields {
		return f, true
	}

	if f.VenueSwitched, ok = parseFlag(fields[6]); !ok {
		return shared.Fixture{}, false
	}
	if f.AlreadyCounted, ok = parseFlag(fields[7]); !ok {
		return shared.Fixture{}, false
	}
	if f.Pool, err = url.QueryUnescape(fields[8]); err != nil {
		return shared.Fixture{}, false
	}
	if f.HomeTries, ok = parseOptional(fields[9]); !ok {
		return shared.Fixture{}, false
	}
	if f.AwayTries, ok = parseOptional(fields[10]); !ok {
		return shared.Fixture{}, false
	}
	f.Status = shared.ParseFixtureStatus(fields[11])

	return f, true
}

func formatOptional(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// parseOptional accepts an empty field (absent) or a non-negative integer
func parseOptional(s string) (*int, bool) {
	if s == "" {
		return nil, true
	}
	v := shared.ParseScore(s)
	return v, v != nil
}

func formatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseFlag(s string) (bool, bool) {
	switch s {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		return false, false
	}
}
