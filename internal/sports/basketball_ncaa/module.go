package basketball_ncaa

import (
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// TeamIdentity is what we know about the tracked team before the teams
// feed is consulted
type TeamIdentity struct {
	Key      string
	ID       int
	School   string
	Name     string
	FullName string
	City     string
}

// NCAAModule normalizes SportsDataIO CBB feeds
type NCAAModule struct {
	identity TeamIdentity
	loc      *time.Location
}

// New creates the module. Zone-less feed times are read in loc.
func New(identity TeamIdentity, loc *time.Location) *NCAAModule {
	if loc == nil {
		loc = time.UTC
	}
	return &NCAAModule{identity: identity, loc: loc}
}

func (m *NCAAModule) GetSportKey() string {
	return "basketball_ncaab"
}

func (m *NCAAModule) GetDisplayName() string {
	return "NCAA Men's Basketball"
}

// Location returns the zone used for zone-less feed times
func (m *NCAAModule) Location() *time.Location {
	return m.loc
}

// DetectTeam finds the tracked team in the teams feed. A configured key
// wins outright; otherwise named fields are matched exactly, then any
// string field containing the full name.
func (m *NCAAModule) DetectTeam(teams []map[string]interface{}) (models.TrackedTeam, bool) {
	id := m.identity

	if id.Key != "" {
		for _, t := range teams {
			if extractString(t, teamKeyFields...) == id.Key {
				return toTrackedTeam(t), true
			}
		}
		return models.TrackedTeam{Key: id.Key, TeamID: id.ID, School: id.School, Name: id.Name}, true
	}

	for _, t := range teams {
		if matchesIdentity(t, id) {
			return toTrackedTeam(t), true
		}
	}

	if id.FullName == "" {
		return models.TrackedTeam{}, false
	}
	needle := strings.ToLower(id.FullName)
	for _, t := range teams {
		for _, v := range t {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
				return toTrackedTeam(t), true
			}
		}
	}

	return models.TrackedTeam{}, false
}

func matchesIdentity(t map[string]interface{}, id TeamIdentity) bool {
	checks := []struct {
		field string
		want  string
	}{
		{"School", id.School},
		{"Name", id.Name},
		{"FullName", id.FullName},
		{"SchoolName", id.School},
		{"City", id.City},
	}
	for _, c := range checks {
		if c.want != "" && extractString(t, c.field) == c.want {
			return true
		}
	}
	return false
}

func toTrackedTeam(t map[string]interface{}) models.TrackedTeam {
	return models.TrackedTeam{
		Key:    extractString(t, teamKeyFields...),
		TeamID: extractInt(t, "TeamID"),
		School: extractString(t, "School", "SchoolName"),
		Name:   extractString(t, "Name"),
	}
}

// NormalizeGames parses schedule rows
func (m *NCAAModule) NormalizeGames(rows []map[string]interface{}) []models.Game {
	games := make([]models.Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, m.NormalizeGame(row))
	}
	return games
}

// NormalizeGame parses one schedule row
func (m *NCAAModule) NormalizeGame(row map[string]interface{}) models.Game {
	raw := extractString(row, gameDateFields...)
	when, ok := ParseGameTime(raw, m.loc)
	if !ok {
		if utc := extractString(row, gameDateUTCFields...); utc != "" {
			when, ok = ParseGameTime(utc, time.UTC)
			if ok {
				raw = utc
			}
		}
	}

	return models.Game{
		GameID:        extractInt(row, "GameID"),
		Season:        extractInt(row, "Season"),
		DateTime:      when,
		RawDateTime:   raw,
		Status:        models.GameStatus(extractString(row, "Status")),
		IsClosed:      extractBool(row, "IsClosed"),
		HomeTeam:      extractString(row, "HomeTeam"),
		AwayTeam:      extractString(row, "AwayTeam"),
		OpponentName:  extractString(row, opponentFields...),
		HomeTeamName:  extractString(row, homeNameFields...),
		AwayTeamName:  extractString(row, awayNameFields...),
		HomeScore:     extractIntPtr(row, homeScoreFields...),
		AwayScore:     extractIntPtr(row, awayScoreFields...),
		Stadium:       extractStadium(row),
		Channel:       extractString(row, "Channel"),
		Attendance:    extractInt(row, "Attendance"),
		PointSpread:   extractFloatPtr(row, "PointSpread"),
		OverUnder:     extractFloatPtr(row, "OverUnder"),
		HomeMoneyLine: extractIntPtr(row, "HomeTeamMoneyLine"),
		AwayMoneyLine: extractIntPtr(row, "AwayTeamMoneyLine"),
	}
}

// extractStadium reads a plain Stadium string or a nested Stadium object
func extractStadium(row map[string]interface{}) string {
	if s := extractString(row, "Stadium", "StadiumName"); s != "" {
		return s
	}
	return extractString(extractMap(row, "Stadium"), "Name")
}

// NormalizePlayers parses roster rows
func (m *NCAAModule) NormalizePlayers(rows []map[string]interface{}) []models.Player {
	players := make([]models.Player, 0, len(rows))
	for _, row := range rows {
		name := extractString(row, "Name")
		if name == "" {
			name = fullName(row)
		}
		players = append(players, models.Player{
			PlayerID:     extractInt(row, "PlayerID"),
			FirstName:    extractString(row, "FirstName"),
			LastName:     extractString(row, "LastName"),
			Name:         name,
			Jersey:       extractString(row, jerseyFields...),
			Position:     extractString(row, "Position"),
			Height:       extractInt(row, "Height"),
			Weight:       extractInt(row, "Weight"),
			Class:        extractString(row, classFields...),
			Hometown:     extractHometown(row),
			Team:         extractString(row, playerTeamFields...),
			TeamID:       extractInt(row, "TeamID"),
			Season:       extractInt(row, "Season"),
			FirstSeason:  extractInt(row, "FirstSeason"),
			LastSeason:   extractInt(row, "LastSeason"),
			PastTeams:    extractStringList(row, "PastTeams"),
			CollegeYears: extractString(row, "CollegeYears"),
		})
	}
	return players
}

func extractHometown(row map[string]interface{}) string {
	if s := extractString(row, "Hometown"); s != "" {
		return s
	}
	city := extractString(row, "BirthCity")
	state := extractString(row, "BirthState")
	switch {
	case city != "" && state != "":
		return city + ", " + state
	default:
		return city + state
	}
}

// NormalizePlayerStats parses season stat rows
func (m *NCAAModule) NormalizePlayerStats(rows []map[string]interface{}) []models.PlayerSeasonStat {
	stats := make([]models.PlayerSeasonStat, 0, len(rows))
	for _, row := range rows {
		name := extractString(row, "Name")
		if name == "" {
			name = fullName(row)
		}
		fg, _ := extractNumber(row, fgPctFields...)
		three, _ := extractNumber(row, threePctFields...)

		stats = append(stats, models.PlayerSeasonStat{
			PlayerID:                extractInt(row, "PlayerID"),
			Name:                    name,
			Team:                    extractString(row, playerTeamFields...),
			Season:                  extractInt(row, "Season"),
			Type:                    extractString(row, "Type"),
			Position:                extractString(row, "Position"),
			Games:                   extractInt(row, gamesFields...),
			Minutes:                 extractNonZero(row, "Minutes"),
			MinutesPerGame:          extractFloatPtr(row, "MinutesPerGame"),
			Points:                  extractNonZero(row, "Points"),
			Rebounds:                extractNonZero(row, "Rebounds"),
			Assists:                 extractNonZero(row, "Assists"),
			PointsPerGame:           extractFloatPtr(row, "PointsPerGame"),
			ReboundsPerGame:         extractFloatPtr(row, "ReboundsPerGame"),
			AssistsPerGame:          extractFloatPtr(row, "AssistsPerGame"),
			FieldGoalsAttempted:     extractNonZero(row, "FieldGoalsAttempted"),
			FreeThrowsAttempted:     extractNonZero(row, "FreeThrowsAttempted"),
			OffensiveRebounds:       extractNonZero(row, "OffensiveRebounds"),
			Turnovers:               extractNonZero(row, "Turnovers"),
			FieldGoalsPercentage:    percent(fg),
			ThreePointersPercentage: percent(three),
		})
	}
	return stats
}

// NormalizeTeamStats parses team season rows. Opponent points come from a
// flat field or the nested OpponentStat object.
func (m *NCAAModule) NormalizeTeamStats(rows []map[string]interface{}) []models.TeamSeasonStat {
	out := make([]models.TeamSeasonStat, 0, len(rows))
	for _, row := range rows {
		oppPoints := extractNonZero(row, "OpponentPoints")
		if oppPoints == 0 {
			oppPoints = extractNonZero(extractMap(row, "OpponentStat"), "Points")
		}
		out = append(out, models.TeamSeasonStat{
			Team:                extractString(row, "Team", "Key"),
			Season:              extractInt(row, "Season"),
			Games:               extractInt(row, gamesFields...),
			Points:              extractNonZero(row, "Points"),
			OpponentPoints:      oppPoints,
			FieldGoalsAttempted: extractNonZero(row, "FieldGoalsAttempted"),
			FreeThrowsAttempted: extractNonZero(row, "FreeThrowsAttempted"),
			OffensiveRebounds:   extractNonZero(row, "OffensiveRebounds"),
			Rebounds:            extractNonZero(row, "Rebounds"),
			Turnovers:           extractNonZero(row, "Turnovers"),
			Wins:                extractInt(row, "Wins"),
			Losses:              extractInt(row, "Losses"),
		})
	}
	return out
}

// NormalizeSportsbooks parses ActiveSportsbooks rows
func (m *NCAAModule) NormalizeSportsbooks(rows []map[string]interface{}) []models.Sportsbook {
	books := make([]models.Sportsbook, 0, len(rows))
	for _, row := range rows {
		books = append(books, models.Sportsbook{
			SportsbookID: extractInt(row, sportsbookIDField...),
			Name:         extractString(row, "Name"),
			Key:          extractString(row, "Key"),
		})
	}
	return books
}
