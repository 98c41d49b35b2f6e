package basketball_ncaa

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// Schedule views
const (
	ViewAll       = "all"
	ViewUpcoming  = "upcoming"
	ViewCompleted = "completed"
)

// ScoreUnavailable is shown for a final game missing either score
const ScoreUnavailable = "Final (score unavailable)"

// TBA stands in for an opponent the feed could not name
const TBA = "TBA"

var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseGameTime parses a feed date. Zone-less values are read in loc.
// The bool is false when nothing parsed; callers treat that game as
// having an unknown date.
func ParseGameTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsHome reports whether the tracked team is the home side
func IsHome(g *models.Game, teamKey string) bool {
	return g.HomeTeam == teamKey
}

// OpponentName resolves a display name for the other side:
// explicit opponent name, then the opponent's long name, then its key,
// then TBA
func OpponentName(g *models.Game, teamKey string) string {
	if g.OpponentName != "" {
		return g.OpponentName
	}
	name, key := g.HomeTeamName, g.HomeTeam
	if IsHome(g, teamKey) {
		name, key = g.AwayTeamName, g.AwayTeam
	}
	if name != "" {
		return name
	}
	if key != "" {
		return key
	}
	return TBA
}

// Perspective orients a game around the tracked team
func Perspective(g *models.Game, teamKey string) models.Perspective {
	p := models.Perspective{
		IsHome:   IsHome(g, teamKey),
		Opponent: OpponentName(g, teamKey),
	}
	if p.IsHome {
		p.OurScore, p.OppScore = g.HomeScore, g.AwayScore
	} else {
		p.OurScore, p.OppScore = g.AwayScore, g.HomeScore
	}
	return p
}

// ResultString renders a game's result from the tracked team's side:
// "W 80-70", "L 65-70", "T 70-70", the status for unplayed games, or
// ScoreUnavailable for a final missing a score
func ResultString(g *models.Game, teamKey string) string {
	switch g.Status {
	case models.StatusScheduled, models.StatusInProgress:
		return string(g.Status)
	}
	if !g.IsFinal() {
		return string(g.Status)
	}

	p := Perspective(g, teamKey)
	if p.OurScore == nil || p.OppScore == nil {
		return ScoreUnavailable
	}

	our, opp := *p.OurScore, *p.OppScore
	switch {
	case our > opp:
		return fmt.Sprintf("W %d-%d", our, opp)
	case our < opp:
		return fmt.Sprintf("L %d-%d", our, opp)
	default:
		return fmt.Sprintf("T %d-%d", our, opp)
	}
}

// SortByDate returns games ordered by date key, unknown dates first.
// The input is not modified.
func SortByDate(games []models.Game) []models.Game {
	out := make([]models.Game, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out
}

// FilterSchedule sorts games and keeps those in view. Games with an
// unknown date only appear in the all view.
func FilterSchedule(games []models.Game, view string, now time.Time) []models.Game {
	sorted := SortByDate(games)
	switch view {
	case ViewUpcoming:
		return filterGames(sorted, func(g *models.Game) bool {
			return g.HasDate() && g.DateTime.After(now)
		})
	case ViewCompleted:
		return filterGames(sorted, func(g *models.Game) bool {
			return g.HasDate() && !g.DateTime.After(now)
		})
	default:
		return sorted
	}
}

// NextGame returns the earliest game with a known date after now
func NextGame(games []models.Game, now time.Time) (models.Game, bool) {
	upcoming := FilterSchedule(games, ViewUpcoming, now)
	if len(upcoming) == 0 {
		return models.Game{}, false
	}
	return upcoming[0], true
}

// CompletedGames returns final games, newest first
func CompletedGames(games []models.Game) []models.Game {
	final := filterGames(SortByDate(games), func(g *models.Game) bool {
		return g.IsFinal()
	})
	for i, j := 0, len(final)-1; i < j; i, j = i+1, j-1 {
		final[i], final[j] = final[j], final[i]
	}
	return final
}

// ForSeason keeps games tagged with season. Untagged games are kept;
// the schedule feed is already scoped to one season.
func ForSeason(games []models.Game, season int) []models.Game {
	return filterGames(games, func(g *models.Game) bool {
		return g.Season == 0 || g.Season == season
	})
}

func filterGames(games []models.Game, keep func(*models.Game) bool) []models.Game {
	out := make([]models.Game, 0, len(games))
	for i := range games {
		if keep(&games[i]) {
			out = append(out, games[i])
		}
	}
	return out
}
