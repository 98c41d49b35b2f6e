package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// PerGame divides an aggregate by games played, 0 when no games
func PerGame(total float64, games int) float64 {
	if games <= 0 {
		return 0
	}
	return total / float64(games)
}

// FormatRate renders a per-game rate with one decimal
func FormatRate(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// PlayerRates are a player's per-game numbers
type PlayerRates struct {
	PlayerID       int     `json:"player_id"`
	Name           string  `json:"name"`
	Position       string  `json:"position,omitempty"`
	Games          int     `json:"games"`
	MinutesPerGame float64 `json:"minutes_per_game"`
	PPG            float64 `json:"ppg"`
	RPG            float64 `json:"rpg"`
	APG            float64 `json:"apg"`
	FGPct          float64 `json:"fg_pct"`
	ThreePct       float64 `json:"three_pct"`
}

// rate prefers the feed's explicit per-game value, else total/games.
// No games means 0 either way.
func rate(explicit *float64, total float64, games int) float64 {
	if games <= 0 {
		return 0
	}
	if explicit != nil {
		return *explicit
	}
	return PerGame(total, games)
}

// total prefers the aggregate, else rebuilds it from the per-game value
func total(aggregate float64, explicit *float64, games int) float64 {
	if aggregate != 0 || explicit == nil {
		return aggregate
	}
	return *explicit * float64(games)
}

// minutesPerGame reads the Minutes aggregate first and falls back to the
// feed's MinutesPerGame
func minutesPerGame(s models.PlayerSeasonStat) float64 {
	if s.Games <= 0 {
		return 0
	}
	if s.Minutes != 0 {
		return PerGame(s.Minutes, s.Games)
	}
	if s.MinutesPerGame != nil {
		return *s.MinutesPerGame
	}
	return 0
}

// Rates computes per-game numbers for one stat row
func Rates(s models.PlayerSeasonStat) PlayerRates {
	return PlayerRates{
		PlayerID:       s.PlayerID,
		Name:           s.Name,
		Position:       s.Position,
		Games:          s.Games,
		MinutesPerGame: minutesPerGame(s),
		PPG:            rate(s.PointsPerGame, s.Points, s.Games),
		RPG:            rate(s.ReboundsPerGame, s.Rebounds, s.Games),
		APG:            rate(s.AssistsPerGame, s.Assists, s.Games),
		FGPct:          s.FieldGoalsPercentage,
		ThreePct:       s.ThreePointersPercentage,
	}
}

// PlayerRows returns rates for player rows, skipping team totals
func PlayerRows(stats []models.PlayerSeasonStat) []PlayerRates {
	out := make([]PlayerRates, 0, len(stats))
	for _, s := range stats {
		if s.Type == models.TypeTeamTotal {
			continue
		}
		out = append(out, Rates(s))
	}
	return out
}

// Leader is the top player for one stat
type Leader struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Games    int     `json:"games"`
}

// Leaders holds the per-game leaders; nil when nobody qualifies
type Leaders struct {
	Points   *Leader `json:"points,omitempty"`
	Rebounds *Leader `json:"rebounds,omitempty"`
	Assists  *Leader `json:"assists,omitempty"`
}

// ComputeLeaders picks the max per-game rate among players with games.
// Ties keep the first player encountered.
func ComputeLeaders(stats []models.PlayerSeasonStat) Leaders {
	var l Leaders
	for _, r := range PlayerRows(stats) {
		if r.Games <= 0 {
			continue
		}
		l.Points = better(l.Points, r, r.PPG)
		l.Rebounds = better(l.Rebounds, r, r.RPG)
		l.Assists = better(l.Assists, r, r.APG)
	}
	return l
}

func better(current *Leader, r PlayerRates, value float64) *Leader {
	if current != nil && value <= current.Value {
		return current
	}
	return &Leader{PlayerID: r.PlayerID, Name: r.Name, Value: value, Games: r.Games}
}

// TeamRates are team scoring and rebounding per game built from player rows
type TeamRates struct {
	PPG       float64 `json:"ppg"`
	RPG       float64 `json:"rpg"`
	Games     int     `json:"games"`
	Available bool    `json:"available"`
}

// PPGDisplay renders PPG or NoData
func (t TeamRates) PPGDisplay() string {
	if !t.Available {
		return NoData
	}
	return FormatRate(t.PPG)
}

// RPGDisplay renders RPG or NoData
func (t TeamRates) RPGDisplay() string {
	if !t.Available {
		return NoData
	}
	return FormatRate(t.RPG)
}

// ComputeTeamRates sums player totals over the most games any player has
// appeared in
func ComputeTeamRates(stats []models.PlayerSeasonStat) TeamRates {
	var points, rebounds float64
	games := 0
	for _, s := range stats {
		if s.Type == models.TypeTeamTotal {
			continue
		}
		if s.Games > games {
			games = s.Games
		}
		points += total(s.Points, s.PointsPerGame, s.Games)
		rebounds += total(s.Rebounds, s.ReboundsPerGame, s.Games)
	}
	if games == 0 {
		return TeamRates{}
	}
	return TeamRates{
		PPG:       PerGame(points, games),
		RPG:       PerGame(rebounds, games),
		Games:     games,
		Available: true,
	}
}

// PropLine is a cosmetic points line for a top scorer
type PropLine struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	PPG      float64 `json:"ppg"`
	Line     int     `json:"line"`
}

// ComputePropLines returns lines for the top n scorers by PPG. The line
// is ppg-0.5 rounded half up.
func ComputePropLines(stats []models.PlayerSeasonStat, n int) []PropLine {
	rows := make([]PlayerRates, 0, len(stats))
	for _, r := range PlayerRows(stats) {
		if r.Games > 0 {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PPG > rows[j].PPG
	})
	if len(rows) > n {
		rows = rows[:n]
	}

	out := make([]PropLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, PropLine{
			PlayerID: r.PlayerID,
			Name:     r.Name,
			PPG:      r.PPG,
			Line:     int(roundHalfUp(r.PPG - 0.5)),
		})
	}
	return out
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
