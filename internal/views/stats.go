package views

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/analytics"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// StatsRow is one player line of the stats table
type StatsRow struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Games    int    `json:"games"`
	Minutes  string `json:"minutes"`
	Points   string `json:"points"`
	Rebounds string `json:"rebounds"`
	Assists  string `json:"assists"`
	FGPct    string `json:"fg_pct"`
	ThreePct string `json:"three_pct"`
}

// StatsView is the stats tab
type StatsView struct {
	Season  int            `json:"season"`
	Seasons []SeasonOption `json:"seasons"`
	Players []StatsRow     `json:"players"`
}

// Stats renders the season's player table. Players without games stay
// listed with zero rates.
func Stats(season int, stats []models.PlayerSeasonStat) StatsView {
	rows := analytics.PlayerRows(basketball_ncaa.DedupStats(stats))
	out := make([]StatsRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, StatsRow{
			PlayerID: r.PlayerID,
			Name:     r.Name,
			Games:    r.Games,
			Minutes:  analytics.FormatRate(r.MinutesPerGame),
			Points:   analytics.FormatRate(r.PPG),
			Rebounds: analytics.FormatRate(r.RPG),
			Assists:  analytics.FormatRate(r.APG),
			FGPct:    PercentLabel(r.FGPct),
			ThreePct: PercentLabel(r.ThreePct),
		})
	}
	return StatsView{Season: season, Seasons: SeasonOptions(season), Players: out}
}

// PercentLabel renders a percentage, or "-" when zero
func PercentLabel(pct float64) string {
	if pct == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// LeaderCard is one stat leader
type LeaderCard struct {
	Stat  string `json:"stat"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PropLineRow is one illustrative scoring line
type PropLineRow struct {
	Name string `json:"name"`
	PPG  string `json:"ppg"`
	Line string `json:"line"`
}

// SummaryRow is one recent game
type SummaryRow struct {
	GameID int    `json:"game_id"`
	Title  string `json:"title"`
	Result string `json:"result"`
}

// AnalyticsView is the analytics tab
type AnalyticsView struct {
	Season      int           `json:"season"`
	Record      string        `json:"record"`
	HomeAway    string        `json:"home_away"`
	PPG         string        `json:"ppg"`
	RPG         string        `json:"rpg"`
	Tempo       string        `json:"tempo"`
	OffRtg      string        `json:"off_rtg"`
	DefRtg      string        `json:"def_rtg"`
	Approximate bool          `json:"approximate"`
	Leaders     []LeaderCard  `json:"leaders"`
	PropLines   []PropLineRow `json:"prop_lines"`
	Recent      []SummaryRow  `json:"recent"`
}

// Analytics renders a season report
func Analytics(report analytics.Report) AnalyticsView {
	v := AnalyticsView{
		Season:      report.Season,
		Record:      report.RecordDisplay,
		HomeAway:    report.SplitDisplay,
		PPG:         report.PPGDisplay,
		RPG:         report.RPGDisplay,
		Tempo:       analytics.NoData,
		OffRtg:      analytics.NoData,
		DefRtg:      report.Ratings.DefensiveDisplay(),
		Approximate: report.Ratings.Approximate,
		Leaders:     leaderCards(report.Leaders),
		PropLines:   make([]PropLineRow, 0, len(report.PropLines)),
		Recent:      make([]SummaryRow, 0, len(report.Recent)),
	}
	if report.Ratings.Available {
		v.Tempo = analytics.FormatRate(report.Ratings.Tempo)
		v.OffRtg = analytics.FormatRate(report.Ratings.OffensiveRating)
	}

	for _, p := range report.PropLines {
		v.PropLines = append(v.PropLines, PropLineRow{
			Name: p.Name,
			PPG:  analytics.FormatRate(p.PPG),
			Line: fmt.Sprintf("O/U %d", p.Line),
		})
	}

	for _, g := range report.Recent {
		title := Matchup(g.IsHome, g.Opponent)
		if g.Date != "" {
			title = g.Date + " • " + title
		}
		v.Recent = append(v.Recent, SummaryRow{GameID: g.GameID, Title: title, Result: g.Result})
	}
	return v
}

func leaderCards(l analytics.Leaders) []LeaderCard {
	out := make([]LeaderCard, 0, 3)
	for _, entry := range []struct {
		stat   string
		leader *analytics.Leader
	}{
		{"Points", l.Points},
		{"Rebounds", l.Rebounds},
		{"Assists", l.Assists},
	} {
		card := LeaderCard{Stat: entry.stat, Name: analytics.NoData, Value: analytics.NoData}
		if entry.leader != nil {
			card.Name = entry.leader.Name
			card.Value = analytics.FormatRate(entry.leader.Value)
		}
		out = append(out, card)
	}
	return out
}
