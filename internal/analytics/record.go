package analytics

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// NoData is displayed when a metric has nothing to aggregate
const NoData = "–"

// SideRecord is the record at home or away
type SideRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
	Points int `json:"points"`
}

// Games is the number of counted games on this side
func (s SideRecord) Games() int {
	return s.Wins + s.Losses + s.Ties
}

// PPG is points scored per counted game
func (s SideRecord) PPG() float64 {
	return PerGame(float64(s.Points), s.Games())
}

// Record is the tracked team's win/loss record split by venue
type Record struct {
	Home SideRecord `json:"home"`
	Away SideRecord `json:"away"`
}

func (r Record) Wins() int   { return r.Home.Wins + r.Away.Wins }
func (r Record) Losses() int { return r.Home.Losses + r.Away.Losses }
func (r Record) Ties() int   { return r.Home.Ties + r.Away.Ties }
func (r Record) Games() int  { return r.Home.Games() + r.Away.Games() }

// Display renders "W-L", "W-L-T" when ties exist, or NoData before any
// game is counted
func (r Record) Display() string {
	if r.Games() == 0 {
		return NoData
	}
	return formatWLT(r.Wins(), r.Losses(), r.Ties())
}

// SplitDisplay renders the home/away split line, or NoData before any
// game is counted
func (r Record) SplitDisplay() string {
	if r.Games() == 0 {
		return NoData
	}
	return fmt.Sprintf("Home: %s (%.1f PPG) • Away: %s (%.1f PPG)",
		formatWLT(r.Home.Wins, r.Home.Losses, r.Home.Ties), r.Home.PPG(),
		formatWLT(r.Away.Wins, r.Away.Losses, r.Away.Ties), r.Away.PPG())
}

func formatWLT(w, l, t int) string {
	if t > 0 {
		return fmt.Sprintf("%d-%d-%d", w, l, t)
	}
	return fmt.Sprintf("%d-%d", w, l)
}

// ComputeRecord counts final games only. A game missing either score is
// skipped entirely.
func ComputeRecord(games []models.Game, teamKey string) Record {
	var rec Record
	for i := range games {
		g := &games[i]
		if !g.IsFinal() {
			continue
		}
		p := basketball_ncaa.Perspective(g, teamKey)
		if p.OurScore == nil || p.OppScore == nil {
			continue
		}

		side := &rec.Away
		if p.IsHome {
			side = &rec.Home
		}
		our, opp := *p.OurScore, *p.OppScore
		switch {
		case our > opp:
			side.Wins++
		case our < opp:
			side.Losses++
		default:
			side.Ties++
		}
		side.Points += our
	}
	return rec
}

// GameSummary is one line of the recent-games list
type GameSummary struct {
	GameID   int    `json:"game_id"`
	Date     string `json:"date"`
	IsHome   bool   `json:"is_home"`
	Opponent string `json:"opponent"`
	Result   string `json:"result"`
}

// RecentGames summarizes up to n completed games, newest first
func RecentGames(games []models.Game, teamKey string, n int) []GameSummary {
	completed := basketball_ncaa.CompletedGames(games)
	if len(completed) > n {
		completed = completed[:n]
	}

	out := make([]GameSummary, 0, len(completed))
	for i := range completed {
		g := &completed[i]
		date := ""
		if g.HasDate() {
			date = g.DateTime.Format("Jan 2, 2006")
		}
		out = append(out, GameSummary{
			GameID:   g.GameID,
			Date:     date,
			IsHome:   basketball_ncaa.IsHome(g, teamKey),
			Opponent: basketball_ncaa.OpponentName(g, teamKey),
			Result:   basketball_ncaa.ResultString(g, teamKey),
		})
	}
	return out
}
