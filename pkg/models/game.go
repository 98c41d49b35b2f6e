package models

import "time"

// GameStatus is the status string reported by the feed
type GameStatus string

const (
	StatusScheduled  GameStatus = "Scheduled"
	StatusInProgress GameStatus = "InProgress"
	StatusFinal      GameStatus = "Final"
	StatusFinalOT    GameStatus = "F/OT"
	StatusPostponed  GameStatus = "Postponed"
	StatusCanceled   GameStatus = "Canceled"
)

// Game is one scheduled or played game of the tracked team's season.
// A nil score means the feed did not supply it.
type Game struct {
	GameID        int        `json:"game_id"`
	Season        int        `json:"season"`
	DateTime      time.Time  `json:"date_time"` // zero when the feed date did not parse
	RawDateTime   string     `json:"raw_date_time,omitempty"`
	Status        GameStatus `json:"status"`
	IsClosed      bool       `json:"is_closed"`
	HomeTeam      string     `json:"home_team"`
	AwayTeam      string     `json:"away_team"`
	OpponentName  string     `json:"opponent_name,omitempty"`
	HomeTeamName  string     `json:"home_team_name,omitempty"`
	AwayTeamName  string     `json:"away_team_name,omitempty"`
	HomeScore     *int       `json:"home_score,omitempty"`
	AwayScore     *int       `json:"away_score,omitempty"`
	Stadium       string     `json:"stadium,omitempty"`
	Channel       string     `json:"channel,omitempty"`
	Attendance    int        `json:"attendance,omitempty"`
	PointSpread   *float64   `json:"point_spread,omitempty"`
	OverUnder     *float64   `json:"over_under,omitempty"`
	HomeMoneyLine *int       `json:"home_money_line,omitempty"`
	AwayMoneyLine *int       `json:"away_money_line,omitempty"`
}

// HasDate reports whether the game carries a parseable date
func (g *Game) HasDate() bool {
	return !g.DateTime.IsZero()
}

// SortKey returns the ordering key; unknown dates sort as 0 (earliest)
func (g *Game) SortKey() int64 {
	if g.DateTime.IsZero() {
		return 0
	}
	return g.DateTime.UnixMilli()
}

// IsFinal reports whether the game is complete
func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal || g.Status == StatusFinalOT || g.IsClosed
}

// Perspective is a game seen from the tracked team's side
type Perspective struct {
	IsHome   bool   `json:"is_home"`
	Opponent string `json:"opponent"`
	OurScore *int   `json:"our_score,omitempty"`
	OppScore *int   `json:"opp_score,omitempty"`
}
