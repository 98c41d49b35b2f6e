package models

// Player is a roster entry
type Player struct {
	PlayerID     int      `json:"player_id"`
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	Name         string   `json:"name"`
	Jersey       string   `json:"jersey,omitempty"`
	Position     string   `json:"position,omitempty"`
	Height       int      `json:"height,omitempty"` // inches
	Weight       int      `json:"weight,omitempty"`
	Class        string   `json:"class,omitempty"`
	Hometown     string   `json:"hometown,omitempty"`
	Team         string   `json:"team,omitempty"`
	TeamID       int      `json:"team_id,omitempty"`
	Season       int      `json:"season,omitempty"`
	FirstSeason  int      `json:"first_season,omitempty"`
	LastSeason   int      `json:"last_season,omitempty"`
	PastTeams    []string `json:"past_teams,omitempty"`
	CollegeYears string   `json:"college_years,omitempty"`
}

// TrackedTeam identifies the single team the dashboard follows
type TrackedTeam struct {
	Key    string `json:"key"`
	TeamID int    `json:"team_id"`
	School string `json:"school"`
	Name   string `json:"name"`
}

// Sportsbook is an odds provider the feed knows about
type Sportsbook struct {
	SportsbookID int    `json:"sportsbook_id"`
	Name         string `json:"name"`
	Key          string `json:"key,omitempty"`
}
