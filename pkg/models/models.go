package models

import "time"

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// SeasonSelection is the body of a season change request
type SeasonSelection struct {
	Season int  `json:"season"`
	Force  bool `json:"force,omitempty"`
}

// SeasonSummary describes what the store holds for a season
type SeasonSummary struct {
	Season        int       `json:"season"`
	Games         int       `json:"games"`
	Players       int       `json:"players"`
	PlayerStats   int       `json:"player_stats"`
	HasTeamTotals bool      `json:"has_team_totals"`
	FailedSources []string  `json:"failed_sources,omitempty"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// FanNotes is a session's free-text notes
type FanNotes struct {
	SessionID string    `json:"-"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PositionPoll is the shared tally of the position poll
type PositionPoll struct {
	Guards   int64 `json:"guards"`
	Forwards int64 `json:"forwards"`
	Centers  int64 `json:"centers"`
}

// Total is the number of votes cast
func (p PositionPoll) Total() int64 {
	return p.Guards + p.Forwards + p.Centers
}
