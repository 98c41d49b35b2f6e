package models

// PlayerSeasonStat is a player's season aggregate for one team.
// PerGame fields are nil when the feed did not supply them explicitly.
type PlayerSeasonStat struct {
	PlayerID                int      `json:"player_id"`
	Name                    string   `json:"name"`
	Team                    string   `json:"team"`
	Season                  int      `json:"season"`
	Type                    string   `json:"type,omitempty"`
	Position                string   `json:"position,omitempty"`
	Games                   int      `json:"games"`
	Minutes                 float64  `json:"minutes"`
	MinutesPerGame          *float64 `json:"minutes_per_game,omitempty"`
	Points                  float64  `json:"points"`
	Rebounds                float64  `json:"rebounds"`
	Assists                 float64  `json:"assists"`
	PointsPerGame           *float64 `json:"points_per_game,omitempty"`
	ReboundsPerGame         *float64 `json:"rebounds_per_game,omitempty"`
	AssistsPerGame          *float64 `json:"assists_per_game,omitempty"`
	FieldGoalsAttempted     float64  `json:"field_goals_attempted"`
	FreeThrowsAttempted     float64  `json:"free_throws_attempted"`
	OffensiveRebounds       float64  `json:"offensive_rebounds"`
	Turnovers               float64  `json:"turnovers"`
	FieldGoalsPercentage    float64  `json:"field_goals_percentage"`
	ThreePointersPercentage float64  `json:"three_pointers_percentage"`
}

// TypeTeamTotal marks a stats row holding team totals instead of a player
const TypeTeamTotal = "TeamTotal"

// TeamSeasonStat is a team's season totals
type TeamSeasonStat struct {
	Team                string  `json:"team"`
	Season              int     `json:"season"`
	Games               int     `json:"games"`
	Points              float64 `json:"points"`
	OpponentPoints      float64 `json:"opponent_points"`
	FieldGoalsAttempted float64 `json:"field_goals_attempted"`
	FreeThrowsAttempted float64 `json:"free_throws_attempted"`
	OffensiveRebounds   float64 `json:"offensive_rebounds"`
	Rebounds            float64 `json:"rebounds"`
	Turnovers           float64 `json:"turnovers"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
}
