package analytics

import (
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// FallbackPossessionsPerGame is assumed when no team totals exist
const FallbackPossessionsPerGame = 70.0

// Ratings are tempo and efficiency estimates for the season
type Ratings struct {
	Games           int      `json:"games"`
	Possessions     float64  `json:"possessions"`
	Tempo           float64  `json:"tempo"`
	OffensiveRating float64  `json:"offensive_rating"`
	DefensiveRating *float64 `json:"defensive_rating,omitempty"`
	Approximate     bool     `json:"approximate"`
	Available       bool     `json:"available"`
	Source          string   `json:"source"`
}

// Rating sources
const (
	SourceTeamSeason = "team_season"
	SourceTeamTotal  = "team_total_row"
	SourcePlayers    = "player_aggregate"
)

// Possessions estimates possessions as FGA + 0.44*FTA - ORB + TO
func Possessions(fga, fta, orb, to float64) float64 {
	return fga + 0.44*fta - orb + to
}

// TeamTotalsFromStats lifts a TeamTotal row out of player stats
func TeamTotalsFromStats(stats []models.PlayerSeasonStat) (models.TeamSeasonStat, bool) {
	for _, s := range stats {
		if s.Type != models.TypeTeamTotal {
			continue
		}
		return models.TeamSeasonStat{
			Team:                s.Team,
			Season:              s.Season,
			Games:               s.Games,
			Points:              total(s.Points, s.PointsPerGame, s.Games),
			FieldGoalsAttempted: s.FieldGoalsAttempted,
			FreeThrowsAttempted: s.FreeThrowsAttempted,
			OffensiveRebounds:   s.OffensiveRebounds,
			Rebounds:            total(s.Rebounds, s.ReboundsPerGame, s.Games),
			Turnovers:           s.Turnovers,
		}, true
	}
	return models.TeamSeasonStat{}, false
}

// ComputeRatings estimates tempo and ratings. Team totals come from the
// team season feed, then a TeamTotal stats row; without either, player
// points are summed and 70 possessions per game are assumed.
func ComputeRatings(team *models.TeamSeasonStat, stats []models.PlayerSeasonStat) Ratings {
	source := SourceTeamSeason
	if team == nil {
		if row, ok := TeamTotalsFromStats(stats); ok {
			team = &row
			source = SourceTeamTotal
		}
	}

	var r Ratings
	var points, oppPoints float64
	if team != nil {
		r.Games = team.Games
		r.Possessions = Possessions(team.FieldGoalsAttempted, team.FreeThrowsAttempted, team.OffensiveRebounds, team.Turnovers)
		points, oppPoints = team.Points, team.OpponentPoints
		r.Source = source
	} else {
		for _, s := range stats {
			if s.Games > r.Games {
				r.Games = s.Games
			}
			points += total(s.Points, s.PointsPerGame, s.Games)
		}
		r.Possessions = FallbackPossessionsPerGame * float64(r.Games)
		r.Approximate = true
		r.Source = SourcePlayers
	}

	if r.Games <= 0 || r.Possessions <= 0 {
		return Ratings{Games: r.Games, Approximate: r.Approximate, Source: r.Source}
	}

	r.Available = true
	r.Tempo = r.Possessions / float64(r.Games)
	r.OffensiveRating = points / r.Possessions * 100
	if oppPoints > 0 {
		drtg := oppPoints / r.Possessions * 100
		r.DefensiveRating = &drtg
	}
	return r
}

// DefensiveDisplay renders DRtg or "--" when unavailable
func (r Ratings) DefensiveDisplay() string {
	if r.DefensiveRating == nil {
		return "--"
	}
	return FormatRate(*r.DefensiveRating)
}
