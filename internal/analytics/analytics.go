package analytics

import (
	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// Report sizes
const (
	RecentGamesLimit = 10
	PropLineCount    = 5
)

// Input is one season's normalized data
type Input struct {
	Season      int
	TeamKey     string
	Games       []models.Game
	PlayerStats []models.PlayerSeasonStat
	TeamStats   *models.TeamSeasonStat
}

// Report is every derived metric for one season
type Report struct {
	Season        int           `json:"season"`
	Record        Record        `json:"record"`
	RecordDisplay string        `json:"record_display"`
	SplitDisplay  string        `json:"split_display"`
	TeamRates     TeamRates     `json:"team_rates"`
	PPGDisplay    string        `json:"ppg_display"`
	RPGDisplay    string        `json:"rpg_display"`
	Leaders       Leaders       `json:"leaders"`
	Ratings       Ratings       `json:"ratings"`
	PropLines     []PropLine    `json:"prop_lines"`
	Recent        []GameSummary `json:"recent"`
	Players       []PlayerRates `json:"players"`
}

// Compute derives the season report. Only data tagged with in.Season (or
// untagged) contributes.
func Compute(in Input) Report {
	games := basketball_ncaa.ForSeason(in.Games, in.Season)
	stats := statsForSeason(in.PlayerStats, in.Season)

	team := in.TeamStats
	if team != nil && team.Season != 0 && team.Season != in.Season {
		team = nil
	}

	record := ComputeRecord(games, in.TeamKey)
	rates := ComputeTeamRates(stats)

	return Report{
		Season:        in.Season,
		Record:        record,
		RecordDisplay: record.Display(),
		SplitDisplay:  record.SplitDisplay(),
		TeamRates:     rates,
		PPGDisplay:    rates.PPGDisplay(),
		RPGDisplay:    rates.RPGDisplay(),
		Leaders:       ComputeLeaders(stats),
		Ratings:       ComputeRatings(team, stats),
		PropLines:     ComputePropLines(stats, PropLineCount),
		Recent:        RecentGames(games, in.TeamKey, RecentGamesLimit),
		Players:       PlayerRows(stats),
	}
}

func statsForSeason(stats []models.PlayerSeasonStat, season int) []models.PlayerSeasonStat {
	out := make([]models.PlayerSeasonStat, 0, len(stats))
	for _, s := range stats {
		if s.Season == 0 || s.Season == season {
			out = append(out, s)
		}
	}
	return out
}
