package views

import (
	"strconv"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// RosterRow is one current player
type RosterRow struct {
	PlayerID int    `json:"player_id"`
	Jersey   string `json:"jersey"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Height   string `json:"height"`
	Weight   string `json:"weight"`
	Class    string `json:"class"`
	Hometown string `json:"hometown"`
}

// FormerRow is one former player
type FormerRow struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Years    string `json:"years"`
	Position string `json:"position"`
}

// RosterView is the roster tab
type RosterView struct {
	Season   int            `json:"season"`
	Position string         `json:"position"`
	Seasons  []SeasonOption `json:"seasons"`
	Current  []RosterRow    `json:"current"`
	Former   []FormerRow    `json:"former"`
}

// Roster renders the current roster filtered by position, and the
// players whose time with the team ended before season
func Roster(players []models.Player, team models.TrackedTeam, season int, position string) RosterView {
	if position == "" {
		position = basketball_ncaa.PositionAll
	}

	current := basketball_ncaa.FilterByPosition(basketball_ncaa.CurrentRoster(players, team, season), position)
	currentRows := make([]RosterRow, 0, len(current))
	for _, p := range current {
		row := RosterRow{
			PlayerID: p.PlayerID,
			Jersey:   p.Jersey,
			Name:     p.Name,
			Position: p.Position,
			Height:   basketball_ncaa.HeightLabel(p.Height),
			Class:    p.Class,
			Hometown: p.Hometown,
		}
		if p.Weight > 0 {
			row.Weight = strconv.Itoa(p.Weight)
		}
		currentRows = append(currentRows, row)
	}

	former := basketball_ncaa.FormerPlayers(players, team, season)
	formerRows := make([]FormerRow, 0, len(former))
	for _, p := range former {
		formerRows = append(formerRows, FormerRow{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Years:    basketball_ncaa.YearsLabel(p),
			Position: p.Position,
		})
	}

	return RosterView{
		Season:   season,
		Position: position,
		Seasons:  SeasonOptions(season),
		Current:  currentRows,
		Former:   formerRows,
	}
}
