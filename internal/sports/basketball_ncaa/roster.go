package basketball_ncaa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// FormerPlayersLimit caps the former-player list
const FormerPlayersLimit = 50

// PositionAll disables the position filter
const PositionAll = "all"

// PlayerKey is the de-duplication identity: the player ID when present,
// otherwise the display name. Empty means no identity.
func PlayerKey(id int, name string) string {
	if id != 0 {
		return "id:" + strconv.Itoa(id)
	}
	if name = strings.TrimSpace(name); name != "" {
		return "name:" + strings.ToLower(name)
	}
	return ""
}

// DedupPlayers keeps the first-seen row per player. Rows without an
// identity pass through unchanged.
func DedupPlayers(players []models.Player) []models.Player {
	seen := make(map[string]struct{}, len(players))
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		key := PlayerKey(p.PlayerID, p.Name)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, p)
	}
	return out
}

// DedupStats keeps the first-seen stat row per player
func DedupStats(stats []models.PlayerSeasonStat) []models.PlayerSeasonStat {
	seen := make(map[string]struct{}, len(stats))
	out := make([]models.PlayerSeasonStat, 0, len(stats))
	for _, s := range stats {
		key := PlayerKey(s.PlayerID, s.Name)
		if key != "" && s.Type != models.TypeTeamTotal {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}

func onTeam(p *models.Player, team models.TrackedTeam) bool {
	if team.Key != "" && p.Team == team.Key {
		return true
	}
	return team.TeamID != 0 && p.TeamID == team.TeamID
}

// CurrentRoster returns de-duplicated players on the team for season.
// A player with no season tag is assumed current.
func CurrentRoster(players []models.Player, team models.TrackedTeam, season int) []models.Player {
	out := make([]models.Player, 0)
	for i := range players {
		p := &players[i]
		if !onTeam(p, team) {
			continue
		}
		if p.Season == season || p.LastSeason == season || p.Season == 0 {
			out = append(out, *p)
		}
	}
	return DedupPlayers(out)
}

// FormerPlayers returns players whose time with the team ended before
// season, capped at FormerPlayersLimit. History is matched by team key
// only; TeamID is not consulted.
func FormerPlayers(players []models.Player, team models.TrackedTeam, season int) []models.Player {
	out := make([]models.Player, 0)
	for i := range players {
		p := &players[i]
		if team.Key == "" || (p.Team != team.Key && !contains(p.PastTeams, team.Key)) {
			continue
		}
		last := p.LastSeason
		if last == 0 {
			last = p.Season
		}
		if last != 0 && last < season {
			out = append(out, *p)
		}
	}
	out = DedupPlayers(out)
	if len(out) > FormerPlayersLimit {
		out = out[:FormerPlayersLimit]
	}
	return out
}

// FilterByPosition keeps players whose position equals position exactly;
// PositionAll or empty keeps everyone
func FilterByPosition(players []models.Player, position string) []models.Player {
	if position == "" || position == PositionAll {
		return players
	}
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.Position == position {
			out = append(out, p)
		}
	}
	return out
}

// YearsLabel renders a former player's tenure
func YearsLabel(p models.Player) string {
	if p.CollegeYears != "" {
		return p.CollegeYears
	}
	first, last := "?", "?"
	if p.FirstSeason != 0 {
		first = strconv.Itoa(p.FirstSeason)
	}
	if p.LastSeason != 0 {
		last = strconv.Itoa(p.LastSeason)
	}
	return fmt.Sprintf("%s-%s", first, last)
}

// HeightLabel renders inches as feet-inches
func HeightLabel(inches int) string {
	if inches <= 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", inches/12, inches%12)
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
