package contracts

import (
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// FeedNormalizer turns loosely typed provider rows into models.
// Implementations own the field-name fallback lists for their feed.
type FeedNormalizer interface {
	// Identification
	GetSportKey() string
	GetDisplayName() string

	// Team resolution
	DetectTeam(teams []map[string]interface{}) (models.TrackedTeam, bool)

	// Entity parsing
	NormalizeGames(rows []map[string]interface{}) []models.Game
	NormalizePlayers(rows []map[string]interface{}) []models.Player
	NormalizePlayerStats(rows []map[string]interface{}) []models.PlayerSeasonStat
	NormalizeTeamStats(rows []map[string]interface{}) []models.TeamSeasonStat
	NormalizeSportsbooks(rows []map[string]interface{}) []models.Sportsbook
}
