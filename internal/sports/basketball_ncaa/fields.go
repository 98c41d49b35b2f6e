package basketball_ncaa

import (
	"math"
	"strconv"
	"strings"
)

// Ordered source field names. The provider schema is not documented
// consistently across feed versions, so each value is read from the first
// field in its list that carries one.
var (
	teamKeyFields     = []string{"Key", "Team", "Abbreviation"}
	gamesFields       = []string{"Games", "GamesPlayed"}
	fgPctFields       = []string{"FieldGoalsPercentage", "FieldGoalPercentage"}
	threePctFields    = []string{"ThreePointersPercentage", "ThreePointPercentage"}
	jerseyFields      = []string{"Jersey", "Number"}
	classFields       = []string{"Class", "Experience"}
	lastSeasonFields  = []string{"LastSeason", "Season"}
	playerTeamFields  = []string{"Team", "TeamKey"}
	homeScoreFields   = []string{"HomeTeamScore", "HomeScore"}
	awayScoreFields   = []string{"AwayTeamScore", "AwayScore"}
	opponentFields    = []string{"OpponentName", "Opponent"}
	homeNameFields    = []string{"HomeTeamName", "GlobalHomeTeamName"}
	awayNameFields    = []string{"AwayTeamName", "GlobalAwayTeamName"}
	gameDateFields    = []string{"DateTime", "Day"}
	gameDateUTCFields = []string{"DateTimeUTC"}
	sportsbookIDField = []string{"SportsbookID", "SportsBookID"}
)

// parseFloat parses a float from interface{}
func parseFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// extractString returns the first non-empty string among keys. Whole
// numbers are rendered without a decimal point (jersey numbers arrive both
// ways).
func extractString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch val := m[key].(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s
			}
		case float64:
			if val == math.Trunc(val) {
				return strconv.FormatInt(int64(val), 10)
			}
			return strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return ""
}

// extractNumber returns the first present, non-null numeric value among
// keys
func extractNumber(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			if f, ok := parseFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// extractNonZero returns the first non-zero numeric value among keys
func extractNonZero(m map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if f, ok := parseFloat(m[key]); ok && f != 0 {
			return f
		}
	}
	return 0
}

// extractInt returns extractNonZero truncated to an int
func extractInt(m map[string]interface{}, keys ...string) int {
	return int(extractNonZero(m, keys...))
}

// extractIntPtr keeps "missing" distinct from zero
func extractIntPtr(m map[string]interface{}, keys ...string) *int {
	f, ok := extractNumber(m, keys...)
	if !ok {
		return nil
	}
	i := int(math.Round(f))
	return &i
}

func extractFloatPtr(m map[string]interface{}, keys ...string) *float64 {
	f, ok := extractNumber(m, keys...)
	if !ok {
		return nil
	}
	return &f
}

func extractBool(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// extractMap safely extracts a nested object
func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

// extractStringList reads either a JSON array of strings or a
// comma-separated string
func extractStringList(m map[string]interface{}, key string) []string {
	var out []string
	switch val := m[key].(type) {
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// percent normalizes a shooting percentage to the 0-100 scale; the feed
// sends both fractions and whole percentages
func percent(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}

// fullName synthesizes "First Last", trimmed
func fullName(m map[string]interface{}) string {
	first := extractString(m, "FirstName")
	last := extractString(m, "LastName")
	return strings.TrimSpace(first + " " + last)
}
