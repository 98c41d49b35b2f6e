package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/oddsmath"
)

// Display layouts
const (
	DateTimeLayout = "Jan 2, 3:04 PM"
	DateLayout     = "Jan 2, 2006"
)

// TicketPricePlaceholder stands in until a ticket price source is wired
const TicketPricePlaceholder = "Lowest: $— • Avg: $— (connect a ticket API later)"

var (
	// ErrNoUpcomingGame means no game with a known date lies ahead
	ErrNoUpcomingGame = errors.New("no upcoming games")
	// ErrUnknownView rejects schedule views other than all/upcoming/completed
	ErrUnknownView = errors.New("view must be all, upcoming or completed")
)

// Options configures a Renderer
type Options struct {
	Location  *time.Location
	TicketURL string
	HomeVenue string
}

// Renderer turns normalized data into view models
type Renderer struct {
	loc       *time.Location
	ticketURL string
	homeVenue string
}

// NewRenderer creates a renderer; a nil location means UTC
func NewRenderer(opts Options) *Renderer {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc, ticketURL: opts.TicketURL, homeVenue: opts.HomeVenue}
}

// ScheduleRow is one game in the schedule list
type ScheduleRow struct {
	GameID   int    `json:"game_id"`
	Date     string `json:"date"`
	Matchup  string `json:"matchup"`
	Opponent string `json:"opponent"`
	IsHome   bool   `json:"is_home"`
	Venue    string `json:"venue,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Status   string `json:"status"`
	Final    bool   `json:"final"`
	Result   string `json:"result"`
	Score    string `json:"score,omitempty"`
}

// ScheduleView is the schedule tab
type ScheduleView struct {
	Season int           `json:"season"`
	View   string        `json:"view"`
	Games  []ScheduleRow `json:"games"`
}

// ParseView normalizes a schedule view name; empty means all
func ParseView(view string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(view)); v {
	case "":
		return basketball_ncaa.ViewAll, nil
	case basketball_ncaa.ViewAll, basketball_ncaa.ViewUpcoming, basketball_ncaa.ViewCompleted:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

// Schedule renders the schedule for view
func (r *Renderer) Schedule(season int, games []models.Game, teamKey, view string, now time.Time) ScheduleView {
	filtered := basketball_ncaa.FilterSchedule(games, view, now)
	rows := make([]ScheduleRow, 0, len(filtered))
	for i := range filtered {
		rows = append(rows, r.scheduleRow(&filtered[i], teamKey))
	}
	return ScheduleView{Season: season, View: view, Games: rows}
}

func (r *Renderer) scheduleRow(g *models.Game, teamKey string) ScheduleRow {
	p := basketball_ncaa.Perspective(g, teamKey)
	row := ScheduleRow{
		GameID:   g.GameID,
		Date:     r.FormatDateTime(g),
		Matchup:  Matchup(p.IsHome, p.Opponent),
		Opponent: p.Opponent,
		IsHome:   p.IsHome,
		Venue:    g.Stadium,
		Channel:  g.Channel,
		Status:   string(g.Status),
		Final:    g.IsFinal(),
		Result:   basketball_ncaa.ResultString(g, teamKey),
	}
	if row.Final {
		row.Score = fmt.Sprintf("%s %s — %s %s", g.AwayTeam, scoreText(g.AwayScore), g.HomeTeam, scoreText(g.HomeScore))
	}
	return row
}

// Matchup renders "vs OPP" at home and "@ OPP" away
func Matchup(isHome bool, opponent string) string {
	if isHome {
		return "vs " + opponent
	}
	return "@ " + opponent
}

// FormatDateTime renders a game's tip-off in the renderer's location.
// Unknown dates fall back to the raw feed value, then TBA.
func (r *Renderer) FormatDateTime(g *models.Game) string {
	if g.HasDate() {
		return g.DateTime.In(r.loc).Format(DateTimeLayout)
	}
	if g.RawDateTime != "" {
		return g.RawDateTime
	}
	return basketball_ncaa.TBA
}

func scoreText(score *int) string {
	if score == nil {
		return ""
	}
	return fmt.Sprint(*score)
}

// OddsView is a game's moneyline with implied win probabilities in percent
type OddsView struct {
	HomeMoneyLine string   `json:"home_money_line"`
	AwayMoneyLine string   `json:"away_money_line"`
	HomeImplied   float64  `json:"home_implied"`
	AwayImplied   float64  `json:"away_implied"`
	HomeFair      float64  `json:"home_fair,omitempty"`
	AwayFair      float64  `json:"away_fair,omitempty"`
	PointSpread   *float64 `json:"point_spread,omitempty"`
	OverUnder     *float64 `json:"over_under,omitempty"`
}

// Odds renders the game's moneyline; nil when either side is missing
// or invalid
func Odds(g *models.Game) *OddsView {
	if g.HomeMoneyLine == nil || g.AwayMoneyLine == nil {
		return nil
	}
	home, away := *g.HomeMoneyLine, *g.AwayMoneyLine

	homeImplied, err := oddsmath.ImpliedProbability(home)
	if err != nil {
		return nil
	}
	awayImplied, err := oddsmath.ImpliedProbability(away)
	if err != nil {
		return nil
	}

	v := &OddsView{
		HomeMoneyLine: oddsmath.FormatAmerican(home),
		AwayMoneyLine: oddsmath.FormatAmerican(away),
		HomeImplied:   homeImplied * 100,
		AwayImplied:   awayImplied * 100,
		PointSpread:   g.PointSpread,
		OverUnder:     g.OverUnder,
	}
	// a line without vig has no fair split to show
	if homeFair, awayFair, err := oddsmath.FairWinProbabilities(home, away); err == nil {
		v.HomeFair = homeFair * 100
		v.AwayFair = awayFair * 100
	}
	return v
}

// NextGameView is the next-game card
type NextGameView struct {
	GameID   int       `json:"game_id"`
	Matchup  string    `json:"matchup"`
	Opponent string    `json:"opponent"`
	IsHome   bool      `json:"is_home"`
	Date     string    `json:"date"`
	Target   time.Time `json:"target"`
	Venue    string    `json:"venue,omitempty"`
	Channel  string    `json:"channel,omitempty"`
	Odds     *OddsView `json:"odds,omitempty"`
}

// NextGame renders the earliest game after now
func (r *Renderer) NextGame(games []models.Game, teamKey string, now time.Time) (NextGameView, error) {
	g, ok := basketball_ncaa.NextGame(games, now)
	if !ok {
		return NextGameView{}, ErrNoUpcomingGame
	}
	p := basketball_ncaa.Perspective(&g, teamKey)
	return NextGameView{
		GameID:   g.GameID,
		Matchup:  Matchup(p.IsHome, p.Opponent),
		Opponent: p.Opponent,
		IsHome:   p.IsHome,
		Date:     r.FormatDateTime(&g),
		Target:   g.DateTime,
		Venue:    g.Stadium,
		Channel:  g.Channel,
		Odds:     Odds(&g),
	}, nil
}

// TicketRow is one upcoming game on the tickets tab
type TicketRow struct {
	GameID    int    `json:"game_id"`
	Title     string `json:"title"`
	Venue     string `json:"venue"`
	Prices    string `json:"prices"`
	TicketURL string `json:"ticket_url"`
}

// TicketsView is the tickets tab; Message is set when there is nothing to list
type TicketsView struct {
	Games   []TicketRow `json:"games"`
	Message string      `json:"message,omitempty"`
}

// Tickets renders upcoming games with the ticketing link
func (r *Renderer) Tickets(games []models.Game, teamKey string, now time.Time) TicketsView {
	upcoming := basketball_ncaa.FilterSchedule(games, basketball_ncaa.ViewUpcoming, now)
	if len(upcoming) == 0 {
		return TicketsView{Games: []TicketRow{}, Message: "No upcoming games found."}
	}

	rows := make([]TicketRow, 0, len(upcoming))
	for i := range upcoming {
		g := &upcoming[i]
		p := basketball_ncaa.Perspective(g, teamKey)
		rows = append(rows, TicketRow{
			GameID:    g.GameID,
			Title:     fmt.Sprintf("%s • %s", r.FormatDateTime(g), Matchup(p.IsHome, p.Opponent)),
			Venue:     r.venue(g, p.IsHome),
			Prices:    TicketPricePlaceholder,
			TicketURL: r.ticketURL,
		})
	}
	return TicketsView{Games: rows}
}

func (r *Renderer) venue(g *models.Game, isHome bool) string {
	switch {
	case g.Stadium != "":
		return g.Stadium
	case isHome && r.homeVenue != "":
		return "Home – " + r.homeVenue
	case isHome:
		return "Home"
	default:
		return "Away"
	}
}

// SeasonOption is one entry of the season selector
type SeasonOption struct {
	Value    int    `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// SeasonLabel renders 2025 as "2025-26"
func SeasonLabel(season int) string {
	return fmt.Sprintf("%d-%02d", season, (season+1)%100)
}

// SeasonOptions offers the seasons around selected
func SeasonOptions(selected int) []SeasonOption {
	out := make([]SeasonOption, 0, 3)
	for s := selected - 1; s <= selected+1; s++ {
		out = append(out, SeasonOption{Value: s, Label: SeasonLabel(s), Selected: s == selected})
	}
	return out
}
