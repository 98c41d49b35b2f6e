package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/countdown"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/hub"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/season"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/views"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/widgets"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var now = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func testSnapshot() *season.Snapshot {
	return &season.Snapshot{
		Season: 2025,
		Team:   models.TrackedTeam{Key: "FLA", TeamID: 10, School: "Florida", Name: "Gators"},
		Games: []models.Game{
			{GameID: 1, DateTime: now.Add(-48 * time.Hour), Status: models.StatusFinal, HomeTeam: "FLA", AwayTeam: "UGA", HomeScore: intPtr(81), AwayScore: intPtr(70)},
			{GameID: 2, DateTime: now.Add(48 * time.Hour), Status: models.StatusScheduled, HomeTeam: "UK", AwayTeam: "FLA", HomeTeamName: "Kentucky"},
		},
		Players: []models.Player{
			{PlayerID: 1, Name: "Walter Clayton Jr.", Position: "G", Team: "FLA", Season: 2025},
			{PlayerID: 2, Name: "Alex Condon", Position: "F", Team: "FLA", Season: 2025},
		},
		PlayerStats: []models.PlayerSeasonStat{
			{PlayerID: 1, Name: "Walter Clayton Jr.", Games: 10, Points: 180, Rebounds: 30, Assists: 40},
			{PlayerID: 2, Name: "Alex Condon", Games: 10, Points: 100, Rebounds: 80, Assists: 20},
		},
		Sportsbooks: []models.Sportsbook{{SportsbookID: 7, Name: "DraftKings"}},
	}
}

// MockSeasonService implements handlers.SeasonService
type MockSeasonService struct {
	current  int
	snap     *season.Snapshot
	err      error
	store    *season.Store
	selected []int
}

func newMockSeasonService() *MockSeasonService {
	return &MockSeasonService{current: 2025, snap: testSnapshot(), store: season.NewStore()}
}

func (m *MockSeasonService) CurrentSeason() int { return m.current }

func (m *MockSeasonService) Current(ctx context.Context) (*season.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

func (m *MockSeasonService) SelectSeason(ctx context.Context, s int, force bool) (*season.Snapshot, error) {
	if s < 1900 {
		return nil, fmt.Errorf("%w: %d", season.ErrInvalidSeason, s)
	}
	if m.err != nil {
		return nil, m.err
	}
	m.selected = append(m.selected, s)
	m.current = s
	snap := *m.snap
	snap.Season = s
	return &snap, nil
}

func (m *MockSeasonService) Store() *season.Store { return m.store }

func (m *MockSeasonService) Sport() (string, string) {
	return "basketball_ncaab", "NCAA Men's Basketball"
}

// MockTokenCounter implements handlers.TokenCounter
type MockTokenCounter struct {
	tokens int
	err    error
}

func (m *MockTokenCounter) Tokens(ctx context.Context) (int, error) { return m.tokens, m.err }

// MockCountdown implements handlers.Countdown
type MockCountdown struct {
	reading *models.CountdownReading
}

func (m *MockCountdown) State() countdown.State {
	if m.reading == nil {
		return countdown.Idle
	}
	return countdown.Counting
}

func (m *MockCountdown) Last() (models.CountdownReading, bool) {
	if m.reading == nil {
		return models.CountdownReading{}, false
	}
	return *m.reading, true
}

// MockWidgets implements handlers.WidgetService
type MockWidgets struct {
	themes map[string]string
	votes  map[string]string
	notes  map[string]string
	poll   models.PositionPoll
	err    error
}

func newMockWidgets() *MockWidgets {
	return &MockWidgets{themes: map[string]string{}, votes: map[string]string{}, notes: map[string]string{}}
}

func (m *MockWidgets) Theme(ctx context.Context, session string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if t, ok := m.themes[session]; ok {
		return t, nil
	}
	return widgets.ThemeLight, nil
}

func (m *MockWidgets) SetTheme(ctx context.Context, session, theme string) error {
	if theme != widgets.ThemeLight && theme != widgets.ThemeDark {
		return widgets.ErrInvalidTheme
	}
	m.themes[session] = theme
	return nil
}

func (m *MockWidgets) MVPVote(ctx context.Context, session string) (string, error) {
	return m.votes[session], m.err
}

func (m *MockWidgets) CastMVPVote(ctx context.Context, session, player string, options []string) error {
	for _, o := range options {
		if o == player {
			m.votes[session] = player
			return nil
		}
	}
	return widgets.ErrInvalidVote
}

func (m *MockWidgets) PositionPoll(ctx context.Context) (models.PositionPoll, error) {
	return m.poll, m.err
}

func (m *MockWidgets) VotePosition(ctx context.Context, position string) (models.PositionPoll, error) {
	switch position {
	case widgets.PositionGuards:
		m.poll.Guards++
	case widgets.PositionForwards:
		m.poll.Forwards++
	case widgets.PositionCenters:
		m.poll.Centers++
	default:
		return models.PositionPoll{}, widgets.ErrInvalidPosition
	}
	return m.poll, nil
}

func (m *MockWidgets) Notes(ctx context.Context, session string) (models.FanNotes, error) {
	return models.FanNotes{SessionID: session, Body: m.notes[session]}, m.err
}

func (m *MockWidgets) SaveNotes(ctx context.Context, session, body string) (models.FanNotes, error) {
	if m.err != nil {
		return models.FanNotes{}, m.err
	}
	m.notes[session] = body
	return models.FanNotes{SessionID: session, Body: body, UpdatedAt: now}, nil
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	seasons   *MockSeasonService
	countdown *MockCountdown
	widgets   *MockWidgets
	router    chi.Router
}

func newTestEnv(t *testing.T, cfg handlers.Config) *testEnv {
	t.Helper()
	env := &testEnv{
		seasons:   newMockSeasonService(),
		countdown: &MockCountdown{},
		widgets:   newMockWidgets(),
	}
	cfg.Seasons = env.seasons
	cfg.Countdown = env.countdown
	cfg.Widgets = env.widgets
	cfg.TeamName = "Florida Gators"
	cfg.Logger = zap.NewNop()
	cfg.Now = func() time.Time { return now }
	cfg.Renderer = views.NewRenderer(views.Options{
		Location:  time.UTC,
		TicketURL: "https://floridagators.com/sports/mens-basketball?path=basketball-men",
		HomeVenue: "O'Connell Center",
	})

	env.router = chi.NewRouter()
	handlers.NewHandler(cfg).Mount(env.router)
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == handlers.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})
	rr := env.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]interface{}
	decode(t, rr, &body)
	if body["status"] != "healthy" || body["current_season"] != float64(2025) {
		t.Errorf("body = %v", body)
	}
	if body["sport"] != "basketball_ncaab" || body["league"] != "NCAA Men's Basketball" {
		t.Errorf("sport = %v / %v", body["sport"], body["league"])
	}
	if _, ok := body["outbound_tokens"]; ok {
		t.Error("outbound_tokens reported without a rate limiter")
	}

	unhealthy := newTestEnv(t, handlers.Config{Health: []handlers.Pinger{failingPinger{}}})
	if rr := unhealthy.do(t, http.MethodGet, "/health", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestHealthCheck_RateLimit(t *testing.T) {
	env := newTestEnv(t, handlers.Config{RateLimit: &MockTokenCounter{tokens: 42}})
	rr := env.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]interface{}
	decode(t, rr, &body)
	if body["outbound_tokens"] != float64(42) {
		t.Errorf("outbound_tokens = %v, want 42", body["outbound_tokens"])
	}

	broken := newTestEnv(t, handlers.Config{RateLimit: &MockTokenCounter{err: errors.New("redis down")}})
	if rr := broken.do(t, http.MethodGet, "/health", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestGetSeason(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})
	env.seasons.store.Put(testSnapshot())

	rr := env.do(t, http.MethodGet, "/api/v1/season", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Season  int                   `json:"season"`
		Label   string                `json:"label"`
		Options []views.SeasonOption  `json:"options"`
		Loaded  []int                 `json:"loaded"`
		Summary *models.SeasonSummary `json:"summary"`
	}
	decode(t, rr, &body)
	if body.Season != 2025 || body.Label != "2025-26" || len(body.Options) != 3 {
		t.Errorf("body = %+v", body)
	}
	if body.Summary == nil || body.Summary.Games != 2 {
		t.Errorf("Summary = %+v", body.Summary)
	}
}

func TestSelectSeason(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loadErr    error
		wantStatus int
	}{
		{"valid season", `{"season": 2024}`, nil, http.StatusOK},
		{"malformed body", `{"season":`, nil, http.StatusBadRequest},
		{"invalid season", `{"season": 12}`, nil, http.StatusBadRequest},
		{"all sources failed", `{"season": 2024}`, fmt.Errorf("%w: boom", season.ErrLoadFailed), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, handlers.Config{})
			env.seasons.err = tt.loadErr

			rr := env.do(t, http.MethodPut, "/api/v1/season", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus == http.StatusBadGateway {
				var e models.ErrorResponse
				decode(t, rr, &e)
				if e.Message != season.ErrLoadFailed.Error() {
					t.Errorf("Message = %q, want the load banner", e.Message)
				}
			}
			if tt.wantStatus == http.StatusOK && env.seasons.current != 2024 {
				t.Errorf("current season = %d, want 2024", env.seasons.current)
			}
		})
	}
}

func TestGetSchedule(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	rr := env.do(t, http.MethodGet, "/api/v1/schedule?view=upcoming", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var v views.ScheduleView
	decode(t, rr, &v)
	if v.View != "upcoming" || len(v.Games) != 1 || v.Games[0].Matchup != "@ Kentucky" {
		t.Errorf("schedule = %+v", v)
	}

	if rr := env.do(t, http.MethodGet, "/api/v1/schedule?view=live", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("unknown view status = %d, want 400", rr.Code)
	}

	env.seasons.err = season.ErrLoadFailed
	if rr := env.do(t, http.MethodGet, "/api/v1/schedule", ""); rr.Code != http.StatusBadGateway {
		t.Errorf("failed load status = %d, want 502", rr.Code)
	}
}

func TestGetNextGame(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	rr := env.do(t, http.MethodGet, "/api/v1/next-game", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var next views.NextGameView
	decode(t, rr, &next)
	if next.GameID != 2 || next.Matchup != "@ Kentucky" {
		t.Errorf("next = %+v", next)
	}

	env.seasons.snap.Games = env.seasons.snap.Games[:1]
	if rr := env.do(t, http.MethodGet, "/api/v1/next-game", ""); rr.Code != http.StatusNotFound {
		t.Errorf("no upcoming status = %d, want 404", rr.Code)
	}
}

func TestGetCountdown(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	var idle map[string]interface{}
	decode(t, env.do(t, http.MethodGet, "/api/v1/countdown", ""), &idle)
	if idle["state"] != "idle" || idle["reading"] != nil {
		t.Errorf("idle body = %v", idle)
	}

	env.countdown.reading = &models.CountdownReading{Days: 1, Display: "1d 01h 01m 01s"}
	var counting struct {
		State   string                  `json:"state"`
		Reading models.CountdownReading `json:"reading"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/countdown", ""), &counting)
	if counting.State != "counting" || counting.Reading.Display != "1d 01h 01m 01s" {
		t.Errorf("counting body = %+v", counting)
	}
}

func TestSeasonViews(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	t.Run("roster", func(t *testing.T) {
		var v views.RosterView
		decode(t, env.do(t, http.MethodGet, "/api/v1/roster?position=F", ""), &v)
		if len(v.Current) != 1 || v.Current[0].Name != "Alex Condon" {
			t.Errorf("roster = %+v", v.Current)
		}
	})

	t.Run("stats", func(t *testing.T) {
		var v views.StatsView
		decode(t, env.do(t, http.MethodGet, "/api/v1/stats", ""), &v)
		if len(v.Players) != 2 || v.Players[0].Points != "18.0" {
			t.Errorf("stats = %+v", v.Players)
		}
	})

	t.Run("analytics", func(t *testing.T) {
		var v views.AnalyticsView
		decode(t, env.do(t, http.MethodGet, "/api/v1/analytics", ""), &v)
		if v.Record != "1-0" || v.PPG != "28.0" || v.RPG != "11.0" {
			t.Errorf("analytics = %+v", v)
		}
		if v.Leaders[1].Name != "Alex Condon" {
			t.Errorf("rebound leader = %+v", v.Leaders[1])
		}
	})

	t.Run("tickets", func(t *testing.T) {
		var v views.TicketsView
		decode(t, env.do(t, http.MethodGet, "/api/v1/tickets", ""), &v)
		if len(v.Games) != 1 || v.Games[0].Venue != "Away" {
			t.Errorf("tickets = %+v", v)
		}
	})

	t.Run("sportsbooks", func(t *testing.T) {
		var body struct {
			Sportsbooks []models.Sportsbook `json:"sportsbooks"`
			Count       int                 `json:"count"`
		}
		decode(t, env.do(t, http.MethodGet, "/api/v1/sportsbooks", ""), &body)
		if body.Count != 1 || body.Sportsbooks[0].Name != "DraftKings" {
			t.Errorf("sportsbooks = %+v", body)
		}
	})
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})
	env.countdown.reading = &models.CountdownReading{Display: "2d 00h 00m 00s"}

	rr := env.do(t, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	html := rr.Body.String()
	for _, want := range []string{"Florida Gators Basketball", "@ Kentucky", "2d 00h 00m 00s", "1-0"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	env.seasons.err = season.ErrLoadFailed
	rr = env.do(t, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Could not load season data") {
		t.Errorf("failed load should render the banner, got %d", rr.Code)
	}
}

func TestThemeWidget(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	rr := env.do(t, http.MethodGet, "/api/v1/widgets/theme", "")
	cookie := sessionCookie(t, rr)
	var got map[string]string
	decode(t, rr, &got)
	if got["theme"] != "light" {
		t.Errorf("default theme = %q", got["theme"])
	}

	if rr := env.do(t, http.MethodPut, "/api/v1/widgets/theme", `{"theme":"dark"}`, cookie); rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rr.Code)
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/widgets/theme", "", cookie), &got)
	if got["theme"] != "dark" {
		t.Errorf("theme after PUT = %q, want dark", got["theme"])
	}

	if rr := env.do(t, http.MethodPut, "/api/v1/widgets/theme", `{"theme":"neon"}`, cookie); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d, want 400", rr.Code)
	}
}

func TestSessionCookie_InvalidReplaced(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})
	rr := env.do(t, http.MethodGet, "/api/v1/widgets/theme", "", &http.Cookie{Name: handlers.SessionCookie, Value: "not-a-uuid"})
	if c := sessionCookie(t, rr); c.Value == "not-a-uuid" {
		t.Error("invalid session id should be replaced")
	}
}

func TestMVPVoteWidget(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	rr := env.do(t, http.MethodGet, "/api/v1/widgets/mvp-vote", "")
	cookie := sessionCookie(t, rr)
	var body struct {
		Options []string `json:"options"`
		Vote    string   `json:"vote"`
	}
	decode(t, rr, &body)
	if len(body.Options) != 2 || body.Vote != "" {
		t.Fatalf("body = %+v", body)
	}

	if rr := env.do(t, http.MethodPut, "/api/v1/widgets/mvp-vote", `{"player":"Alex Condon"}`, cookie); rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d (%s)", rr.Code, rr.Body.String())
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/widgets/mvp-vote", "", cookie), &body)
	if body.Vote != "Alex Condon" {
		t.Errorf("vote = %q", body.Vote)
	}

	if rr := env.do(t, http.MethodPut, "/api/v1/widgets/mvp-vote", `{"player":"Nobody"}`, cookie); rr.Code != http.StatusBadRequest {
		t.Errorf("unknown player status = %d, want 400", rr.Code)
	}
}

func TestPositionPollWidget(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	for _, pos := range []string{"guards", "guards", "centers"} {
		if rr := env.do(t, http.MethodPost, "/api/v1/widgets/position-poll", `{"position":"`+pos+`"}`); rr.Code != http.StatusOK {
			t.Fatalf("POST %s status = %d", pos, rr.Code)
		}
	}
	var poll models.PositionPoll
	decode(t, env.do(t, http.MethodGet, "/api/v1/widgets/position-poll", ""), &poll)
	if poll != (models.PositionPoll{Guards: 2, Centers: 1}) {
		t.Errorf("poll = %+v", poll)
	}

	if rr := env.do(t, http.MethodPost, "/api/v1/widgets/position-poll", `{"position":"wings"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid position status = %d, want 400", rr.Code)
	}
}

func TestNotesWidget(t *testing.T) {
	env := newTestEnv(t, handlers.Config{})

	rr := env.do(t, http.MethodPut, "/api/v1/widgets/notes", `{"body":"Beat Kentucky"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rr.Code)
	}
	cookie := sessionCookie(t, rr)

	var notes models.FanNotes
	decode(t, env.do(t, http.MethodGet, "/api/v1/widgets/notes", "", cookie), &notes)
	if notes.Body != "Beat Kentucky" {
		t.Errorf("notes = %+v", notes)
	}

	env.widgets.err = errors.New("database down")
	if rr := env.do(t, http.MethodGet, "/api/v1/widgets/notes", "", cookie); rr.Code != http.StatusInternalServerError {
		t.Errorf("store failure status = %d, want 500", rr.Code)
	}
}

func TestWebSocket_SendsLatestCountdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(zap.NewNop())
	go h.Run(ctx)

	env := newTestEnv(t, handlers.Config{Hub: h, Context: ctx})
	env.countdown.reading = &models.CountdownReading{Display: "0d 05h 00m 00s"}

	server := httptest.NewServer(env.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string                  `json:"type"`
		Payload models.CountdownReading `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != models.MessageTypeCountdown || msg.Payload.Display != "0d 05h 00m 00s" {
		t.Errorf("first message = %+v", msg)
	}

	h.ShowCountdown(models.CountdownReading{Display: "0d 04h 59m 59s"})
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Payload.Display != "0d 04h 59m 59s" {
		t.Errorf("broadcast = %+v", msg)
	}
}
