package season_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/season"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errUpstream = errors.New("upstream 500")

// MockProvider is a mock implementation of season.Provider
type MockProvider struct {
	failing       map[string]bool
	teamsErr      error
	currentSeason int
	scheduleCalls int32
}

func newMockProvider() *MockProvider {
	return &MockProvider{failing: map[string]bool{}, currentSeason: 2025}
}

func (m *MockProvider) result(source string, rows []map[string]interface{}) ([]map[string]interface{}, error) {
	if m.failing[source] {
		return nil, errUpstream
	}
	return rows, nil
}

func (m *MockProvider) Teams(ctx context.Context) ([]map[string]interface{}, error) {
	if m.teamsErr != nil {
		return nil, m.teamsErr
	}
	return []map[string]interface{}{
		{"Key": "FLA", "School": "Florida", "Name": "Gators", "TeamID": float64(77)},
	}, nil
}

func (m *MockProvider) TeamSchedule(ctx context.Context, s int, team string) ([]map[string]interface{}, error) {
	atomic.AddInt32(&m.scheduleCalls, 1)
	return m.result(season.SourceSchedule, []map[string]interface{}{
		{"GameID": float64(1), "Season": float64(s), "HomeTeam": team, "AwayTeam": "UK", "Status": "Scheduled", "DateTime": "2099-01-01T19:00:00"},
	})
}

func (m *MockProvider) Players(ctx context.Context, team string) ([]map[string]interface{}, error) {
	return m.result(season.SourcePlayers, []map[string]interface{}{
		{"PlayerID": float64(5), "FirstName": "Thomas", "LastName": "Haugh", "Team": "FLA"},
	})
}

func (m *MockProvider) PlayerSeasonStatsByTeam(ctx context.Context, s int, team string) ([]map[string]interface{}, error) {
	return m.result(season.SourcePlayerStats, []map[string]interface{}{
		{"PlayerID": float64(5), "Name": "Thomas Haugh", "Games": float64(3), "Points": float64(45)},
	})
}

func (m *MockProvider) TeamSeasonStats(ctx context.Context, s int) ([]map[string]interface{}, error) {
	return m.result(season.SourceTeamStats, []map[string]interface{}{
		{"Team": "UK", "Games": float64(3)},
		{"Team": "FLA", "Games": float64(3), "Points": float64(240)},
	})
}

func (m *MockProvider) ActiveSportsbooks(ctx context.Context) ([]map[string]interface{}, error) {
	return m.result(season.SourceSportsbooks, []map[string]interface{}{{"SportsbookID": float64(1), "Name": "FanDuel"}})
}

func (m *MockProvider) AreAnyGamesInProgress(ctx context.Context) (bool, error) {
	return false, nil
}

func (m *MockProvider) CurrentSeason(ctx context.Context) (int, error) {
	return m.currentSeason, nil
}

func (m *MockProvider) failAll() {
	for _, s := range []string{season.SourceSchedule, season.SourcePlayers, season.SourcePlayerStats, season.SourceTeamStats, season.SourceSportsbooks} {
		m.failing[s] = true
	}
}

type MockPublisher struct {
	mu        sync.Mutex
	summaries []models.SeasonSummary
	err       error
}

func (m *MockPublisher) PublishSeasonLoaded(ctx context.Context, team string, summary models.SeasonSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summary)
	return m.err
}

func newService(p *MockProvider, pub season.Publisher) *season.Service {
	normalizer := basketball_ncaa.New(basketball_ncaa.TeamIdentity{School: "Florida"}, time.UTC)
	return season.NewService(p, normalizer, season.NewStore(), pub, zap.NewNop(), 2025)
}

func TestLoad_AllSources(t *testing.T) {
	pub := &MockPublisher{}
	svc := newService(newMockProvider(), pub)

	snap, err := svc.Load(context.Background(), 2025, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Team.Key != "FLA" {
		t.Errorf("Team.Key = %q, want FLA", snap.Team.Key)
	}
	if len(snap.Games) != 1 || len(snap.Players) != 1 || len(snap.PlayerStats) != 1 || len(snap.Sportsbooks) != 1 {
		t.Errorf("snapshot sizes = %+v", snap.Summary())
	}
	if snap.TeamStats == nil || snap.TeamStats.Points != 240 {
		t.Errorf("TeamStats = %+v, want the FLA row", snap.TeamStats)
	}
	if len(snap.FailedSources) != 0 {
		t.Errorf("FailedSources = %v, want none", snap.FailedSources)
	}
	if len(pub.summaries) != 1 || pub.summaries[0].Season != 2025 {
		t.Errorf("published = %+v, want one summary for 2025", pub.summaries)
	}
}

func TestLoad_IsolatedFailure(t *testing.T) {
	p := newMockProvider()
	p.failing[season.SourceSchedule] = true
	svc := newService(p, nil)

	snap, err := svc.Load(context.Background(), 2025, false)
	if err != nil {
		t.Fatalf("Load() error = %v, want partial success", err)
	}
	if len(snap.Games) != 0 {
		t.Errorf("Games = %d, want empty for failed source", len(snap.Games))
	}
	if len(snap.Players) != 1 {
		t.Errorf("Players = %d, want 1", len(snap.Players))
	}
	if len(snap.FailedSources) != 1 || snap.FailedSources[0] != season.SourceSchedule {
		t.Errorf("FailedSources = %v", snap.FailedSources)
	}
}

func TestLoad_AllFailedLeavesStateUntouched(t *testing.T) {
	p := newMockProvider()
	svc := newService(p, nil)
	ctx := context.Background()

	if _, err := svc.SelectSeason(ctx, 2025, false); err != nil {
		t.Fatalf("SelectSeason(2025) error = %v", err)
	}

	p.failAll()
	_, err := svc.SelectSeason(ctx, 2024, false)
	if !errors.Is(err, season.ErrLoadFailed) {
		t.Fatalf("SelectSeason(2024) error = %v, want ErrLoadFailed", err)
	}
	if svc.CurrentSeason() != 2025 {
		t.Errorf("CurrentSeason() = %d, want 2025 kept", svc.CurrentSeason())
	}
	if _, ok := svc.Store().Get(2024); ok {
		t.Error("failed season should not be stored")
	}

	_, err = svc.Refresh(ctx)
	if !errors.Is(err, season.ErrLoadFailed) {
		t.Fatalf("Refresh() error = %v, want ErrLoadFailed", err)
	}
	snap, ok := svc.Store().Get(2025)
	if !ok || len(snap.Games) != 1 {
		t.Error("failed refresh replaced the previous snapshot")
	}
}

func TestLoad_CachedUnlessForced(t *testing.T) {
	p := newMockProvider()
	svc := newService(p, nil)
	ctx := context.Background()

	svc.Load(ctx, 2025, false)
	svc.Load(ctx, 2025, false)
	if n := atomic.LoadInt32(&p.scheduleCalls); n != 1 {
		t.Errorf("schedule fetched %d times, want 1", n)
	}

	svc.Load(ctx, 2025, true)
	if n := atomic.LoadInt32(&p.scheduleCalls); n != 2 {
		t.Errorf("schedule fetched %d times after force, want 2", n)
	}
}

func TestLoad_TeamNotFound(t *testing.T) {
	p := newMockProvider()
	normalizer := basketball_ncaa.New(basketball_ncaa.TeamIdentity{School: "Nowhere"}, time.UTC)
	svc := season.NewService(p, normalizer, season.NewStore(), nil, zap.NewNop(), 2025)

	_, err := svc.Load(context.Background(), 2025, false)
	if !errors.Is(err, season.ErrTeamNotFound) || !errors.Is(err, season.ErrLoadFailed) {
		t.Errorf("Load() error = %v, want ErrLoadFailed wrapping ErrTeamNotFound", err)
	}
}

func TestTeam_ConfiguredKeySurvivesTeamsOutage(t *testing.T) {
	p := newMockProvider()
	p.teamsErr = errUpstream
	normalizer := basketball_ncaa.New(basketball_ncaa.TeamIdentity{Key: "FLA"}, time.UTC)
	svc := season.NewService(p, normalizer, season.NewStore(), nil, zap.NewNop(), 2025)

	team, err := svc.Team(context.Background())
	if err != nil || team.Key != "FLA" {
		t.Errorf("Team() = %+v, %v, want FLA", team, err)
	}
}

func TestTeam_LogsSport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	normalizer := basketball_ncaa.New(basketball_ncaa.TeamIdentity{Key: "FLA"}, time.UTC)
	svc := season.NewService(newMockProvider(), normalizer, season.NewStore(), nil, zap.New(core), 2025)

	if key, name := svc.Sport(); key != "basketball_ncaab" || name != "NCAA Men's Basketball" {
		t.Errorf("Sport() = %q, %q", key, name)
	}
	if _, err := svc.Team(context.Background()); err != nil {
		t.Fatalf("Team() error = %v", err)
	}

	entries := logs.FilterMessage("tracked team resolved").All()
	if len(entries) != 1 {
		t.Fatalf("got %d resolution logs, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["team"] != "FLA" || fields["sport"] != "basketball_ncaab" || fields["league"] != "NCAA Men's Basketball" {
		t.Errorf("fields = %v", fields)
	}

	// resolved once per process
	svc.Team(context.Background())
	if n := logs.FilterMessage("tracked team resolved").Len(); n != 1 {
		t.Errorf("got %d resolution logs after second call, want 1", n)
	}
}

func TestSelectSeason_Invalid(t *testing.T) {
	svc := newService(newMockProvider(), nil)
	if _, err := svc.SelectSeason(context.Background(), 25, false); !errors.Is(err, season.ErrInvalidSeason) {
		t.Errorf("SelectSeason(25) error = %v, want ErrInvalidSeason", err)
	}
}

func TestOnChange(t *testing.T) {
	svc := newService(newMockProvider(), nil)
	var got []int
	svc.OnChange(func(s *season.Snapshot) { got = append(got, s.Season) })
	ctx := context.Background()

	svc.Current(ctx)
	svc.SelectSeason(ctx, 2024, false)
	svc.Refresh(ctx)

	want := []int{2025, 2024, 2024}
	if len(got) != len(want) {
		t.Fatalf("OnChange calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OnChange call %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSyncCurrentSeason(t *testing.T) {
	p := newMockProvider()
	p.currentSeason = 2026
	svc := newService(p, nil)

	got, err := svc.SyncCurrentSeason(context.Background())
	if err != nil {
		t.Fatalf("SyncCurrentSeason() error = %v", err)
	}
	if got != 2026 || svc.CurrentSeason() != 2026 {
		t.Errorf("SyncCurrentSeason() = %d, current %d, want 2026", got, svc.CurrentSeason())
	}
}

func TestStore_Seasons(t *testing.T) {
	store := season.NewStore()
	store.Put(&season.Snapshot{Season: 2025})
	store.Put(&season.Snapshot{Season: 2023})
	store.Put(&season.Snapshot{Season: 2025, Games: []models.Game{{GameID: 1}}})

	seasons := store.Seasons()
	if len(seasons) != 2 || seasons[0] != 2023 || seasons[1] != 2025 {
		t.Errorf("Seasons() = %v, want [2023 2025]", seasons)
	}
	snap, _ := store.Get(2025)
	if len(snap.Games) != 1 {
		t.Error("Put() should replace the earlier snapshot")
	}
}
