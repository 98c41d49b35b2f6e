package season

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"go.uber.org/zap"
)

var (
	// ErrLoadFailed means every source failed; prior state is untouched
	ErrLoadFailed = errors.New("could not load season data")
	// ErrTeamNotFound means the tracked team is not in the teams feed
	ErrTeamNotFound = errors.New("tracked team not found in teams feed")
	// ErrInvalidSeason rejects nonsensical season years
	ErrInvalidSeason = errors.New("invalid season")
)

// Source names
const (
	SourceSchedule    = "schedule"
	SourcePlayers     = "players"
	SourcePlayerStats = "player_stats"
	SourceTeamStats   = "team_stats"
	SourceSportsbooks = "sportsbooks"
)

// Provider is the outbound feed
type Provider interface {
	Teams(ctx context.Context) ([]map[string]interface{}, error)
	TeamSchedule(ctx context.Context, season int, team string) ([]map[string]interface{}, error)
	Players(ctx context.Context, team string) ([]map[string]interface{}, error)
	PlayerSeasonStatsByTeam(ctx context.Context, season int, team string) ([]map[string]interface{}, error)
	TeamSeasonStats(ctx context.Context, season int) ([]map[string]interface{}, error)
	ActiveSportsbooks(ctx context.Context) ([]map[string]interface{}, error)
	AreAnyGamesInProgress(ctx context.Context) (bool, error)
	CurrentSeason(ctx context.Context) (int, error)
}

// Publisher announces loaded seasons
type Publisher interface {
	PublishSeasonLoaded(ctx context.Context, team string, summary models.SeasonSummary) error
}

// Service is the dashboard's context object: it owns the selected season,
// the resolved team and the store, and runs loads
type Service struct {
	provider   Provider
	normalizer contracts.FeedNormalizer
	store      *Store
	publisher  Publisher
	logger     *zap.Logger
	now        func() time.Time

	mu           sync.RWMutex
	current      int
	team         models.TrackedTeam
	teamResolved bool
	listeners    []func(*Snapshot)
}

// NewService creates a service with defaultSeason selected
func NewService(provider Provider, normalizer contracts.FeedNormalizer, store *Store, publisher Publisher, logger *zap.Logger, defaultSeason int) *Service {
	return &Service{
		provider:   provider,
		normalizer: normalizer,
		store:      store,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
		current:    defaultSeason,
	}
}

// OnChange registers a callback run whenever the current season's
// snapshot is replaced or a different season is selected
func (s *Service) OnChange(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// CurrentSeason returns the selected season
func (s *Service) CurrentSeason() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Store exposes the underlying season cache
func (s *Service) Store() *Store {
	return s.store
}

// Sport returns the normalizer's sport key and display name
func (s *Service) Sport() (key, name string) {
	return s.normalizer.GetSportKey(), s.normalizer.GetDisplayName()
}

// Team resolves the tracked team once per process
func (s *Service) Team(ctx context.Context) (models.TrackedTeam, error) {
	s.mu.RLock()
	if s.teamResolved {
		team := s.team
		s.mu.RUnlock()
		return team, nil
	}
	s.mu.RUnlock()

	teams, err := s.provider.Teams(ctx)
	if err != nil {
		// a configured key still works without the teams feed
		if team, ok := s.normalizer.DetectTeam(nil); ok {
			s.setTeam(team)
			s.logger.Warn("teams feed unavailable, using configured key", zap.String("team", team.Key), zap.Error(err))
			return team, nil
		}
		return models.TrackedTeam{}, fmt.Errorf("fetching teams: %w", err)
	}

	team, ok := s.normalizer.DetectTeam(teams)
	if !ok {
		return models.TrackedTeam{}, ErrTeamNotFound
	}
	s.setTeam(team)
	return team, nil
}

func (s *Service) setTeam(team models.TrackedTeam) {
	s.mu.Lock()
	s.team = team
	s.teamResolved = true
	s.mu.Unlock()

	sport, league := s.Sport()
	s.logger.Info("tracked team resolved",
		zap.String("team", team.Key),
		zap.Int("team_id", team.TeamID),
		zap.String("sport", sport),
		zap.String("league", league),
	)
}

// Current returns the selected season's snapshot, loading it on first use
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	season := s.CurrentSeason()
	if snap, ok := s.store.Get(season); ok {
		return snap, nil
	}
	snap, err := s.Load(ctx, season, false)
	if err != nil {
		return nil, err
	}
	if season == s.CurrentSeason() {
		s.notify(snap)
	}
	return snap, nil
}

// SelectSeason makes season current, loading it unless cached. On
// failure the previous selection stays.
func (s *Service) SelectSeason(ctx context.Context, season int, force bool) (*Snapshot, error) {
	if season < 1900 || season > 3000 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeason, season)
	}

	snap, err := s.Load(ctx, season, force)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = season
	s.mu.Unlock()

	s.logger.Info("season selected", zap.Int("season", season))
	s.notify(snap)
	return snap, nil
}

// Refresh force-reloads the current season
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	season := s.CurrentSeason()
	snap, err := s.Load(ctx, season, true)
	if err != nil {
		return nil, err
	}
	if season == s.CurrentSeason() {
		s.notify(snap)
	}
	return snap, nil
}

// SyncCurrentSeason follows the provider's current season
func (s *Service) SyncCurrentSeason(ctx context.Context) (int, error) {
	season, err := s.provider.CurrentSeason(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching current season: %w", err)
	}
	if season == s.CurrentSeason() {
		return season, nil
	}
	if _, err := s.SelectSeason(ctx, season, false); err != nil {
		return 0, err
	}
	return season, nil
}

// GamesInProgress proxies the provider's live flag
func (s *Service) GamesInProgress(ctx context.Context) (bool, error) {
	return s.provider.AreAnyGamesInProgress(ctx)
}

// Load returns the season's snapshot, fetching it when absent or forced
func (s *Service) Load(ctx context.Context, season int, force bool) (*Snapshot, error) {
	if !force {
		if snap, ok := s.store.Get(season); ok {
			return snap, nil
		}
	}

	team, err := s.Team(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	snap, err := s.fetch(ctx, season, team)
	if err != nil {
		s.logger.Error("season load failed", zap.Int("season", season), zap.Error(err))
		return nil, err
	}

	s.store.Put(snap)
	s.logger.Info("season loaded",
		zap.Int("season", season),
		zap.Int("games", len(snap.Games)),
		zap.Int("players", len(snap.Players)),
		zap.Strings("failed_sources", snap.FailedSources))

	if s.publisher != nil {
		if err := s.publisher.PublishSeasonLoaded(ctx, team.Key, snap.Summary()); err != nil {
			s.logger.Warn("publish season update failed", zap.Int("season", season), zap.Error(err))
		}
	}
	return snap, nil
}

type sourceResult struct {
	name string
	rows []map[string]interface{}
	err  error
}

// fetch pulls every source concurrently. A failed source becomes an
// empty collection; only a total failure is an error.
func (s *Service) fetch(ctx context.Context, season int, team models.TrackedTeam) (*Snapshot, error) {
	sources := []struct {
		name string
		call func(context.Context) ([]map[string]interface{}, error)
	}{
		{SourceSchedule, func(ctx context.Context) ([]map[string]interface{}, error) {
			return s.provider.TeamSchedule(ctx, season, team.Key)
		}},
		{SourcePlayers, func(ctx context.Context) ([]map[string]interface{}, error) {
			return s.provider.Players(ctx, "")
		}},
		{SourcePlayerStats, func(ctx context.Context) ([]map[string]interface{}, error) {
			return s.provider.PlayerSeasonStatsByTeam(ctx, season, team.Key)
		}},
		{SourceTeamStats, func(ctx context.Context) ([]map[string]interface{}, error) {
			return s.provider.TeamSeasonStats(ctx, season)
		}},
		{SourceSportsbooks, s.provider.ActiveSportsbooks},
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, name string, call func(context.Context) ([]map[string]interface{}, error)) {
			defer wg.Done()
			rows, err := call(ctx)
			results[i] = sourceResult{name: name, rows: rows, err: err}
		}(i, src.name, src.call)
	}
	wg.Wait()

	snap := &Snapshot{Season: season, Team: team, LoadedAt: s.now()}
	rows := make(map[string][]map[string]interface{}, len(results))
	var errs []error
	for _, r := range results {
		if r.err != nil {
			snap.FailedSources = append(snap.FailedSources, r.name)
			errs = append(errs, fmt.Errorf("%s: %w", r.name, r.err))
			s.logger.Warn("source failed", zap.String("source", r.name), zap.Int("season", season), zap.Error(r.err))
			continue
		}
		rows[r.name] = r.rows
	}
	if len(errs) == len(results) {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, errors.Join(errs...))
	}

	snap.Games = s.normalizer.NormalizeGames(rows[SourceSchedule])
	snap.Players = s.normalizer.NormalizePlayers(rows[SourcePlayers])
	snap.PlayerStats = s.normalizer.NormalizePlayerStats(rows[SourcePlayerStats])
	snap.Sportsbooks = s.normalizer.NormalizeSportsbooks(rows[SourceSportsbooks])
	for _, ts := range s.normalizer.NormalizeTeamStats(rows[SourceTeamStats]) {
		if ts.Team == team.Key {
			ts := ts
			snap.TeamStats = &ts
			break
		}
	}
	return snap, nil
}

func (s *Service) notify(snap *Snapshot) {
	s.mu.RLock()
	listeners := make([]func(*Snapshot), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
