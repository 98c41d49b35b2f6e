package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/season"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	pollTimeout = 30 * time.Second
	syncTimeout = 2 * time.Minute
)

// SeasonService is what the pollers drive
type SeasonService interface {
	GamesInProgress(ctx context.Context) (bool, error)
	Refresh(ctx context.Context) (*season.Snapshot, error)
	SyncCurrentSeason(ctx context.Context) (int, error)
}

// LivePoller reloads the current season while games are in progress
type LivePoller struct {
	svc    SeasonService
	period time.Duration
	logger *zap.Logger
}

// NewLivePoller creates a poller that checks every period
func NewLivePoller(svc SeasonService, period time.Duration, logger *zap.Logger) *LivePoller {
	if period <= 0 {
		period = time.Minute
	}
	return &LivePoller{svc: svc, period: period, logger: logger}
}

// Run polls until ctx is done
func (p *LivePoller) Run(ctx context.Context) {
	p.logger.Info("live poller started", zap.Duration("period", p.period))

	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("live poller stopped")
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce refreshes the season if any game is live. It reports whether
// a refresh succeeded.
func (p *LivePoller) PollOnce(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	live, err := p.svc.GamesInProgress(ctx)
	if err != nil {
		p.logger.Warn("checking games in progress", zap.Error(err))
		return false
	}
	if !live {
		return false
	}

	snap, err := p.svc.Refresh(ctx)
	if err != nil {
		p.logger.Error("live refresh failed", zap.Error(err))
		return false
	}
	p.logger.Debug("live refresh", zap.Int("season", snap.Season), zap.Int("games", len(snap.Games)))
	return true
}

// SeasonSync follows the feed's current season on a cron schedule
type SeasonSync struct {
	svc    SeasonService
	cron   *cron.Cron
	logger *zap.Logger
}

// NewSeasonSync schedules the sync with a standard five-field cron spec
// evaluated in loc
func NewSeasonSync(svc SeasonService, spec string, loc *time.Location, logger *zap.Logger) (*SeasonSync, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &SeasonSync{
		svc:    svc,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		s.SyncOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("parsing season sync schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background
func (s *SeasonSync) Start() {
	s.cron.Start()
	s.logger.Info("season sync scheduled", zap.Int("entries", len(s.cron.Entries())))
}

// Stop halts the schedule and waits for a running sync
func (s *SeasonSync) Stop() {
	<-s.cron.Stop().Done()
}

// Next returns the next scheduled run, zero before Start
func (s *SeasonSync) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// SyncOnce reads the feed's current season and selects it if it moved
func (s *SeasonSync) SyncOnce(ctx context.Context) (int, error) {
	current, err := s.svc.SyncCurrentSeason(ctx)
	if err != nil {
		s.logger.Error("season sync failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("season sync", zap.Int("season", current))
	return current, nil
}
