package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"go.uber.org/zap"
)

// State of the scheduler
type State int

const (
	Idle State = iota
	Counting
)

func (s State) String() string {
	if s == Counting {
		return "counting"
	}
	return "idle"
}

// Display receives each countdown reading
type Display interface {
	Show(reading models.CountdownReading)
}

// DisplayFunc adapts a function to Display
type DisplayFunc func(models.CountdownReading)

func (f DisplayFunc) Show(r models.CountdownReading) { f(r) }

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithInterval replaces the one-second tick
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// Scheduler owns the single countdown timer. Starting a new countdown
// cancels the previous one before anything else happens; a canceled run
// never publishes again because cancellation and publishing share mu.
type Scheduler struct {
	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	last     models.CountdownReading
	hasLast  bool
	now      func() time.Time
	interval time.Duration
	display  Display
	logger   *zap.Logger
}

// New creates an idle scheduler
func New(display Display, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		now:      time.Now,
		interval: time.Second,
		display:  display,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start counts down to target. The first reading is published before
// Start returns; a target already in the past publishes zeros and leaves
// the scheduler idle.
func (s *Scheduler) Start(target time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	reading := Remaining(target, s.now())
	s.publishLocked(reading)
	if reading.Done {
		s.logger.Debug("countdown target already passed", zap.Time("target", target))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = Counting
	s.logger.Info("countdown started", zap.Time("target", target))

	go s.run(ctx, target)
}

// Stop cancels any running countdown and returns to Idle. The last
// reading is dropped with it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.last = models.CountdownReading{}
	s.hasLast = false
}

// State reports the current state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the most recent reading
func (s *Scheduler) Last() (models.CountdownReading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

func (s *Scheduler) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = Idle
}

func (s *Scheduler) publishLocked(r models.CountdownReading) {
	s.last = r
	s.hasLast = true
	if s.display != nil {
		s.display.Show(r)
	}
}

func (s *Scheduler) run(ctx context.Context, target time.Time) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(ctx, target) {
				return
			}
		}
	}
}

// tick publishes one reading, reporting whether to keep going
func (s *Scheduler) tick(ctx context.Context, target time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return false
	}

	reading := Remaining(target, s.now())
	s.publishLocked(reading)
	if reading.Done {
		s.stopLocked()
		s.logger.Info("countdown reached zero", zap.Time("target", target))
		return false
	}
	return true
}

// Remaining splits the time left into days, hours, minutes and seconds
// by integer division of the millisecond delta. A delta of zero or less
// reads all zeros and Done.
func Remaining(target, now time.Time) models.CountdownReading {
	r := models.CountdownReading{Target: target}

	delta := target.Sub(now).Milliseconds()
	if delta <= 0 {
		r.Done = true
		r.Display = Format(0, 0, 0, 0)
		return r
	}

	const (
		second = int64(1000)
		minute = 60 * second
		hour   = 60 * minute
		day    = 24 * hour
	)
	r.Days = delta / day
	r.Hours = delta % day / hour
	r.Minutes = delta % hour / minute
	r.Seconds = delta % minute / second
	r.Display = Format(r.Days, r.Hours, r.Minutes, r.Seconds)
	return r
}

// Format renders "1d 01h 01m 01s"
func Format(days, hours, minutes, seconds int64) string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", days, hours, minutes, seconds)
}
