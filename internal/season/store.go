package season

import (
	"sort"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
)

// Snapshot is everything loaded for one season
type Snapshot struct {
	Season        int
	Team          models.TrackedTeam
	Games         []models.Game
	Players       []models.Player
	PlayerStats   []models.PlayerSeasonStat
	TeamStats     *models.TeamSeasonStat
	Sportsbooks   []models.Sportsbook
	FailedSources []string
	LoadedAt      time.Time
}

// Summary describes the snapshot for clients and the update stream
func (s *Snapshot) Summary() models.SeasonSummary {
	return models.SeasonSummary{
		Season:        s.Season,
		Games:         len(s.Games),
		Players:       len(s.Players),
		PlayerStats:   len(s.PlayerStats),
		HasTeamTotals: s.TeamStats != nil,
		FailedSources: s.FailedSources,
		LoadedAt:      s.LoadedAt,
	}
}

// Store caches snapshots by season year for the life of the process.
// The last Put for a season wins.
type Store struct {
	mu      sync.RWMutex
	seasons map[int]*Snapshot
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{seasons: make(map[int]*Snapshot)}
}

// Get returns the snapshot for season
func (s *Store) Get(season int) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.seasons[season]
	return snap, ok
}

// Put replaces the snapshot for its season
func (s *Store) Put(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[snap.Season] = snap
}

// Seasons lists loaded seasons in ascending order
func (s *Store) Seasons() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.seasons))
	for season := range s.seasons {
		out = append(out, season)
	}
	sort.Ints(out)
	return out
}
