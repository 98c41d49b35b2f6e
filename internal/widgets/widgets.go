package widgets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/db"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Poll positions, also the hash fields of the shared tally
const (
	PositionGuards   = "guards"
	PositionForwards = "forwards"
	PositionCenters  = "centers"
)

const (
	// MVPOptionCount is how many current players the MVP poll offers
	MVPOptionCount = 8
	// MaxNotesLength caps a session's notes in characters
	MaxNotesLength = 10000
	// SessionTTL is how long per-session widget keys live in Redis
	SessionTTL = 180 * 24 * time.Hour

	positionPollKey = "courtside:widgets:position_poll"
)

var (
	ErrInvalidTheme    = errors.New("theme must be light or dark")
	ErrInvalidPosition = errors.New("position must be guards, forwards or centers")
	ErrInvalidVote     = errors.New("vote is not one of the poll options")
	ErrNotesTooLong    = fmt.Errorf("notes exceed %d characters", MaxNotesLength)
)

// Store is the subset of Redis commands the widgets use
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// Service persists the fan widgets: theme and MVP vote per session in
// Redis, the position tally shared in Redis, notes in Postgres
type Service struct {
	store Store
	notes db.NotesDB
}

// NewService creates a widget service
func NewService(store Store, notes db.NotesDB) *Service {
	return &Service{store: store, notes: notes}
}

func sessionKey(session, widget string) string {
	return fmt.Sprintf("courtside:widgets:%s:%s", session, widget)
}

// Theme returns the session's theme, light when unset
func (s *Service) Theme(ctx context.Context, session string) (string, error) {
	theme, err := s.store.Get(ctx, sessionKey(session, "theme")).Result()
	if err == redis.Nil {
		return ThemeLight, nil
	}
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	return theme, nil
}

// SetTheme stores the session's theme
func (s *Service) SetTheme(ctx context.Context, session, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	if err := s.store.Set(ctx, sessionKey(session, "theme"), theme, SessionTTL).Err(); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

// MVPOptions lists the first MVPOptionCount names of the current roster
func MVPOptions(current []models.Player) []string {
	out := make([]string, 0, MVPOptionCount)
	for _, p := range current {
		if len(out) == MVPOptionCount {
			break
		}
		if p.Name == "" {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

// MVPVote returns the session's vote, "" when none
func (s *Service) MVPVote(ctx context.Context, session string) (string, error) {
	vote, err := s.store.Get(ctx, sessionKey(session, "mvp_vote")).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get mvp vote: %w", err)
	}
	return vote, nil
}

// CastMVPVote records a single selection among options, replacing any
// earlier vote
func (s *Service) CastMVPVote(ctx context.Context, session, player string, options []string) error {
	if !contains(options, player) {
		return ErrInvalidVote
	}
	if err := s.store.Set(ctx, sessionKey(session, "mvp_vote"), player, SessionTTL).Err(); err != nil {
		return fmt.Errorf("set mvp vote: %w", err)
	}
	return nil
}

// PositionPoll returns the shared tally
func (s *Service) PositionPoll(ctx context.Context) (models.PositionPoll, error) {
	fields, err := s.store.HGetAll(ctx, positionPollKey).Result()
	if err != nil {
		return models.PositionPoll{}, fmt.Errorf("get position poll: %w", err)
	}
	return models.PositionPoll{
		Guards:   parseCount(fields[PositionGuards]),
		Forwards: parseCount(fields[PositionForwards]),
		Centers:  parseCount(fields[PositionCenters]),
	}, nil
}

// VotePosition adds one vote and returns the updated tally
func (s *Service) VotePosition(ctx context.Context, position string) (models.PositionPoll, error) {
	position = strings.ToLower(strings.TrimSpace(position))
	switch position {
	case PositionGuards, PositionForwards, PositionCenters:
	default:
		return models.PositionPoll{}, ErrInvalidPosition
	}
	if err := s.store.HIncrBy(ctx, positionPollKey, position, 1).Err(); err != nil {
		return models.PositionPoll{}, fmt.Errorf("increment position poll: %w", err)
	}
	return s.PositionPoll(ctx)
}

// Notes returns the session's notes; an empty body when none were saved
func (s *Service) Notes(ctx context.Context, session string) (models.FanNotes, error) {
	notes, err := s.notes.GetNotes(ctx, session)
	if err != nil {
		return models.FanNotes{}, err
	}
	if notes == nil {
		return models.FanNotes{SessionID: session}, nil
	}
	return *notes, nil
}

// SaveNotes replaces the session's notes
func (s *Service) SaveNotes(ctx context.Context, session, body string) (models.FanNotes, error) {
	if utf8.RuneCountInString(body) > MaxNotesLength {
		return models.FanNotes{}, ErrNotesTooLong
	}
	notes, err := s.notes.SaveNotes(ctx, session, body)
	if err != nil {
		return models.FanNotes{}, err
	}
	return *notes, nil
}

// IsValidationError reports whether err is a bad-input error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTheme) ||
		errors.Is(err, ErrInvalidPosition) ||
		errors.Is(err, ErrInvalidVote) ||
		errors.Is(err, ErrNotesTooLong)
}

func parseCount(v string) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
