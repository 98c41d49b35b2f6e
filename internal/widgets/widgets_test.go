package widgets_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/widgets"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/redis/go-redis/v9"
)

// memoryStore is an in-memory stand-in for the Redis commands widgets use
type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	hashes map[string]map[string]int64
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
		hashes: make(map[string]map[string]int64),
	}
}

func (m *memoryStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.values[key] = value.(string)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryStore) HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	if m.hashes[key] == nil {
		m.hashes[key] = make(map[string]int64)
	}
	m.hashes[key][field] += incr
	return redis.NewIntResult(m.hashes[key][field], nil)
}

func (m *memoryStore) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	if m.err != nil {
		return redis.NewMapStringStringResult(nil, m.err)
	}
	out := make(map[string]string)
	for f, v := range m.hashes[key] {
		out[f] = strconv.FormatInt(v, 10)
	}
	return redis.NewMapStringStringResult(out, nil)
}

// MockNotesDB implements db.NotesDB
type MockNotesDB struct {
	notes map[string]string
	err   error
}

func (m *MockNotesDB) Ping(ctx context.Context) error { return m.err }

func (m *MockNotesDB) GetNotes(ctx context.Context, sessionID string) (*models.FanNotes, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.notes[sessionID]
	if !ok {
		return nil, nil
	}
	return &models.FanNotes{SessionID: sessionID, Body: body}, nil
}

func (m *MockNotesDB) SaveNotes(ctx context.Context, sessionID, body string) (*models.FanNotes, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.notes[sessionID] = body
	return &models.FanNotes{SessionID: sessionID, Body: body, UpdatedAt: time.Now()}, nil
}

func newService() (*widgets.Service, *memoryStore, *MockNotesDB) {
	store := newMemoryStore()
	notes := &MockNotesDB{notes: make(map[string]string)}
	return widgets.NewService(store, notes), store, notes
}

func TestTheme(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	theme, err := svc.Theme(ctx, "s1")
	if err != nil || theme != widgets.ThemeLight {
		t.Fatalf("Theme() = %q, %v; want light default", theme, err)
	}

	if err := svc.SetTheme(ctx, "s1", " Dark "); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	if theme, _ := svc.Theme(ctx, "s1"); theme != widgets.ThemeDark {
		t.Errorf("Theme() = %q, want dark", theme)
	}
	if ttl := store.ttls["courtside:widgets:s1:theme"]; ttl != widgets.SessionTTL {
		t.Errorf("theme TTL = %v, want %v", ttl, widgets.SessionTTL)
	}
	if theme, _ := svc.Theme(ctx, "s2"); theme != widgets.ThemeLight {
		t.Errorf("other session theme = %q, want light", theme)
	}

	if err := svc.SetTheme(ctx, "s1", "neon"); !errors.Is(err, widgets.ErrInvalidTheme) {
		t.Errorf("SetTheme(neon) error = %v, want ErrInvalidTheme", err)
	}
}

func TestTheme_StoreError(t *testing.T) {
	svc, store, _ := newService()
	store.err = errors.New("connection refused")
	if _, err := svc.Theme(context.Background(), "s1"); err == nil {
		t.Error("Theme() should surface store errors")
	}
}

func TestMVPOptions(t *testing.T) {
	var players []models.Player
	for i := 0; i < 10; i++ {
		players = append(players, models.Player{Name: "Player " + strconv.Itoa(i)})
	}
	players[1].Name = ""

	got := widgets.MVPOptions(players)
	if len(got) != widgets.MVPOptionCount {
		t.Fatalf("len = %d, want %d", len(got), widgets.MVPOptionCount)
	}
	if got[0] != "Player 0" || got[1] != "Player 2" {
		t.Errorf("options = %v, nameless players should be skipped", got)
	}
}

func TestMVPVote(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	options := []string{"Walter Clayton Jr.", "Alijah Martin"}

	if vote, _ := svc.MVPVote(ctx, "s1"); vote != "" {
		t.Fatalf("MVPVote() = %q before voting, want empty", vote)
	}
	if err := svc.CastMVPVote(ctx, "s1", "Walter Clayton Jr.", options); err != nil {
		t.Fatalf("CastMVPVote() error = %v", err)
	}
	if err := svc.CastMVPVote(ctx, "s1", "Alijah Martin", options); err != nil {
		t.Fatalf("CastMVPVote() second vote error = %v", err)
	}
	if vote, _ := svc.MVPVote(ctx, "s1"); vote != "Alijah Martin" {
		t.Errorf("MVPVote() = %q, want the latest selection", vote)
	}
	if err := svc.CastMVPVote(ctx, "s1", "Somebody Else", options); !errors.Is(err, widgets.ErrInvalidVote) {
		t.Errorf("CastMVPVote(unknown) error = %v, want ErrInvalidVote", err)
	}
}

func TestPositionPoll(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	poll, err := svc.PositionPoll(ctx)
	if err != nil || poll.Total() != 0 {
		t.Fatalf("PositionPoll() = %+v, %v; want empty tally", poll, err)
	}

	for _, pos := range []string{"guards", "Guards", "centers"} {
		if _, err := svc.VotePosition(ctx, pos); err != nil {
			t.Fatalf("VotePosition(%q) error = %v", pos, err)
		}
	}
	poll, _ = svc.PositionPoll(ctx)
	want := models.PositionPoll{Guards: 2, Centers: 1}
	if poll != want {
		t.Errorf("PositionPoll() = %+v, want %+v", poll, want)
	}

	if _, err := svc.VotePosition(ctx, "point"); !errors.Is(err, widgets.ErrInvalidPosition) {
		t.Errorf("VotePosition(point) error = %v, want ErrInvalidPosition", err)
	}
}

func TestNotes(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	notes, err := svc.Notes(ctx, "s1")
	if err != nil || notes.Body != "" {
		t.Fatalf("Notes() = %+v, %v; want empty", notes, err)
	}

	if _, err := svc.SaveNotes(ctx, "s1", "Go Gators"); err != nil {
		t.Fatalf("SaveNotes() error = %v", err)
	}
	notes, _ = svc.Notes(ctx, "s1")
	if notes.Body != "Go Gators" {
		t.Errorf("Notes() body = %q", notes.Body)
	}

	long := strings.Repeat("x", widgets.MaxNotesLength+1)
	if _, err := svc.SaveNotes(ctx, "s1", long); !errors.Is(err, widgets.ErrNotesTooLong) {
		t.Errorf("SaveNotes(long) error = %v, want ErrNotesTooLong", err)
	}
	if !widgets.IsValidationError(widgets.ErrNotesTooLong) {
		t.Error("ErrNotesTooLong should be a validation error")
	}
}
