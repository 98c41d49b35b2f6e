package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/client"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/countdown"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/season"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/views"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestTimeout = 5 * time.Second
	// loads fan out to every season source
	loadTimeout = 20 * time.Second

	// SessionCookie identifies a browser for widget storage
	SessionCookie = "courtside_session"
	sessionMaxAge = 180 * 24 * 60 * 60
)

// SeasonService is the season context the handlers read from
type SeasonService interface {
	CurrentSeason() int
	Current(ctx context.Context) (*season.Snapshot, error)
	SelectSeason(ctx context.Context, season int, force bool) (*season.Snapshot, error)
	Store() *season.Store
	Sport() (key, name string)
}

// Countdown exposes the scheduler's latest reading
type Countdown interface {
	State() countdown.State
	Last() (models.CountdownReading, bool)
}

// WidgetService persists fan widgets per session
type WidgetService interface {
	Theme(ctx context.Context, session string) (string, error)
	SetTheme(ctx context.Context, session, theme string) error
	MVPVote(ctx context.Context, session string) (string, error)
	CastMVPVote(ctx context.Context, session, player string, options []string) error
	PositionPoll(ctx context.Context) (models.PositionPoll, error)
	VotePosition(ctx context.Context, position string) (models.PositionPoll, error)
	Notes(ctx context.Context, session string) (models.FanNotes, error)
	SaveNotes(ctx context.Context, session, body string) (models.FanNotes, error)
}

// Hub is the websocket broadcast hub
type Hub interface {
	Register(c *client.Client)
	Unregister(c *client.Client)
	ClientCount() int
}

// TokenCounter reports the outbound rate limiter's remaining tokens
type TokenCounter interface {
	Tokens(ctx context.Context) (int, error)
}

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds handler dependencies
type Config struct {
	Seasons        SeasonService
	Renderer       *views.Renderer
	Countdown      Countdown
	Widgets        WidgetService
	Hub            Hub
	Health         []Pinger
	RateLimit      TokenCounter // optional
	TeamName       string
	AllowedOrigins []string
	Logger         *zap.Logger
	// Context scopes websocket pumps; they outlive the upgrade request
	Context context.Context
	Now     func() time.Time
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	seasons   SeasonService
	renderer  *views.Renderer
	countdown Countdown
	widgets   WidgetService
	hub       Hub
	health    []Pinger
	rateLimit TokenCounter
	teamName  string
	origins   []string
	logger    *zap.Logger
	ctx       context.Context
	now       func() time.Time
}

// NewHandler creates a new handler with dependencies
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		seasons:   cfg.Seasons,
		renderer:  cfg.Renderer,
		countdown: cfg.Countdown,
		widgets:   cfg.Widgets,
		hub:       cfg.Hub,
		health:    cfg.Health,
		rateLimit: cfg.RateLimit,
		teamName:  cfg.TeamName,
		origins:   cfg.AllowedOrigins,
		logger:    cfg.Logger,
		ctx:       cfg.Context,
		now:       cfg.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.ctx == nil {
		h.ctx = context.Background()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.renderer == nil {
		h.renderer = views.NewRenderer(views.Options{})
	}
	return h
}

// Mount registers every route on r
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/", h.Dashboard)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/season", h.GetSeason)
		r.Put("/season", h.SelectSeason)

		r.Get("/schedule", h.GetSchedule)
		r.Get("/next-game", h.GetNextGame)
		r.Get("/countdown", h.GetCountdown)
		r.Get("/roster", h.GetRoster)
		r.Get("/stats", h.GetStats)
		r.Get("/analytics", h.GetAnalytics)
		r.Get("/tickets", h.GetTickets)
		r.Get("/sportsbooks", h.GetSportsbooks)

		r.Route("/widgets", func(r chi.Router) {
			r.Get("/theme", h.GetTheme)
			r.Put("/theme", h.SetTheme)
			r.Get("/mvp-vote", h.GetMVPVote)
			r.Put("/mvp-vote", h.CastMVPVote)
			r.Get("/position-poll", h.GetPositionPoll)
			r.Post("/position-poll", h.VotePosition)
			r.Get("/notes", h.GetNotes)
			r.Put("/notes", h.SaveNotes)
		})
	})
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, p := range h.health {
		if err := p.Ping(ctx); err != nil {
			h.respondError(w, http.StatusServiceUnavailable, "dependency unhealthy", err)
			return
		}
	}

	sport, league := h.seasons.Sport()
	body := map[string]interface{}{
		"status":         "healthy",
		"timestamp":      h.now().UTC(),
		"service":        "courtside",
		"sport":          sport,
		"league":         league,
		"current_season": h.seasons.CurrentSeason(),
		"loaded_seasons": h.seasons.Store().Seasons(),
	}
	if h.hub != nil {
		body["active_clients"] = h.hub.ClientCount()
	}
	if h.rateLimit != nil {
		tokens, err := h.rateLimit.Tokens(ctx)
		if err != nil {
			h.respondError(w, http.StatusServiceUnavailable, "rate limiter unavailable", err)
			return
		}
		body["outbound_tokens"] = tokens
	}
	respondJSON(w, http.StatusOK, body)
}

// snapshot loads the current season, answering the request itself on failure
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*season.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	defer cancel()

	snap, err := h.seasons.Current(ctx)
	if err != nil {
		h.respondSeasonError(w, err)
		return nil, false
	}
	return snap, true
}

func (h *Handler) respondSeasonError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, season.ErrInvalidSeason):
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, season.ErrLoadFailed):
		h.respondError(w, http.StatusBadGateway, season.ErrLoadFailed.Error(), err)
	default:
		h.respondError(w, http.StatusInternalServerError, "failed to load season", err)
	}
}

// session returns the browser's session id, issuing one when missing
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		h.logger.Warn(message, zap.Int("status", status), zap.Error(err))
	}
	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 64<<10))
	return dec.Decode(v)
}
