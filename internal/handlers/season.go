package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/analytics"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/season"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/views"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// GetSeason returns the current season and what is loaded
func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	current := h.seasons.CurrentSeason()
	body := map[string]interface{}{
		"season":  current,
		"label":   views.SeasonLabel(current),
		"options": views.SeasonOptions(current),
		"loaded":  h.seasons.Store().Seasons(),
	}
	if snap, ok := h.seasons.Store().Get(current); ok {
		body["summary"] = snap.Summary()
	}
	respondJSON(w, http.StatusOK, body)
}

// SelectSeason switches the current season, loading it if needed
func (h *Handler) SelectSeason(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	defer cancel()

	var sel models.SeasonSelection
	if err := decodeBody(r, &sel); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snap, err := h.seasons.SelectSeason(ctx, sel.Season, sel.Force)
	if err != nil {
		h.respondSeasonError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap.Summary())
}

// GetSchedule lists games. Query params: view (all, upcoming, completed)
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	view, err := views.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.renderer.Schedule(snap.Season, snap.Games, snap.Team.Key, view, h.now()))
}

// GetNextGame returns the next game with a known date
func (h *Handler) GetNextGame(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	next, err := h.renderer.NextGame(snap.Games, snap.Team.Key, h.now())
	if errors.Is(err, views.ErrNoUpcomingGame) {
		h.respondError(w, http.StatusNotFound, "No upcoming games", nil)
		return
	}
	respondJSON(w, http.StatusOK, next)
}

// GetCountdown returns the scheduler state and its latest reading
func (h *Handler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{"state": h.countdown.State().String()}
	if reading, ok := h.countdown.Last(); ok {
		body["reading"] = reading
	}
	respondJSON(w, http.StatusOK, body)
}

// GetRoster lists current and former players. Query params: position
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	position := r.URL.Query().Get("position")
	respondJSON(w, http.StatusOK, views.Roster(snap.Players, snap.Team, snap.Season, position))
}

// GetStats lists player season stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, views.Stats(snap.Season, snap.PlayerStats))
}

// GetAnalytics returns derived team metrics
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, views.Analytics(report(snap)))
}

// GetTickets lists upcoming games with ticket links
func (h *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.renderer.Tickets(snap.Games, snap.Team.Key, h.now()))
}

// GetSportsbooks lists the feed's active sportsbooks
func (h *Handler) GetSportsbooks(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	books := snap.Sportsbooks
	if books == nil {
		books = []models.Sportsbook{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sportsbooks": books,
		"count":       len(books),
	})
}

// Dashboard renders the shell page. A failed load still renders, with
// a banner.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	defer cancel()

	current := h.seasons.CurrentSeason()
	data := views.PageData{
		TeamName: h.teamName,
		Season:   current,
		Seasons:  views.SeasonOptions(current),
		Record:   analytics.NoData,
	}

	if h.widgets != nil {
		theme, err := h.widgets.Theme(ctx, h.session(w, r))
		if err != nil {
			h.logger.Warn("loading theme", zap.Error(err))
		}
		data.Theme = theme
	}

	snap, err := h.seasons.Current(ctx)
	if err != nil {
		h.logger.Warn("dashboard season load failed", zap.Error(err))
		data.Banner = "Could not load season data. Try again shortly."
	} else {
		data.Record = report(snap).RecordDisplay
		if next, err := h.renderer.NextGame(snap.Games, snap.Team.Key, h.now()); err == nil {
			data.NextGame = &next
		}
	}
	if reading, ok := h.countdown.Last(); ok {
		data.Countdown = reading.Display
	}

	templ.Handler(views.Page(data)).ServeHTTP(w, r)
}

func report(snap *season.Snapshot) analytics.Report {
	return analytics.Compute(analytics.Input{
		Season:      snap.Season,
		TeamKey:     snap.Team.Key,
		Games:       snap.Games,
		PlayerStats: basketball_ncaa.DedupStats(snap.PlayerStats),
		TeamStats:   snap.TeamStats,
	})
}
