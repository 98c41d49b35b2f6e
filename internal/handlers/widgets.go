package handlers

import (
	"context"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/widgets"
)

type themeRequest struct {
	Theme string `json:"theme"`
}

type voteRequest struct {
	Player string `json:"player"`
}

type positionRequest struct {
	Position string `json:"position"`
}

type notesRequest struct {
	Body string `json:"body"`
}

// GetTheme returns the session's theme
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	theme, err := h.widgets.Theme(ctx, h.session(w, r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load theme", err)
		return
	}
	respondJSON(w, http.StatusOK, themeRequest{Theme: theme})
}

// SetTheme stores the session's theme
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req themeRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.widgets.SetTheme(ctx, h.session(w, r), req.Theme); err != nil {
		h.respondWidgetError(w, "failed to save theme", err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

// mvpOptions lists the poll's candidates from the current roster
func (h *Handler) mvpOptions(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return nil, false
	}
	return widgets.MVPOptions(basketball_ncaa.CurrentRoster(snap.Players, snap.Team, snap.Season)), true
}

// GetMVPVote returns the poll options and the session's vote
func (h *Handler) GetMVPVote(w http.ResponseWriter, r *http.Request) {
	options, ok := h.mvpOptions(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	vote, err := h.widgets.MVPVote(ctx, h.session(w, r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load vote", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"options": options,
		"vote":    vote,
	})
}

// CastMVPVote records the session's MVP selection
func (h *Handler) CastMVPVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	options, ok := h.mvpOptions(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.widgets.CastMVPVote(ctx, h.session(w, r), req.Player, options); err != nil {
		h.respondWidgetError(w, "failed to save vote", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"options": options,
		"vote":    req.Player,
	})
}

// GetPositionPoll returns the shared position tally
func (h *Handler) GetPositionPoll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	poll, err := h.widgets.PositionPoll(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load poll", err)
		return
	}
	respondJSON(w, http.StatusOK, poll)
}

// VotePosition adds one vote to the position tally
func (h *Handler) VotePosition(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req positionRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	poll, err := h.widgets.VotePosition(ctx, req.Position)
	if err != nil {
		h.respondWidgetError(w, "failed to save vote", err)
		return
	}
	respondJSON(w, http.StatusOK, poll)
}

// GetNotes returns the session's fan notes
func (h *Handler) GetNotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	notes, err := h.widgets.Notes(ctx, h.session(w, r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load notes", err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

// SaveNotes replaces the session's fan notes
func (h *Handler) SaveNotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req notesRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	notes, err := h.widgets.SaveNotes(ctx, h.session(w, r), req.Body)
	if err != nil {
		h.respondWidgetError(w, "failed to save notes", err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

func (h *Handler) respondWidgetError(w http.ResponseWriter, message string, err error) {
	if widgets.IsValidationError(err) {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	h.respondError(w, http.StatusInternalServerError, message, err)
}
