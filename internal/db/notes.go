package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	_ "github.com/lib/pq"
)

// NotesDB stores fan notes per browser session
type NotesDB interface {
	Ping(ctx context.Context) error
	GetNotes(ctx context.Context, sessionID string) (*models.FanNotes, error)
	SaveNotes(ctx context.Context, sessionID, body string) (*models.FanNotes, error)
}

// NotesPostgres implements NotesDB for PostgreSQL
type NotesPostgres struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS fan_notes (
		session_id TEXT PRIMARY KEY,
		body       TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// NewNotesPostgres opens the notes database
func NewNotesPostgres(dsn string) (*NotesPostgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &NotesPostgres{db: db}, nil
}

// EnsureSchema creates the fan_notes table when missing
func (n *NotesPostgres) EnsureSchema(ctx context.Context) error {
	if _, err := n.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create fan_notes: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (n *NotesPostgres) Ping(ctx context.Context) error {
	return n.db.PingContext(ctx)
}

// Close closes the pool
func (n *NotesPostgres) Close() error {
	return n.db.Close()
}

// GetNotes returns the session's notes, or nil when none were saved
func (n *NotesPostgres) GetNotes(ctx context.Context, sessionID string) (*models.FanNotes, error) {
	notes := &models.FanNotes{SessionID: sessionID}
	err := n.db.QueryRowContext(ctx,
		`SELECT body, updated_at FROM fan_notes WHERE session_id = $1`,
		sessionID,
	).Scan(&notes.Body, &notes.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fan notes: %w", err)
	}
	return notes, nil
}

// SaveNotes replaces the session's notes
func (n *NotesPostgres) SaveNotes(ctx context.Context, sessionID, body string) (*models.FanNotes, error) {
	query := `
		INSERT INTO fan_notes (session_id, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	notes := &models.FanNotes{SessionID: sessionID, Body: body}
	if err := n.db.QueryRowContext(ctx, query, sessionID, body).Scan(&notes.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert fan notes: %w", err)
	}
	return notes, nil
}
