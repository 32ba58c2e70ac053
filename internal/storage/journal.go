// internal/storage/journal.go

// Package storage provides a SQLite-backed journal for the engine's event
// stream. The journal is a pure subscriber: the engine never reads it back
// and a journal write failure never affects engine control flow.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/curvelabs/launchpad/internal/events"
)

// Journal persists emitted events in an append-only table.
type Journal struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewJournal opens (or creates) the journal database at dbPath.
func NewJournal(dbPath string, logger *zap.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	j := &Journal{db: db, logger: logger.Named("journal")}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}
	return j, nil
}

// migrate creates the journal schema if it doesn't exist.
func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		emitted_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_asset ON events(asset_id);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Handle appends one event to the journal. Implements events.Handler.
func (j *Journal) Handle(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO events (asset_id, event_type, emitted_at, payload) VALUES (?, ?, ?, ?)`,
		event.Asset(), string(event.Type()), event.Timestamp(), string(payload))
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Attach subscribes the journal to every event on the stream.
func (j *Journal) Attach(stream *events.Stream) events.Subscription {
	return stream.Subscribe(events.AnyEvent, j)
}

// Count returns the number of journaled events, optionally filtered by asset.
// Used by operational tooling, never by the engine.
func (j *Journal) Count(ctx context.Context, assetID string) (int64, error) {
	var n int64
	var err error
	if assetID == "" {
		err = j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	} else {
		err = j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE asset_id = ?`, assetID).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Close flushes and closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

var _ events.Handler = (*Journal)(nil)
