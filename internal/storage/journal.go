package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Action string

const (
	ActionCapture Action = "capture"
	ActionPaste   Action = "paste"
	ActionClear   Action = "clear"
)

// Event is one completed slot action. Slot contents are never journaled,
// only their length.
type Event struct {
	ContextID string
	Action    Action
	Chars     int
	Success   bool
	Timestamp time.Time // zero means now
}

// Journal is an append-only SQLite log of slot actions.
type Journal struct {
	conn      *sql.DB
	sessionID string
}

// Open opens the journal database and initializes the schema
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One writer is all the plugin ever needs, and it keeps SQLite happy.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	j := &Journal{conn: conn, sessionID: uuid.NewString()}
	if err := j.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return j, nil
}

func (j *Journal) Close() error {
	return j.conn.Close()
}

// SessionID identifies this process run in the journal.
func (j *Journal) SessionID() string {
	return j.sessionID
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slot_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		context_id TEXT NOT NULL,
		action TEXT NOT NULL,
		chars INTEGER NOT NULL,
		success BOOLEAN NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_slot_events_timestamp ON slot_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_slot_events_action ON slot_events(action);
	`

	_, err := j.conn.Exec(schema)
	return err
}

// Record appends one event.
func (j *Journal) Record(ctx context.Context, ev Event) error {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := j.conn.ExecContext(ctx,
		`INSERT INTO slot_events (session_id, timestamp, context_id, action, chars, success)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.sessionID, ts.UTC(), ev.ContextID, string(ev.Action), ev.Chars, ev.Success,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", ev.Action, err)
	}
	return nil
}
