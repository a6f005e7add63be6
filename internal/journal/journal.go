// Package journal keeps a durable record of every command answered by the
// server, backed by SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one answered request.
type Entry struct {
	ID       int64
	ConnID   string
	Cmd      string
	WidgetID string
	Status   string
	Reason   string
	Elapsed  time.Duration
	At       time.Time
}

// Journal is a SQLite-backed command log.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path. Use ":memory:" for a
// throwaway journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	j := &Journal{db: db}
	if err := j.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal %s: %w", path, err)
	}
	return j, nil
}

func (j *Journal) migrate(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS commands (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        conn_id TEXT NOT NULL,
        cmd TEXT NOT NULL,
        widget_id TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL,
        reason TEXT NOT NULL DEFAULT '',
        elapsed_ns INTEGER NOT NULL DEFAULT 0,
        at_ns INTEGER NOT NULL
    );`
	_, err := j.db.ExecContext(ctx, query)
	return err
}

// Record appends e. A zero At is stamped with the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO commands (conn_id, cmd, widget_id, status, reason, elapsed_ns, at_ns) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ConnID, e.Cmd, e.WidgetID, e.Status, e.Reason, int64(e.Elapsed), e.At.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", e.Cmd, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
        SELECT id, conn_id, cmd, widget_id, status, reason, elapsed_ns, at_ns
        FROM commands
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			elapsedNs int64
			atNs      int64
		)
		if err := rows.Scan(&e.ID, &e.ConnID, &e.Cmd, &e.WidgetID, &e.Status, &e.Reason, &elapsedNs, &atNs); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Elapsed = time.Duration(elapsedNs)
		e.At = time.Unix(0, atNs)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of recorded entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commands`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
