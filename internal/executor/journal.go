package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"taskrelay/internal/logging"
)

// Journal is a durable record of finalized command ids. Delivery from the
// relay is at-least-once: if the command delete in finalization fails, the
// same id is rediscovered on a later poll. The journal lets the dispatcher
// recognize that case and clean up without re-executing the action, which
// matters for actions that are not idempotent (range splices, package
// installs).
type Journal struct {
	db *sql.DB
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS finalized (
	id           TEXT PRIMARY KEY,
	finalized_at TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	logging.Journal("journal open at %s", path)
	return &Journal{db: db}, nil
}

// Record marks a command id as finalized. Recording the same id twice is
// harmless.
func (j *Journal) Record(ctx context.Context, id string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO finalized (id, finalized_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", id, err)
	}
	return nil
}

// Seen reports whether a command id was already finalized.
func (j *Journal) Seen(ctx context.Context, id string) (bool, error) {
	var one int
	err := j.db.QueryRowContext(ctx,
		`SELECT 1 FROM finalized WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query journal: %w", err)
	}
	return true, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
