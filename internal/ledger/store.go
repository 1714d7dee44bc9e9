package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/pebblesync/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ledger (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const lastSummaryKey = "last_summary"

// Store persists the ledger and the last run summary in a SQLite state
// database.
type Store struct {
	conn *sql.DB
}

// OpenStore opens (or creates) the state database and applies the schema.
func OpenStore(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Load reads the persisted fingerprint sequence in insertion order.
func (s *Store) Load() (*Ledger, error) {
	rows, err := s.conn.Query(`SELECT fingerprint FROM ledger ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("ledger: load: %w", err)
	}
	defer rows.Close()

	var fps []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		fps = append(fps, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: load: %w", err)
	}
	return FromFingerprints(fps), nil
}

// Flush replaces the persisted sequence with the ledger's current content
// in one transaction and marks the ledger clean.
func (s *Store) Flush(l *Ledger) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("ledger: begin flush: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ledger`); err != nil {
		return fmt.Errorf("ledger: clear: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO ledger(fingerprint) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("ledger: prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, fp := range l.Fingerprints() {
		if _, err := stmt.Exec(fp); err != nil {
			return fmt.Errorf("ledger: insert %q: %w", fp, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledger: commit flush: %w", err)
	}
	l.MarkClean()
	return nil
}

// SaveSummary persists the most recent run summary for the status surfaces.
func (s *Store) SaveSummary(sum models.RunSummary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("ledger: marshal summary: %w", err)
	}
	_, err = s.conn.Exec(
		`INSERT INTO meta(key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastSummaryKey, string(data))
	if err != nil {
		return fmt.Errorf("ledger: save summary: %w", err)
	}
	return nil
}

// LastSummary returns the persisted summary of the most recent run, or
// (nil, nil) when no run has completed yet.
func (s *Store) LastSummary() (*models.RunSummary, error) {
	var raw string
	err := s.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, lastSummaryKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: last summary: %w", err)
	}
	var sum models.RunSummary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return nil, fmt.Errorf("ledger: decode summary: %w", err)
	}
	return &sum, nil
}
