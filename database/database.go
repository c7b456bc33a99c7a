// Package database persists a session's captured events and final rule
// classification to sqlite for post-hoc inspection.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/secaudit/avc-audit/avc"
	"github.com/secaudit/avc-audit/policy"
)

// DB handles database operations
type DB struct {
	db *sql.DB
}

// NewDB creates or opens the session database under dataDir.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "avc_audit.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %v", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	return &DB{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  DATETIME NOT NULL,
		context     TEXT NOT NULL,
		event_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  INTEGER NOT NULL REFERENCES sessions(id),
		pid         INTEGER NOT NULL,
		comm        TEXT NOT NULL,
		class       TEXT NOT NULL,
		permissions TEXT NOT NULL,
		ssid        INTEGER NOT NULL,
		tsid        INTEGER NOT NULL,
		fast_path   INTEGER NOT NULL,
		timestamp   INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rule_usage (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id   INTEGER NOT NULL REFERENCES sessions(id),
		source       TEXT NOT NULL,
		target       TEXT NOT NULL,
		class        TEXT NOT NULL,
		category     TEXT NOT NULL,
		used_perms   TEXT,
		unused_perms TEXT
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %v", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);",
		"CREATE INDEX IF NOT EXISTS idx_events_pid ON events(pid);",
		"CREATE INDEX IF NOT EXISTS idx_rule_usage_session ON rule_usage(session_id);",
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %v", err)
		}
	}
	return nil
}

// BeginSession records a new session row and returns its ID.
func (d *DB) BeginSession(context string) (int64, error) {
	res, err := d.db.Exec(
		"INSERT INTO sessions (started_at, context) VALUES (?, ?)",
		time.Now(), context,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %v", err)
	}
	return res.LastInsertId()
}

// InsertEvents stores the session's event log in one transaction.
func (d *DB) InsertEvents(sessionID int64, events []avc.PermissionEvent) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events (session_id, pid, comm, class, permissions, ssid, tsid, fast_path, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		fastPath := 0
		if ev.FastPath {
			fastPath = 1
		}
		if _, err := stmt.Exec(
			sessionID, ev.Pid, ev.Comm, ev.Class,
			strings.Join(ev.Permissions, " "),
			ev.Ssid, ev.Tsid, fastPath, ev.Timestamp,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert event: %v", err)
		}
	}

	if _, err := tx.Exec(
		"UPDATE sessions SET event_count = ? WHERE id = ?",
		len(events), sessionID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update session: %v", err)
	}

	return tx.Commit()
}

// InsertReport stores the per-rule classification.
func (d *DB) InsertReport(sessionID int64, rep policy.Report) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rule_usage (session_id, source, target, class, category, used_perms, unused_perms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, ru := range rep.Rules {
		if _, err := stmt.Exec(
			sessionID, ru.Rule.Source, ru.Rule.Target, ru.Rule.Class,
			categoryName(ru.Category),
			strings.Join(ru.Used, " "),
			strings.Join(ru.Unused, " "),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert rule usage: %v", err)
		}
	}

	return tx.Commit()
}

func categoryName(c policy.Category) string {
	switch c {
	case policy.FullyUsed:
		return "fully_used"
	case policy.PartiallyUsed:
		return "partially_used"
	default:
		return "completely_unused"
	}
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
