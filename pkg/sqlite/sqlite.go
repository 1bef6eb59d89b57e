package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// NewSqliteDB opens (creating if needed) the database file at path and
// applies the schema. WAL keeps concurrent readers cheap; busy_timeout
// covers the rare write collision from the scrape worker.
func NewSqliteDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logrus.Infof("Successfully opened sqlite database at %s", path)
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			first_seen_utc TEXT NOT NULL,
			last_seen_utc TEXT NOT NULL,
			posted_at_utc TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			post_id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL,
			external_ref TEXT,
			created_at_utc TEXT NOT NULL,
			status TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS artist_cache (
			artist_key TEXT PRIMARY KEY,
			profile_json TEXT NOT NULL,
			fetched_at_utc TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_posted_at ON events(posted_at_utc)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_event_id ON posts(event_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}
