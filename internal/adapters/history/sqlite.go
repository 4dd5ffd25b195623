package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const sqliteTrimQuery = `
	DELETE FROM scan_history
	WHERE seq NOT IN (SELECT seq FROM scan_history ORDER BY seq DESC LIMIT ?)
`

// NewSQLiteHistory creates a scan history backed by a SQLite database file
func NewSQLiteHistory(
	dbPath string,
	logger *zap.Logger,
	maxEntries int,
	retention time.Duration,
	cleanupFreq time.Duration,
) (*SQLHistory, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// sqlite3 connections do not share in-memory databases or write locks
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL,
			classification TEXT NOT NULL,
			confidence REAL NOT NULL,
			explanation TEXT NOT NULL,
			features TEXT NOT NULL,
			indicators TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_scan_history_created_at ON scan_history(created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return newSQLHistory(db, "sqlite3", sqliteTrimQuery, logger, maxEntries, retention, cleanupFreq), nil
}
