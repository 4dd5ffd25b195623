package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQL rejects LIMIT inside an IN subquery, hence the derived table
const mysqlTrimQuery = `
	DELETE FROM scan_history
	WHERE seq NOT IN (
		SELECT seq FROM (SELECT seq FROM scan_history ORDER BY seq DESC LIMIT ?) AS recent
	)
`

// NewMySQLHistory creates a scan history backed by a MySQL database
func NewMySQLHistory(
	dsn string,
	logger *zap.Logger,
	maxEntries int,
	retention time.Duration,
	cleanupFreq time.Duration,
) (*SQLHistory, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_history (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			created_at BIGINT NOT NULL,
			classification VARCHAR(32) NOT NULL,
			confidence DOUBLE NOT NULL,
			explanation TEXT NOT NULL,
			features TEXT NOT NULL,
			indicators TEXT NOT NULL,
			user_id VARCHAR(255) NOT NULL DEFAULT '',
			INDEX idx_scan_history_created_at (created_at),
			INDEX idx_scan_history_user_id (user_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return newSQLHistory(db, "mysql", mysqlTrimQuery, logger, maxEntries, retention, cleanupFreq), nil
}
