// Package logging persists semantic-fallback resolutions to a local
// SQLite database so resolution quality can be reviewed offline.
package logging

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type ResolutionRecord struct {
	ID          int64
	Timestamp   time.Time
	SceneID     string
	Utterance   string
	ResolvedKey string
	Outcome     string // resolved, none, invalid, error
	Error       string
	Latency     time.Duration
}

type ResolutionLog struct {
	db *sql.DB
}

func NewResolutionLog(path string) (*ResolutionLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log := &ResolutionLog{db: db}
	if err := log.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return log, nil
}

func (l *ResolutionLog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		scene_id TEXT NOT NULL,
		utterance TEXT NOT NULL,
		resolved_key TEXT NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL,
		latency_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resolutions_timestamp ON resolutions(timestamp);
	`

	_, err := l.db.Exec(schema)
	return err
}

func (l *ResolutionLog) Record(rec ResolutionRecord) error {
	_, err := l.db.Exec(`
		INSERT INTO resolutions (scene_id, utterance, resolved_key, outcome, error, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.SceneID, rec.Utterance, rec.ResolvedKey, rec.Outcome, rec.Error, rec.Latency.Milliseconds())

	return err
}

// Recent returns the newest records, newest first.
func (l *ResolutionLog) Recent(limit int) ([]ResolutionRecord, error) {
	rows, err := l.db.Query(`
		SELECT id, timestamp, scene_id, utterance, resolved_key, outcome, error, latency_ms
		FROM resolutions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ResolutionRecord
	for rows.Next() {
		var rec ResolutionRecord
		var latencyMS int64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.SceneID, &rec.Utterance, &rec.ResolvedKey, &rec.Outcome, &rec.Error, &latencyMS); err != nil {
			return nil, err
		}
		rec.Latency = time.Duration(latencyMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (l *ResolutionLog) Close() error {
	return l.db.Close()
}
