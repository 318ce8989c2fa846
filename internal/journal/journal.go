package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store appends predictions and rejected records to a SQLite database.
type Store struct {
	db *sql.DB
}

// Entry is one stored prediction.
type Entry struct {
	ID          string
	Label       int
	Probability float64
	Confidence  float64
	Verdict     string
	TenureGroup string
	Schema      string // schema fingerprint the prediction was made with
	CreatedAt   time.Time
}

// Rejection is one record the pipeline refused.
type Rejection struct {
	ID     string
	Stage  string
	Field  string
	Reason string
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id           TEXT PRIMARY KEY,
		label        INTEGER NOT NULL,
		probability  REAL NOT NULL,
		confidence   REAL NOT NULL,
		verdict      TEXT NOT NULL,
		tenure_group TEXT NOT NULL,
		schema_fp    TEXT DEFAULT '',
		created_at   DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);

	CREATE TABLE IF NOT EXISTS rejections (
		id         TEXT PRIMARY KEY,
		stage      TEXT NOT NULL,
		field      TEXT DEFAULT '',
		reason     TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordPrediction stores e, assigning an ID and timestamp when unset, and returns
// the ID.
func (s *Store) RecordPrediction(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, label, probability, confidence, verdict, tenure_group, schema_fp, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Label, e.Probability, e.Confidence, e.Verdict, e.TenureGroup, e.Schema, e.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("record prediction: %w", err)
	}
	return e.ID, nil
}

// RecordRejection stores r and returns its ID.
func (s *Store) RecordRejection(ctx context.Context, r Rejection) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rejections (id, stage, field, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Stage, r.Field, r.Reason, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("record rejection: %w", err)
	}
	return r.ID, nil
}

// Recent returns up to n predictions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, probability, confidence, verdict, tenure_group, schema_fp, created_at
		 FROM predictions ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Label, &e.Probability, &e.Confidence, &e.Verdict, &e.TenureGroup, &e.Schema, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RejectionCounts returns the number of rejections per stage.
func (s *Store) RejectionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(*) FROM rejections GROUP BY stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		out[stage] = n
	}
	return out, rows.Err()
}
