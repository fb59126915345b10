package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/gobarajas/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	template    TEXT NOT NULL,
	total       INTEGER NOT NULL,
	sent        INTEGER NOT NULL DEFAULT 0,
	errors      INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL DEFAULT 'running',
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS outcomes (
	id         TEXT PRIMARY KEY,
	batch_id   TEXT NOT NULL REFERENCES batches(id),
	idx        INTEGER NOT NULL,
	phone      TEXT NOT NULL,
	name       TEXT NOT NULL,
	sent       INTEGER NOT NULL,
	error      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at);
CREATE INDEX IF NOT EXISTS idx_outcomes_batch_id ON outcomes(batch_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateBatch(ctx context.Context, sourceFile, template string, total int) (*model.Batch, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, source_file, template, total, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sourceFile, template, total, string(model.BatchStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert batch")
	}

	return &model.Batch{
		ID:         id,
		SourceFile: sourceFile,
		Template:   template,
		Total:      total,
		Status:     model.BatchStatusRunning,
		StartedAt:  now,
	}, nil
}

func (s *SQLiteStore) RecordOutcome(ctx context.Context, batchID string, outcome model.Outcome) error {
	id := outcome.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, batch_id, idx, phone, name, sent, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, batchID, outcome.Index, outcome.Phone, outcome.Name, outcome.Sent, outcome.Error, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert outcome for batch %s", batchID)
}

func (s *SQLiteStore) CompleteBatch(ctx context.Context, batchID string, sent, errors int, status model.BatchStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batches SET sent = ?, errors = ?, status = ?, finished_at = ? WHERE id = ?`,
		sent, errors, string(status), time.Now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete batch %s", batchID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("batch not found: %s", batchID)
	}
	return nil
}

func (s *SQLiteStore) LastBatch(ctx context.Context) (*model.Batch, []model.Outcome, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_file, template, total, sent, errors, status, started_at, finished_at
		 FROM batches ORDER BY started_at DESC LIMIT 1`,
	)

	var b model.Batch
	var finished sql.NullTime
	err := row.Scan(&b.ID, &b.SourceFile, &b.Template, &b.Total, &b.Sent, &b.Errors, &b.Status, &b.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: get last batch")
	}
	if finished.Valid {
		b.FinishedAt = &finished.Time
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, idx, phone, name, sent, error, created_at FROM outcomes WHERE batch_id = ? ORDER BY idx`,
		b.ID,
	)
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: list outcomes")
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		var o model.Outcome
		var errText sql.NullString
		if err := rows.Scan(&o.ID, &o.BatchID, &o.Index, &o.Phone, &o.Name, &o.Sent, &errText, &o.CreatedAt); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		o.Error = errText.String
		outcomes = append(outcomes, o)
	}
	return &b, outcomes, eris.Wrap(rows.Err(), "sqlite: list outcomes iterate")
}
