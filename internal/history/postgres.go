package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/gobarajas/outreach-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, extracted so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	template    TEXT NOT NULL,
	total       INTEGER NOT NULL,
	sent        INTEGER NOT NULL DEFAULT 0,
	errors      INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL DEFAULT 'running',
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS outcomes (
	id         TEXT PRIMARY KEY,
	batch_id   TEXT NOT NULL REFERENCES batches(id),
	idx        INTEGER NOT NULL,
	phone      TEXT NOT NULL,
	name       TEXT NOT NULL,
	sent       BOOLEAN NOT NULL,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at);
CREATE INDEX IF NOT EXISTS idx_outcomes_batch_id ON outcomes(batch_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateBatch(ctx context.Context, sourceFile, template string, total int) (*model.Batch, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO batches (id, source_file, template, total, status, started_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, sourceFile, template, total, string(model.BatchStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert batch")
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

func (s *PostgresStore) RecordOutcome(ctx context.Context, batchID string, outcome model.Outcome) error {
	id := outcome.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outcomes (id, batch_id, idx, phone, name, sent, error, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, batchID, outcome.Index, outcome.Phone, outcome.Name, outcome.Sent, outcome.Error, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: insert outcome for batch %s", batchID)
}

func (s *PostgresStore) CompleteBatch(ctx context.Context, batchID string, sent, errors int, status model.BatchStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE batches SET sent = $1, errors = $2, status = $3, finished_at = $4 WHERE id = $5`,
		sent, errors, string(status), time.Now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete batch %s", batchID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("batch not found: %s", batchID)
	}
	return nil
}

func (s *PostgresStore) LastBatch(ctx context.Context) (*model.Batch, []model.Outcome, error) {
	var b model.Batch
	var finished *time.Time

	err := s.pool.QueryRow(ctx,
		`SELECT id, source_file, template, total, sent, errors, status, started_at, finished_at
		 FROM batches ORDER BY started_at DESC LIMIT 1`,
	).Scan(&b.ID, &b.SourceFile, &b.Template, &b.Total, &b.Sent, &b.Errors, &b.Status, &b.StartedAt, &finished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, eris.Wrap(err, "postgres: get last batch")
	}
	b.FinishedAt = finished

	rows, err := s.pool.Query(ctx,
		`SELECT id, batch_id, idx, phone, name, sent, error, created_at FROM outcomes WHERE batch_id = $1 ORDER BY idx`,
		b.ID,
	)
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: list outcomes")
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		var o model.Outcome
		var errText *string
		if err := rows.Scan(&o.ID, &o.BatchID, &o.Index, &o.Phone, &o.Name, &o.Sent, &errText, &o.CreatedAt); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan outcome")
		}
		if errText != nil {
			o.Error = *errText
		}
		outcomes = append(outcomes, o)
	}
	return &b, outcomes, eris.Wrap(rows.Err(), "postgres: list outcomes iterate")
}
