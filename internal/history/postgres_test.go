package history

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobarajas/outreach-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgres_CreateBatch(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO batches`).
		WithArgs(pgxmock.AnyArg(), "reservas.xlsx", "RecordatorioCita", 10, "running", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	b, err := s.CreateBatch(context.Background(), "reservas.xlsx", "RecordatorioCita", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.BatchStatusRunning, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordOutcome(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO outcomes`).
		WithArgs(pgxmock.AnyArg(), "batch-1", 3, "+34600111222", "Ana", true, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.RecordOutcome(context.Background(), "batch-1", model.Outcome{
		Index: 3, Phone: "+34600111222", Name: "Ana", Sent: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteBatch_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE batches SET`).
		WithArgs(5, 1, "completed", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteBatch(context.Background(), "missing", 5, 1, model.BatchStatusCompleted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LastBatch_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, source_file, template, total, sent, errors, status, started_at, finished_at`).
		WillReturnError(pgx.ErrNoRows)

	b, outcomes, err := s.LastBatch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Nil(t, outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
