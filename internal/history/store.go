// Package history records what each send batch actually did: which file was
// processed, which template was used, and the per-contact outcomes. It is an
// audit trail for the operator, not an input to the pipeline; the tool works
// with history disabled.
package history

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/gobarajas/outreach-cli/internal/model"
)

// Store defines the batch audit persistence interface.
type Store interface {
	// CreateBatch registers a new batch and returns it with its ID set.
	CreateBatch(ctx context.Context, sourceFile, template string, total int) (*model.Batch, error)
	// RecordOutcome appends one contact's send result to a batch.
	RecordOutcome(ctx context.Context, batchID string, outcome model.Outcome) error
	// CompleteBatch finalizes a batch with its totals and terminal status.
	CompleteBatch(ctx context.Context, batchID string, sent, errors int, status model.BatchStatus) error
	// LastBatch returns the most recently started batch with its outcomes,
	// or nil when no batch exists.
	LastBatch(ctx context.Context) (*model.Batch, []model.Outcome, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("history: unknown driver %q", driver)
	}
}
