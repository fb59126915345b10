// Package pipeline turns a reservation export into the final contact list:
// stream rows, extract and validate each one, then consolidate duplicates.
// A pipeline run is side-effect-free apart from logging; every invocation
// works on a freshly loaded data set.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gobarajas/outreach-cli/internal/consolidate"
	"github.com/gobarajas/outreach-cli/internal/extract"
	"github.com/gobarajas/outreach-cli/internal/fetcher"
	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/internal/template"
)

// Options configures one pipeline run. Values come from configuration and
// flags at startup; nothing mutates them afterwards.
type Options struct {
	// TemplateName selects the message template; pickup templates change
	// where phone numbers are looked for.
	TemplateName string
	// AllowForeign accepts non-Spanish numbers.
	AllowForeign bool
	// Consolidate merges same-phone same-date reservations.
	Consolidate bool
	// ExcludedLotTypes drops rows whose lot type matches (the premium lots
	// are messaged by a separate process).
	ExcludedLotTypes []string
}

// Stats counts what happened to the input rows.
type Stats struct {
	RowsRead          int
	Extracted         int
	Skipped           int
	Merged            int
	TotalReservations int
}

// Result is the pipeline output.
type Result struct {
	Contacts []model.Contact
	Layout   model.Layout
	Stats    Stats
}

// Run processes the export at path into a ready-to-send contact list.
func Run(ctx context.Context, path string, opts Options) (*Result, error) {
	rows, errc := fetcher.StreamRows(ctx, path)

	pickup := template.IsPickup(opts.TemplateName)
	builder := extract.NewBuilder(opts.AllowForeign, opts.ExcludedLotTypes)

	g, ctx := errgroup.WithContext(ctx)
	extracted := make(chan model.Contact, 64)

	res := &Result{}

	g.Go(func() error {
		defer close(extracted)

		var ex *extract.Extractor
		rowNum := 0
		for row := range rows {
			rowNum++
			if ex == nil {
				ex = extract.NewExtractor(row, pickup, opts.AllowForeign)
				res.Layout = ex.Layout()
				continue
			}

			res.Stats.RowsRead++
			f, err := ex.Extract(row, rowNum)
			if err != nil {
				res.Stats.Skipped++
				continue
			}
			c, ok := builder.Build(f)
			if !ok {
				res.Stats.Skipped++
				continue
			}
			res.Stats.Extracted++

			select {
			case extracted <- *c:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := <-errc; err != nil {
			return err
		}
		if ex == nil {
			return eris.Errorf("pipeline: %s has no rows", path)
		}
		return nil
	})

	var contacts []model.Contact
	g.Go(func() error {
		for c := range extracted {
			contacts = append(contacts, c)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Consolidate {
		contacts = consolidate.Consolidate(contacts)
	}
	res.Contacts = contacts

	for _, c := range contacts {
		if c.Consolidated {
			res.Stats.Merged++
		}
		res.Stats.TotalReservations += c.Reservations()
	}

	zap.L().Info("pipeline: run complete",
		zap.String("file", path),
		zap.String("layout", string(res.Layout)),
		zap.Int("rows", res.Stats.RowsRead),
		zap.Int("contacts", len(contacts)),
		zap.Int("skipped", res.Stats.Skipped),
		zap.Int("merged", res.Stats.Merged))

	return res, nil
}
