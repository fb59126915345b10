// Package fetcher loads reservation exports, either from the local
// filesystem or from the agency FTP drop.
package fetcher

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet holds a loaded reservation export: the header row and every data
// row as raw cell strings.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Columns returns the number of columns in the export, taken from the
// header row. A single-column export is the tab-packed legacy shape.
func (s *Sheet) Columns() int {
	return len(s.Header)
}

// ReadSheet reads the first worksheet of an XLSX reservation export. The
// first row is treated as the header; remaining rows are returned verbatim.
func ReadSheet(path string) (*Sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	out := &Sheet{}
	for i, row := range f.Sheets[0].Rows {
		cells := rowToStrings(row)
		if i == 0 {
			out.Header = cells
			continue
		}
		out.Rows = append(out.Rows, cells)
	}

	if out.Header == nil {
		return nil, eris.Errorf("xlsx: %s is empty", path)
	}

	return out, nil
}

// StreamRows reads the first worksheet and sends every row, header included,
// to a channel. Both channels are closed when processing completes.
func StreamRows(ctx context.Context, path string) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		f, err := xlsx.OpenFile(path)
		if err != nil {
			errCh <- eris.Wrap(err, "xlsx: open file")
			return
		}
		if len(f.Sheets) == 0 {
			errCh <- eris.Errorf("xlsx: %s has no sheets", path)
			return
		}

		for _, row := range f.Sheets[0].Rows {
			select {
			case rowCh <- rowToStrings(row):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "xlsx: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
