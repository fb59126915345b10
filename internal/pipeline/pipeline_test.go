package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/gobarajas/outreach-cli/internal/model"
)

var tabularHeader = []string{
	"Cliente", "NIF", "Matricula", "Hora entrada", "Fecha entrada", "Tipo de Plaza", "Ocup.", "Nº Vuelo VUELTA",
}

func writeTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Reservas")
	require.NoError(t, err)
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func defaultOpts() Options {
	return Options{
		TemplateName:     "RecordatorioCita",
		AllowForeign:     true,
		Consolidate:      true,
		ExcludedLotTypes: []string{"PREMIUM", "SUPERIOR"},
	}
}

func TestRun_TabularEndToEnd(t *testing.T) {
	path := writeTestXLSX(t, [][]string{
		tabularHeader,
		{"Ana García", "600111222", "AAA111", "14:30:00", "2024-05-01", "NORMAL", "2", ""},
		{"Ana García", "600111222", "BBB222", "14:30:00", "2024-05-01", "NORMAL", "3", ""},
		{"Carlos Ruiz", "611222333", "CCC333", "09:00:00", "2024-05-01", "PREMIUM", "1", ""},
	})

	res, err := Run(context.Background(), path, defaultOpts())
	require.NoError(t, err)

	assert.Equal(t, model.LayoutTabular, res.Layout)
	assert.Equal(t, 3, res.Stats.RowsRead)
	assert.Equal(t, 2, res.Stats.Extracted)
	assert.Equal(t, 1, res.Stats.Skipped) // PREMIUM lot excluded
	assert.Equal(t, 1, res.Stats.Merged)
	assert.Equal(t, 2, res.Stats.TotalReservations)

	require.Len(t, res.Contacts, 1)
	c := res.Contacts[0]
	assert.True(t, c.Consolidated)
	assert.Equal(t, "Ana García", c.Name)
	assert.Equal(t, []string{"AAA111", "BBB222"}, c.Plates)
	assert.Equal(t, 5, c.TotalOccupants)
	assert.Equal(t, 2, c.ReservationCount)
}

func TestRun_ConsolidationDisabled(t *testing.T) {
	path := writeTestXLSX(t, [][]string{
		tabularHeader,
		{"Ana", "600111222", "AAA111", "10:00", "2024-05-01", "NORMAL", "1", ""},
		{"Ana", "600111222", "BBB222", "10:00", "2024-05-01", "NORMAL", "1", ""},
	})

	opts := defaultOpts()
	opts.Consolidate = false

	res, err := Run(context.Background(), path, opts)
	require.NoError(t, err)

	assert.Len(t, res.Contacts, 2)
	assert.Equal(t, 0, res.Stats.Merged)
	assert.Equal(t, 2, res.Stats.TotalReservations)
}

func TestRun_TabbedLayout(t *testing.T) {
	packed := func(fields ...string) string { return strings.Join(fields, "\t") }
	path := writeTestXLSX(t, [][]string{
		{"Reservas"},
		{packed("AGENCIA", "Luis Gómez", "622334455", "1234ABC", "Coche", "2", "x", "x", "x", "x", "12:00:00", "x", "NORMAL")},
	})

	res, err := Run(context.Background(), path, defaultOpts())
	require.NoError(t, err)

	assert.Equal(t, model.LayoutTabbed, res.Layout)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Luis Gómez", res.Contacts[0].Name)
	assert.Equal(t, "622334455", res.Contacts[0].Phone)
	assert.Equal(t, "12:00", res.Contacts[0].EntryTime)
}

func TestRun_SkipsInvalidPhones(t *testing.T) {
	path := writeTestXLSX(t, [][]string{
		tabularHeader,
		{"Ana", "12345", "AAA111", "10:00", "2024-05-01", "NORMAL", "1", ""},
		{"Luis", "622334455", "BBB222", "10:00", "2024-05-01", "NORMAL", "1", ""},
	})

	res, err := Run(context.Background(), path, defaultOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Skipped)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Luis", res.Contacts[0].Name)
}

func TestRun_PickupTemplateUsesFlightColumn(t *testing.T) {
	path := writeTestXLSX(t, [][]string{
		tabularHeader,
		{"Ana", "X1234567Z", "AAA111", "10:00", "2024-05-01", "NORMAL", "1", "T4-T4-IB23677-609553462"},
	})

	opts := defaultOpts()
	opts.TemplateName = "RecogidaTardes"

	res, err := Run(context.Background(), path, opts)
	require.NoError(t, err)

	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "609553462", res.Contacts[0].Phone)
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), defaultOpts())
	assert.Error(t, err)
}

func TestRun_EmptySheet(t *testing.T) {
	path := writeTestXLSX(t, nil)

	_, err := Run(context.Background(), path, defaultOpts())
	assert.Error(t, err)
}
