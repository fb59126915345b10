// Package extract recovers contact fields from reservation-export rows.
// Two layouts exist in the wild: the legacy single-column export where every
// field is packed into one tab-separated cell, and the regular export with
// one named column per field. Layout is decided once per file from the
// column count, and for the tabular shape the header row is resolved into a
// typed column map up front so no lookup-by-name happens per row.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gobarajas/outreach-cli/internal/model"
)

// DetectLayout decides the export shape from the header width. A single
// column means the tab-packed legacy export.
func DetectLayout(columns int) model.Layout {
	if columns <= 1 {
		return model.LayoutTabbed
	}
	return model.LayoutTabular
}

// columnMap holds the resolved column index for each field of the tabular
// layout. -1 means the export lacks that column.
type columnMap struct {
	name       int
	identifier int
	plate      int
	entryTime  int
	entryDate  int
	lotType    int
	occupants  int
	flight     []int // columns whose header mentions VUELTA or VUELO
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldHeader lowercases a header and strips combining accents so that
// "Matrícula" and "MATRICULA" resolve to the same column.
func foldHeader(h string) string {
	folded, _, err := transform.String(foldAccents, h)
	if err != nil {
		folded = h
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// resolveColumns maps the header row of a tabular export to field indexes.
func resolveColumns(header []string) columnMap {
	cm := columnMap{
		name:       -1,
		identifier: -1,
		plate:      -1,
		entryTime:  -1,
		entryDate:  -1,
		lotType:    -1,
		occupants:  -1,
	}

	for i, h := range header {
		switch foldHeader(h) {
		case "cliente":
			cm.name = i
		case "nif":
			cm.identifier = i
		case "matricula":
			cm.plate = i
		case "hora entrada":
			cm.entryTime = i
		case "fecha entrada":
			cm.entryDate = i
		case "tipo de plaza":
			cm.lotType = i
		case "ocup.", "ocup":
			cm.occupants = i
		}

		upper := strings.ToUpper(h)
		if strings.Contains(upper, "VUELTA") || strings.Contains(upper, "VUELO") {
			cm.flight = append(cm.flight, i)
		}
	}

	return cm
}

// cell returns the trimmed value at idx, or "" when the column is absent,
// out of range, or carries the spreadsheet NaN literal.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	if v == "nan" {
		return ""
	}
	return v
}
