package extract

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/internal/phone"
)

// Tab-packed layout positions. The legacy export packs, in order:
// agency, client name, identifier, plate, vehicle, occupants, ...,
// an entry time/date field at offset 10 and the lot type at offset 12.
const (
	tabbedName       = 1
	tabbedIdentifier = 2
	tabbedPlate      = 3
	tabbedOccupants  = 5
	tabbedTimeDate   = 10
	tabbedLotType    = 12

	// minTabbedFields is the minimum field count for a usable packed row.
	minTabbedFields = 6
)

// ErrRowUnusable marks a row missing the minimum required fields.
var ErrRowUnusable = eris.New("extract: row unusable")

// Fields is the flat field set recovered from one row, before validation.
type Fields struct {
	Name           string
	PhoneCandidate string
	Plate          string
	EntryTime      string
	EntryDate      string
	LotType        string
	Occupants      string
}

// Extractor recovers Fields from rows of a single export file. Build one
// per file: it carries the resolved layout, the column map, and the active
// phone-source policy.
type Extractor struct {
	layout       model.Layout
	cols         columnMap
	pickupPolicy bool
	allowForeign bool
}

// NewExtractor prepares an extractor for an export with the given header.
// pickupPolicy selects the flight-field-first phone source used by the
// pickup templates; allowForeign is the foreign-number acceptance policy.
func NewExtractor(header []string, pickupPolicy, allowForeign bool) *Extractor {
	e := &Extractor{
		layout:       DetectLayout(len(header)),
		pickupPolicy: pickupPolicy,
		allowForeign: allowForeign,
	}
	if e.layout == model.LayoutTabular {
		e.cols = resolveColumns(header)
	}
	return e
}

// Layout reports the detected export shape.
func (e *Extractor) Layout() model.Layout {
	return e.layout
}

// Extract recovers the field set from one data row. rowNum is the 1-based
// position in the file, used for the fallback client name and diagnostics.
// Returns ErrRowUnusable when the row cannot supply the minimum fields.
func (e *Extractor) Extract(row []string, rowNum int) (*Fields, error) {
	if e.layout == model.LayoutTabbed {
		return e.extractTabbed(row, rowNum)
	}
	return e.extractTabular(row, rowNum)
}

func (e *Extractor) extractTabbed(row []string, rowNum int) (*Fields, error) {
	if len(row) == 0 {
		return nil, ErrRowUnusable
	}
	parts := strings.Split(row[0], "\t")
	if len(parts) < minTabbedFields {
		return nil, ErrRowUnusable
	}

	f := &Fields{
		Name:      fallback(cell(parts, tabbedName), fmt.Sprintf("Cliente %d", rowNum)),
		Plate:     fallback(cell(parts, tabbedPlate), model.NoPlate),
		Occupants: fallback(cell(parts, tabbedOccupants), model.Unspecified),
		LotType:   fallback(cell(parts, tabbedLotType), model.Unspecified),
	}

	// The packed layout carries time and date in the same field; the
	// separator decides which of the two is actually present.
	timeDate := cell(parts, tabbedTimeDate)
	f.EntryTime = model.DefaultTime
	if strings.Contains(timeDate, ":") {
		f.EntryTime = NormalizeTime(timeDate)
	}
	f.EntryDate = model.UnknownDate
	if strings.Contains(timeDate, "-") {
		f.EntryDate = NormalizeDate(timeDate)
	}

	f.PhoneCandidate = e.tabbedPhone(parts)

	return f, nil
}

// tabbedPhone applies the phone-source policy to a packed row. Under the
// pickup policy any field mentioning VUELTA or VUELO is scanned for an
// embedded number first; the identifier field is the fallback either way.
func (e *Extractor) tabbedPhone(parts []string) string {
	if e.pickupPolicy {
		for _, p := range parts {
			upper := strings.ToUpper(strings.TrimSpace(p))
			if !strings.Contains(upper, "VUELTA") && !strings.Contains(upper, "VUELO") {
				continue
			}
			if num := phone.ExtractFromNoisyField(p, e.allowForeign); num != "" {
				zap.L().Debug("extract: phone taken from flight field", zap.String("phone", num))
				return num
			}
		}
		zap.L().Debug("extract: no flight-field phone, falling back to identifier")
	}
	return cell(parts, tabbedIdentifier)
}

func (e *Extractor) extractTabular(row []string, rowNum int) (*Fields, error) {
	if len(row) == 0 {
		return nil, ErrRowUnusable
	}

	f := &Fields{
		Name:      fallback(cell(row, e.cols.name), fmt.Sprintf("Cliente %d", rowNum)),
		Plate:     fallback(cell(row, e.cols.plate), model.NoPlate),
		Occupants: fallback(cell(row, e.cols.occupants), model.Unspecified),
		LotType:   fallback(cell(row, e.cols.lotType), model.Unspecified),
		EntryTime: NormalizeTime(cell(row, e.cols.entryTime)),
		EntryDate: NormalizeDate(cell(row, e.cols.entryDate)),
	}

	f.PhoneCandidate = e.tabularPhone(row)

	return f, nil
}

// tabularPhone applies the phone-source policy to a named-column row.
func (e *Extractor) tabularPhone(row []string) string {
	if e.pickupPolicy {
		for _, idx := range e.cols.flight {
			v := cell(row, idx)
			if v == "" {
				continue
			}
			if num := phone.ExtractFromNoisyField(v, e.allowForeign); num != "" {
				zap.L().Debug("extract: phone taken from flight column",
					zap.Int("column", idx), zap.String("phone", num))
				return num
			}
			zap.L().Debug("extract: flight column held no valid number", zap.String("value", v))
		}
	}
	return cell(row, e.cols.identifier)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
