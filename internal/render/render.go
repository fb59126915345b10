// Package render fills message templates with contact fields. Rendering never
// returns an error value; a template referencing an unknown variable produces
// Spanish error text in place of the message, so a bad template surfaces the
// broken placeholder name instead of crashing the batch.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gobarajas/outreach-cli/internal/model"
)

var placeholder = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Renderer substitutes template variables and sanitizes the result. The clock
// is injectable so tests can pin the {fecha_actual} value.
type Renderer struct {
	now func() time.Time
}

func New() *Renderer {
	return &Renderer{now: time.Now}
}

// NewWithClock builds a Renderer with a fixed clock. Tests only.
func NewWithClock(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

// Render fills tmpl with the contact's fields. Consolidated contacts get the
// joined plate list and total occupant count; plain contacts get their fields
// verbatim. {fecha_actual} is always the date at render time, never a date
// stored on the contact.
func (r *Renderer) Render(tmpl string, c model.Contact) string {
	vars := map[string]string{
		"nombre":       c.Name,
		"matricula":    c.Plate,
		"hora":         c.EntryTime,
		"fecha_actual": r.now().Format("02-01-2006"),
		"ocupantes":    c.Occupants,
	}

	label := "Error en la plantilla"
	if c.Consolidated {
		label = "Error en la plantilla consolidada"
		vars["matricula"] = JoinPlates(c.Plates)
		vars["ocupantes"] = fmt.Sprintf("%d personas total", c.TotalOccupants)
		vars["reservas_count"] = strconv.Itoa(c.ReservationCount)
	}

	msg, err := substitute(tmpl, vars)
	if err != nil {
		return fmt.Sprintf("%s: %s", label, err)
	}
	return Sanitize(msg)
}

// substitute replaces every {name} placeholder from vars. The first variable
// not present in vars aborts the whole render.
func substitute(tmpl string, vars map[string]string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("variable '%s' no encontrada", missing)
	}
	return out, nil
}

// JoinPlates renders a plate list in natural Spanish: one plate verbatim, two
// joined with "y", three or more comma-joined with a final "y". Lists longer
// than one carry a vehicle-count suffix so the customer knows the message
// covers several reservations.
func JoinPlates(plates []string) string {
	var joined string
	switch len(plates) {
	case 0:
		return model.NoPlate
	case 1:
		return plates[0]
	case 2:
		joined = plates[0] + " y " + plates[1]
	default:
		joined = strings.Join(plates[:len(plates)-1], ", ") + " y " + plates[len(plates)-1]
	}
	return fmt.Sprintf("%s (%d vehículos)", joined, len(plates))
}
