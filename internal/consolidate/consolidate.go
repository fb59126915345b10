// Package consolidate merges multiple reservations of the same customer on
// the same day into one outbound contact, so nobody gets three reminder
// messages for three cars.
package consolidate

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/model"
)

var firstInt = regexp.MustCompile(`\d+`)

// Consolidate groups contacts by (phone, entry date) and merges groups with
// more than one member. Singleton groups pass through untouched, unconsolidated
// group output order follows first appearance of each group in the input, and
// representative fields (name, time, date, lot type) come from the group's
// first member.
//
// The unknown-date sentinel participates in the grouping key, so two
// reservations with the same phone and both dates unknown do merge. That
// mirrors long-standing behavior the operators rely on.
func Consolidate(contacts []model.Contact) []model.Contact {
	if len(contacts) == 0 {
		return contacts
	}

	groups := make(map[string][]model.Contact)
	var order []string

	for _, c := range contacts {
		key := c.Phone + "_" + c.EntryDate
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	out := make([]model.Contact, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		merged := merge(group)
		zap.L().Info("consolidate: merged reservations",
			zap.String("name", merged.Name),
			zap.Int("reservations", merged.ReservationCount),
			zap.Strings("plates", merged.Plates),
			zap.Int("total_occupants", merged.TotalOccupants))
		out = append(out, merged)
	}

	return out
}

// merge collapses a multi-reservation group into one consolidated contact.
func merge(group []model.Contact) model.Contact {
	base := group[0]

	var plates []string
	seen := make(map[string]struct{})
	total := 0
	for _, c := range group {
		if c.Plate != model.NoPlate {
			if _, dup := seen[c.Plate]; !dup {
				seen[c.Plate] = struct{}{}
				plates = append(plates, c.Plate)
			}
		}
		total += ParseOccupants(c.Occupants)
	}

	plate := strings.Join(plates, ", ")
	if plate == "" {
		plate = model.NoPlate
	}

	return model.Contact{
		Name:             base.Name,
		Phone:            base.Phone,
		Plate:            plate,
		EntryTime:        base.EntryTime,
		EntryDate:        base.EntryDate,
		LotType:          base.LotType,
		Occupants:        strconv.Itoa(total) + " personas",
		Consolidated:     true,
		Plates:           plates,
		TotalOccupants:   total,
		ReservationCount: len(group),
	}
}

// ParseOccupants best-effort parses an occupants field into a count. Pure
// digit strings parse directly; a "N personas" value contributes its first
// embedded integer; anything else counts as 1 so a merge never undercounts
// a reservation to zero.
func ParseOccupants(raw string) int {
	raw = strings.TrimSpace(raw)

	if isDigits(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	if strings.Contains(strings.ToLower(raw), "persona") {
		if m := firstInt.FindString(raw); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n
			}
		}
	}
	return 1
}

// isDigits reports whether s is a non-empty run of ASCII digits. Signed
// values like "-2" are rejected; an occupant count can never subtract.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
