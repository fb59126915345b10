package model

// Sentinel values used when a source row is missing a field. They match the
// literals the reservation exports have always carried, so downstream
// filtering and template output stay compatible with the legacy tooling.
const (
	NoPlate     = "Sin matrícula"
	Unspecified = "Sin especificar"
	UnknownDate = "unknown"
	DefaultTime = "00:00"
)

// Layout identifies which of the two reservation-export shapes a file uses.
type Layout string

const (
	// LayoutTabbed is the single-column export: every field of a logical
	// row packed into one cell, tab-separated, first row a header.
	LayoutTabbed Layout = "tabbed"
	// LayoutTabular is the regular export with one named column per field.
	LayoutTabular Layout = "tabular"
)

// Contact is one messageable customer derived from a reservation row.
// The phone is kept in its original captured form; wire formatting happens
// at send time. A Contact is immutable once built.
type Contact struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Plate     string `json:"plate"`
	EntryTime string `json:"entry_time"` // HH:MM
	EntryDate string `json:"entry_date"` // YYYY-MM-DD or UnknownDate
	LotType   string `json:"lot_type"`
	Occupants string `json:"occupants"`

	// Consolidation fields, populated only when multiple reservations for
	// the same (phone, entry date) were merged.
	Consolidated     bool     `json:"consolidated,omitempty"`
	Plates           []string `json:"plates,omitempty"`
	TotalOccupants   int      `json:"total_occupants,omitempty"`
	ReservationCount int      `json:"reservation_count,omitempty"`
}

// Reservations returns how many source rows this contact represents.
func (c Contact) Reservations() int {
	if c.Consolidated {
		return c.ReservationCount
	}
	return 1
}
