// Package phone validates, classifies and formats the phone-like strings
// found in reservation exports. All functions are pure; the acceptance rules
// intentionally reproduce the legacy operator tooling rather than a full
// numbering-plan library.
package phone

import (
	"regexp"
	"strings"
)

// Category labels the recognized shape of a phone number.
type Category string

const (
	SpanishInternational         Category = "spanish_international"
	ForeignInternational         Category = "foreign_international"
	SpanishInternationalZeroZero Category = "spanish_international_00"
	ForeignInternationalZeroZero Category = "foreign_international_00"
	SpanishNational              Category = "spanish_national"
	SpanishWithCountryCode       Category = "spanish_with_country_code"
	Foreign                      Category = "foreign"
	SpecialFormat                Category = "special_format"
	Unknown                      Category = "unknown"
	Invalid                      Category = "invalid"
)

// String returns a human-readable label for diagnostics.
func (c Category) String() string {
	switch c {
	case SpanishInternational:
		return "Español Internacional"
	case ForeignInternational:
		return "Extranjero Internacional"
	case SpanishInternationalZeroZero:
		return "Español Internacional (00)"
	case ForeignInternationalZeroZero:
		return "Extranjero Internacional (00)"
	case SpanishNational:
		return "Español Nacional"
	case SpanishWithCountryCode:
		return "Español con Código"
	case Foreign:
		return "Extranjero"
	case SpecialFormat:
		return "Formato Especial"
	case Unknown:
		return "Desconocido"
	default:
		return "Inválido"
	}
}

// Digits strips raw down to its decimal digits.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSpanishMobile(digits string) bool {
	return len(digits) == 9 && (digits[0] == '6' || digits[0] == '7')
}

// IsValid reports whether raw plausibly is a phone number.
//
// International forms (a leading "+" on the raw string, or a leading "00" on
// the digit run) are accepted regardless of allowForeign. Domestic Spanish
// mobiles (9 digits starting 6 or 7) and Spanish numbers with country code
// (11 digits starting 34) always pass. With allowForeign, 10-15 digit runs
// not starting with 34 pass, and as a loose fallback so does any 9-15 digit
// run (covers numbers written with spaces, dashes and the like).
func IsValid(raw string, allowForeign bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "nan" {
		return false
	}

	digits := Digits(raw)

	if strings.HasPrefix(raw, "+") {
		return len(digits) >= 10 && len(digits) <= 15
	}
	if strings.HasPrefix(digits, "00") {
		return len(digits) >= 12 && len(digits) <= 17
	}
	if isSpanishMobile(digits) {
		return true
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "34") {
		return true
	}

	if allowForeign {
		if len(digits) >= 10 && len(digits) <= 15 && !strings.HasPrefix(digits, "34") {
			return true
		}
		if len(digits) >= 9 && len(digits) <= 15 {
			return true
		}
	}

	return false
}

// Classify determines the category of raw, evaluating the same prefix and
// length rules as IsValid in the same priority order.
func Classify(raw string) Category {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "nan" {
		return Invalid
	}

	digits := Digits(raw)

	if strings.HasPrefix(raw, "+") {
		if strings.HasPrefix(digits, "34") {
			return SpanishInternational
		}
		return ForeignInternational
	}
	if strings.HasPrefix(digits, "00") {
		if strings.HasPrefix(digits, "0034") {
			return SpanishInternationalZeroZero
		}
		return ForeignInternationalZeroZero
	}
	if isSpanishMobile(digits) {
		return SpanishNational
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "34") {
		return SpanishWithCountryCode
	}
	if len(digits) >= 10 && len(digits) <= 15 && !strings.HasPrefix(digits, "34") {
		return Foreign
	}
	if len(digits) >= 9 && len(digits) <= 15 {
		return SpecialFormat
	}

	return Unknown
}

// FormatForChannel normalizes raw into the +<country><number> form the
// message channel expects. Numbers shorter than 9 digits are assumed to be
// incomplete Spanish numbers.
func FormatForChannel(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "+") {
		return raw
	}

	digits := Digits(raw)

	switch {
	case strings.HasPrefix(digits, "00"):
		return "+" + digits[2:]
	case strings.HasPrefix(digits, "34"):
		return "+" + digits
	case isSpanishMobile(digits):
		return "+34" + digits
	case len(digits) >= 10 && len(digits) <= 15:
		// Assume an embedded country code.
		return "+" + digits
	default:
		return "+34" + digits
	}
}

var (
	runAtEnd     = regexp.MustCompile(`(\d{9,})$`)
	runSeparated = regexp.MustCompile(`[-\s](\d{9,})`)
	runAnywhere  = regexp.MustCompile(`\d{9,}`)
)

// ExtractFromNoisyField scans a free-text field (typically a flight-number
// cell with a phone appended after punctuation, e.g. "T4-T4-IB23677-609553462")
// for the first digit run of at least 9 digits that also validates as a
// phone. A run anchored at the end of the string wins, then one preceded by
// a space or hyphen, then any qualifying run. Returns "" when nothing
// qualifies.
func ExtractFromNoisyField(text string, allowForeign bool) string {
	text = strings.TrimSpace(text)
	if text == "" || text == "nan" {
		return ""
	}

	if m := runAtEnd.FindStringSubmatch(text); m != nil && IsValid(m[1], allowForeign) {
		return m[1]
	}
	if m := runSeparated.FindStringSubmatch(text); m != nil && IsValid(m[1], allowForeign) {
		return m[1]
	}
	for _, run := range runAnywhere.FindAllString(text, -1) {
		if IsValid(run, allowForeign) {
			return run
		}
	}

	return ""
}
