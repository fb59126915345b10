package extract

import (
	"strings"

	"github.com/gobarajas/outreach-cli/internal/model"
)

// NormalizeTime reduces a raw entry-time value to HH:MM. Accepts
// "HH:MM:SS"-style values (keeps the first two segments) and continuous
// "HHMM"-like digit strings (first two digits become the hour). Anything
// unusable yields the default time.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.DefaultTime
	}

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) >= 2 && parts[0] != "" {
			return parts[0] + ":" + parts[1]
		}
		return model.DefaultTime
	}

	if len(raw) >= 2 && allDigits(raw[:2]) {
		return raw[:2] + ":00"
	}

	return model.DefaultTime
}

// NormalizeDate reduces a raw entry-date value to YYYY-MM-DD. Accepts
// "-"-delimited dates (first three segments) and continuous "YYYYMMDD"
// digit strings. Anything unusable yields the unknown-date sentinel.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.UnknownDate
	}

	if strings.Contains(raw, "-") {
		parts := strings.Split(raw, "-")
		if len(parts) >= 3 && parts[0] != "" && parts[1] != "" && parts[2] != "" {
			return parts[0] + "-" + parts[1] + "-" + parts[2]
		}
		return model.UnknownDate
	}

	if len(raw) >= 8 && allDigits(raw[:8]) {
		return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
	}

	return model.UnknownDate
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
