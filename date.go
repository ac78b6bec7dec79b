package familyone

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const DisplayDateLayout = "02.01.2006"

var (
	displayDatePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// tried before dateparse, which reads 1.2.2006 month first and has no comma-less month names
var dayFirstLayouts = []string{
	"2.1.2006",
	"2006.1.2",
	"2006-1-2",
	"2006/1/2",
	"Jan 2 2006",
	"January 2 2006",
}

// NormalizeDate rewrites a calendar date into DD.MM.YYYY.
// Values already in display form pass through untouched, ISO dates are reordered,
// other parseable layouts are reformatted and anything else is returned trimmed.
func NormalizeDate(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	if displayDatePattern.MatchString(raw) {
		return raw
	}
	if m := isoDatePattern.FindStringSubmatch(raw); m != nil {
		return m[3] + "." + m[2] + "." + m[1]
	}

	for _, layout := range dayFirstLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format(DisplayDateLayout)
		}
	}
	parsed, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return raw
	}
	return parsed.Format(DisplayDateLayout)
}

// DisplayDateToISO converts DD.MM.YYYY into YYYY-MM-DD, or "" when the input does not match.
func DisplayDateToISO(value string) string {
	m := displayDatePattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return ""
	}
	return m[3] + "-" + m[2] + "-" + m[1]
}
