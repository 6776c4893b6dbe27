package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts seen across the supported statement formats.
const (
	layoutDateTime      = "02.01.2006 15:04" // Raiffeisen date/time column
	layoutDate          = "02.01.2006"       // Alfa date column, Rocket line dates
	layoutShortDate     = "02.01.06"         // dates embedded in Alfa descriptions
	layoutOperationDate = "02/01/2006 15:04" // operation timestamp in Rocket descriptions
)

// parseDecimalAmount converts statement amount strings to an exact
// decimal. Exports use space (or non-breaking space) as thousands
// separator and either dot or comma as the decimal separator, so
// "-1 234,56" parses to -1234.56.
func parseDecimalAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return d, nil
}

// toDate drops the time-of-day portion of a timestamp.
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate parses a calendar date with the given layout in UTC.
func parseDate(layout, s string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return toDate(t), nil
}

// parseTimestamp parses a date-and-time value with the given layout in UTC.
func parseTimestamp(layout, s string) (time.Time, error) {
	return time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
}
