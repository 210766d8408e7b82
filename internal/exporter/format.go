package exporter

import (
	"strconv"
	"time"
)

// Timestamp layouts used in exports.
const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// FormatDateTime formats a timestamp for export rows.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// FormatDate formats a timestamp's date only.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatPrice formats a price with exactly 2 decimal places
func FormatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
