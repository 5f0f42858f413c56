package field

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the layout instants are stored with: UTC, millisecond
// precision, Z suffix.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// DisplayLayout renders dates as "dd mmm yyyy".
const DisplayLayout = "02 Jan 2006"

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateModel is the calendar-day representation a date picker works with.
// Month is 1-based.
type DateModel struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ToDateModel converts a stored ISO-like date string into a DateModel using
// the UTC calendar day. Empty or unparseable input yields nil.
func ToDateModel(value string) *DateModel {
	t, ok := ParseInstant(value)
	if !ok {
		return nil
	}
	return &DateModel{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseInstant parses an ISO-like date string. Inputs without a zone are
// read as UTC.
func ParseInstant(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatInstant renders t the way instant fields store it.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Time returns midnight UTC of the modelled day.
func (d DateModel) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the day as "dd mmm yyyy".
func (d DateModel) String() string {
	return d.Time().Format(DisplayLayout)
}

// ParseDisplayDate reads a "dd mmm yyyy" string, or an ISO date, back into a
// time at midnight UTC.
func ParseDisplayDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DisplayLayout, trimmed, time.UTC); err == nil {
		return t, nil
	}
	if t, ok := ParseInstant(trimmed); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("field: parse date %q: expected %q or ISO-8601", value, "dd mmm yyyy")
}
