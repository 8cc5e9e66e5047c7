package domain

import "time"

const (
	NoDateSet   = "No date set"
	InvalidDate = "Invalid Date"
)

const displayLayout = "Jan 2, 2006"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatDate renders a date string in the local zone.
func FormatDate(s string) string {
	return FormatDateIn(s, time.Local)
}

// FormatDateIn renders s as "Mar 5, 2024". A bare YYYY-MM-DD value is a
// calendar date and is printed as-is; timestamps are converted to loc first.
func FormatDateIn(s string, loc *time.Location) string {
	if s == "" {
		return NoDateSet
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d.Format(displayLayout)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			if loc != nil {
				ts = ts.In(loc)
			}
			return ts.Format(displayLayout)
		}
	}
	return InvalidDate
}
