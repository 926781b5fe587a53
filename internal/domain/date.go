package domain

import "time"

// DateLayout is the fixed calendar format for rental dates. Parsing is
// strict: "32/01/2020" fails instead of rolling over.
const DateLayout = "02/01/2006"

// ParseDate parses a dd/mm/yyyy date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t in the fixed dd/mm/yyyy format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
