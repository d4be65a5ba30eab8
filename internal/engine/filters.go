package engine

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Filter identifies a formatting filter attached to a placeholder.
type Filter string

// Supported filters. Anything unrecognized degrades to FilterNone.
const (
	FilterNone      Filter = ""
	FilterShortDate Filter = "shortdate"
	FilterLongDate  Filter = "longdate"
)

// dateLayouts maps each date filter to its output layout.
var dateLayouts = map[Filter]string{
	FilterShortDate: "Jan 2, 06",
	FilterLongDate:  "January 2, 2006",
}

// ParseFilter maps a raw filter name to a known Filter. Unknown names
// fall back to FilterNone rather than erroring.
func ParseFilter(name string) Filter {
	switch f := Filter(strings.ToLower(name)); f {
	case FilterShortDate, FilterLongDate:
		return f
	default:
		return FilterNone
	}
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseLayouts are tried in order for values that are not a plain
// YYYY-MM-DD date.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// FormatDate formats value according to filter. The boolean reports
// whether formatting was applied; with FilterNone or when the value
// does not parse as a date, the original value comes back unchanged.
func FormatDate(value string, filter Filter) (string, bool) {
	layout, ok := dateLayouts[filter]
	if !ok {
		return value, false
	}
	t, err := parseDate(value)
	if err != nil {
		return value, false
	}
	return t.Format(layout), true
}

// parseDate treats an exact YYYY-MM-DD value as local noon of that
// calendar date, so formatting cannot roll the day across a timezone
// boundary. Other strings get general parsing.
func parseDate(value string) (time.Time, error) {
	if isoDatePattern.MatchString(value) {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local), nil
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
