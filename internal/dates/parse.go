package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// fallbackLayouts cover day-first and long-form dates that dateparse rejects.
var fallbackLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// embeddedDatePattern finds a date inside surrounding prose ("Posted on 2025-08-04 by HR").
var embeddedDatePattern = regexp.MustCompile(`(?i)\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:?\d{2})?)?` +
	`|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}` +
	`|\d{1,2}\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}`)

// Parse interprets s as a calendar date. It is permissive: dateparse handles the
// common machine formats, a layout list covers day-first and long forms, and as a last
// resort the first date-looking substring is parsed. Values without a zone are UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if t, ok := parseStrict(s); ok {
		return t, nil
	}

	if m := embeddedDatePattern.FindString(s); m != "" && m != s {
		if t, ok := parseStrict(m); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

func parseStrict(s string) (time.Time, bool) {
	if t, ok := parseAny(s); ok {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAny shields callers from panics inside dateparse on adversarial input.
func parseAny(s string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
