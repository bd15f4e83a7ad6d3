package merge

import (
	"strings"
	"time"
)

// zoned layouts carry their own offset; local layouts are read in the
// server's local time zone.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseTimestamp parses an ISO-8601 instant. Text without zone information is
// interpreted in loc (time.Local when loc is nil).
//
// The boolean result is false for blank or unparseable input.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// IsStale reports whether a client submission based on clientTS is older than
// the server's accepted version at serverTS. Missing timestamps never make a
// submission stale.
func IsStale(serverTS, clientTS *time.Time) bool {
	if serverTS == nil || clientTS == nil {
		return false
	}
	return clientTS.Before(*serverTS)
}
