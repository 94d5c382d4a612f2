// Package timeutil parses the reference-clock values users type on the
// command line: absolute override timestamps and relative shifts.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	offsetPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]time.Duration{
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
		"d":       24 * time.Hour,
		"day":     24 * time.Hour,
		"days":    24 * time.Hour,
		"w":       7 * 24 * time.Hour,
		"wk":      7 * 24 * time.Hour,
		"wks":     7 * 24 * time.Hour,
		"week":    7 * 24 * time.Hour,
		"weeks":   7 * 24 * time.Hour,
	}

	clockLayouts = []string{
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseClock parses an override timestamp. RFC 3339 input keeps its own
// offset; the friendlier layouts ("2025-06-15 23:30", "2025-06-15", or a bare
// "23:30" meaning today) are read in loc. "now" returns now.
func ParseClock(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if strings.EqualFold(s, "now") {
		return now.In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD HH:MM, YYYY-MM-DD, HH:MM or RFC 3339", s)
}

// ParseOffset parses a signed shift such as "3h", "-1w2d" or "+90m".
func ParseOffset(input string) (time.Duration, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(trimmed, "-"):
		sign = -1
		trimmed = trimmed[1:]
	case strings.HasPrefix(trimmed, "+"):
		trimmed = trimmed[1:]
	}
	if trimmed == "" {
		return 0, fmt.Errorf("empty offset")
	}

	remaining := trimmed
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := offsetPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, fmt.Errorf("invalid offset segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported offset unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = remaining[len(matches[0]):]
	}
	return sign * total, nil
}

// FormatOffset renders a duration using week/day/hour/minute tokens, with a
// leading "-" when negative.
func FormatOffset(d time.Duration) string {
	if d == 0 {
		return "0m"
	}
	prefix := ""
	if d < 0 {
		prefix = "-"
		d = -d
	}

	units := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
	}
	var parts []string
	for _, u := range units {
		if d < u.value {
			continue
		}
		count := d / u.value
		d -= count * u.value
		parts = append(parts, fmt.Sprintf("%d%s", count, u.label))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return prefix + strings.Join(parts, "")
}
