// Package hours parses the hour-range text used by the creature catalog into
// the set of hours a creature can be caught.
package hours

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// NotAvailable is the catalog text for a month with no catchable hours.
	NotAvailable = "NA"
	// AllDay is the catalog text for a month catchable around the clock.
	AllDay = "All day"

	enDash = "–"
	full   = Set(1<<24 - 1)
)

// Set is a set of hours of the day, 0 through 23.
type Set uint32

// Full returns the set holding every hour.
func Full() Set { return full }

// Range returns the inclusive range [start..end], wrapping past midnight when
// end <= start.
func Range(start, end int) Set {
	var s Set
	if end <= start {
		for h := start; h <= 23; h++ {
			s = s.Add(h)
		}
		for h := 0; h <= end; h++ {
			s = s.Add(h)
		}
		return s
	}
	for h := start; h <= end; h++ {
		s = s.Add(h)
	}
	return s
}

// Add returns s with hour h included. Out of range hours are ignored.
func (s Set) Add(h int) Set {
	if h < 0 || h > 23 {
		return s
	}
	return s | 1<<uint(h)
}

// Has reports whether hour h is in the set.
func (s Set) Has(h int) bool {
	if h < 0 || h > 23 {
		return false
	}
	return s&(1<<uint(h)) != 0
}

// Len is the number of hours in the set.
func (s Set) Len() int { return bits.OnesCount32(uint32(s & full)) }

// Empty reports whether the set holds no hours.
func (s Set) Empty() bool { return s&full == 0 }

// Hours lists the members in ascending order.
func (s Set) Hours() []int {
	out := make([]int, 0, s.Len())
	for h := 0; h < 24; h++ {
		if s.Has(h) {
			out = append(out, h)
		}
	}
	return out
}

func (s Set) String() string {
	switch {
	case s.Empty():
		return "{}"
	case s&full == full:
		return "{0..23}"
	}
	parts := make([]string, 0, s.Len())
	for _, h := range s.Hours() {
		parts = append(parts, strconv.Itoa(h))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// ParseError reports hour-range text that does not match the catalog
// vocabulary.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hours: cannot parse %q: %s", e.Text, e.Reason)
}

// Parse converts one month's hour-range text into the set of catchable hours.
// Malformed text yields the empty set and a *ParseError.
func Parse(text string) (Set, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, &ParseError{Text: text, Reason: "empty"}
	}
	var out Set
	for trimmed != "" {
		clause, rest, _ := strings.Cut(trimmed, ";")
		s, err := parseWindow(strings.TrimSpace(clause))
		if err != nil {
			return 0, &ParseError{Text: text, Reason: err.Error()}
		}
		out |= s
		trimmed = strings.TrimSpace(rest)
	}
	return out, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(text string) Set {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

func parseWindow(clause string) (Set, error) {
	switch {
	case strings.EqualFold(clause, NotAvailable):
		return 0, nil
	case strings.EqualFold(clause, AllDay):
		return full, nil
	}

	start, end, ok := strings.Cut(clause, enDash)
	if !ok {
		start, end, ok = strings.Cut(clause, "-")
	}
	if !ok {
		return 0, fmt.Errorf("missing range separator")
	}
	from, err := parseClock(start)
	if err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	to, err := parseClock(end)
	if err != nil {
		return 0, fmt.Errorf("end: %w", err)
	}
	return Range(from, to), nil
}

// parseClock converts "<1-12> <AM|PM>" to a 24-hour value.
func parseClock(clause string) (int, error) {
	num, meridiem, ok := strings.Cut(strings.TrimSpace(clause), " ")
	if !ok {
		return 0, fmt.Errorf("expected \"<hour> <AM|PM>\", got %q", strings.TrimSpace(clause))
	}
	h, err := strconv.Atoi(num)
	if err != nil || h < 1 || h > 12 {
		return 0, fmt.Errorf("hour %q out of range 1-12", num)
	}
	switch strings.TrimSpace(meridiem) {
	case "AM", "am":
		if h == 12 {
			return 0, nil
		}
		return h, nil
	case "PM", "pm":
		if h == 12 {
			return 12, nil
		}
		return h + 12, nil
	default:
		return 0, fmt.Errorf("unknown meridiem %q", meridiem)
	}
}
