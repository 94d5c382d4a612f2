// Package availability classifies catalog creatures by month and hour for a
// region and reference time.
package availability

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/hours"
)

// Mode selects which creatures a listing keeps.
type Mode string

const (
	// All keeps every catalog item.
	All Mode = "all"
	// Current keeps items catchable this month at this hour.
	Current Mode = "current"
	// ThisMonth keeps items present at any hour this month.
	ThisMonth Mode = "month"
	// LeavingThisMonth keeps items present this month but not next month.
	LeavingThisMonth Mode = "leaving"
)

// AllModes returns the modes in menu order.
func AllModes() []Mode {
	return []Mode{All, Current, ThisMonth, LeavingThisMonth}
}

// ParseMode converts user input into a Mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "all":
		return All, nil
	case "current", "now":
		return Current, nil
	case "month", "this-month":
		return ThisMonth, nil
	case "leaving", "leaving-soon":
		return LeavingThisMonth, nil
	}
	return "", fmt.Errorf("availability: unknown mode %q", raw)
}

// NextMonth returns the calendar month after m, wrapping December to January.
func NextMonth(m int) int {
	return m%12 + 1
}

// CheckMonth reports whether the item appears in month m for region r.
func CheckMonth(item *creature.Creature, r creature.Region, m int) bool {
	return item.In(r).Months.Has(m)
}

// CheckHour reports whether hour h falls inside the item's window for month m.
// Malformed window text counts as unavailable.
func CheckHour(item *creature.Creature, r creature.Region, m, h int) bool {
	set, err := hours.Parse(item.In(r).TimesFor(m))
	if err != nil {
		return false
	}
	return set.Has(h)
}

// Filter applies a Mode over a catalog. The zero value is ready to use.
type Filter struct {
	// OnParseError, when set, is called for each creature whose hour text
	// for the month under test cannot be parsed.
	OnParseError func(item *creature.Creature, month int, err error)
}

// Matches reports whether a single item is kept by mode at time t.
func (f Filter) Matches(item *creature.Creature, r creature.Region, t time.Time, mode Mode) bool {
	m, h := int(t.Month()), t.Hour()
	switch mode {
	case All:
		return true
	case Current:
		return CheckMonth(item, r, m) && f.checkHour(item, r, m, h)
	case ThisMonth:
		return CheckMonth(item, r, m)
	case LeavingThisMonth:
		return CheckMonth(item, r, m) && !CheckMonth(item, r, NextMonth(m))
	}
	return false
}

// Select returns the catalog items kept by mode, in catalog order. The
// catalog is not modified and no state is retained between calls.
func (f Filter) Select(catalog []creature.Creature, r creature.Region, t time.Time, mode Mode) []creature.Creature {
	if mode == All {
		out := make([]creature.Creature, len(catalog))
		copy(out, catalog)
		return out
	}
	out := make([]creature.Creature, 0, len(catalog))
	for i := range catalog {
		if f.Matches(&catalog[i], r, t, mode) {
			out = append(out, catalog[i])
		}
	}
	return out
}

func (f Filter) checkHour(item *creature.Creature, r creature.Region, m, h int) bool {
	set, err := hours.Parse(item.In(r).TimesFor(m))
	if err != nil {
		if f.OnParseError != nil {
			f.OnParseError(item, m, err)
		}
		return false
	}
	return set.Has(h)
}

// Select runs the zero Filter.
func Select(catalog []creature.Creature, r creature.Region, t time.Time, mode Mode) []creature.Creature {
	return Filter{}.Select(catalog, r, t, mode)
}
