package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/hours"
	"tableflip.dev/critterdex/pkg/profile"
)

// Creature prints one catalog record with its year and day availability for
// region, highlighting the month and hour of then.
func (pp *PrettyPrint) Creature(c creature.Creature, region creature.Region, e profile.TrackingEntry, then time.Time) {
	pp.Title(fmt.Sprintf("#%d %s", c.Number, c.Name))

	faint := color.New(color.Faint)
	if c.Location != "" {
		_, _ = faint.Fprintf(pp.out(), "Location: %s\n", c.Location)
	}
	if c.ShadowSize != "" {
		_, _ = faint.Fprintf(pp.out(), "Shadow: %s\n", c.ShadowSize)
	}
	_, _ = fmt.Fprintf(pp.out(), "caught %s  donated %s\n\n", check(e.Caught), check(e.Donated))

	a := c.In(region.OrNorth())
	pp.PrintYear(a.Months, int(then.Month()))
	window := a.TimesFor(int(then.Month()))
	set, err := hours.Parse(window)
	if err != nil {
		_, _ = faint.Fprintf(pp.out(), "%s: %s\n\n", then.Month(), window)
		return
	}
	_, _ = faint.Fprintf(pp.out(), "%s: %s\n", then.Month(), window)
	pp.PrintDay(set, then.Hour())
}

// PrintYear prints the twelve month initials, bold where present and
// underlined at current.
func (pp *PrettyPrint) PrintYear(months creature.MonthSet, current int) {
	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	now := color.New(color.Bold, color.FgHiGreen, color.Underline)
	gone := color.New(color.Faint, color.Underline)

	for m := 1; m <= 12; m++ {
		label := time.Month(m).String()[0:3]
		switch {
		case m == current && months.Has(m):
			_, _ = now.Fprint(pp.out(), label)
		case m == current:
			_, _ = gone.Fprint(pp.out(), label)
		case months.Has(m):
			_, _ = l2.Fprint(pp.out(), label)
		default:
			_, _ = l1.Fprint(pp.out(), label)
		}
		_, _ = fmt.Fprint(pp.out(), " ")
	}
	_, _ = fmt.Fprint(pp.out(), "\n")
}

// PrintDay prints the hours 0 through 23 as two rows of twelve, bold where
// present and underlined at current.
func (pp *PrettyPrint) PrintDay(set hours.Set, current int) {
	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	now := color.New(color.Bold, color.FgHiGreen, color.Underline)

	var b strings.Builder
	for h := 0; h < 24; h++ {
		printer := l1
		if set.Has(h) {
			printer = l2
			if h == current {
				printer = now
			}
		}
		b.WriteString(printer.Sprintf("%2d", h))
		if h == 11 || h == 23 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")
	_, _ = fmt.Fprint(pp.out(), b.String())
}
