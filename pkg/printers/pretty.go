package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/critterdex/pkg/collection"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
)

// ClockLayout is how reference times are shown.
const ClockLayout = "Mon Jan 2 2006 15:04"

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " creature")
	default:
		_, _ = c.Fprintln(pp.out(), " creatures")
	}
}

// View prints one collection listing: a summary line and a row per creature.
func (pp *PrettyPrint) View(v collection.View) {
	pp.TitleWithCount(v.Kind.Title(), len(v.Rows))

	faint := color.New(color.Faint)
	_, _ = faint.Fprintf(pp.out(), "%s hemisphere, %s, filter %s. Caught %d/%d, donated %d/%d.\n",
		v.Region, v.Reference.Format(ClockLayout), v.Settings.FilterType,
		v.Caught, v.Total, v.Donated, v.Total)

	if len(v.Rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	here := color.New(color.FgGreen)
	leaving := color.New(color.FgHiYellow)
	now := color.New(color.FgHiCyan)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Name"), bold.Sprint("Caught"), bold.Sprint("Donated"),
		bold.Sprint("Hours"), bold.Sprint("Notes"))
	for _, r := range v.Rows {
		var notes []string
		if r.AvailableNow {
			notes = append(notes, now.Sprint("Available now"))
		}
		if r.HereThisMonth {
			notes = append(notes, here.Sprint("Here this month"))
		}
		if r.LeavingSoon {
			notes = append(notes, leaving.Sprint("Leaving soon"))
		}
		tbl.AddRow(r.Creature.Number, r.Creature.Name, check(r.Entry.Caught), check(r.Entry.Donated),
			r.Window, strings.Join(notes, ", "))
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Profiles prints every profile, marking the active one.
func (pp *PrettyPrint) Profiles(list []profile.Profile, active int) {
	pp.TitleWithCount("Profiles", len(list))
	if len(list) == 0 {
		return
	}

	bold := color.New(color.Bold)
	mark := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Index"), bold.Sprint("Name"), bold.Sprint("ID"), bold.Sprint("Region"),
		bold.Sprint("Clock"), bold.Sprint("Caught"))
	for i, p := range list {
		m := ""
		if i == active {
			m = mark.Sprint("*")
		}
		tbl.AddRow(m, i, p.Name, faint.Sprint(p.ID), p.Region.OrNorth(), clock(p.DateTime), caught(&p))
	}
	tbl.RightAlign(1)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Profile prints one profile with its per-kind settings.
func (pp *PrettyPrint) Profile(p profile.Profile) {
	pp.Title(p.Name)

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), p.ID)
	tbl.AddRow(bold.Sprint("Region"), p.Region.OrNorth())
	tbl.AddRow(bold.Sprint("Clock"), clock(p.DateTime))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Settings(&p.Settings)
}

// Settings prints the listing settings of every kind.
func (pp *PrettyPrint) Settings(s *profile.Settings) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Kind"), bold.Sprint("Filter"), bold.Sprint("Show caught"), bold.Sprint("Show donated"))
	for _, k := range creature.AllKinds() {
		cs := s.For(k)
		tbl.AddRow(k, cs.FilterType, cs.ShowCollected, cs.ShowDonated)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Tracked prints the outcome of a track command.
func (pp *PrettyPrint) Tracked(c creature.Creature, e profile.TrackingEntry) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(pp.out(), "#%d %s", c.Number, c.Name)
	_, _ = fmt.Fprintf(pp.out(), "  caught %s  donated %s\n", check(e.Caught), check(e.Donated))
}

func check(b bool) string {
	if b {
		return color.GreenString("✓")
	}
	return color.New(color.Faint).Sprint("·")
}

func clock(t *time.Time) string {
	if t == nil {
		return "live"
	}
	return t.Local().Format(ClockLayout)
}

func caught(p *profile.Profile) string {
	parts := make([]string, 0, 3)
	for _, k := range creature.AllKinds() {
		n := 0
		for _, e := range p.TrackingFor(k) {
			if e.Caught {
				n++
			}
		}
		parts = append(parts, fmt.Sprintf("%s %d", k, n))
	}
	return strings.Join(parts, ", ")
}
