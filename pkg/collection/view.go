// Package collection builds the visible rows of one creature collection from
// the catalog, the active profile and a reference time. Build is pure and
// cheap enough to call on every clock tick.
package collection

import (
	"time"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/hours"
	"tableflip.dev/critterdex/pkg/profile"
)

// Row is one creature as listed for a profile.
type Row struct {
	Creature creature.Creature
	Entry    profile.TrackingEntry
	// Tracked is false until the entry has been written once.
	Tracked bool

	HereThisMonth bool
	LeavingSoon   bool
	AvailableNow  bool
	// Window is the raw hour text for the reference month.
	Window string
}

// View is the result of Build.
type View struct {
	Kind      creature.Kind
	Region    creature.Region
	Reference time.Time
	Settings  profile.CollectionSettings
	Rows      []Row

	// Totals cover the whole catalog, not just the visible rows.
	Total   int
	Caught  int
	Donated int
}

// Option customises Build behaviour.
type Option func(*buildOptions)

// WithMode overrides the profile's stored filter for this build only.
func WithMode(m availability.Mode) Option {
	return func(o *buildOptions) {
		o.mode = &m
	}
}

// WithHidden overrides the profile's show-collected and show-donated flags.
func WithHidden(showCollected, showDonated bool) Option {
	return func(o *buildOptions) {
		o.showCollected = &showCollected
		o.showDonated = &showDonated
	}
}

// WithShowCollected overrides only the show-collected flag.
func WithShowCollected(show bool) Option {
	return func(o *buildOptions) {
		o.showCollected = &show
	}
}

// WithShowDonated overrides only the show-donated flag.
func WithShowDonated(show bool) Option {
	return func(o *buildOptions) {
		o.showDonated = &show
	}
}

// WithParseErrors reports malformed hour text found while filtering.
func WithParseErrors(fn func(item *creature.Creature, month int, err error)) Option {
	return func(o *buildOptions) {
		o.onParseError = fn
	}
}

// SortedByNumber orders rows by catalog number instead of catalog order.
func SortedByNumber() Option {
	return func(o *buildOptions) {
		o.sortByNumber = true
	}
}

type buildOptions struct {
	mode          *availability.Mode
	showCollected *bool
	showDonated   *bool
	onParseError  func(item *creature.Creature, month int, err error)
	sortByNumber  bool
}

// Build applies the profile's settings for kind to items at the profile's
// reference time (its override, or now).
func Build(items []creature.Creature, p *profile.Profile, kind creature.Kind, now time.Time, opts ...Option) View {
	config := &buildOptions{}
	for _, opt := range opts {
		opt(config)
	}

	settings := *p.Settings.For(kind)
	if config.mode != nil {
		settings.FilterType = *config.mode
	}
	if config.showCollected != nil {
		settings.ShowCollected = *config.showCollected
	}
	if config.showDonated != nil {
		settings.ShowDonated = *config.showDonated
	}

	region := p.Region.OrNorth()
	ref := p.ReferenceTime(now)
	month, hour := int(ref.Month()), ref.Hour()
	tracking := p.Fish
	switch kind {
	case creature.Bug:
		tracking = p.Bug
	case creature.SeaCreature:
		tracking = p.SeaCreature
	}

	v := View{
		Kind:      kind,
		Region:    region,
		Reference: ref,
		Settings:  settings,
		Total:     len(items),
	}
	for i := range items {
		e := tracking[items[i].ID()]
		if e.Caught {
			v.Caught++
		}
		if e.Donated {
			v.Donated++
		}
	}

	f := availability.Filter{OnParseError: config.onParseError}
	selected := f.Select(items, region, ref, settings.FilterType)
	if config.sortByNumber {
		creature.SortByNumber(selected)
	}

	v.Rows = make([]Row, 0, len(selected))
	for i := range selected {
		item := &selected[i]
		entry, tracked := tracking[item.ID()]
		if entry.Caught && !settings.ShowCollected {
			continue
		}
		if entry.Donated && !settings.ShowDonated {
			continue
		}
		here := availability.CheckMonth(item, region, month)
		v.Rows = append(v.Rows, Row{
			Creature:      *item,
			Entry:         entry,
			Tracked:       tracked,
			HereThisMonth: here,
			LeavingSoon:   here && !availability.CheckMonth(item, region, availability.NextMonth(month)),
			AvailableNow:  here && availability.CheckHour(item, region, month, hour),
			Window:        item.In(region).TimesFor(month),
		})
	}
	return v
}

// HoursThisMonth parses the row's window. Malformed text yields the empty
// set.
func (r Row) HoursThisMonth() hours.Set {
	s, _ := hours.Parse(r.Window)
	return s
}
