// Package profile defines the persisted per-player tracking records.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/creature"
)

// DefaultName is used for the profile created on first run.
const DefaultName = "Default Profile"

// TrackingEntry records progress on one creature.
type TrackingEntry struct {
	Caught  bool `json:"caught"`
	Donated bool `json:"donated"`
}

// Tracking maps a creature number (decimal string) to its entry.
type Tracking map[string]TrackingEntry

// FilterType is the listing mode stored per collection.
type FilterType = availability.Mode

// CollectionSettings controls how one creature kind is listed.
type CollectionSettings struct {
	FilterType    FilterType `json:"filterType"`
	ShowCollected bool       `json:"showCollected"`
	ShowDonated   bool       `json:"showDonated"`
}

// DefaultSettings returns the settings used for a kind that has none stored.
func DefaultSettings() CollectionSettings {
	return CollectionSettings{
		FilterType:    availability.Current,
		ShowCollected: true,
		ShowDonated:   true,
	}
}

// SettingsPatch carries the fields to merge into CollectionSettings; nil
// fields are left alone.
type SettingsPatch struct {
	FilterType    *FilterType
	ShowCollected *bool
	ShowDonated   *bool
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s CollectionSettings) CollectionSettings {
	if p.FilterType != nil {
		s.FilterType = *p.FilterType
	}
	if p.ShowCollected != nil {
		s.ShowCollected = *p.ShowCollected
	}
	if p.ShowDonated != nil {
		s.ShowDonated = *p.ShowDonated
	}
	return s
}

// Settings holds one CollectionSettings per kind.
type Settings struct {
	Fish        CollectionSettings `json:"fish"`
	Bug         CollectionSettings `json:"bug"`
	SeaCreature CollectionSettings `json:"sea-creature"`
}

// For returns the settings for kind k.
func (s *Settings) For(k creature.Kind) *CollectionSettings {
	switch k {
	case creature.Bug:
		return &s.Bug
	case creature.SeaCreature:
		return &s.SeaCreature
	default:
		return &s.Fish
	}
}

// Profile is one independently tracked play-through.
type Profile struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Region   creature.Region `json:"region"`
	DateTime *time.Time      `json:"dateTime,omitempty"`

	Fish        Tracking `json:"fish"`
	Bug         Tracking `json:"bug"`
	SeaCreature Tracking `json:"sea-creature"`

	Settings Settings `json:"settings"`
}

// New returns a profile with a fresh id, region north, empty tracking and
// default settings.
func New(name string) Profile {
	return Profile{
		ID:          NewID(),
		Name:        name,
		Region:      creature.North,
		Fish:        Tracking{},
		Bug:         Tracking{},
		SeaCreature: Tracking{},
		Settings: Settings{
			Fish:        DefaultSettings(),
			Bug:         DefaultSettings(),
			SeaCreature: DefaultSettings(),
		},
	}
}

// NewID returns an opaque profile token.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// TrackingFor returns the tracking map for kind k, creating it when nil.
func (p *Profile) TrackingFor(k creature.Kind) Tracking {
	t := p.trackingRef(k)
	if *t == nil {
		*t = Tracking{}
	}
	return *t
}

func (p *Profile) trackingRef(k creature.Kind) *Tracking {
	switch k {
	case creature.Bug:
		return &p.Bug
	case creature.SeaCreature:
		return &p.SeaCreature
	default:
		return &p.Fish
	}
}

// ReferenceTime is the override timestamp in now's location when one is set,
// otherwise now.
func (p *Profile) ReferenceTime(now time.Time) time.Time {
	if p.DateTime == nil {
		return now
	}
	return p.DateTime.In(now.Location())
}

// Clone returns a deep copy so callers cannot alias stored maps.
func (p Profile) Clone() Profile {
	out := p
	if p.DateTime != nil {
		t := *p.DateTime
		out.DateTime = &t
	}
	out.Fish = p.Fish.clone()
	out.Bug = p.Bug.clone()
	out.SeaCreature = p.SeaCreature.clone()
	return out
}

func (t Tracking) clone() Tracking {
	if t == nil {
		return nil
	}
	out := make(Tracking, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Patch is a shallow merge into a profile; nil fields are left alone.
type Patch struct {
	Name          *string
	Region        *creature.Region
	DateTime      *time.Time
	ClearDateTime bool
}

// Apply merges the patch into p.
func (pt Patch) Apply(p Profile) (Profile, error) {
	if pt.Name != nil {
		name := strings.TrimSpace(*pt.Name)
		if name == "" {
			return p, fmt.Errorf("profile: name cannot be empty")
		}
		p.Name = name
	}
	if pt.Region != nil {
		r, err := creature.ParseRegion(string(*pt.Region))
		if err != nil {
			return p, err
		}
		p.Region = r
	}
	switch {
	case pt.ClearDateTime:
		p.DateTime = nil
	case pt.DateTime != nil:
		t := pt.DateTime.UTC()
		p.DateTime = &t
	}
	return p, nil
}
