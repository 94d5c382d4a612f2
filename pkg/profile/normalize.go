package profile

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/creature"
)

// Legacy is the loosely typed shape of a stored or exported profile. Older
// writers omitted settings, some tracking maps, and occasionally the id.
type Legacy struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Region      string          `json:"region"`
	DateTime    string          `json:"dateTime,omitempty"`
	Fish        Tracking        `json:"fish"`
	Bug         Tracking        `json:"bug"`
	SeaCreature Tracking        `json:"sea-creature"`
	Settings    *legacySettings `json:"settings,omitempty"`
}

type legacySettings struct {
	Fish        *legacyCollectionSettings `json:"fish,omitempty"`
	Bug         *legacyCollectionSettings `json:"bug,omitempty"`
	SeaCreature *legacyCollectionSettings `json:"sea-creature,omitempty"`
}

type legacyCollectionSettings struct {
	FilterType    string `json:"filterType"`
	ShowCollected *bool  `json:"showCollected"`
	ShowDonated   *bool  `json:"showDonated"`
}

// ErrNotProfile is returned when a document is structured data but not a
// profile object.
var ErrNotProfile = errors.New("profile: document is not a profile object")

// DecodeLegacy parses one profile document without defaulting.
func DecodeLegacy(data []byte) (Legacy, error) {
	var l Legacy
	if err := json.Unmarshal(data, &l); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return Legacy{}, ErrNotProfile
		}
		return Legacy{}, err
	}
	return l, nil
}

// DecodeList parses the stored profile list. A single profile object, as
// written by the single-profile releases, is upgraded to a one-element list.
func DecodeList(data []byte) ([]Profile, error) {
	var list []Legacy
	if err := json.Unmarshal(data, &list); err != nil {
		single, err2 := DecodeLegacy(data)
		if err2 != nil {
			return nil, err
		}
		list = []Legacy{single}
	}
	out := make([]Profile, 0, len(list))
	for _, l := range list {
		out = append(out, l.Normalize())
	}
	return out, nil
}

// Normalize fills every missing or invalid field with its default, producing
// a fully populated Profile.
func (l Legacy) Normalize() Profile {
	p := New(strings.TrimSpace(l.Name))
	if p.Name == "" {
		p.Name = DefaultName
	}
	if id := strings.TrimSpace(l.ID); id != "" {
		p.ID = id
	}
	if r, err := creature.ParseRegion(l.Region); err == nil {
		p.Region = r
	}
	if l.DateTime != "" {
		if t, err := time.Parse(time.RFC3339Nano, l.DateTime); err == nil {
			t = t.UTC()
			p.DateTime = &t
		}
	}
	if l.Fish != nil {
		p.Fish = l.Fish.clone()
	}
	if l.Bug != nil {
		p.Bug = l.Bug.clone()
	}
	if l.SeaCreature != nil {
		p.SeaCreature = l.SeaCreature.clone()
	}
	if l.Settings != nil {
		p.Settings.Fish = l.Settings.Fish.normalize()
		p.Settings.Bug = l.Settings.Bug.normalize()
		p.Settings.SeaCreature = l.Settings.SeaCreature.normalize()
	}
	return p
}

func (s *legacyCollectionSettings) normalize() CollectionSettings {
	out := DefaultSettings()
	if s == nil {
		return out
	}
	if mode, err := availability.ParseMode(s.FilterType); err == nil {
		out.FilterType = mode
	}
	if s.ShowCollected != nil {
		out.ShowCollected = *s.ShowCollected
	}
	if s.ShowDonated != nil {
		out.ShowDonated = *s.ShowDonated
	}
	return out
}
