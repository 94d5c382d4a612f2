// Package profiles owns the ordered profile list and the active profile
// pointer. Every mutation is persisted before it becomes visible.
package profiles

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/log"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/store"
)

// Source tells a subscriber where an applied change came from.
type Source int

const (
	// Local changes come from a mutator on this Store.
	Local Source = iota
	// External changes were written by another process and picked up by
	// Reload.
	External
)

// Change is delivered to subscribers after a change has been applied.
type Change struct {
	Source Source
}

// Field names one of the two tracking flags.
type Field int

const (
	Caught Field = iota
	Donated
)

// errNoop aborts a mutation without saving or notifying.
var errNoop = errors.New("profiles: no change")

type Store struct {
	p store.Persistence

	mu      sync.Mutex
	state   store.State
	digest  string
	warning error

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Open loads the durable state. Missing state yields a single default
// profile. Unreadable state yields the same default and is reported through
// Warning instead of failing; Open itself only fails when ctx is done.
func Open(ctx context.Context, p store.Persistence) (*Store, error) {
	s := &Store{p: p, subs: make(map[int]func(Change))}
	st, err := p.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var se *store.StorageError
		if !errors.As(err, &se) {
			se = &store.StorageError{Op: "load", Err: err}
		}
		log.Warn("profile state unreadable, starting with a default profile", "err", se)
		s.warning = se
		st = store.State{}
	}
	s.state = normalize(st)
	s.digest = store.Digest(s.state)
	return s, nil
}

// Warning is the StorageError that forced a default profile at Open, or nil.
func (s *Store) Warning() error {
	return s.warning
}

func normalize(st store.State) store.State {
	if len(st.Profiles) == 0 {
		st.Profiles = []profile.Profile{profile.New(profile.DefaultName)}
	}
	st.ActiveIndex = clamp(st.ActiveIndex, len(st.Profiles))
	return st
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func cloneState(st store.State) store.State {
	out := store.State{ActiveIndex: st.ActiveIndex, Profiles: make([]profile.Profile, len(st.Profiles))}
	for i := range st.Profiles {
		out.Profiles[i] = st.Profiles[i].Clone()
	}
	return out
}

// mutate runs fn against a copy of the state, saves the copy and only then
// makes it current. A failed save leaves the current state untouched.
func (s *Store) mutate(ctx context.Context, fn func(st *store.State) error) error {
	s.mu.Lock()
	next := cloneState(s.state)
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoop) {
			return nil
		}
		return err
	}
	if err := s.p.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.digest = store.Digest(next)
	s.mu.Unlock()

	s.notify(Change{Source: Local})
	return nil
}

func (s *Store) Profiles() []profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state).Profiles
}

func (s *Store) Active() profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profiles[s.state.ActiveIndex].Clone()
}

func (s *Store) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveIndex
}

// IndexOf returns the position of the profile with the given id, or -1.
func (s *Store) IndexOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.state.Profiles, id)
}

func indexOf(list []profile.Profile, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// Create appends a new profile with region north, empty tracking and default
// settings. A blank name falls back to the default profile name.
func (s *Store) Create(ctx context.Context, name string) (profile.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = profile.DefaultName
	}
	p := profile.New(name)
	err := s.mutate(ctx, func(st *store.State) error {
		st.Profiles = append(st.Profiles, p)
		return nil
	})
	return p, err
}

// Remove deletes the profile at index unless it is the last one. Removing at
// or before the active profile moves the active index back by one, floored
// at 0. Out of range indexes are ignored.
func (s *Store) Remove(ctx context.Context, index int) error {
	return s.mutate(ctx, func(st *store.State) error {
		if len(st.Profiles) <= 1 || index < 0 || index >= len(st.Profiles) {
			return errNoop
		}
		st.Profiles = append(st.Profiles[:index], st.Profiles[index+1:]...)
		if index <= st.ActiveIndex && st.ActiveIndex > 0 {
			st.ActiveIndex--
		}
		st.ActiveIndex = clamp(st.ActiveIndex, len(st.Profiles))
		return nil
	})
}

// Switch makes index the active profile. Out of range indexes are ignored.
func (s *Store) Switch(ctx context.Context, index int) error {
	return s.mutate(ctx, func(st *store.State) error {
		if index < 0 || index >= len(st.Profiles) || index == st.ActiveIndex {
			return errNoop
		}
		st.ActiveIndex = index
		return nil
	})
}

// Update merges patch into the active profile.
func (s *Store) Update(ctx context.Context, patch profile.Patch) error {
	return s.mutate(ctx, func(st *store.State) error {
		next, err := patch.Apply(st.Profiles[st.ActiveIndex])
		if err != nil {
			return err
		}
		st.Profiles[st.ActiveIndex] = next
		return nil
	})
}

// Tracking returns the active profile's entry for creature id, and whether
// one has ever been written.
func (s *Store) Tracking(kind creature.Kind, id string) (profile.TrackingEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Profiles[s.state.ActiveIndex]
	e, ok := p.TrackingFor(kind)[id]
	return e, ok
}

func (s *Store) SetTracking(ctx context.Context, kind creature.Kind, id string, entry profile.TrackingEntry) error {
	return s.mutate(ctx, func(st *store.State) error {
		st.Profiles[st.ActiveIndex].TrackingFor(kind)[id] = entry
		return nil
	})
}

// Toggle flips one flag on the active profile's entry and returns the
// result. An untouched entry starts from {false, false}.
func (s *Store) Toggle(ctx context.Context, kind creature.Kind, id string, field Field) (profile.TrackingEntry, error) {
	var out profile.TrackingEntry
	err := s.mutate(ctx, func(st *store.State) error {
		t := st.Profiles[st.ActiveIndex].TrackingFor(kind)
		e := t[id]
		switch field {
		case Caught:
			e.Caught = !e.Caught
		case Donated:
			e.Donated = !e.Donated
		}
		t[id] = e
		out = e
		return nil
	})
	return out, err
}

func (s *Store) Settings(kind creature.Kind) profile.CollectionSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.Profiles[s.state.ActiveIndex].Settings.For(kind)
}

// SetSettings merges patch into the active profile's settings for kind.
func (s *Store) SetSettings(ctx context.Context, kind creature.Kind, patch profile.SettingsPatch) error {
	return s.mutate(ctx, func(st *store.State) error {
		cs := st.Profiles[st.ActiveIndex].Settings.For(kind)
		*cs = patch.Apply(*cs)
		return nil
	})
}

// Overwrite replaces the profile at index wholesale.
func (s *Store) Overwrite(ctx context.Context, index int, p profile.Profile) error {
	return s.mutate(ctx, func(st *store.State) error {
		if index < 0 || index >= len(st.Profiles) {
			return errors.New("profiles: overwrite index out of range")
		}
		st.Profiles[index] = filled(p)
		return nil
	})
}

// Append adds p at the end of the list and returns its index.
func (s *Store) Append(ctx context.Context, p profile.Profile) (int, error) {
	index := -1
	err := s.mutate(ctx, func(st *store.State) error {
		st.Profiles = append(st.Profiles, filled(p))
		index = len(st.Profiles) - 1
		return nil
	})
	return index, err
}

// filled copies p and gives it a tracking map for every kind.
func filled(p profile.Profile) profile.Profile {
	out := p.Clone()
	for _, k := range creature.AllKinds() {
		out.TrackingFor(k)
	}
	return out
}
