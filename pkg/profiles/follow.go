package profiles

import (
	"context"

	"tableflip.dev/critterdex/pkg/log"
	"tableflip.dev/critterdex/pkg/store"
)

// Subscribe registers fn to be called after every applied change, local or
// external. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Reload replaces the in-memory state with whatever is durable now. It
// reports whether anything changed. Unreadable state keeps the current state.
// The load holds the state lock so a mutator can not commit in between.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	st, err := s.p.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	next := normalize(st)
	digest := store.Digest(next)
	if digest == s.digest {
		s.mu.Unlock()
		return false, nil
	}
	s.state = next
	s.digest = digest
	s.mu.Unlock()

	s.notify(Change{Source: External})
	return true, nil
}

// Follow reloads on every change reported by the persistence watcher until
// ctx is done. Last write wins; nothing is merged.
func (s *Store) Follow(ctx context.Context) error {
	events, err := s.p.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			changed, err := s.Reload(ctx)
			if err != nil {
				log.Warn("reload after external change failed", "record", ev.Record, "err", err)
				continue
			}
			if changed {
				log.Debug("profiles reloaded", "record", ev.Record)
			}
		}
	}
}
