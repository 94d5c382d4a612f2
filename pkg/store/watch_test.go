package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tableflip.dev/critterdex/pkg/profile"
)

type testConfig struct {
	path    string
	backend string
}

func (t testConfig) BasePath() string     { return t.path }
func (t testConfig) Backend() string      { return t.backend }
func (t testConfig) CatalogURL() string   { return DefaultCatalogURL }
func (t testConfig) CatalogKey() string   { return "" }
func (t testConfig) CatalogCache() string { return filepath.Join(t.path, "catalog") }

func TestPersistenceWatchEmitsRecordChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	// A second handle on the same directory plays the other process.
	other, err := OpenDiskv(base)
	if err != nil {
		t.Fatalf("open second handle: %v", err)
	}
	if err := other.Save(ctx, State{Profiles: []profile.Profile{profile.New("Other")}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventStateInvalidated {
				return
			}
			if evt.Record != RecordProfiles && evt.Record != RecordActiveIndex {
				t.Fatalf("unexpected record %q", evt.Record)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for record change event")
		}
	}
}

func TestPersistenceWatchClosesOnCancel(t *testing.T) {
	p, err := OpenDiskv(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("unexpected event without writes")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	var (
		mu   sync.Mutex
		got  []Event
		done = make(chan struct{}, 1)
	)
	send := func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	}

	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventRecordChanged, Record: RecordProfiles}, send)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("throttle never flushed")
	}
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected one coalesced event, got %d", len(got))
	}
}

func TestEventThrottleStopDropsPending(t *testing.T) {
	sent := make(chan Event, 1)
	th := newEventThrottle(10 * time.Millisecond)
	th.Enqueue(Event{Type: EventStateInvalidated}, func(ev Event) { sent <- ev })
	th.Stop()
	select {
	case ev := <-sent:
		t.Fatalf("unexpected event after stop: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
