package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
)

func sampleState() State {
	a := profile.New("Island A")
	a.Fish["1"] = profile.TrackingEntry{Caught: true}
	b := profile.New("Island B")
	b.Region = creature.South
	b.Bug["7"] = profile.TrackingEntry{Caught: true, Donated: true}
	return State{Profiles: []profile.Profile{a, b}, ActiveIndex: 1}
}

func backends(t *testing.T) map[string]Persistence {
	t.Helper()
	dir := t.TempDir()
	d, err := OpenDiskv(filepath.Join(dir, "diskv"))
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	s, err := OpenSQLite(filepath.Join(dir, "sqlite", "critterdex.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Close()
		_ = s.Close()
	})
	return map[string]Persistence{BackendDiskv: d, BackendSQLite: s}
}

func TestLoadEmptyStore(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := p.Load(context.Background())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got.Profiles) != 0 || got.ActiveIndex != 0 {
				t.Fatalf("expected empty state, got %+v", got)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleState()
			if err := p.Save(ctx, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := p.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
			if Digest(got) != Digest(want) {
				t.Fatal("digest differs after round trip")
			}

			want.ActiveIndex = 0
			want.Profiles = want.Profiles[:1]
			if err := p.Save(ctx, want); err != nil {
				t.Fatalf("second save: %v", err)
			}
			got, err = p.Load(ctx)
			if err != nil {
				t.Fatalf("second load: %v", err)
			}
			if len(got.Profiles) != 1 || got.ActiveIndex != 0 {
				t.Fatalf("save did not replace state: %+v", got)
			}
		})
	}
}

func TestDiskvCorruptProfiles(t *testing.T) {
	base := t.TempDir()
	p, err := OpenDiskv(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, RecordProfiles), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = p.Load(context.Background())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if se.Record != RecordProfiles {
		t.Fatalf("expected profiles record, got %q", se.Record)
	}
}

func TestDiskvLegacySingleProfile(t *testing.T) {
	base := t.TempDir()
	p, err := OpenDiskv(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	legacy := `{"name":"Old","region":"south","fish":{"3":{"caught":true,"donated":false}}}`
	if err := os.WriteFile(filepath.Join(base, RecordProfiles), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, RecordActiveIndex), []byte("not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Profiles) != 1 || got.ActiveIndex != 0 {
		t.Fatalf("unexpected state %+v", got)
	}
	pr := got.Profiles[0]
	if pr.Name != "Old" || pr.Region != creature.South || !pr.Fish["3"].Caught || pr.Bug == nil {
		t.Fatalf("legacy profile not normalized: %+v", pr)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&StorageError{Op: "write", Record: RecordProfiles, Err: inner})
	if !errors.Is(err, inner) {
		t.Fatal("StorageError should unwrap to its cause")
	}
	if err.Error() != "store: write profiles: disk full" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLoadSelectsBackend(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base, backend: BackendSQLite})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer p.Close()
	if _, ok := p.(*SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", p)
	}
	if _, err := os.Stat(filepath.Join(base, "critterdex.db")); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}
