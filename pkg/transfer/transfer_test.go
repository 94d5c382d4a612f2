package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
)

func fullProfile() profile.Profile {
	p := profile.New("Anchovy Cove")
	p.Region = creature.South
	when := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	p.DateTime = &when
	p.Fish["1"] = profile.TrackingEntry{Caught: true}
	p.Bug["33"] = profile.TrackingEntry{Caught: true, Donated: true}
	p.SeaCreature["4"] = profile.TrackingEntry{}
	p.Settings.Bug = profile.CollectionSettings{FilterType: availability.LeavingThisMonth, ShowCollected: false, ShowDonated: true}
	return p
}

func TestExportImportRoundTrip(t *testing.T) {
	p := fullProfile()
	doc, err := Export(p)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	d, err := Import(doc, nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if d.NeedsOverwrite || d.ExistingIndex != nil {
		t.Fatalf("unexpected overwrite decision %+v", d)
	}
	if !reflect.DeepEqual(d.Profile, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", d.Profile, p)
	}
}

func TestImportDetectsExistingID(t *testing.T) {
	p := fullProfile()
	doc, err := Export(p)
	if err != nil {
		t.Fatal(err)
	}
	existing := []profile.Profile{profile.New("one"), profile.New("two"), p}

	d, err := Import(doc, existing)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !d.NeedsOverwrite || d.ExistingIndex == nil || *d.ExistingIndex != 2 {
		t.Fatalf("expected overwrite of index 2, got %+v", d)
	}

	fresh := fullProfile()
	doc, _ = Export(fresh)
	d, err = Import(doc, existing)
	if err != nil {
		t.Fatalf("import fresh: %v", err)
	}
	if d.NeedsOverwrite || d.ExistingIndex != nil {
		t.Fatalf("fresh id should append, got %+v", d)
	}
}

func TestImportValidation(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"not json":     "name: island",
		"truncated":    `{"name":"x"`,
		"array":        `[{"name":"x"}]`,
		"missing name": `{"id":"abc","region":"north"}`,
		"blank name":   `{"name":"   "}`,
		"null":         `null`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Import([]byte(doc), nil)
			var ve *ImportValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ImportValidationError, got %v", err)
			}
		})
	}
}

func TestImportDefaultsLegacyDocument(t *testing.T) {
	d, err := Import([]byte(`{"name":"Old export","fish":{"2":{"caught":true,"donated":false}}}`), nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	p := d.Profile
	if p.ID == "" || p.Region != creature.North || p.Bug == nil || p.SeaCreature == nil {
		t.Fatalf("missing fields not defaulted: %+v", p)
	}
	if p.Settings.Fish != profile.DefaultSettings() {
		t.Fatalf("settings not defaulted: %+v", p.Settings.Fish)
	}
	if !p.Fish["2"].Caught {
		t.Fatal("tracking lost")
	}
}

type fakeTarget struct {
	overwritten map[int]profile.Profile
	appended    []profile.Profile
}

func (f *fakeTarget) Overwrite(_ context.Context, index int, p profile.Profile) error {
	if f.overwritten == nil {
		f.overwritten = map[int]profile.Profile{}
	}
	f.overwritten[index] = p
	return nil
}

func (f *fakeTarget) Append(_ context.Context, p profile.Profile) (int, error) {
	f.appended = append(f.appended, p)
	return len(f.appended), nil
}

func TestApplyRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	idx := 0
	d := Decision{NeedsOverwrite: true, ExistingIndex: &idx, Profile: fullProfile()}

	target := &fakeTarget{}
	if _, err := Apply(ctx, target, d, false); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if len(target.overwritten) != 0 || len(target.appended) != 0 {
		t.Fatal("unconfirmed apply touched the target")
	}

	got, err := Apply(ctx, target, d, true)
	if err != nil || got != 0 {
		t.Fatalf("overwrite apply: %d %v", got, err)
	}
	if _, ok := target.overwritten[0]; !ok || len(target.appended) != 0 {
		t.Fatal("expected in-place overwrite")
	}

	if _, err := Apply(ctx, target, Decision{Profile: fullProfile()}, true); err != nil {
		t.Fatalf("append apply: %v", err)
	}
	if len(target.appended) != 1 {
		t.Fatal("expected append")
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	p := fullProfile()
	path, err := WriteFile(dir, p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "anchovy-cove.critterdex" {
		t.Fatalf("unexpected file name %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"version": 1`) {
		t.Fatalf("expected version field in %s", b)
	}
	d, err := ReadFile(path, []profile.Profile{p})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !d.NeedsOverwrite {
		t.Fatal("expected overwrite decision for same id")
	}
}

func TestFileNameFallsBackToID(t *testing.T) {
	p := profile.Profile{ID: "abc123", Name: "***"}
	if got := FileName(p); got != "profile-abc123.critterdex" {
		t.Fatalf("got %q", got)
	}
}
