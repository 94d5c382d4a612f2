package profilerun

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/profiles"
	"tableflip.dev/critterdex/pkg/store"
)

func init() {
	color.NoColor = true
}

func openStore(t *testing.T, names ...string) *profiles.Store {
	t.Helper()
	p, err := store.OpenDiskv(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.Close() })
	s, err := profiles.Open(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if _, err := s.Create(context.Background(), n); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestResolve(t *testing.T) {
	list := []profile.Profile{
		{ID: "a1", Name: "Default Profile"},
		{ID: "b2", Name: "Island Two"},
		{ID: "c3", Name: "Island Three"},
		{ID: "d4", Name: "island two"},
	}
	tests := []struct {
		target  string
		want    int
		wantErr bool
	}{
		{target: "0", want: 0},
		{target: "3", want: 3},
		{target: "4", wantErr: true},
		{target: "c3", want: 2},
		{target: "default", want: 0},
		{target: "island three", want: 2},
		{target: "Island Two", wantErr: true},
		{target: "island", wantErr: true},
		{target: "isl th", wantErr: true},
		{target: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := Resolve(list, tc.target)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Resolve(%q) expected error, got %d", tc.target, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.target, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %d want %d", tc.target, got, tc.want)
		}
	}
}

func TestAddAndSwitch(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	var buf bytes.Buffer
	if err := (&Add{Store: s, Name: "Second", Switch: true, Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Active().Name != "Second" || len(s.Profiles()) != 2 {
		t.Fatalf("expected Second active of 2, got %q of %d", s.Active().Name, len(s.Profiles()))
	}
	if err := (&Switch{Store: s, Target: "0", Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if s.ActiveIndex() != 0 {
		t.Fatalf("expected index 0, got %d", s.ActiveIndex())
	}

	pick := func(list []profile.Profile, active int) (int, error) { return len(list) - 1, nil }
	if err := (&Switch{Store: s, Pick: pick, Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if s.ActiveIndex() != 1 {
		t.Fatalf("picker not honoured, index %d", s.ActiveIndex())
	}
	if err := (&Switch{Store: s, Out: &buf}).Do(ctx); err == nil {
		t.Fatal("expected error without target or picker")
	}
}

func TestRemove(t *testing.T) {
	s := openStore(t, "Second")
	ctx := context.Background()
	var buf bytes.Buffer

	declined := &Remove{Store: s, Target: "Second", Out: &buf,
		Confirm: func(string) (bool, error) { return false, nil }}
	if err := declined.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Profiles()) != 2 {
		t.Fatal("declined removal removed a profile")
	}

	if err := (&Remove{Store: s, Target: "Second", Out: &buf}).Do(ctx); err == nil {
		t.Fatal("expected error without confirmation")
	}

	failing := &Remove{Store: s, Target: "Second", Out: &buf,
		Confirm: func(string) (bool, error) { return false, errors.New("no tty") }}
	if err := failing.Do(ctx); err == nil {
		t.Fatal("expected confirm error to surface")
	}

	if err := (&Remove{Store: s, Target: "Second", Yes: true, Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Profiles()) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(s.Profiles()))
	}
	if err := (&Remove{Store: s, Target: "0", Yes: true, Out: &buf}).Do(ctx); err == nil {
		t.Fatal("removing the only profile should fail")
	}
}

func TestRenameAndRegion(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	var buf bytes.Buffer
	if err := (&Rename{Store: s, Name: "Home", Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&Region{Store: s, Region: "south", Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	p := s.Active()
	if p.Name != "Home" || p.Region != creature.South {
		t.Fatalf("unexpected profile %+v", p)
	}
	if err := (&Region{Store: s, Region: "east", Out: &buf}).Do(ctx); err == nil {
		t.Fatal("expected bad region error")
	}
}

func TestClock(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	var buf bytes.Buffer

	set := &Clock{Store: s, Set: "2025-12-24 20:00", Now: clock, Location: time.UTC, Out: &buf}
	if err := set.Do(ctx); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)
	if got := s.Active().DateTime; got == nil || !got.Equal(want) {
		t.Fatalf("set clock = %v", got)
	}

	shift := &Clock{Store: s, Shift: "-1d", Now: clock, Location: time.UTC, Out: &buf}
	if err := shift.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Active().DateTime; got == nil || !got.Equal(want.Add(-24*time.Hour)) {
		t.Fatalf("shifted clock = %v", got)
	}

	buf.Reset()
	if err := (&Clock{Store: s, Clear: true, Now: clock, Location: time.UTC, Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Active().DateTime != nil {
		t.Fatal("clock not cleared")
	}
	if !strings.Contains(buf.String(), "system time") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := (&Clock{Store: s, Set: "x", Shift: "1h", Now: clock}).Do(ctx); err == nil {
		t.Fatal("expected error for set with shift")
	}
}

func TestListStructured(t *testing.T) {
	s := openStore(t, "Second")
	var buf bytes.Buffer
	if err := (&List{Store: s, Output: "yaml", Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "name: Second") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
}
