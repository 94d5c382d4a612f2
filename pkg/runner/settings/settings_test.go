package settings

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/profiles"
	"tableflip.dev/critterdex/pkg/store"
)

func openStore(t *testing.T) *profiles.Store {
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
	return s
}

func TestSettingsPatch(t *testing.T) {
	s := openStore(t)
	mode := availability.All
	hide := false
	n := Settings{
		Store:  s,
		Kind:   creature.SeaCreature,
		Patch:  profile.SettingsPatch{FilterType: &mode, ShowDonated: &hide},
		Output: "json",
		Out:    &bytes.Buffer{},
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := s.Settings(creature.SeaCreature)
	if got.FilterType != availability.All || got.ShowDonated || !got.ShowCollected {
		t.Fatalf("unexpected settings %+v", got)
	}
	if s.Settings(creature.Fish) != profile.DefaultSettings() {
		t.Fatal("patch leaked into another kind")
	}
}

func TestSettingsNeedsKind(t *testing.T) {
	s := openStore(t)
	hide := false
	n := Settings{Store: s, Patch: profile.SettingsPatch{ShowCollected: &hide}, Out: &bytes.Buffer{}}
	if err := n.Do(context.Background()); err == nil {
		t.Fatal("expected error without kind")
	}
}

func TestSettingsPrint(t *testing.T) {
	s := openStore(t)
	var buf bytes.Buffer
	if err := (&Settings{Store: s, Output: "yaml", Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "sea-creature:") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
}
