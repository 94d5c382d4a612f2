package transfer

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/profiles"
	"tableflip.dev/critterdex/pkg/store"
	codec "tableflip.dev/critterdex/pkg/transfer"
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

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openStore(t)
	name := "Island Life"
	if err := src.Update(ctx, profile.Patch{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if err := src.SetTracking(ctx, creature.Fish, "3", profile.TrackingEntry{Caught: true}); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	var buf bytes.Buffer
	if err := (&Export{Store: src, Dir: dir, Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, codec.FileName(src.Active()))
	if !strings.Contains(buf.String(), path) {
		t.Fatalf("unexpected output %q", buf.String())
	}

	dst := openStore(t)
	if err := (&Import{Store: dst, Path: path, Activate: true, Out: &buf}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if len(dst.Profiles()) != 2 || dst.ActiveIndex() != 1 {
		t.Fatalf("expected appended and active, got %d profiles active %d", len(dst.Profiles()), dst.ActiveIndex())
	}
	if e, _ := dst.Tracking(creature.Fish, "3"); !e.Caught {
		t.Fatal("tracking lost in transfer")
	}
}

func TestImportExistingNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	var doc bytes.Buffer
	if err := (&Export{Store: s, Dir: "-", Out: &doc}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	raw := doc.String()

	var out bytes.Buffer
	err := (&Import{Store: s, Path: "-", In: strings.NewReader(raw), Out: &out}).Do(ctx)
	if !errors.Is(err, codec.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}

	declined := &Import{Store: s, Path: "-", In: strings.NewReader(raw), Out: &out,
		Confirm: func(string) (bool, error) { return false, nil }}
	if err := declined.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Import cancelled.") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&Import{Store: s, Path: "-", In: strings.NewReader(raw), Yes: true, Out: &out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Profiles()) != 1 || !strings.HasPrefix(out.String(), "Overwrote") {
		t.Fatalf("expected in-place overwrite, got %d profiles, %q", len(s.Profiles()), out.String())
	}
}

func TestImportRejectsBadDocument(t *testing.T) {
	s := openStore(t)
	err := (&Import{Store: s, Path: "-", In: strings.NewReader(`{"region":"north"}`), Out: &bytes.Buffer{}}).Do(context.Background())
	var verr *codec.ImportValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportNewProfileAppendsWithoutPrompt(t *testing.T) {
	ctx := context.Background()
	src := openStore(t)
	var doc bytes.Buffer
	if err := (&Export{Store: src, Dir: "-", Out: &doc}).Do(ctx); err != nil {
		t.Fatal(err)
	}

	dst := openStore(t)
	var out bytes.Buffer
	n := &Import{Store: dst, Path: "-", In: strings.NewReader(doc.String()), Out: &out,
		Confirm: func(label string) (bool, error) {
			t.Fatalf("unexpected prompt %q", label)
			return false, nil
		}}
	if err := n.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if len(dst.Profiles()) != 2 || !strings.HasPrefix(out.String(), "Imported") {
		t.Fatalf("expected append, got %d profiles, %q", len(dst.Profiles()), out.String())
	}
}
