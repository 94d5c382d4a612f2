package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/collection"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/hours"
	"tableflip.dev/critterdex/pkg/profile"
)

func init() {
	color.NoColor = true
}

func testView() collection.View {
	p := profile.New("Island")
	p.Settings.Fish.FilterType = availability.All
	p.Fish["1"] = profile.TrackingEntry{Caught: true}

	c := creature.Creature{Number: 1, Name: "bitterling"}
	c.North.Months = creature.Months(6)
	c.North.Times[6] = "All day"
	d := creature.Creature{Number: 2, Name: "pale chub"}
	d.North.Months = creature.AllYear()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return collection.Build([]creature.Creature{c, d}, &p, creature.Fish, now)
}

func TestView(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.View(testView())

	out := buf.String()
	for _, want := range []string{"Fish - 2 creatures", "bitterling", "pale chub", "Leaving soon", "Here this month", "Caught 1/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestViewEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	v := testView()
	v.Rows = nil
	pp.View(v)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected empty marker, got %q", buf.String())
	}
}

func TestProfiles(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	a := profile.New("First")
	b := profile.New("Second")
	at := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	b.DateTime = &at
	pp.Profiles([]profile.Profile{a, b}, 1)

	out := buf.String()
	if !strings.Contains(out, "Profiles - 2") || !strings.Contains(out, "live") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Second") && !strings.HasPrefix(strings.TrimSpace(line), "*") {
			t.Fatalf("active profile not marked: %q", line)
		}
		if strings.Contains(line, "First") && strings.HasPrefix(strings.TrimSpace(line), "*") {
			t.Fatalf("inactive profile marked: %q", line)
		}
	}
}

func TestPrintDay(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.PrintDay(hours.MustParse("9 AM – 4 PM"), 10)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], " 0  1") || !strings.HasSuffix(lines[1], "23") {
		t.Fatalf("unexpected day grid %q", buf.String())
	}
}

func TestCreature(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	c := creature.Creature{Number: 3, Name: "carp", Location: "Pond"}
	c.South.Months = creature.AllYear()
	c.South.Times[3] = "weird"
	pp.Creature(c, creature.South, profile.TrackingEntry{}, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	out := buf.String()
	for _, want := range []string{"#3 carp", "Location: Pond", "Jan Feb Mar", "March: weird"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestStructured(t *testing.T) {
	doc := NewViewDoc(testView())

	var js bytes.Buffer
	if err := Structured(&js, FormatJSON, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"leavingSoon": true`) {
		t.Fatalf("unexpected json:\n%s", js.String())
	}

	var ym bytes.Buffer
	if err := Structured(&ym, FormatYAML, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ym.String(), "name: bitterling") {
		t.Fatalf("unexpected yaml:\n%s", ym.String())
	}

	if err := Structured(&ym, "xml", doc); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
