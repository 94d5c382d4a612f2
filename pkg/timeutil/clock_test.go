package timeutil

import (
	"testing"
	"time"
)

func TestParseClockLayouts(t *testing.T) {
	loc := time.FixedZone("island", 9*3600)
	now := time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-15 23:30", time.Date(2025, 6, 15, 23, 30, 0, 0, loc)},
		{"2025-06-15 23:30:10", time.Date(2025, 6, 15, 23, 30, 10, 0, loc)},
		{"2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, loc)},
		{"2025-06-15T12:00:00Z", time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)},
		{"21:15", time.Date(2025, 3, 4, 21, 15, 0, 0, loc)},
		{"now", now},
	}
	for _, tc := range tests {
		got, err := ParseClock(tc.in, now, loc)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseClock(%q) = %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseClockInvalid(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2025-13-01", "25:00"} {
		if _, err := ParseClock(in, time.Now(), time.UTC); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseOffset(t *testing.T) {
	tests := map[string]time.Duration{
		"3h":      3 * time.Hour,
		"+90m":    90 * time.Minute,
		"-1w2d":   -(9 * 24 * time.Hour),
		"1d 6h":   30 * time.Hour,
		"2 weeks": 14 * 24 * time.Hour,
	}
	for in, want := range tests {
		got, err := ParseOffset(in)
		if err != nil {
			t.Fatalf("ParseOffset(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseOffset(%q) = %v want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "-", "noop", "3y", "5"} {
		if _, err := ParseOffset(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatOffset(t *testing.T) {
	if got := FormatOffset(-(9*24*time.Hour + 30*time.Minute)); got != "-1w2d30m" {
		t.Fatalf("got %q", got)
	}
	if got := FormatOffset(0); got != "0m" {
		t.Fatalf("got %q", got)
	}
	if got := FormatOffset(30 * time.Second); got != "0m" {
		t.Fatalf("got %q", got)
	}
}
