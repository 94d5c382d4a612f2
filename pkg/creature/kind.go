// Package creature defines the read-only catalog records for fish, bugs and
// sea creatures.
package creature

import (
	"fmt"
	"strings"
)

// Kind identifies one of the catalog creature types.
type Kind string

const (
	Fish        Kind = "fish"
	Bug         Kind = "bug"
	SeaCreature Kind = "sea-creature"
)

// AllKinds returns the supported kinds in display order.
func AllKinds() []Kind {
	return []Kind{Fish, Bug, SeaCreature}
}

// ParseKind accepts the canonical names plus common plurals and short forms.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fish", "fishes":
		return Fish, nil
	case "bug", "bugs", "insect", "insects":
		return Bug, nil
	case "sea-creature", "sea-creatures", "sea", "seacreature", "diving":
		return SeaCreature, nil
	}
	return "", fmt.Errorf("creature: unknown kind %q", raw)
}

// Endpoint is the catalog API path serving this kind.
func (k Kind) Endpoint() string {
	switch k {
	case Fish:
		return "/nh/fish"
	case Bug:
		return "/nh/bugs"
	case SeaCreature:
		return "/nh/sea"
	}
	return ""
}

// CacheKey names the durable cache record for this kind's catalog.
func (k Kind) CacheKey() string {
	switch k {
	case Fish:
		return "fishData"
	case Bug:
		return "bugData"
	case SeaCreature:
		return "seaCreatureData"
	}
	return ""
}

// Title is the plural display name.
func (k Kind) Title() string {
	switch k {
	case Fish:
		return "Fish"
	case Bug:
		return "Bugs"
	case SeaCreature:
		return "Sea Creatures"
	}
	return string(k)
}

// Region selects the hemisphere whose availability applies.
type Region string

const (
	North Region = "north"
	South Region = "south"
)

// ParseRegion converts user input into a Region.
func ParseRegion(raw string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "north", "n", "northern":
		return North, nil
	case "south", "s", "southern":
		return South, nil
	}
	return "", fmt.Errorf("creature: unknown region %q", raw)
}

// OrNorth maps the zero or unknown region to North.
func (r Region) OrNorth() Region {
	if r == South {
		return South
	}
	return North
}
