// Package profilerun provides the runners behind the profile subcommands.
package profilerun

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/critterdex/pkg/profile"
)

// Resolve finds the profile named by target: a list index, a profile id,
// a case-insensitive name, or a unique name prefix.
func Resolve(list []profile.Profile, target string) (int, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return -1, fmt.Errorf("profile: no profile given")
	}
	if i, err := strconv.Atoi(t); err == nil {
		if i < 0 || i >= len(list) {
			return -1, fmt.Errorf("profile: index %d out of range, have %d profiles", i, len(list))
		}
		return i, nil
	}
	for i := range list {
		if list[i].ID == t {
			return i, nil
		}
	}

	lower := strings.ToLower(t)
	var exact, prefix []int
	for i := range list {
		name := strings.ToLower(list[i].Name)
		switch {
		case name == lower:
			exact = append(exact, i)
		case strings.HasPrefix(name, lower):
			prefix = append(prefix, i)
		}
	}
	switch {
	case len(exact) == 1:
		return exact[0], nil
	case len(exact) > 1:
		return -1, fmt.Errorf("profile: %d profiles are named %q, use an index or id", len(exact), t)
	case len(prefix) == 1:
		return prefix[0], nil
	case len(prefix) > 1:
		return -1, fmt.Errorf("profile: %q matches %d profiles, use an index or id", t, len(prefix))
	}
	return -1, fmt.Errorf("profile: no profile matches %q", t)
}
