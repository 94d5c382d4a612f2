// Package transfer moves single profiles in and out of the store as portable
// documents. Import is two-phase: Import decides, Apply acts only once the
// caller has confirmed.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"tableflip.dev/critterdex/pkg/profile"
)

// Extension is appended to exported documents.
const Extension = ".critterdex"

// Version is written into every exported document.
const Version = 1

// ImportValidationError means a document cannot become a profile.
type ImportValidationError struct {
	Reason string
	Err    error
}

func (e *ImportValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer: invalid profile document: %s: %v", e.Reason, e.Err)
	}
	return "transfer: invalid profile document: " + e.Reason
}

func (e *ImportValidationError) Unwrap() error {
	return e.Err
}

// ErrNotConfirmed is returned by Apply when the caller did not confirm.
var ErrNotConfirmed = errors.New("transfer: import not confirmed")

// document is the exported shape: the profile fields plus a version.
type document struct {
	Version int `json:"version"`
	profile.Profile
}

// Export renders p as an indented document. The store is not touched.
func Export(p profile.Profile) ([]byte, error) {
	b, err := json.MarshalIndent(document{Version: Version, Profile: p}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("transfer: encode profile: %w", err)
	}
	return append(b, '\n'), nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileName is the export file name for p.
func FileName(p profile.Profile) string {
	slug := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(p.Name), "-"), "-")
	if slug == "" {
		slug = "profile-" + p.ID
	}
	return slug + Extension
}

// WriteFile exports p into dir and returns the written path.
func WriteFile(dir string, p profile.Profile) (string, error) {
	b, err := Export(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("transfer: ensure dir: %w", err)
	}
	path := filepath.Join(dir, FileName(p))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", fmt.Errorf("transfer: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("transfer: write: %w", err)
	}
	return path, nil
}

// Decision is the outcome of Import. Nothing has been applied yet.
type Decision struct {
	// NeedsOverwrite is set when a profile with the same id already exists.
	NeedsOverwrite bool
	// ExistingIndex is the position of that profile, nil otherwise.
	ExistingIndex *int
	Profile       profile.Profile
}

// Import validates doc, fills missing optional fields with defaults and
// decides whether it would overwrite one of existing.
func Import(doc []byte, existing []profile.Profile) (Decision, error) {
	if len(strings.TrimSpace(string(doc))) == 0 {
		return Decision{}, &ImportValidationError{Reason: "empty document"}
	}
	if !json.Valid(doc) {
		var v any
		err := json.Unmarshal(doc, &v)
		return Decision{}, &ImportValidationError{Reason: "not valid JSON", Err: err}
	}
	l, err := profile.DecodeLegacy(doc)
	if err != nil {
		return Decision{}, &ImportValidationError{Reason: "not a profile object", Err: err}
	}
	if strings.TrimSpace(l.Name) == "" {
		return Decision{}, &ImportValidationError{Reason: "name is missing or empty"}
	}

	p := l.Normalize()
	d := Decision{Profile: p}
	for i := range existing {
		if existing[i].ID == p.ID {
			idx := i
			d.NeedsOverwrite = true
			d.ExistingIndex = &idx
			break
		}
	}
	return d, nil
}

// ReadFile reads and decides on the document at path.
func ReadFile(path string, existing []profile.Profile) (Decision, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Decision{}, fmt.Errorf("transfer: read %s: %w", path, err)
	}
	return Import(b, existing)
}

// Target is what Apply writes into; profiles.Store satisfies it.
type Target interface {
	Overwrite(ctx context.Context, index int, p profile.Profile) error
	Append(ctx context.Context, p profile.Profile) (int, error)
}

// Apply carries out d once confirmed: an in-place overwrite when the id is
// already present, an append otherwise. It returns the profile's index.
func Apply(ctx context.Context, t Target, d Decision, confirmed bool) (int, error) {
	if !confirmed {
		return -1, ErrNotConfirmed
	}
	if d.NeedsOverwrite && d.ExistingIndex != nil {
		if err := t.Overwrite(ctx, *d.ExistingIndex, d.Profile); err != nil {
			return -1, err
		}
		return *d.ExistingIndex, nil
	}
	return t.Append(ctx, d.Profile)
}
