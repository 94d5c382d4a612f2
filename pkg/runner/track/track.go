// Package track provides runners that record caught and donated progress.
package track

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/catalog"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/printers"
	"tableflip.dev/critterdex/pkg/profiles"
)

// Track updates the active profile's entry for one creature.
type Track struct {
	Store   *profiles.Store
	Catalog catalog.Source
	Kind    creature.Kind
	// Query is a catalog number or a (possibly misspelled) name.
	Query string

	// Caught and Donated set a flag explicitly. Toggle flips the named
	// flags instead. With neither, the entry is only printed.
	Caught  *bool
	Donated *bool
	Toggle  []profiles.Field

	Out io.Writer
}

// Do resolves the creature, applies the change and prints the resulting
// entry.
func (n *Track) Do(ctx context.Context) error {
	if n.Store == nil || n.Catalog == nil {
		return errors.New("can not track, no store or catalog")
	}
	if len(n.Toggle) > 0 && (n.Caught != nil || n.Donated != nil) {
		return errors.New("toggle can not be combined with explicit values")
	}

	cat, err := catalog.Load(ctx, n.Catalog, n.Kind)
	if err != nil {
		return err
	}
	c, err := cat.Find(n.Query)
	if err != nil {
		return err
	}

	entry, _ := n.Store.Tracking(n.Kind, c.ID())
	switch {
	case len(n.Toggle) > 0:
		for _, f := range n.Toggle {
			if entry, err = n.Store.Toggle(ctx, n.Kind, c.ID(), f); err != nil {
				return err
			}
		}
	case n.Caught != nil || n.Donated != nil:
		next := entry
		if n.Caught != nil {
			next.Caught = *n.Caught
		}
		if n.Donated != nil {
			next.Donated = *n.Donated
		}
		if err := n.Store.SetTracking(ctx, n.Kind, c.ID(), next); err != nil {
			return err
		}
		entry = next
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Tracked(*c, entry)
	return nil
}
