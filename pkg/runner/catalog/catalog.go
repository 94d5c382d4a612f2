// Package catalog provides runners that inspect and refresh the creature
// catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/catalog"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/printers"
	"tableflip.dev/critterdex/pkg/profiles"
)

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// Refresh re-downloads the given kinds, replacing the durable cache.
type Refresh struct {
	Cache *catalog.Cached
	Kinds []creature.Kind
	// Clear drops the cached entries instead of downloading.
	Clear bool
	Out   io.Writer
}

func (n *Refresh) Do(ctx context.Context) error {
	if n.Cache == nil {
		return errors.New("can not refresh, no catalog cache")
	}
	kinds := n.Kinds
	if len(kinds) == 0 {
		kinds = creature.AllKinds()
	}
	for _, k := range kinds {
		if n.Clear {
			if err := n.Cache.Clear(k); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(writer(n.Out), "Cleared %s.\n", k.Title())
			continue
		}
		items, err := n.Cache.Refresh(ctx, k)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(writer(n.Out), "Fetched %d %s.\n", len(items), k.Title())
	}
	return nil
}

// Show prints one creature with its availability for the active profile.
type Show struct {
	Store   *profiles.Store
	Catalog catalog.Source
	Kind    creature.Kind
	Query   string

	Output string
	Out    io.Writer
	Now    func() time.Time
}

func (n *Show) Do(ctx context.Context) error {
	if n.Store == nil || n.Catalog == nil {
		return errors.New("can not show, no store or catalog")
	}
	cat, err := catalog.Load(ctx, n.Catalog, n.Kind)
	if err != nil {
		return err
	}
	c, err := cat.Find(n.Query)
	if err != nil {
		return err
	}
	if n.Output != "" {
		return printers.Structured(writer(n.Out), n.Output, c)
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	p := n.Store.Active()
	e, _ := n.Store.Tracking(n.Kind, c.ID())
	pp := printers.PrettyPrint{Out: writer(n.Out)}
	pp.Creature(*c, p.Region, e, p.ReferenceTime(now()))
	return nil
}
