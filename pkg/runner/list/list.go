// Package list prints the filtered collection listings of the active profile.
package list

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/catalog"
	"tableflip.dev/critterdex/pkg/collection"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/log"
	"tableflip.dev/critterdex/pkg/printers"
	"tableflip.dev/critterdex/pkg/profiles"
)

type List struct {
	Store   *profiles.Store
	Catalog catalog.Source
	// Kinds defaults to every kind.
	Kinds []creature.Kind

	// Mode, ShowCollected and ShowDonated override the stored settings for
	// this listing only.
	Mode          *availability.Mode
	ShowCollected *bool
	ShowDonated   *bool
	Sorted        bool

	// Output is "", "json" or "yaml".
	Output string
	Out    io.Writer
	Now    func() time.Time
}

func (n *List) Do(ctx context.Context) error {
	if n.Store == nil || n.Catalog == nil {
		return errors.New("can not list, no store or catalog")
	}
	kinds := n.Kinds
	if len(kinds) == 0 {
		kinds = creature.AllKinds()
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	p := n.Store.Active()
	views := make([]collection.View, 0, len(kinds))
	for _, k := range kinds {
		items, err := n.Catalog.Fetch(ctx, k)
		if err != nil {
			return err
		}
		views = append(views, collection.Build(items, &p, k, now(), n.options()...))
	}

	if n.Output != "" {
		docs := make([]printers.ViewDoc, 0, len(views))
		for _, v := range views {
			docs = append(docs, printers.NewViewDoc(v))
		}
		return printers.Structured(out, n.Output, docs)
	}

	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	for _, v := range views {
		pp.View(v)
	}
	return nil
}

func (n *List) options() []collection.Option {
	opts := []collection.Option{
		collection.WithParseErrors(func(item *creature.Creature, month int, err error) {
			log.Debug("unreadable hours", "creature", item.Name, "month", month, "err", err)
		}),
	}
	if n.Mode != nil {
		opts = append(opts, collection.WithMode(*n.Mode))
	}
	if n.ShowCollected != nil {
		opts = append(opts, collection.WithShowCollected(*n.ShowCollected))
	}
	if n.ShowDonated != nil {
		opts = append(opts, collection.WithShowDonated(*n.ShowDonated))
	}
	if n.Sorted {
		opts = append(opts, collection.SortedByNumber())
	}
	return opts
}
