// Package settings shows and changes the per-kind listing settings of the
// active profile.
package settings

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/printers"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/profiles"
)

type Settings struct {
	Store *profiles.Store
	// Kind is required when Patch changes anything.
	Kind  creature.Kind
	Patch profile.SettingsPatch

	Output string
	Out    io.Writer
}

func (n *Settings) Do(ctx context.Context) error {
	if n.Store == nil {
		return errors.New("can not change settings, no store")
	}
	if n.changes() {
		if n.Kind == "" {
			return errors.New("settings: a kind is needed to change settings")
		}
		if err := n.Store.SetSettings(ctx, n.Kind, n.Patch); err != nil {
			return err
		}
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	s := n.Store.Active().Settings
	if n.Output != "" {
		if n.Kind != "" {
			return printers.Structured(out, n.Output, s.For(n.Kind))
		}
		return printers.Structured(out, n.Output, s)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Settings(&s)
	return nil
}

func (n *Settings) changes() bool {
	return n.Patch.FilterType != nil || n.Patch.ShowCollected != nil || n.Patch.ShowDonated != nil
}
