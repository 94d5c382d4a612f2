// Package info prints where critterdex keeps its state.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/profiles"
	"tableflip.dev/critterdex/pkg/store"
)

type Info struct {
	Config store.Config
	Store  *profiles.Store
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("CRITTERDEX_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "CRITTERDEX_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "CRITTERDEX_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend:", n.Config.Backend())
	_, _ = fmt.Fprintln(out, "Config.catalog.url:", n.Config.CatalogURL())
	_, _ = fmt.Fprintln(out, "Config.catalog.cache:", n.Config.CatalogCache())
	if n.Config.CatalogKey() == "" {
		_, _ = fmt.Fprintln(out, "Config.catalog.key: not set")
	} else {
		_, _ = fmt.Fprintln(out, "Config.catalog.key: set")
	}

	if n.Store == nil {
		return fmt.Errorf("failed to open the profile store")
	}
	if w := n.Store.Warning(); w != nil {
		_, _ = color.New(color.FgYellow).Fprintln(out, "Warning:", w)
	}
	_, _ = fmt.Fprintf(out, "Profiles: %d, active %q\n", len(n.Store.Profiles()), n.Store.Active().Name)
	return nil
}
