// Package transfer provides the export and import runners.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/profiles"
	profilerun "tableflip.dev/critterdex/pkg/runner/profile"
	codec "tableflip.dev/critterdex/pkg/transfer"
)

// Export writes one profile as a document.
type Export struct {
	Store *profiles.Store
	// Target defaults to the active profile.
	Target string
	// Dir receives <name>.critterdex. "-" writes to Out instead.
	Dir string
	Out io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Store == nil {
		return errors.New("can not export, no store")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	p := n.Store.Active()
	if n.Target != "" {
		list := n.Store.Profiles()
		i, err := profilerun.Resolve(list, n.Target)
		if err != nil {
			return err
		}
		p = list[i]
	}

	if n.Dir == "-" {
		b, err := codec.Export(p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	dir := n.Dir
	if dir == "" {
		dir = "."
	}
	path, err := codec.WriteFile(dir, p)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Exported %q to %s\n", p.Name, path)
	return nil
}

// Import reads a document and adds it to the store. Running the import
// confirms an append; overwriting an existing profile with the same id needs
// Yes or a positive Confirm.
type Import struct {
	Store *profiles.Store
	// Path "-" reads In.
	Path string
	In   io.Reader

	Yes     bool
	Confirm func(label string) (bool, error)
	// Activate switches to the imported profile.
	Activate bool

	Out io.Writer
}

func (n *Import) Do(ctx context.Context) error {
	if n.Store == nil {
		return errors.New("can not import, no store")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	var (
		d   codec.Decision
		err error
	)
	if n.Path == "-" {
		in := n.In
		if in == nil {
			in = os.Stdin
		}
		b, rerr := io.ReadAll(in)
		if rerr != nil {
			return fmt.Errorf("transfer: read input: %w", rerr)
		}
		d, err = codec.Import(b, n.Store.Profiles())
	} else {
		d, err = codec.ReadFile(n.Path, n.Store.Profiles())
	}
	if err != nil {
		return err
	}

	confirmed := true
	if d.NeedsOverwrite && !n.Yes {
		if n.Confirm == nil {
			return fmt.Errorf("profile %q already exists, pass --yes to overwrite: %w", d.Profile.Name, codec.ErrNotConfirmed)
		}
		confirmed, err = n.Confirm(fmt.Sprintf("Profile %q already exists. Overwrite it?", d.Profile.Name))
		if err != nil {
			return err
		}
	}

	i, err := codec.Apply(ctx, n.Store, d, confirmed)
	if errors.Is(err, codec.ErrNotConfirmed) {
		_, _ = fmt.Fprintln(out, "Import cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	if n.Activate {
		if err := n.Store.Switch(ctx, i); err != nil {
			return err
		}
	}

	verb := "Imported"
	if d.NeedsOverwrite {
		verb = "Overwrote"
	}
	_, _ = fmt.Fprintf(out, "%s profile %q at index %d.\n", verb, d.Profile.Name, i)
	return nil
}
