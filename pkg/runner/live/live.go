package live

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"tableflip.dev/critterdex/pkg/catalog"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/log"
	"tableflip.dev/critterdex/pkg/profiles"
)

// Live runs the full screen view until the user quits.
type Live struct {
	Store   *profiles.Store
	Catalog catalog.Source
	Kinds   []creature.Kind
	// Follow reloads changes written by other sessions.
	Follow bool
	Now    func() time.Time
}

func (n *Live) Do(ctx context.Context) error {
	if n.Store == nil || n.Catalog == nil {
		return errors.New("can not go live, no store or catalog")
	}
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("live needs a terminal, use list instead")
	}
	kinds := n.Kinds
	if len(kinds) == 0 {
		kinds = creature.AllKinds()
	}
	items := make(map[creature.Kind][]creature.Creature, len(kinds))
	for _, k := range kinds {
		list, err := n.Catalog.Fetch(ctx, k)
		if err != nil {
			return err
		}
		items[k] = list
	}

	// Log lines would tear the alternate screen.
	prev := log.SetOutput(io.Discard)
	defer log.SetOutput(prev)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if n.Follow {
		go func() {
			if err := n.Store.Follow(ctx); err != nil {
				log.Warn("following external changes stopped", "err", err)
			}
		}()
	}

	m := New(n.Store, items, kinds, n.Now)
	stop := m.Watch()
	defer stop()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
