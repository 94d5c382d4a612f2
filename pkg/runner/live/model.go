// Package live renders the active profile's collections in a full screen
// view that recomputes availability every second.
package live

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/critterdex/pkg/availability"
	"tableflip.dev/critterdex/pkg/collection"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/profiles"
)

const (
	tickInterval = time.Second
	headerRows   = 3
	footerRows   = 2
)

type tickMsg time.Time

// changedMsg arrives after the store changed, locally or from elsewhere.
type changedMsg struct {
	source profiles.Source
}

type errMsg struct{ err error }

// Styles controls the view's presentation.
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Summary   lipgloss.Style
	Cursor    lipgloss.Style
	Caught    lipgloss.Style
	Here      lipgloss.Style
	Leaving   lipgloss.Style
	Now       lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212")).Padding(0, 1),
		Summary:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("218")),
		Caught:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")),
		Here:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")),
		Leaving:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Now:       lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	}
}

// Model is the Bubble Tea model for the live view.
type Model struct {
	store *profiles.Store
	items map[creature.Kind][]creature.Creature
	kinds []creature.Kind
	now   func() time.Time

	changes chan changedMsg

	tab    int
	cursor int
	offset int
	view   collection.View

	viewport viewport.Model
	width    int
	height   int

	status string
	styles Styles
}

// New builds a model over preloaded catalog items. now defaults to
// time.Now.
func New(s *profiles.Store, items map[creature.Kind][]creature.Creature, kinds []creature.Kind, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	if len(kinds) == 0 {
		kinds = creature.AllKinds()
	}
	m := Model{
		store:   s,
		items:   items,
		kinds:   kinds,
		now:     now,
		changes: make(chan changedMsg, 16),
		viewport: viewport.New(
			viewport.WithWidth(80),
			viewport.WithHeight(20),
		),
		width:  80,
		height: 20 + headerRows + footerRows,
		styles: DefaultStyles(),
	}
	m.rebuild()
	return m
}

// Watch forwards external store changes into the model until the returned
// func is called.
func (m Model) Watch() (stop func()) {
	ch := m.changes
	return m.store.Subscribe(func(c profiles.Change) {
		if c.Source != profiles.External {
			return
		}
		select {
		case ch <- changedMsg{source: c.Source}:
		default:
		}
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForChange())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(max(1, msg.Width))
		m.viewport.SetHeight(m.listHeight())
		m.rebuild()
	case tickMsg:
		m.rebuild()
		cmds = append(cmds, tick())
	case changedMsg:
		m.rebuild()
		if msg.source == profiles.External {
			m.status = "Reloaded changes from another session"
			cmds = append(cmds, m.waitForChange())
		}
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.tab = (m.tab + 1) % len(m.kinds)
			m.cursor, m.offset = 0, 0
			m.rebuild()
		case "shift+tab", "left", "h":
			m.tab = (m.tab + len(m.kinds) - 1) % len(m.kinds)
			m.cursor, m.offset = 0, 0
			m.rebuild()
		case "down", "j":
			if m.cursor < len(m.view.Rows)-1 {
				m.cursor++
				m.render()
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.render()
			}
		case "c":
			cmds = append(cmds, m.toggle(profiles.Caught))
		case "d":
			cmds = append(cmds, m.toggle(profiles.Donated))
		case "f":
			cmds = append(cmds, m.cycleFilter())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) kind() creature.Kind {
	return m.kinds[m.tab]
}

func (m Model) listHeight() int {
	return max(1, m.height-headerRows-footerRows)
}

func (m *Model) rebuild() {
	p := m.store.Active()
	m.view = collection.Build(m.items[m.kind()], &p, m.kind(), m.now())
	if m.cursor >= len(m.view.Rows) {
		m.cursor = max(0, len(m.view.Rows)-1)
	}
	m.render()
}

func (m *Model) render() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}

	if len(m.view.Rows) == 0 {
		m.viewport.SetContent(m.styles.Summary.Render("Nothing to show with the current filter."))
		m.viewport.SetYOffset(0)
		return
	}
	lines := make([]string, 0, len(m.view.Rows))
	for i, r := range m.view.Rows {
		lines = append(lines, m.renderRow(i == m.cursor, r))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.SetYOffset(m.offset)
}

func (m Model) renderRow(selected bool, r collection.Row) string {
	marker := "  "
	name := r.Creature.Name
	if selected {
		marker = m.styles.Cursor.Render("→ ")
		name = m.styles.Cursor.Render(name)
	}
	caught, donated := "·", "·"
	if r.Entry.Caught {
		caught = m.styles.Caught.Render("C")
	}
	if r.Entry.Donated {
		donated = m.styles.Caught.Render("D")
	}

	var notes []string
	if r.AvailableNow {
		notes = append(notes, m.styles.Now.Render("now"))
	}
	if r.LeavingSoon {
		notes = append(notes, m.styles.Leaving.Render("leaving soon"))
	} else if r.HereThisMonth {
		notes = append(notes, m.styles.Here.Render("here this month"))
	}

	line := fmt.Sprintf("%s%3d %s%s %-24s %-22s %s", marker, r.Creature.Number, caught, donated, name, r.Window, strings.Join(notes, " "))
	return truncate.StringWithTail(line, uint(max(1, m.width)), "…")
}

func (m Model) selected() (collection.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return collection.Row{}, false
	}
	return m.view.Rows[m.cursor], true
}

func (m Model) toggle(f profiles.Field) tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	s, kind, id := m.store, m.kind(), row.Creature.ID()
	return func() tea.Msg {
		if _, err := s.Toggle(context.Background(), kind, id, f); err != nil {
			return errMsg{err}
		}
		return changedMsg{source: profiles.Local}
	}
}

func (m Model) cycleFilter() tea.Cmd {
	s, kind := m.store, m.kind()
	modes := availability.AllModes()
	next := modes[0]
	for i, mode := range modes {
		if mode == m.view.Settings.FilterType {
			next = modes[(i+1)%len(modes)]
			break
		}
	}
	return func() tea.Msg {
		if err := s.SetSettings(context.Background(), kind, profile.SettingsPatch{FilterType: &next}); err != nil {
			return errMsg{err}
		}
		return changedMsg{source: profiles.Local}
	}
}

// View renders the tabs, a summary line, the rows and a status line.
func (m Model) View() string {
	tabs := make([]string, 0, len(m.kinds))
	for i, k := range m.kinds {
		if i == m.tab {
			tabs = append(tabs, m.styles.ActiveTab.Render(k.Title()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(k.Title()))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	v := m.view
	summary := m.styles.Summary.Render(fmt.Sprintf("%s · %s · filter %s · caught %d/%d · donated %d/%d",
		v.Region, v.Reference.Format("Mon Jan 2 15:04:05"), v.Settings.FilterType, v.Caught, v.Total, v.Donated, v.Total))

	status := m.status
	if strings.HasPrefix(status, "ERR: ") {
		status = m.styles.Error.Render(status)
	} else {
		status = m.styles.Status.Render(status)
	}
	help := m.styles.Status.Render("tab switch · ↑/↓ move · c caught · d donated · f filter · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, summary, "", m.viewport.View(), status, help)
}
