package snake

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/critterdex/pkg/profile"
)

type profileItem struct {
	Name   string
	ID     string
	Region string
	Active bool
}

// SelectProfile lets the user pick a profile by arrow keys or search and
// returns its index.
func SelectProfile(list []profile.Profile, active int, in io.Reader, out io.Writer) (int, error) {
	if len(list) == 0 {
		return 0, errors.New("no profiles to choose from")
	}
	items := make([]profileItem, len(list))
	for i, p := range list {
		items[i] = profileItem{Name: p.Name, ID: p.ID, Region: string(p.Region.OrNorth()), Active: i == active}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Region | green }}{{ if .Active }} {{ \"(active)\" | faint }}{{ end }}",
		Inactive: "   {{ .Name }} {{ .Region | cyan }}{{ if .Active }} {{ \"(active)\" | faint }}{{ end }}",
		Selected: "{{ .Name | bold }}",
		Details: `
--------- Profile ----------
id: {{ .ID }}
`,
	}

	searcher := func(input string, index int) bool {
		name := strings.Replace(strings.ToLower(items[index].Name), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	cursor := active
	if cursor < 0 || cursor >= len(items) {
		cursor = 0
	}
	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Profile",
		Items:     items,
		Templates: templates,
		Size:      10,
		CursorPos: cursor,
		Searcher:  searcher,
		Stdin:     io.NopCloser(in),
		Stdout:    nopCloser{out},
	}

	i, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return 0, ErrAborted
		}
		return 0, err
	}
	return i, nil
}
