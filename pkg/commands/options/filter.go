package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/availability"
)

// FilterOptions are the listing settings given on the command line. Flags
// that were not set stay nil so stored settings apply.
type FilterOptions struct {
	Mode          string
	ShowCollected bool
	ShowDonated   bool

	cmd *cobra.Command
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	o.cmd = cmd
	cmd.Flags().StringVarP(&o.Mode, "filter", "f", "",
		`Filter: all, current, month or leaving.`)
	cmd.Flags().BoolVar(&o.ShowCollected, "show-caught", true,
		"Show creatures already caught.")
	cmd.Flags().BoolVar(&o.ShowDonated, "show-donated", true,
		"Show creatures already donated.")
}

func (o *FilterOptions) GetMode() (*availability.Mode, error) {
	if o.Mode == "" {
		return nil, nil
	}
	m, err := availability.ParseMode(o.Mode)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (o *FilterOptions) GetShowCollected() *bool {
	return o.changed("show-caught", o.ShowCollected)
}

func (o *FilterOptions) GetShowDonated() *bool {
	return o.changed("show-donated", o.ShowDonated)
}

func (o *FilterOptions) changed(name string, v bool) *bool {
	if o.cmd == nil || !o.cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
