package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/profiles"
)

// TrackOptions sets or flips tracking flags.
type TrackOptions struct {
	Caught  bool
	Donated bool
	Toggle  []string

	cmd *cobra.Command
}

func AddTrackArgs(cmd *cobra.Command, o *TrackOptions) {
	o.cmd = cmd
	cmd.Flags().BoolVarP(&o.Caught, "caught", "c", false,
		"Mark as caught, or --caught=false to clear.")
	cmd.Flags().BoolVarP(&o.Donated, "donated", "d", false,
		"Mark as donated, or --donated=false to clear.")
	cmd.Flags().StringSliceVarP(&o.Toggle, "toggle", "t", nil,
		"Flip caught and/or donated.")
}

func (o *TrackOptions) GetCaught() *bool {
	if o.cmd == nil || !o.cmd.Flags().Changed("caught") {
		return nil
	}
	v := o.Caught
	return &v
}

func (o *TrackOptions) GetDonated() *bool {
	if o.cmd == nil || !o.cmd.Flags().Changed("donated") {
		return nil
	}
	v := o.Donated
	return &v
}

func (o *TrackOptions) GetToggle() ([]profiles.Field, error) {
	out := make([]profiles.Field, 0, len(o.Toggle))
	for _, raw := range o.Toggle {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "caught", "c":
			out = append(out, profiles.Caught)
		case "donated", "d":
			out = append(out, profiles.Donated)
		default:
			return nil, fmt.Errorf("unknown field %q, use caught or donated", raw)
		}
	}
	return out, nil
}
