package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/timeutil"
)

// AtOptions evaluates a command at another time without storing it.
type AtOptions struct {
	AtString string
}

func AddAtArgs(cmd *cobra.Command, o *AtOptions) {
	cmd.Flags().StringVar(&o.AtString, "at", "",
		`Evaluate at this time instead of now, example: --at="2025-06-15 21:00" or --at=21:00.`)
}

// GetNow returns a clock fixed at --at, or nil to use the real clock.
func (o *AtOptions) GetNow() (func() time.Time, error) {
	if o.AtString == "" {
		return nil, nil
	}
	t, err := timeutil.ParseClock(o.AtString, time.Now(), time.Local)
	if err != nil {
		return nil, err
	}
	return func() time.Time { return t }, nil
}
