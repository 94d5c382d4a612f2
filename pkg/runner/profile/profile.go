package profilerun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/printers"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/profiles"
	"tableflip.dev/critterdex/pkg/timeutil"
)

var errNoStore = errors.New("can not manage profiles, no store")

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// List prints every profile.
type List struct {
	Store  *profiles.Store
	Output string
	Out    io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	if n.Output != "" {
		return printers.Structured(writer(n.Out), n.Output, n.Store.Profiles())
	}
	pp := printers.PrettyPrint{Out: writer(n.Out)}
	pp.Profiles(n.Store.Profiles(), n.Store.ActiveIndex())
	return nil
}

// Show prints the active profile.
type Show struct {
	Store  *profiles.Store
	Output string
	Out    io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	p := n.Store.Active()
	if n.Output != "" {
		return printers.Structured(writer(n.Out), n.Output, p)
	}
	pp := printers.PrettyPrint{Out: writer(n.Out)}
	pp.Profile(p)
	return nil
}

// Add creates a profile and optionally makes it active.
type Add struct {
	Store  *profiles.Store
	Name   string
	Switch bool
	Out    io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	p, err := n.Store.Create(ctx, n.Name)
	if err != nil {
		return err
	}
	if n.Switch {
		if err := n.Store.Switch(ctx, n.Store.IndexOf(p.ID)); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(writer(n.Out), "Created profile %q (%s).\n", p.Name, p.ID)
	return nil
}

// Remove deletes a profile after confirmation. The last remaining profile
// is never removed.
type Remove struct {
	Store  *profiles.Store
	Target string
	// Yes skips Confirm.
	Yes     bool
	Confirm func(label string) (bool, error)
	Out     io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	list := n.Store.Profiles()
	i, err := Resolve(list, n.Target)
	if err != nil {
		return err
	}
	if len(list) == 1 {
		return fmt.Errorf("profile: %q is the only profile and can not be removed", list[i].Name)
	}
	if !n.Yes {
		if n.Confirm == nil {
			return errors.New("profile: removal needs confirmation, pass --yes")
		}
		ok, err := n.Confirm(fmt.Sprintf("Remove profile %q and all of its progress?", list[i].Name))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(writer(n.Out), "Nothing removed.")
			return nil
		}
	}
	if err := n.Store.Remove(ctx, i); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(writer(n.Out), "Removed profile %q. Active profile is %q.\n", list[i].Name, n.Store.Active().Name)
	return nil
}

// Switch changes the active profile, by Target or by Pick when Target is
// empty.
type Switch struct {
	Store  *profiles.Store
	Target string
	Pick   func(list []profile.Profile, active int) (int, error)
	Out    io.Writer
}

func (n *Switch) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	list := n.Store.Profiles()
	var (
		i   int
		err error
	)
	switch {
	case n.Target != "":
		i, err = Resolve(list, n.Target)
	case n.Pick != nil:
		i, err = n.Pick(list, n.Store.ActiveIndex())
	default:
		err = errors.New("profile: no profile given")
	}
	if err != nil {
		return err
	}
	if err := n.Store.Switch(ctx, i); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(writer(n.Out), "Active profile is %q.\n", n.Store.Active().Name)
	return nil
}

// Rename renames the active profile.
type Rename struct {
	Store *profiles.Store
	Name  string
	Out   io.Writer
}

func (n *Rename) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	name := n.Name
	if err := n.Store.Update(ctx, profile.Patch{Name: &name}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(writer(n.Out), "Renamed active profile to %q.\n", n.Store.Active().Name)
	return nil
}

// Region sets the active profile's hemisphere.
type Region struct {
	Store  *profiles.Store
	Region string
	Out    io.Writer
}

func (n *Region) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	r, err := creature.ParseRegion(n.Region)
	if err != nil {
		return err
	}
	if err := n.Store.Update(ctx, profile.Patch{Region: &r}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(writer(n.Out), "Region is %s.\n", r)
	return nil
}

// Clock sets, shifts or clears the active profile's override time. With
// none of them it prints the current reference time.
type Clock struct {
	Store *profiles.Store
	Set   string
	Shift string
	Clear bool

	Now      func() time.Time
	Location *time.Location
	Out      io.Writer
}

func (n *Clock) Do(ctx context.Context) error {
	if n.Store == nil {
		return errNoStore
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}

	var patch profile.Patch
	switch {
	case n.Clear:
		if n.Set != "" || n.Shift != "" {
			return errors.New("profile: clear can not be combined with set or shift")
		}
		patch.ClearDateTime = true
	case n.Set != "" && n.Shift != "":
		return errors.New("profile: use either set or shift")
	case n.Set != "":
		t, err := timeutil.ParseClock(n.Set, now(), loc)
		if err != nil {
			return err
		}
		patch.DateTime = &t
	case n.Shift != "":
		d, err := timeutil.ParseOffset(n.Shift)
		if err != nil {
			return err
		}
		p := n.Store.Active()
		t := p.ReferenceTime(now()).Add(d)
		patch.DateTime = &t
	}

	if patch.DateTime != nil || patch.ClearDateTime {
		if err := n.Store.Update(ctx, patch); err != nil {
			return err
		}
	}

	p := n.Store.Active()
	ref := p.ReferenceTime(now()).In(loc)
	if p.DateTime == nil {
		_, _ = fmt.Fprintf(writer(n.Out), "Clock follows the system time: %s.\n", ref.Format(printers.ClockLayout))
		return nil
	}
	_, _ = fmt.Fprintf(writer(n.Out), "Clock is set to %s (%s from now).\n", ref.Format(printers.ClockLayout),
		timeutil.FormatOffset(ref.Sub(now()).Round(time.Minute)))
	return nil
}
