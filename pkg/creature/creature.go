package creature

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Creature is one immutable catalog record.
type Creature struct {
	Number     int          `json:"number"`
	Name       string       `json:"name"`
	URL        string       `json:"url"`
	ImageURL   string       `json:"image_url"`
	RenderURL  string       `json:"render_url,omitempty"`
	Location   string       `json:"location,omitempty"`
	ShadowSize string       `json:"shadow_size,omitempty"`
	North      Availability `json:"north"`
	South      Availability `json:"south"`
}

// ID is the tracking key for the creature: its number as a decimal string.
func (c Creature) ID() string { return strconv.Itoa(c.Number) }

// In returns the availability record for region.
func (c *Creature) In(r Region) *Availability {
	if r == South {
		return &c.South
	}
	return &c.North
}

// MonthSet is a set of calendar months, 1 through 12.
type MonthSet uint16

const allMonths = MonthSet(0x1FFE)

// Months builds a set from month numbers, ignoring values outside 1-12.
func Months(ms ...int) MonthSet {
	var s MonthSet
	for _, m := range ms {
		if m >= 1 && m <= 12 {
			s |= 1 << uint(m)
		}
	}
	return s
}

// AllYear is the set of every month.
func AllYear() MonthSet { return allMonths }

// Has reports whether month m (1-12) is in the set.
func (s MonthSet) Has(m int) bool {
	if m < 1 || m > 12 {
		return false
	}
	return s&(1<<uint(m)) != 0
}

// List returns the months in ascending order.
func (s MonthSet) List() []int {
	out := make([]int, 0, 12)
	for m := 1; m <= 12; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Availability is one region's seasonal data for a creature.
type Availability struct {
	Months  MonthSet
	Summary string
	// Times holds the hour-range text per month; index 0 is unused.
	Times [13]string
}

// TimesFor is the hour-range text for month m, or "NA" when unknown.
func (a *Availability) TimesFor(m int) string {
	if m < 1 || m > 12 || a.Times[m] == "" {
		return "NA"
	}
	return a.Times[m]
}

type availabilityJSON struct {
	Months       string            `json:"months,omitempty"`
	MonthsArray  []int             `json:"months_array"`
	TimesByMonth map[string]string `json:"times_by_month"`
}

func (a Availability) MarshalJSON() ([]byte, error) {
	out := availabilityJSON{
		Months:       a.Summary,
		MonthsArray:  a.Months.List(),
		TimesByMonth: make(map[string]string, 12),
	}
	for m := 1; m <= 12; m++ {
		out.TimesByMonth[strconv.Itoa(m)] = a.TimesFor(m)
	}
	return json.Marshal(out)
}

func (a *Availability) UnmarshalJSON(b []byte) error {
	var in availabilityJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*a = Availability{Summary: in.Months}
	for _, m := range in.MonthsArray {
		if m < 1 || m > 12 {
			return fmt.Errorf("creature: month %d out of range", m)
		}
		a.Months |= Months(m)
	}
	for k, v := range in.TimesByMonth {
		m, err := strconv.Atoi(k)
		if err != nil || m < 1 || m > 12 {
			return fmt.Errorf("creature: times_by_month key %q is not a month", k)
		}
		a.Times[m] = v
	}
	return nil
}

// Decode parses a catalog array and rejects duplicate numbers.
func Decode(data []byte) ([]Creature, error) {
	var list []Creature
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("creature: decode catalog: %w", err)
	}
	seen := make(map[int]bool, len(list))
	for i, c := range list {
		if seen[c.Number] {
			return nil, fmt.Errorf("creature: duplicate number %d at index %d", c.Number, i)
		}
		seen[c.Number] = true
	}
	return list, nil
}

// SortByNumber orders creatures by catalog number in place.
func SortByNumber(list []Creature) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Number < list[j].Number
	})
}
