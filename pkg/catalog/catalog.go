package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"tableflip.dev/critterdex/pkg/creature"
)

// Catalog is one kind's creature list with lookups. Items keep source order.
type Catalog struct {
	Kind  creature.Kind
	Items []creature.Creature

	byNumber map[int]int
	byName   map[string]int
}

func New(kind creature.Kind, items []creature.Creature) *Catalog {
	c := &Catalog{
		Kind:     kind,
		Items:    items,
		byNumber: make(map[int]int, len(items)),
		byName:   make(map[string]int, len(items)),
	}
	for i := range items {
		c.byNumber[items[i].Number] = i
		c.byName[normalizeName(items[i].Name)] = i
	}
	return c
}

// Load fetches kind from src and indexes it.
func Load(ctx context.Context, src Source, kind creature.Kind) (*Catalog, error) {
	items, err := src.Fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	return New(kind, items), nil
}

func (c *Catalog) ByNumber(n int) (*creature.Creature, bool) {
	i, ok := c.byNumber[n]
	if !ok {
		return nil, false
	}
	return &c.Items[i], true
}

// Find resolves user input to a creature: a catalog number, an exact name
// (case-insensitive), a unique name prefix, or the single closest name by
// edit distance.
func (c *Catalog) Find(query string) (*creature.Creature, error) {
	q := normalizeName(query)
	if q == "" {
		return nil, fmt.Errorf("catalog: empty %s name", c.Kind)
	}
	if n, err := strconv.Atoi(q); err == nil {
		if item, ok := c.ByNumber(n); ok {
			return item, nil
		}
		return nil, fmt.Errorf("catalog: no %s numbered %d", c.Kind, n)
	}
	if i, ok := c.byName[q]; ok {
		return &c.Items[i], nil
	}

	var prefixed []int
	for i := range c.Items {
		if strings.HasPrefix(normalizeName(c.Items[i].Name), q) {
			prefixed = append(prefixed, i)
		}
	}
	if len(prefixed) == 1 {
		return &c.Items[prefixed[0]], nil
	}
	if len(prefixed) > 1 {
		return nil, c.ambiguous(query, prefixed)
	}

	type scored struct {
		index int
		dist  int
	}
	var near []scored
	for i := range c.Items {
		name := normalizeName(c.Items[i].Name)
		dist := levenshtein.ComputeDistance(q, name)
		if dist > distanceLimit(len(name)) {
			continue
		}
		near = append(near, scored{index: i, dist: dist})
	}
	if len(near) == 0 {
		return nil, fmt.Errorf("catalog: no %s matches %q", c.Kind, query)
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	if len(near) > 1 && near[0].dist == near[1].dist {
		idx := make([]int, 0, len(near))
		for _, n := range near {
			if n.dist == near[0].dist {
				idx = append(idx, n.index)
			}
		}
		return nil, c.ambiguous(query, idx)
	}
	return &c.Items[near[0].index], nil
}

func (c *Catalog) ambiguous(query string, idx []int) error {
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, c.Items[i].Name)
	}
	return fmt.Errorf("catalog: %q matches several %s: %s", query, c.Kind, strings.Join(names, ", "))
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
