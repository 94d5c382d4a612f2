package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/log"
)

// Cached wraps a Source with a durable diskv cache and a per-session memo.
// The upstream Source is only asked when the durable cache has no entry for
// the kind, or when Refresh is called.
type Cached struct {
	src Source
	d   *diskv.Diskv

	mu   sync.Mutex
	memo map[creature.Kind][]creature.Creature
}

// NewCached stores cache entries under dir. An empty dir disables the durable
// cache and keeps only the in-memory memo.
func NewCached(src Source, dir string) *Cached {
	c := &Cached{src: src, memo: make(map[creature.Kind][]creature.Creature)}
	if dir != "" {
		c.d = diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 1024 * 1024, // 1MB
		})
	}
	return c
}

func (c *Cached) Fetch(ctx context.Context, kind creature.Kind) ([]creature.Creature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if list, ok := c.memo[kind]; ok {
		return list, nil
	}
	if list, ok := c.readDisk(kind); ok {
		c.memo[kind] = list
		return list, nil
	}
	return c.fetchLocked(ctx, kind)
}

// Refresh ignores both caches and replaces them with a fresh fetch.
func (c *Cached) Refresh(ctx context.Context, kind creature.Kind) ([]creature.Creature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchLocked(ctx, kind)
}

func (c *Cached) fetchLocked(ctx context.Context, kind creature.Kind) ([]creature.Creature, error) {
	list, err := c.src.Fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	c.memo[kind] = list
	c.writeDisk(kind, list)
	return list, nil
}

func (c *Cached) readDisk(kind creature.Kind) ([]creature.Creature, bool) {
	if c.d == nil || !c.d.Has(kind.CacheKey()) {
		return nil, false
	}
	b, err := c.d.Read(kind.CacheKey())
	if err != nil {
		log.Warn("catalog cache unreadable", "kind", kind, "err", err)
		return nil, false
	}
	list, err := creature.Decode(b)
	if err != nil {
		log.Warn("catalog cache corrupt, refetching", "kind", kind, "err", err)
		return nil, false
	}
	return list, true
}

func (c *Cached) writeDisk(kind creature.Kind, list []creature.Creature) {
	if c.d == nil {
		return
	}
	b, err := json.Marshal(list)
	if err != nil {
		log.Warn("catalog cache encode failed", "kind", kind, "err", err)
		return
	}
	if err := c.d.Write(kind.CacheKey(), b); err != nil {
		log.Warn("catalog cache write failed", "kind", kind, "err", err)
	}
}

// Clear drops the durable and in-memory entries for kind.
func (c *Cached) Clear(kind creature.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.memo, kind)
	if c.d == nil || !c.d.Has(kind.CacheKey()) {
		return nil
	}
	if err := c.d.Erase(kind.CacheKey()); err != nil {
		return fmt.Errorf("catalog: clear %s: %w", kind, err)
	}
	return nil
}
