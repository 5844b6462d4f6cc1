package isoscene

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// VariantKey identifies one visual variant of a character kind.
type VariantKey struct {
	Kind   string
	Scale  float64
	Tint   Color
	Tinted bool
}

func variantKey(kind string, scale float64, tint *Color) VariantKey {
	k := VariantKey{Kind: kind, Scale: scale}
	if tint != nil {
		k.Tint = *tint
		k.Tinted = true
	}
	return k
}

// FrameTable holds every FrameSet of a variant, indexed [mode][direction].
type FrameTable struct {
	Sets [][]FrameSet
}

func (t *FrameTable) deallocate() {
	for _, row := range t.Sets {
		for _, set := range row {
			for _, img := range set.Frames {
				if img != nil {
					img.Deallocate()
				}
			}
			for _, img := range set.Shadows {
				if img != nil {
					img.Deallocate()
				}
			}
		}
	}
}

type frameEntry struct {
	table *FrameTable
	refs  int
}

// FrameCache shares frame tables between characters that look the same.
// Entries are reference counted and their images are deallocated when the
// last holder releases them. Safe for concurrent use so assets can be
// loaded off the tick goroutine.
type FrameCache struct {
	mu      sync.Mutex
	entries map[VariantKey]*frameEntry
}

// NewFrameCache creates an empty cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{entries: make(map[VariantKey]*frameEntry)}
}

// DefaultFrameCache is the process-wide cache used when Resources.Frames is nil.
var DefaultFrameCache = NewFrameCache()

// Acquire returns the table for key, building it on first use, and takes a
// reference. build runs at most once per live entry.
func (c *FrameCache) Acquire(key VariantKey, build func() *FrameTable) *FrameTable {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.refs++
		return e.table
	}
	t := build()
	c.entries[key] = &frameEntry{table: t, refs: 1}
	return t
}

// Release drops a reference taken by Acquire.
func (c *FrameCache) Release(key VariantKey) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		c.mu.Unlock()
		return
	}
	delete(c.entries, key)
	c.mu.Unlock()
	e.table.deallocate()
}

// Refs returns the live reference count for key.
func (c *FrameCache) Refs(key VariantKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of cached variants.
func (c *FrameCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// imageCount returns the number of non-nil images in a table.
func (t *FrameTable) imageCount() int {
	n := 0
	for _, row := range t.Sets {
		for _, set := range row {
			n += countImages(set.Frames) + countImages(set.Shadows)
		}
	}
	return n
}

func countImages(frames []*ebiten.Image) int {
	n := 0
	for _, img := range frames {
		if img != nil {
			n++
		}
	}
	return n
}
