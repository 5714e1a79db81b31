// Package counter holds the counting model: item identity keys, per-source
// counters and the scope-keyed map workers fold their fragments into. Merge
// operations are associative and commutative, so fragments can be combined
// in any order, which is what makes the parallel scan correct without
// locks.
package counter

import "github.com/Lemonzyy/nbt-sniffer/pkg/nbt"

// ItemKey identifies one counted entity: item id plus the canonical SNBT
// signature of its component data. SNBT is empty for items without
// components; an item with an empty component compound signs as "{}", which
// keeps the two cases distinct.
type ItemKey struct {
	ID   string
	SNBT string
}

// NewItemKey canonicalizes components (may be nil) into a signature.
func NewItemKey(id string, components nbt.Value) ItemKey {
	key := ItemKey{ID: id}
	if components != nil {
		key.SNBT = nbt.ToSNBT(components)
	}
	return key
}

func (k ItemKey) String() string {
	if k.SNBT == "" {
		return k.ID
	}
	return k.ID + " " + nbt.EscapeSNBT(k.SNBT)
}

// Counter accumulates counts per ItemKey.
type Counter struct {
	counts map[ItemKey]int64
}

func New() *Counter {
	return &Counter{counts: make(map[ItemKey]int64)}
}

// Add records count occurrences of (id, components). A nil components value
// means the item carries no extra data.
func (c *Counter) Add(id string, components nbt.Value, count int64) {
	c.counts[NewItemKey(id, components)] += count
}

// Merge folds other into c key-wise. Either operand may be the receiver of
// an equivalent merge; the result is the same.
func (c *Counter) Merge(other *Counter) {
	for key, count := range other.counts {
		c.counts[key] += count
	}
}

func (c *Counter) IsEmpty() bool {
	for _, count := range c.counts {
		if count != 0 {
			return false
		}
	}
	return true
}

// Total sums every count.
func (c *Counter) Total() int64 {
	var total int64
	for _, count := range c.counts {
		total += count
	}
	return total
}

// TotalByID groups counts by item id, summing across distinct signatures.
func (c *Counter) TotalByID() map[string]int64 {
	totals := make(map[string]int64)
	for key, count := range c.counts {
		totals[key.ID] += count
	}
	return totals
}

// TotalByNBT groups counts by signature, summing across ids. Items without
// component data land in the "" bucket.
func (c *Counter) TotalByNBT() map[string]int64 {
	totals := make(map[string]int64)
	for key, count := range c.counts {
		totals[key.SNBT] += count
	}
	return totals
}

// Detailed exposes the full key-to-count map. Callers must treat it as a
// read-only view.
func (c *Counter) Detailed() map[ItemKey]int64 {
	return c.counts
}

// Clone returns an independent copy.
func (c *Counter) Clone() *Counter {
	clone := New()
	clone.Merge(c)
	return clone
}
