package report

import (
	"sort"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
)

// DetailedEntry is one (id, signature) row of a detailed view.
type DetailedEntry struct {
	Count int64  `json:"count" yaml:"count"`
	ID    string `json:"id" yaml:"id"`
	NBT   string `json:"nbt,omitempty" yaml:"nbt,omitempty"`
}

// IDEntry is one row of an id-only view.
type IDEntry struct {
	Count int64  `json:"count" yaml:"count"`
	ID    string `json:"id" yaml:"id"`
}

// NBTEntry is one row of a by-signature view. NBT is empty for the
// no-component bucket.
type NBTEntry struct {
	Count int64  `json:"count" yaml:"count"`
	NBT   string `json:"nbt,omitempty" yaml:"nbt,omitempty"`
}

// DetailedEntries flattens a Counter into rows sorted by count descending,
// then id, then signature.
func DetailedEntries(c *counter.Counter) []DetailedEntry {
	entries := make([]DetailedEntry, 0, len(c.Detailed()))
	for key, count := range c.Detailed() {
		entries = append(entries, DetailedEntry{
			Count: count,
			ID:    key.ID,
			NBT:   nbt.EscapeSNBT(key.SNBT),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.NBT < b.NBT
	})
	return entries
}

// IDEntries flattens id totals into rows sorted by count descending, then
// id.
func IDEntries(t IDTotals) []IDEntry {
	entries := make([]IDEntry, 0, len(t))
	for id, count := range t {
		entries = append(entries, IDEntry{Count: count, ID: id})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.ID < b.ID
	})
	return entries
}

// NBTEntries groups a Counter by signature, sorted by count descending,
// then signature.
func NBTEntries(c *counter.Counter) []NBTEntry {
	byNBT := c.TotalByNBT()
	entries := make([]NBTEntry, 0, len(byNBT))
	for snbt, count := range byNBT {
		entries = append(entries, NBTEntry{Count: count, NBT: nbt.EscapeSNBT(snbt)})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.NBT < b.NBT
	})
	return entries
}
