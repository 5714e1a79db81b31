// Package extract walks item component data, recursing into nested
// containers (shulker boxes, bundles) so that items buried inside other
// items are counted at every depth, and builds per-source summary trees for
// display.
package extract

import (
	"fmt"
	"sort"

	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
)

// SummaryNode is one node of a per-source display tree: either a source
// root (Label set) or a counted item (ID set). The tree is purely
// presentational; Counters remain the source of truth for totals.
type SummaryNode struct {
	Label    string
	ID       string
	Count    int64
	SNBT     string
	Children []*SummaryNode
}

// NewRoot builds a source root node, e.g. one chest or one player.
func NewRoot(label string, children []*SummaryNode) *SummaryNode {
	return &SummaryNode{Label: label, Children: children}
}

// NewItem builds an item node. SNBT is empty for items without components.
func NewItem(id string, count int64, snbt string, children []*SummaryNode) *SummaryNode {
	return &SummaryNode{ID: id, Count: count, SNBT: snbt, Children: children}
}

// IsItem reports whether the node represents an item rather than a source
// root.
func (n *SummaryNode) IsItem() bool {
	return n.Label == ""
}

// Display renders the node's own line, e.g. "5x minecraft:diamond".
func (n *SummaryNode) Display() string {
	if !n.IsItem() {
		return n.Label
	}
	s := n.ID
	if n.Count > 0 {
		s = fmt.Sprintf("%dx %s", n.Count, n.ID)
	}
	if n.SNBT != "" {
		s += " " + nbt.EscapeSNBT(n.SNBT)
	}
	return s
}

type leafKey struct {
	id   string
	snbt string
}

// CollapseLeaves merges direct leaf children that share (id, SNBT) by
// summing their counts, sorts children by count descending then id
// ascending, and recurses into the remaining non-leaf children. Calling it
// twice changes nothing.
func (n *SummaryNode) CollapseLeaves() {
	merged := make(map[leafKey]int64)
	kept := n.Children[:0]
	for _, child := range n.Children {
		if child.IsItem() && len(child.Children) == 0 {
			merged[leafKey{child.ID, child.SNBT}] += child.Count
			continue
		}
		kept = append(kept, child)
	}
	for key, count := range merged {
		kept = append(kept, NewItem(key.id, count, key.snbt, nil))
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		aID, bID := a.sortID(), b.sortID()
		if aID != bID {
			return aID < bID
		}
		return a.SNBT < b.SNBT
	})
	n.Children = kept

	for _, child := range n.Children {
		if len(child.Children) > 0 {
			child.CollapseLeaves()
		}
	}
}

// StripSNBT clears component signatures from the whole tree, so a
// subsequent CollapseLeaves merges same-id leaves regardless of their data.
func (n *SummaryNode) StripSNBT() {
	n.SNBT = ""
	for _, child := range n.Children {
		child.StripSNBT()
	}
}

func (n *SummaryNode) sortID() string {
	if n.IsItem() {
		return n.ID
	}
	return n.Label
}
