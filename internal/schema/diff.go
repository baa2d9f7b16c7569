package schema

import (
	"fmt"
	"sort"
)

// ChangeKind classifies a difference between two port layouts.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Moved
)

func (k ChangeKind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	default:
		return "added"
	}
}

// Change is one symbol that differs between layouts. OldIndex is -1 for
// additions and NewIndex is -1 for removals.
type Change struct {
	Kind     ChangeKind
	Symbol   string
	OldIndex int
	NewIndex int
}

func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("+ %s (index %d)", c.Symbol, c.NewIndex)
	case Removed:
		return fmt.Sprintf("- %s (index %d)", c.Symbol, c.OldIndex)
	default:
		return fmt.Sprintf("~ %s (index %d -> %d)", c.Symbol, c.OldIndex, c.NewIndex)
	}
}

// Diff compares two layouts by symbol. Removals come first in old index
// order, then moves and additions in new index order.
func Diff(before, after []PortRef) []Change {
	oldIdx := make(map[string]int, len(before))
	for _, r := range before {
		oldIdx[r.Symbol] = r.Index
	}
	newIdx := make(map[string]int, len(after))
	for _, r := range after {
		newIdx[r.Symbol] = r.Index
	}

	var removed, rest []Change
	for _, r := range before {
		if _, ok := newIdx[r.Symbol]; !ok {
			removed = append(removed, Change{Kind: Removed, Symbol: r.Symbol, OldIndex: r.Index, NewIndex: -1})
		}
	}
	for _, r := range after {
		prev, ok := oldIdx[r.Symbol]
		switch {
		case !ok:
			rest = append(rest, Change{Kind: Added, Symbol: r.Symbol, OldIndex: -1, NewIndex: r.Index})
		case prev != r.Index:
			rest = append(rest, Change{Kind: Moved, Symbol: r.Symbol, OldIndex: prev, NewIndex: r.Index})
		}
	}

	sort.SliceStable(removed, func(i, j int) bool { return removed[i].OldIndex < removed[j].OldIndex })
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].NewIndex < rest[j].NewIndex })
	return append(removed, rest...)
}

// Breaking reports whether any existing port lost or changed its index.
// Appending ports is compatible; everything else invalidates hosts and presets.
func Breaking(changes []Change) bool {
	for _, c := range changes {
		if c.Kind != Added {
			return true
		}
	}
	return false
}
