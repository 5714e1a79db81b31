// Package report folds scoped counters into dimension and source-kind
// breakdowns and assembles them into serializable reports. The folding
// logic is written once, generically, and instantiated for both the full
// Counter (signature-preserving views) and a plain id-to-count map.
package report

import "github.com/Lemonzyy/nbt-sniffer/pkg/counter"

// Aggregable is the capability a summary representation needs so the
// builder can fold it along any axis. Merge must be associative and
// commutative; it inherits the Counter monoid guarantees.
type Aggregable[T any] interface {
	Merge(T)
	IsEmpty() bool
}

// IDTotals is the id-only summary representation: counts summed across
// signatures.
type IDTotals map[string]int64

func (t IDTotals) Merge(other IDTotals) {
	for id, count := range other {
		t[id] += count
	}
}

func (t IDTotals) IsEmpty() bool { return len(t) == 0 }

// Total sums every id bucket.
func (t IDTotals) Total() int64 {
	var total int64
	for _, count := range t {
		total += count
	}
	return total
}

// NewIDTotals is the empty-value constructor for IDTotals aggregations.
func NewIDTotals() IDTotals { return IDTotals{} }

// IDTotalsFromCounter projects a Counter down to id-only counts.
func IDTotalsFromCounter(c *counter.Counter) IDTotals {
	return IDTotals(c.TotalByID())
}

// CounterFromCounter is the identity projection for full-Counter
// aggregations.
func CounterFromCounter(c *counter.Counter) *counter.Counter {
	return c.Clone()
}

// Aggregation holds one summary representation folded along every axis a
// report can ask for.
type Aggregation[T Aggregable[T]] struct {
	// Grouped nests dimension, then source kind.
	Grouped map[string]map[counter.SourceKind]T
	// ByKind totals each kind across all dimensions. Every SourceKind is
	// present, empty or not, so report shapes stay stable.
	ByKind map[counter.SourceKind]T
	// Combined is the grand total across everything.
	Combined T

	newEmpty func() T
}

// NewAggregation folds a counter map into an Aggregation. newEmpty and
// fromCounter adapt the target representation; see NewIDTotals /
// IDTotalsFromCounter and counter.New / CounterFromCounter.
func NewAggregation[T Aggregable[T]](m *counter.Map, newEmpty func() T, fromCounter func(*counter.Counter) T) *Aggregation[T] {
	agg := &Aggregation[T]{
		Grouped:  make(map[string]map[counter.SourceKind]T),
		ByKind:   make(map[counter.SourceKind]T),
		Combined: newEmpty(),
		newEmpty: newEmpty,
	}

	for scope, c := range m.Scopes() {
		if c.IsEmpty() {
			continue
		}
		part := fromCounter(c)

		kinds, ok := agg.Grouped[scope.Dimension]
		if !ok {
			kinds = make(map[counter.SourceKind]T)
			agg.Grouped[scope.Dimension] = kinds
		}
		existing, ok := kinds[scope.Kind]
		if !ok {
			existing = newEmpty()
			kinds[scope.Kind] = existing
		}
		existing.Merge(part)

		byKind, ok := agg.ByKind[scope.Kind]
		if !ok {
			byKind = newEmpty()
			agg.ByKind[scope.Kind] = byKind
		}
		byKind.Merge(part)

		agg.Combined.Merge(part)
	}

	for _, kind := range counter.Kinds() {
		if _, ok := agg.ByKind[kind]; !ok {
			agg.ByKind[kind] = newEmpty()
		}
	}
	return agg
}

// DimensionCombined folds every kind within one dimension.
func (a *Aggregation[T]) DimensionCombined(dimension string) T {
	combined := a.newEmpty()
	for _, part := range a.Grouped[dimension] {
		combined.Merge(part)
	}
	return combined
}

// Dimensions returns the dimensions that contributed data, unsorted.
func (a *Aggregation[T]) Dimensions() []string {
	dims := make([]string, 0, len(a.Grouped))
	for dim := range a.Grouped {
		dims = append(dims, dim)
	}
	return dims
}
