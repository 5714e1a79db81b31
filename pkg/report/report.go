package report

import (
	"sort"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
)

// Options selects which breakdown axes a report carries beyond the grand
// total.
type Options struct {
	PerDimension bool
	PerKind      bool
}

// Report is the serializable result of a scan, consumable by the table,
// JSON and YAML presenters. TItem is one row of a section (detailed, by-id
// or by-NBT shaped).
type Report[TItem any] struct {
	PerDimension       map[string][]TItem            `json:"per_dimension,omitempty" yaml:"per_dimension,omitempty"`
	PerKind            map[string][]TItem            `json:"per_kind,omitempty" yaml:"per_kind,omitempty"`
	PerDimensionDetail map[string]map[string][]TItem `json:"per_dimension_detail,omitempty" yaml:"per_dimension_detail,omitempty"`
	GrandTotal         []TItem                       `json:"grand_total,omitempty" yaml:"grand_total,omitempty"`
	GrandTotalCount    int64                         `json:"grand_total_count" yaml:"grand_total_count"`
}

// Build assembles a report from an aggregation. toEntries converts one
// folded summary into sorted rows. The per-kind section always carries all
// source kinds; per-dimension sections only dimensions that have data.
func Build[T Aggregable[T], TItem any](agg *Aggregation[T], opts Options, toEntries func(T) []TItem, grandTotalCount int64) *Report[TItem] {
	r := &Report[TItem]{GrandTotalCount: grandTotalCount}

	if !agg.Combined.IsEmpty() {
		r.GrandTotal = toEntries(agg.Combined)
	}

	if opts.PerDimension {
		r.PerDimension = make(map[string][]TItem)
		for _, dim := range agg.Dimensions() {
			combined := agg.DimensionCombined(dim)
			if !combined.IsEmpty() {
				r.PerDimension[dim] = toEntries(combined)
			}
		}
	}

	if opts.PerKind {
		r.PerKind = make(map[string][]TItem)
		for _, kind := range counter.Kinds() {
			r.PerKind[kind.String()] = toEntries(agg.ByKind[kind])
		}
	}

	if opts.PerDimension && opts.PerKind {
		r.PerDimensionDetail = make(map[string]map[string][]TItem)
		for dim, kinds := range agg.Grouped {
			detail := make(map[string][]TItem)
			for kind, part := range kinds {
				if !part.IsEmpty() {
					detail[kind.String()] = toEntries(part)
				}
			}
			if len(detail) > 0 {
				r.PerDimensionDetail[dim] = detail
			}
		}
	}

	return r
}

// SortedDimensions returns the report's per-dimension keys in stable
// order for printing.
func (r *Report[TItem]) SortedDimensions() []string {
	dims := make([]string, 0, len(r.PerDimension))
	for dim := range r.PerDimension {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	return dims
}

// SortedDetailDimensions returns the per-dimension-detail keys in stable
// order for printing.
func (r *Report[TItem]) SortedDetailDimensions() []string {
	dims := make([]string, 0, len(r.PerDimensionDetail))
	for dim := range r.PerDimensionDetail {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	return dims
}
