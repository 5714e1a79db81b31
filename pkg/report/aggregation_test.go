package report

import (
	"testing"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
)

func buildScanMap() *counter.Map {
	m := counter.NewMap()

	be := counter.New()
	be.Add("minecraft:diamond", nil, 10)
	be.Add("minecraft:stick", nil, 2)
	m.MergeScope(counter.Scope{Dimension: "overworld", Kind: counter.KindBlockEntity}, be)

	ent := counter.New()
	ent.Add("minecraft:diamond", nil, 5)
	m.MergeScope(counter.Scope{Dimension: "the_nether", Kind: counter.KindEntity}, ent)

	players := counter.New()
	players.Add("minecraft:diamond", nbt.Compound{"damage": nbt.Int(1)}, 1)
	m.MergeScope(counter.Scope{Dimension: "playerdata", Kind: counter.KindPlayer}, players)

	return m
}

func TestNewAggregation_Counter(t *testing.T) {
	agg := NewAggregation(buildScanMap(), counter.New, CounterFromCounter)

	if got := agg.Combined.Total(); got != 18 {
		t.Errorf("Combined.Total() = %d, want 18", got)
	}
	if got := agg.ByKind[counter.KindBlockEntity].Total(); got != 12 {
		t.Errorf("block entity total = %d, want 12", got)
	}
	if got := agg.DimensionCombined("the_nether").Total(); got != 5 {
		t.Errorf("nether total = %d, want 5", got)
	}
}

func TestNewAggregation_AllKindsMaterialized(t *testing.T) {
	// Only block entities contribute, but every kind must be present.
	m := counter.NewMap()
	be := counter.New()
	be.Add("minecraft:diamond", nil, 1)
	m.MergeScope(counter.Scope{Dimension: "overworld", Kind: counter.KindBlockEntity}, be)

	agg := NewAggregation(m, counter.New, CounterFromCounter)
	for _, kind := range counter.Kinds() {
		part, ok := agg.ByKind[kind]
		if !ok {
			t.Fatalf("kind %s missing from ByKind", kind)
		}
		if kind != counter.KindBlockEntity && !part.IsEmpty() {
			t.Errorf("kind %s should be empty", kind)
		}
	}
}

func TestNewAggregation_SkipsEmptyScopes(t *testing.T) {
	m := counter.NewMap()
	m.MergeScope(counter.Scope{Dimension: "overworld", Kind: counter.KindBlockEntity}, counter.New())

	agg := NewAggregation(m, counter.New, CounterFromCounter)
	if len(agg.Grouped) != 0 {
		t.Errorf("empty scope leaked into Grouped: %v", agg.Grouped)
	}
}

func TestIDTotals(t *testing.T) {
	a := NewIDTotals()
	a.Merge(IDTotals{"minecraft:diamond": 3})
	a.Merge(IDTotals{"minecraft:diamond": 4, "minecraft:stick": 1})

	if a["minecraft:diamond"] != 7 {
		t.Errorf("diamond = %d, want 7", a["minecraft:diamond"])
	}
	if got := a.Total(); got != 8 {
		t.Errorf("Total() = %d, want 8", got)
	}
	if a.IsEmpty() || !NewIDTotals().IsEmpty() {
		t.Error("IsEmpty misbehaves")
	}
}

func TestIDTotalsFromCounter(t *testing.T) {
	c := counter.New()
	c.Add("minecraft:diamond", nil, 1)
	c.Add("minecraft:diamond", nbt.Compound{"damage": nbt.Int(1)}, 2)

	totals := IDTotalsFromCounter(c)
	if totals["minecraft:diamond"] != 3 {
		t.Errorf("diamond = %d, want 3 across signatures", totals["minecraft:diamond"])
	}
}

func TestBuild_SectionShapes(t *testing.T) {
	agg := NewAggregation(buildScanMap(), counter.New, CounterFromCounter)

	rep := Build(agg, Options{PerDimension: true, PerKind: true}, DetailedEntries, 18)

	if rep.GrandTotalCount != 18 {
		t.Errorf("GrandTotalCount = %d", rep.GrandTotalCount)
	}
	if len(rep.GrandTotal) == 0 {
		t.Error("GrandTotal section missing")
	}
	if len(rep.PerKind) != 3 {
		t.Errorf("PerKind has %d kinds, want all 3", len(rep.PerKind))
	}
	if _, ok := rep.PerDimension["overworld"]; !ok {
		t.Error("overworld missing from PerDimension")
	}
	if _, ok := rep.PerDimensionDetail["the_nether"]["entity"]; !ok {
		t.Error("nether entity detail missing")
	}

	dims := rep.SortedDimensions()
	for i := 1; i < len(dims); i++ {
		if dims[i-1] > dims[i] {
			t.Errorf("SortedDimensions not sorted: %v", dims)
		}
	}
}

func TestBuild_AxesOffByDefault(t *testing.T) {
	agg := NewAggregation(buildScanMap(), NewIDTotals, IDTotalsFromCounter)
	rep := Build(agg, Options{}, IDEntries, 18)

	if rep.PerDimension != nil || rep.PerKind != nil || rep.PerDimensionDetail != nil {
		t.Error("breakdown sections present without being requested")
	}
	if len(rep.GrandTotal) != 2 {
		t.Errorf("GrandTotal rows = %d, want 2 ids", len(rep.GrandTotal))
	}
}

func TestEntries_Sorting(t *testing.T) {
	c := counter.New()
	c.Add("minecraft:stick", nil, 2)
	c.Add("minecraft:diamond", nil, 10)
	c.Add("minecraft:apple", nil, 2)

	entries := DetailedEntries(c)
	if entries[0].ID != "minecraft:diamond" {
		t.Errorf("entries[0] = %+v, want highest count first", entries[0])
	}
	// ties break by id ascending
	if entries[1].ID != "minecraft:apple" || entries[2].ID != "minecraft:stick" {
		t.Errorf("tie-break order wrong: %+v", entries[1:])
	}
}

func TestNBTEntries(t *testing.T) {
	c := counter.New()
	sig := nbt.Compound{"damage": nbt.Int(3)}
	c.Add("minecraft:diamond_sword", sig, 1)
	c.Add("minecraft:iron_sword", sig, 1)
	c.Add("minecraft:stick", nil, 5)

	entries := NBTEntries(c)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 buckets", len(entries))
	}
	if entries[0].NBT != "" || entries[0].Count != 5 {
		t.Errorf("entries[0] = %+v, want the no-data bucket first", entries[0])
	}
	if entries[1].Count != 2 {
		t.Errorf("entries[1] = %+v, want the shared signature summed", entries[1])
	}
}
