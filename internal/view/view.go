// Package view renders scan reports as terminal tables, summary trees and
// machine-readable JSON/YAML.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// View selects how counts are keyed in the output.
const (
	ViewDetailed = "detailed"
	ViewByID     = "by-id"
	ViewByNBT    = "by-nbt"
)

// Output formats.
const (
	FormatTable      = "table"
	FormatJSON       = "json"
	FormatPrettyJSON = "pretty-json"
	FormatYAML       = "yaml"
)

// noNBT substitutes for an empty signature column so the cell reads as
// deliberate rather than missing.
const noNBT = "No NBT"

var headerStyle = lipgloss.NewStyle().Bold(true)

// Marshal serializes a report in the requested non-table format.
func Marshal[TItem any](rep *report.Report[TItem], format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.Marshal(rep)
	case FormatPrettyJSON:
		return json.MarshalIndent(rep, "", "  ")
	case FormatYAML:
		return yaml.Marshal(rep)
	}
	return nil, fmt.Errorf("unknown output format: %s", format)
}

// DetailedRow converts a detailed entry to table cells.
func DetailedRow(e report.DetailedEntry) []string {
	nbtCell := e.NBT
	if nbtCell == "" {
		nbtCell = noNBT
	}
	return []string{strconv.FormatInt(e.Count, 10), e.ID, nbtCell}
}

// IDRow converts an id entry to table cells.
func IDRow(e report.IDEntry) []string {
	return []string{strconv.FormatInt(e.Count, 10), e.ID}
}

// NBTRow converts a signature entry to table cells.
func NBTRow(e report.NBTEntry) []string {
	nbtCell := e.NBT
	if nbtCell == "" {
		nbtCell = noNBT
	}
	return []string{strconv.FormatInt(e.Count, 10), nbtCell}
}

// DetailedHeaders, IDHeaders and NBTHeaders are the column sets matching
// the row converters above.
var (
	DetailedHeaders = []string{"Count", "Item ID", "NBT"}
	IDHeaders       = []string{"Count", "Item ID"}
	NBTHeaders      = []string{"Count", "NBT"}
)

// PrintTables writes every populated section of a report as bordered
// tables, grand total last.
func PrintTables[TItem any](w io.Writer, rep *report.Report[TItem], headers []string, toRow func(TItem) []string) {
	for _, dim := range rep.SortedDetailDimensions() {
		detail := rep.PerDimensionDetail[dim]
		for _, kind := range counter.Kinds() {
			entries, ok := detail[kind.String()]
			if !ok {
				continue
			}
			printSection(w, fmt.Sprintf("%s / %s", dim, kind.Display()), entries, headers, toRow)
		}
	}

	for _, dim := range rep.SortedDimensions() {
		printSection(w, "Dimension: "+dim, rep.PerDimension[dim], headers, toRow)
	}

	if rep.PerKind != nil {
		for _, kind := range counter.Kinds() {
			printSection(w, kind.Display(), rep.PerKind[kind.String()], headers, toRow)
		}
	}

	printSection(w, "Grand Total", rep.GrandTotal, headers, toRow)
	fmt.Fprintf(w, "Total items: %d\n", rep.GrandTotalCount)
}

// printSection renders one titled table. Sections without rows still print
// so the absence of matches is visible.
func printSection[TItem any](w io.Writer, title string, entries []TItem, headers []string, toRow func(TItem) []string) {
	fmt.Fprintln(w, headerStyle.Render(title))
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (no matching items)")
		fmt.Fprintln(w)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, e := range entries {
		t.Row(toRow(e)...)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w)
}
