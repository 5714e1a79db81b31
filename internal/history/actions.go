// Package history lists and inspects scans saved to the local database.
package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lemonzyy/nbt-sniffer/pkg/db"
	"github.com/urfave/cli/v2"
)

func ListAction(c *cli.Context) error {
	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	scans, err := database.ListScans(limit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if len(scans) == 0 {
		fmt.Println("No scans saved yet")
		fmt.Println("\nTip: Run a scan with --save to record it")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-8s %-10s %-12s %s\n",
		"ID", "Created", "View", "Units", "Total", "Duration", "World")
	fmt.Println(strings.Repeat("-", 100))

	for _, s := range scans {
		fmt.Printf("%-6d %-20s %-10s %-8d %-10d %-12s %s\n",
			s.ScanID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.View,
			s.UnitCount,
			s.TotalCount,
			fmt.Sprintf("%dms", s.DurationMS),
			s.WorldPath,
		)
	}

	fmt.Printf("\nTotal: %d scans\n", len(scans))
	fmt.Printf("\nTip: Use 'nbt-sniffer history show <id>' to see the breakdown\n")

	return nil
}

func ShowAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: nbt-sniffer history show <scan-id>")
	}
	scanID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scan ID %q", c.Args().First())
	}

	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	rec, err := database.GetScan(scanID)
	if err != nil {
		return err
	}

	fmt.Printf("Scan %d (%s)\n", rec.ScanID, rec.ScanUUID)
	fmt.Printf("  Created:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  World:    %s\n", rec.WorldPath)
	if rec.Filters != "" {
		fmt.Printf("  Filters:  %s\n", rec.Filters)
	} else {
		fmt.Printf("  Filters:  (all items)\n")
	}
	fmt.Printf("  View:     %s\n", rec.View)
	fmt.Printf("  Workers:  %d\n", rec.WorkerCount)
	fmt.Printf("  Units:    %d\n", rec.UnitCount)
	fmt.Printf("  Total:    %d\n", rec.TotalCount)
	fmt.Printf("  Duration: %dms\n", rec.DurationMS)

	counts, err := database.GetScanCounts(scanID)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("\nNo matching items were recorded for this scan")
		return nil
	}

	fmt.Printf("\n%-10s %-14s %-12s %-30s %s\n", "Count", "Dimension", "Source", "Item ID", "NBT")
	fmt.Println(strings.Repeat("-", 110))
	for _, row := range counts {
		nbtCell := ""
		if row.NBT.Valid {
			nbtCell = row.NBT.String
		}
		fmt.Printf("%-10d %-14s %-12s %-30s %s\n",
			row.Count, row.Dimension, row.SourceKind, row.ItemID, nbtCell)
	}

	return nil
}
