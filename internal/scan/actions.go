package scan

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Lemonzyy/nbt-sniffer/internal/view"
	"github.com/Lemonzyy/nbt-sniffer/models"
	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/db"
	"github.com/Lemonzyy/nbt-sniffer/pkg/query"
	"github.com/Lemonzyy/nbt-sniffer/pkg/report"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func ScanAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	workerCount := config.Workers
	if c.IsSet("workers") {
		workerCount = c.Int("workers")
	}
	if workerCount < 1 {
		workerCount = 1
	}
	viewMode := config.View
	if c.IsSet("view") {
		viewMode = c.String("view")
	}
	format := config.Format
	if c.IsSet("format") {
		format = c.String("format")
	}

	switch viewMode {
	case view.ViewDetailed, view.ViewByID, view.ViewByNBT:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown view %q (expected detailed, by-id or by-nbt)\n", viewMode)
		os.Exit(1)
	}

	itemArgs := c.StringSlice("item")
	if c.Bool("all") && len(itemArgs) > 0 {
		fmt.Fprintln(os.Stderr, "Error: Cannot use both --all and --item flags")
		fmt.Fprintln(os.Stderr, "Use --all to count everything, or --item to count specific items")
		os.Exit(1)
	}
	if !c.Bool("all") && len(itemArgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No items selected")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  nbt-sniffer scan --world ./world --all`)
		fmt.Fprintln(os.Stderr, `  nbt-sniffer scan --world ./world --item minecraft:diamond`)
		fmt.Fprintln(os.Stderr, `  nbt-sniffer scan --world ./world --item 'shulker_box{"minecraft:custom_name":"loot"}'`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: nbt-sniffer scan --help")
		os.Exit(1)
	}
	filters := query.ParseItemArgs(logger, itemArgs)

	worldPath := c.String("world")
	units, err := DiscoverUnits(worldPath)
	if err != nil {
		logger.Error("failed to discover scan units", "error", err, "world", worldPath)
		os.Exit(2)
	}
	if len(units) == 0 {
		fmt.Fprintf(os.Stderr, "No scannable files found under %s\n", worldPath)
		os.Exit(1)
	}

	counts, trees, runErr := Run(logger, units, filters, workerCount)
	grandTotal := counts.Combined().Total()

	opts := report.Options{
		PerDimension: c.Bool("per-dimension-summary"),
		PerKind:      c.Bool("per-kind-summary"),
	}

	switch viewMode {
	case view.ViewByID:
		agg := report.NewAggregation(counts, report.NewIDTotals, report.IDTotalsFromCounter)
		rep := report.Build(agg, opts, report.IDEntries, grandTotal)
		err = emit(rep, format, view.IDHeaders, view.IDRow)
	case view.ViewByNBT:
		agg := report.NewAggregation(counts, counter.New, report.CounterFromCounter)
		rep := report.Build(agg, opts, report.NBTEntries, grandTotal)
		err = emit(rep, format, view.NBTHeaders, view.NBTRow)
	default:
		agg := report.NewAggregation(counts, counter.New, report.CounterFromCounter)
		rep := report.Build(agg, opts, report.DetailedEntries, grandTotal)
		err = emit(rep, format, view.DetailedHeaders, view.DetailedRow)
	}
	if err != nil {
		logger.Error("failed to render report", "error", err)
		os.Exit(2)
	}

	if c.Bool("per-source-summary") && format == view.FormatTable {
		for _, tree := range trees {
			if !c.Bool("show-nbt") {
				tree.StripSNBT()
			}
			tree.CollapseLeaves()
		}
		view.PrintTrees(os.Stdout, trees)
	}

	if c.Bool("save") {
		if err := saveScan(logger, c, counts, viewMode, worldPath, itemArgs, workerCount, len(units), grandTotal, startTime); err != nil {
			logger.Error("failed to save scan", "error", err)
			os.Exit(2)
		}
	}

	logger.Info("Scan complete",
		"world", worldPath,
		"units", len(units),
		"total", grandTotal,
		"duration_seconds", time.Since(startTime).Seconds(),
	)

	if runErr != nil {
		os.Exit(1)
	}
	return nil
}

// emit writes a report to stdout in the requested format.
func emit[TItem any](rep *report.Report[TItem], format string, headers []string, toRow func(TItem) []string) error {
	if format == view.FormatTable {
		view.PrintTables(os.Stdout, rep, headers, toRow)
		return nil
	}
	data, err := view.Marshal(rep, format)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// saveScan persists the scan and its detailed breakdown to the history
// database.
func saveScan(logger *slog.Logger, c *cli.Context, counts *counter.Map, viewMode, worldPath string, itemArgs []string, workerCount, unitCount int, grandTotal int64, startTime time.Time) error {
	database, err := db.Open()
	if err != nil {
		return err
	}
	defer database.Close()

	var countRows []db.ScanCount
	for scope, ctr := range counts.Scopes() {
		for key, count := range ctr.Detailed() {
			if count == 0 {
				continue
			}
			row := db.ScanCount{
				Dimension:  scope.Dimension,
				SourceKind: scope.Kind.String(),
				ItemID:     key.ID,
				Count:      count,
			}
			if key.SNBT != "" {
				row.NBT = sql.NullString{String: key.SNBT, Valid: true}
			}
			countRows = append(countRows, row)
		}
	}

	rec := db.ScanRecord{
		ScanUUID:    uuid.NewString(),
		WorldPath:   worldPath,
		Filters:     strings.Join(itemArgs, " "),
		View:        viewMode,
		WorkerCount: workerCount,
		UnitCount:   unitCount,
		TotalCount:  grandTotal,
		DurationMS:  time.Since(startTime).Milliseconds(),
	}

	scanID, err := database.InsertScan(rec, countRows)
	if err != nil {
		return err
	}
	logger.Info("Scan saved", "scan_id", scanID, "scan_uuid", rec.ScanUUID, "db", database.Path())
	fmt.Fprintf(os.Stderr, "Saved as scan %d (use 'nbt-sniffer history show %d' to review)\n", scanID, scanID)
	return nil
}
