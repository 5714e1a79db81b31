package main

import (
	"fmt"
	"os"

	"github.com/Lemonzyy/nbt-sniffer/internal/history"
	"github.com/Lemonzyy/nbt-sniffer/internal/scan"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "nbt-sniffer",
		Usage: "Count items in Minecraft world saves by digging through NBT data",
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "Scan a world save and report item counts",
				Action: scan.ScanAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "world",
						Aliases:  []string{"w"},
						Usage:    "Path to the world save directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Count every item instead of filtering",
					},
					&cli.StringSliceFlag{
						Name:    "item",
						Aliases: []string{"i"},
						Usage:   `Item to count, e.g. minecraft:diamond or 'shulker_box{"minecraft:custom_name":"loot"}' (repeatable)`,
					},
					&cli.StringFlag{
						Name:  "view",
						Usage: "Count keying: detailed, by-id or by-nbt",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: table, json, pretty-json or yaml",
					},
					&cli.BoolFlag{
						Name:  "show-nbt",
						Usage: "Keep component data visible in the per-source summary",
					},
					&cli.BoolFlag{
						Name:  "per-source-summary",
						Usage: "Print a tree of matches per scanned file",
					},
					&cli.BoolFlag{
						Name:  "per-dimension-summary",
						Usage: "Break counts down per dimension",
					},
					&cli.BoolFlag{
						Name:  "per-kind-summary",
						Usage: "Break counts down per source kind (block entities, entities, players)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent scan workers",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Record this scan in the history database",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: "nbt-sniffer.yaml",
						Usage: "Path to the YAML config file",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
				},
			},
			{
				Name:  "history",
				Usage: "Inspect scans recorded with --save",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List saved scans, newest first",
						Action: history.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum number of scans to list (0 for all)",
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show one saved scan and its item breakdown",
						ArgsUsage: "<scan-id>",
						Action:    history.ShowAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
