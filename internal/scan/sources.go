// Package scan discovers the scannable pieces of a world save and runs the
// concurrent scan over them.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
)

// UnitType selects how a scan unit's file is decoded.
type UnitType int

const (
	// UnitRegion is a region/*.mca file holding block entities.
	UnitRegion UnitType = iota
	// UnitEntities is an entities/*.mca file holding entity lists.
	UnitEntities
	// UnitPlayerData is a playerdata/*.dat gzip-compressed player file.
	UnitPlayerData
	// UnitLevelData is level.dat; only its embedded single-player data is
	// scanned.
	UnitLevelData
)

// Unit is one independently scannable file of a world save.
type Unit struct {
	Path  string
	Scope counter.Scope
	Type  UnitType
}

// DimensionPlayerData groups everything read out of player files; player
// inventories have no world dimension.
const DimensionPlayerData = "playerdata"

// dimensionDirs maps each dimension name to its subdirectory under the
// world root. The overworld lives at the root itself.
var dimensionDirs = []struct {
	name string
	sub  string
}{
	{"overworld", ""},
	{"the_nether", "DIM-1"},
	{"the_end", "DIM1"},
}

// DiscoverUnits walks a world save directory and returns every scannable
// unit: region and entity files per dimension, player data files and
// level.dat. Missing dimensions and directories are skipped, not errors.
func DiscoverUnits(worldPath string) ([]Unit, error) {
	info, err := os.Stat(worldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open world: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("world path is not a directory: %s", worldPath)
	}

	var units []Unit
	for _, dim := range dimensionDirs {
		base := filepath.Join(worldPath, dim.sub)

		regions, err := listFiles(filepath.Join(base, "region"), ".mca")
		if err != nil {
			return nil, err
		}
		for _, path := range regions {
			units = append(units, Unit{
				Path:  path,
				Scope: counter.Scope{Dimension: dim.name, Kind: counter.KindBlockEntity},
				Type:  UnitRegion,
			})
		}

		entities, err := listFiles(filepath.Join(base, "entities"), ".mca")
		if err != nil {
			return nil, err
		}
		for _, path := range entities {
			units = append(units, Unit{
				Path:  path,
				Scope: counter.Scope{Dimension: dim.name, Kind: counter.KindEntity},
				Type:  UnitEntities,
			})
		}
	}

	playerScope := counter.Scope{Dimension: DimensionPlayerData, Kind: counter.KindPlayer}
	players, err := listFiles(filepath.Join(worldPath, "playerdata"), ".dat")
	if err != nil {
		return nil, err
	}
	for _, path := range players {
		// Backup files like <uuid>.dat_old share the directory; listFiles
		// already filtered on the exact extension.
		units = append(units, Unit{Path: path, Scope: playerScope, Type: UnitPlayerData})
	}

	levelPath := filepath.Join(worldPath, "level.dat")
	if _, err := os.Stat(levelPath); err == nil {
		units = append(units, Unit{Path: levelPath, Scope: playerScope, Type: UnitLevelData})
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
	return units, nil
}

// listFiles returns the files in dir whose name ends with ext, sorted. A
// missing directory yields an empty list.
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
