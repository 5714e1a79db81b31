package scan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/extract"
	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
	"github.com/Lemonzyy/nbt-sniffer/pkg/query"
	"github.com/Lemonzyy/nbt-sniffer/pkg/region"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

type Job struct {
	Unit Unit
}

// Result holds the outcome of one processed scan unit.
type Result struct {
	Unit      Unit
	Counts    *counter.Counter
	Tree      *extract.SummaryNode
	Error     error
	ErrorType string
}

// Run scans every unit with a pool of workers and folds the per-unit
// fragments into one scoped counter map plus the per-source summary trees.
// A unit failure is logged and reported but does not stop the other units.
func Run(logger *slog.Logger, units []Unit, filters []query.Filter, workerCount int) (*counter.Map, []*extract.SummaryNode, error) {
	logger.Info("Starting concurrent scan phase", "unit_count", len(units), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(units))
	results := make(chan Result, len(units))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, &wg, jobs, results, filters)
	}

	for _, unit := range units {
		jobs <- Job{Unit: unit}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All scan workers finished")

	merged := counter.NewMap()
	var trees []*extract.SummaryNode
	var runErr error
	for result := range results {
		if result.Error != nil {
			runErr = fmt.Errorf("one or more scan units failed")
			continue
		}
		merged.MergeScope(result.Unit.Scope, result.Counts)
		if result.Tree != nil && len(result.Tree.Children) > 0 {
			trees = append(trees, result.Tree)
		}
	}

	sort.Slice(trees, func(i, j int) bool { return trees[i].Label < trees[j].Label })
	return merged, trees, runErr
}

// worker is a goroutine that processes scan units from the jobs channel and
// sends per-unit fragments to the results channel.
func worker(id int, logger *slog.Logger, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result, filters []query.Filter) {
	defer wg.Done()
	for job := range jobs {
		unit := job.Unit
		logger.Debug("Worker started unit", "worker_id", id, "path", unit.Path)

		result := Result{Unit: unit, Counts: counter.New()}
		var nodes []*extract.SummaryNode
		var err error

		switch unit.Type {
		case UnitRegion:
			nodes, err = processRegion(unit.Path, filters, result.Counts)
		case UnitEntities:
			nodes, err = processEntities(unit.Path, filters, result.Counts)
		case UnitPlayerData:
			nodes, err = processPlayer(unit.Path, filters, result.Counts)
		case UnitLevelData:
			nodes, err = processLevel(unit.Path, filters, result.Counts)
		default:
			err = fmt.Errorf("unknown unit type %d", unit.Type)
		}

		if err != nil {
			logger.Error("Error scanning unit", "worker_id", id, "path", unit.Path, "error", err)
			result.Error = err
			result.ErrorType = "scan_error"
			results <- result
			continue
		}

		if len(nodes) > 0 {
			label := fmt.Sprintf("%s (%s)", filepath.Base(unit.Path), unit.Scope.Dimension)
			result.Tree = extract.NewRoot(label, nodes)
		}
		results <- result
		logger.Debug("Worker finished unit", "worker_id", id, "path", unit.Path, "count", result.Counts.Total())
	}
}

// processRegion scans every generated chunk of a region file for block
// entity contents.
func processRegion(path string, filters []query.Filter, c *counter.Counter) ([]*extract.SummaryNode, error) {
	reg, err := region.Load(path)
	if err != nil {
		return nil, err
	}

	var nodes []*extract.SummaryNode
	for z := 0; z < region.ChunksPerSide; z++ {
		for x := 0; x < region.ChunksPerSide; x++ {
			data, err := reg.Chunk(x, z)
			if err != nil {
				return nil, fmt.Errorf("chunk (%d, %d): %w", x, z, err)
			}
			if data == nil {
				continue
			}

			chunk, err := nbt.Read(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("chunk (%d, %d): %w", x, z, err)
			}

			for _, el := range chunk.GetList("block_entities") {
				be, ok := el.(nbt.Compound)
				if !ok {
					continue
				}
				children := extract.BlockEntity(be, filters, c)
				if len(children) == 0 {
					continue
				}
				nodes = append(nodes, extract.NewRoot(blockEntityLabel(be), children))
			}
		}
	}
	return nodes, nil
}

// processEntities scans an entities region file for items carried by
// entities.
func processEntities(path string, filters []query.Filter, c *counter.Counter) ([]*extract.SummaryNode, error) {
	reg, err := region.Load(path)
	if err != nil {
		return nil, err
	}

	var nodes []*extract.SummaryNode
	for z := 0; z < region.ChunksPerSide; z++ {
		for x := 0; x < region.ChunksPerSide; x++ {
			data, err := reg.Chunk(x, z)
			if err != nil {
				return nil, fmt.Errorf("chunk (%d, %d): %w", x, z, err)
			}
			if data == nil {
				continue
			}

			chunk, err := nbt.Read(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("chunk (%d, %d): %w", x, z, err)
			}

			for _, el := range chunk.GetList("Entities") {
				entity, ok := el.(nbt.Compound)
				if !ok {
					continue
				}
				children := extract.Entity(entity, filters, c)
				if len(children) == 0 {
					continue
				}
				nodes = append(nodes, extract.NewRoot(entityLabel(entity), children))
			}
		}
	}
	return nodes, nil
}

// processPlayer scans one playerdata/<uuid>.dat file.
func processPlayer(path string, filters []query.Filter, c *counter.Counter) ([]*extract.SummaryNode, error) {
	player, err := readGzipNBT(path)
	if err != nil {
		return nil, err
	}

	children := extract.Player(player, filters, c)
	if len(children) == 0 {
		return nil, nil
	}
	return []*extract.SummaryNode{extract.NewRoot("player "+playerID(path), children)}, nil
}

// processLevel scans the single-player inventory embedded in level.dat.
func processLevel(path string, filters []query.Filter, c *counter.Counter) ([]*extract.SummaryNode, error) {
	root, err := readGzipNBT(path)
	if err != nil {
		return nil, err
	}

	data := root.GetCompound("Data")
	if data == nil {
		return nil, nil
	}
	player := data.GetCompound("Player")
	if player == nil {
		return nil, nil
	}

	children := extract.Player(player, filters, c)
	if len(children) == 0 {
		return nil, nil
	}
	label := "player " + playerUUID(player)
	return []*extract.SummaryNode{extract.NewRoot(label, children)}, nil
}

// readGzipNBT reads a gzip-compressed NBT file such as level.dat or a
// playerdata file.
func readGzipNBT(path string) (nbt.Compound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	defer zr.Close()

	root, err := nbt.Read(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return root, nil
}

// blockEntityLabel renders "minecraft:chest @ 10 64 -3".
func blockEntityLabel(be nbt.Compound) string {
	id, _ := be.GetString("id")
	if id == "" {
		id = "unknown"
	}
	x, _ := be.GetInt("x")
	y, _ := be.GetInt("y")
	z, _ := be.GetInt("z")
	return fmt.Sprintf("%s @ %d %d %d", id, x, y, z)
}

// entityLabel renders "minecraft:chest_minecart @ 12 64 -7".
func entityLabel(entity nbt.Compound) string {
	id, _ := entity.GetString("id")
	if id == "" {
		id = "unknown"
	}
	pos := entity.GetList("Pos")
	if len(pos) != 3 {
		return id
	}
	coords := make([]int64, 3)
	for i, el := range pos {
		if d, ok := el.(nbt.Double); ok {
			coords[i] = int64(d)
		}
	}
	return fmt.Sprintf("%s @ %d %d %d", id, coords[0], coords[1], coords[2])
}

// playerID extracts the player UUID from a playerdata filename, falling
// back to the bare stem when it does not parse.
func playerID(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if id, err := uuid.Parse(stem); err == nil {
		return id.String()
	}
	return stem
}

// playerUUID reads the UUID int-array a player compound carries and renders
// it canonically; single-player data has no filename to take it from.
func playerUUID(player nbt.Compound) string {
	raw, ok := player["UUID"].(nbt.IntArray)
	if !ok || len(raw) != 4 {
		return "local"
	}
	var buf [16]byte
	for i, part := range raw {
		binary.BigEndian.PutUint32(buf[i*4:], uint32(part))
	}
	id, err := uuid.FromBytes(buf[:])
	if err != nil {
		return "local"
	}
	return id.String()
}
