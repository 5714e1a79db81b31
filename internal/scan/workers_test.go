package scan

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lemonzyy/nbt-sniffer/pkg/counter"
	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
	"github.com/Lemonzyy/nbt-sniffer/pkg/query"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// nbtBuilder assembles binary NBT payloads by hand for scan tests.
type nbtBuilder struct {
	bytes.Buffer
}

func (b *nbtBuilder) tag(t nbt.Tag) *nbtBuilder {
	b.WriteByte(byte(t))
	return b
}

func (b *nbtBuilder) name(s string) *nbtBuilder {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(len(s)))
	b.Write(buf[:])
	b.WriteString(s)
	return b
}

func (b *nbtBuilder) i32(n int32) *nbtBuilder {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	b.Write(buf[:])
	return b
}

// itemBody appends the fields of one item compound plus its End tag.
func (b *nbtBuilder) itemBody(id string, count int32) *nbtBuilder {
	b.tag(nbt.TagString).name("id").name(id)
	b.tag(nbt.TagInt).name("count").i32(count)
	b.tag(nbt.TagEnd)
	return b
}

// chunkWithChest builds a chunk payload holding one chest with the given
// items.
func chunkWithChest(items ...struct {
	id    string
	count int32
}) []byte {
	var b nbtBuilder
	b.tag(nbt.TagCompound).name("")
	b.tag(nbt.TagList).name("block_entities").tag(nbt.TagCompound).i32(1)
	b.tag(nbt.TagString).name("id").name("minecraft:chest")
	b.tag(nbt.TagInt).name("x").i32(10)
	b.tag(nbt.TagInt).name("y").i32(64)
	b.tag(nbt.TagInt).name("z").i32(-3)
	b.tag(nbt.TagList).name("Items").tag(nbt.TagCompound).i32(int32(len(items)))
	for _, it := range items {
		b.itemBody(it.id, it.count)
	}
	b.tag(nbt.TagEnd) // chest
	b.tag(nbt.TagEnd) // chunk root
	return b.Bytes()
}

// regionWithChunk wraps a chunk payload into a zlib-compressed region file
// at chunk (0, 0).
func regionWithChunk(t *testing.T, payload []byte) []byte {
	t.Helper()
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(payload); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	chunk := make([]byte, 5+compressed.Len())
	binary.BigEndian.PutUint32(chunk, uint32(compressed.Len()+1))
	chunk[4] = 2 // zlib
	copy(chunk[5:], compressed.Bytes())

	sectors := (len(chunk) + 4095) / 4096
	data := make([]byte, 8192+sectors*4096)
	binary.BigEndian.PutUint32(data, uint32(2)<<8|uint32(sectors))
	copy(data[8192:], chunk)
	return data
}

// playerData builds a gzip-compressed player file with the given inventory
// and ender chest contents.
func playerData(t *testing.T, inventory, enderItems []struct {
	id    string
	count int32
}) []byte {
	t.Helper()
	var b nbtBuilder
	b.tag(nbt.TagCompound).name("")
	b.tag(nbt.TagList).name("Inventory").tag(nbt.TagCompound).i32(int32(len(inventory)))
	for _, it := range inventory {
		b.itemBody(it.id, it.count)
	}
	b.tag(nbt.TagList).name("EnderItems").tag(nbt.TagCompound).i32(int32(len(enderItems)))
	for _, it := range enderItems {
		b.itemBody(it.id, it.count)
	}
	b.tag(nbt.TagEnd)

	var out bytes.Buffer
	zw := gzip.NewWriter(&out)
	if _, err := zw.Write(b.Bytes()); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	return out.Bytes()
}

type stack = struct {
	id    string
	count int32
}

func TestProcessRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	payload := chunkWithChest(stack{"minecraft:diamond", 5}, stack{"minecraft:dirt", 64})
	if err := os.WriteFile(path, regionWithChunk(t, payload), 0644); err != nil {
		t.Fatal(err)
	}

	c := counter.New()
	filters := query.ParseItemArgs(testLogger(), []string{"diamond"})
	nodes, err := processRegion(path, filters, c)
	if err != nil {
		t.Fatalf("processRegion() error = %v", err)
	}

	if got := c.Total(); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}
	if len(nodes) != 1 {
		t.Fatalf("len(nodes) = %d, want 1 chest", len(nodes))
	}
	if nodes[0].Label != "minecraft:chest @ 10 64 -3" {
		t.Errorf("chest label = %q", nodes[0].Label)
	}
}

func TestProcessPlayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "11111111-2222-3333-4444-555555555555.dat")
	data := playerData(t,
		[]stack{{"minecraft:diamond", 10}},
		[]stack{{"minecraft:diamond", 20}},
	)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c := counter.New()
	nodes, err := processPlayer(path, nil, c)
	if err != nil {
		t.Fatalf("processPlayer() error = %v", err)
	}

	if got := c.Total(); got != 30 {
		t.Errorf("Total() = %d, want 30", got)
	}
	if len(nodes) != 1 || nodes[0].Label != "player 11111111-2222-3333-4444-555555555555" {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestRun_MergesScopes(t *testing.T) {
	root := t.TempDir()
	regionDir := filepath.Join(root, "region")
	playerDir := filepath.Join(root, "playerdata")
	if err := os.MkdirAll(regionDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(playerDir, 0755); err != nil {
		t.Fatal(err)
	}

	payload := chunkWithChest(stack{"minecraft:diamond", 5})
	if err := os.WriteFile(filepath.Join(regionDir, "r.0.0.mca"), regionWithChunk(t, payload), 0644); err != nil {
		t.Fatal(err)
	}
	pdata := playerData(t, []stack{{"minecraft:diamond", 3}}, nil)
	if err := os.WriteFile(filepath.Join(playerDir, "11111111-2222-3333-4444-555555555555.dat"), pdata, 0644); err != nil {
		t.Fatal(err)
	}

	units, err := DiscoverUnits(root)
	if err != nil {
		t.Fatalf("DiscoverUnits() error = %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("len(units) = %d, want 2", len(units))
	}

	counts, trees, runErr := Run(testLogger(), units, nil, 2)
	if runErr != nil {
		t.Fatalf("Run() error = %v", runErr)
	}

	if got := counts.Combined().Total(); got != 8 {
		t.Errorf("combined total = %d, want 8", got)
	}
	beScope := counter.Scope{Dimension: "overworld", Kind: counter.KindBlockEntity}
	if got := counts.Scopes()[beScope].Total(); got != 5 {
		t.Errorf("block entity total = %d, want 5", got)
	}
	if len(trees) != 2 {
		t.Errorf("len(trees) = %d, want one per unit with matches", len(trees))
	}
}

func TestRun_ReportsUnitFailure(t *testing.T) {
	root := t.TempDir()
	regionDir := filepath.Join(root, "region")
	if err := os.MkdirAll(regionDir, 0755); err != nil {
		t.Fatal(err)
	}
	// too small to even hold a region header
	if err := os.WriteFile(filepath.Join(regionDir, "r.0.0.mca"), []byte("bogus"), 0644); err != nil {
		t.Fatal(err)
	}

	units, err := DiscoverUnits(root)
	if err != nil {
		t.Fatalf("DiscoverUnits() error = %v", err)
	}

	counts, _, runErr := Run(testLogger(), units, nil, 1)
	if runErr == nil {
		t.Error("Run() error = nil, want failure reported")
	}
	if !counts.IsEmpty() {
		t.Error("corrupt unit should contribute no counts")
	}
}
