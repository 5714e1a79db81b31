package region

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// buildRegion assembles a minimal region file with one chunk at (x, z).
func buildRegion(t *testing.T, x, z int, scheme byte, payload []byte) []byte {
	t.Helper()

	var compressed bytes.Buffer
	switch scheme {
	case compressionGzip:
		zw := gzip.NewWriter(&compressed)
		if _, err := zw.Write(payload); err != nil {
			t.Fatal(err)
		}
		zw.Close()
	case compressionZlib:
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(payload); err != nil {
			t.Fatal(err)
		}
		zw.Close()
	default:
		compressed.Write(payload)
	}

	chunk := make([]byte, 5+compressed.Len())
	binary.BigEndian.PutUint32(chunk, uint32(compressed.Len()+1))
	chunk[4] = scheme
	copy(chunk[5:], compressed.Bytes())

	sectors := (len(chunk) + sectorSize - 1) / sectorSize
	data := make([]byte, headerSize+sectors*sectorSize)
	loc := uint32(2)<<8 | uint32(sectors)
	binary.BigEndian.PutUint32(data[4*(x+z*ChunksPerSide):], loc)
	copy(data[headerSize:], chunk)
	return data
}

func TestChunk_Zlib(t *testing.T) {
	payload := []byte("chunk payload bytes")
	reg, err := New(buildRegion(t, 3, 7, compressionZlib, payload))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := reg.Chunk(3, 7)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Chunk() = %q, want %q", got, payload)
	}
}

func TestChunk_Gzip(t *testing.T) {
	payload := []byte("gzip compressed chunk")
	reg, err := New(buildRegion(t, 0, 0, compressionGzip, payload))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := reg.Chunk(0, 0)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Chunk() = %q, want %q", got, payload)
	}
}

func TestChunk_Uncompressed(t *testing.T) {
	payload := []byte("raw")
	reg, err := New(buildRegion(t, 31, 31, compressionNone, payload))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := reg.Chunk(31, 31)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Chunk() = %q, want %q", got, payload)
	}
}

func TestChunk_Ungenerated(t *testing.T) {
	reg, err := New(make([]byte, headerSize))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := reg.Chunk(5, 5)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if got != nil {
		t.Errorf("Chunk() = %v, want nil for ungenerated chunk", got)
	}
}

func TestChunk_OutOfRange(t *testing.T) {
	reg, err := New(make([]byte, headerSize))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := reg.Chunk(32, 0); err == nil {
		t.Error("Chunk(32, 0) succeeded, want error")
	}
	if _, err := reg.Chunk(0, -1); err == nil {
		t.Error("Chunk(0, -1) succeeded, want error")
	}
}

func TestChunk_CorruptSectorBounds(t *testing.T) {
	data := make([]byte, headerSize)
	// points past the end of the file
	binary.BigEndian.PutUint32(data, uint32(9)<<8|1)
	reg, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := reg.Chunk(0, 0); err == nil {
		t.Error("Chunk() succeeded on out-of-bounds sectors, want error")
	}
}

func TestNew_TooSmall(t *testing.T) {
	if _, err := New(make([]byte, 100)); err == nil {
		t.Error("New() succeeded on undersized data, want error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	payload := []byte("from disk")
	if err := os.WriteFile(path, buildRegion(t, 1, 2, compressionZlib, payload), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := reg.Chunk(1, 2)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Chunk() = %q, want %q", got, payload)
	}
}
