// Package region reads Minecraft anvil region files (.mca): a 4KiB sector
// file with a 1024-entry chunk location table, each chunk stored as a
// length-prefixed, compressed NBT payload.
package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// ChunksPerSide is the width of a region in chunks.
const ChunksPerSide = 32

const (
	sectorSize = 4096
	headerSize = 2 * sectorSize

	compressionGzip = 1
	compressionZlib = 2
	compressionNone = 3
)

// Region is a parsed .mca file held in memory.
type Region struct {
	data []byte
}

// New wraps raw region file bytes, validating the header.
func New(data []byte) (*Region, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("region: file too small for header (%d bytes)", len(data))
	}
	return &Region{data: data}, nil
}

// Load reads and wraps a region file from disk.
func Load(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("region: read %s: %w", path, err)
	}
	return New(data)
}

// Chunk returns the decompressed NBT payload of the chunk at region-local
// (x, z), or nil when the chunk was never generated.
func (r *Region) Chunk(x, z int) ([]byte, error) {
	if x < 0 || x >= ChunksPerSide || z < 0 || z >= ChunksPerSide {
		return nil, fmt.Errorf("region: chunk (%d, %d) out of range", x, z)
	}

	loc := binary.BigEndian.Uint32(r.data[4*(x+z*ChunksPerSide):])
	offset := int(loc >> 8)
	sectors := int(loc & 0xff)
	if offset == 0 || sectors == 0 {
		return nil, nil
	}

	start := offset * sectorSize
	end := start + sectors*sectorSize
	if start < headerSize || end > len(r.data) {
		return nil, fmt.Errorf("region: chunk (%d, %d) sectors out of bounds", x, z)
	}

	payloadLen := int(binary.BigEndian.Uint32(r.data[start:]))
	if payloadLen < 1 || start+4+payloadLen > len(r.data) {
		return nil, fmt.Errorf("region: chunk (%d, %d) has invalid length %d", x, z, payloadLen)
	}

	scheme := r.data[start+4]
	compressed := r.data[start+5 : start+4+payloadLen]
	return decompress(scheme, compressed)
}

func decompress(scheme byte, data []byte) ([]byte, error) {
	switch scheme {
	case compressionGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("region: gzip: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case compressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("region: zlib: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case compressionNone:
		return data, nil
	}
	return nil, fmt.Errorf("region: unsupported compression scheme %d", scheme)
}
