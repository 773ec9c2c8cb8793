package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// HFZ layout:
//
//	magic   [4]byte "HFZ1"
//	version uint8
//	size    uint32   grid edge length
//	sum     uint64   xxhash64 of the uncompressed payload
//	payload zstd     size*size little-endian float32, row-major
const (
	hfzMagic      = "HFZ1"
	hfzVersion    = 1
	hfzHeaderSize = 4 + 1 + 4 + 8
)

// MaxHFZSize is the largest grid edge accepted when reading or writing,
// equal to the generator's grid limit.
const MaxHFZSize = 4097

// HFZ format errors.
var (
	ErrInvalidHFZMagic       = errors.New("invalid HFZ magic: expected 'HFZ1'")
	ErrUnsupportedHFZVersion = errors.New("unsupported HFZ version")
	ErrTruncatedHFZData      = errors.New("truncated HFZ data")
	ErrHFZChecksum           = errors.New("HFZ checksum mismatch")
	ErrInvalidHFZSize        = errors.New("invalid HFZ grid size")
)

// HFZ is a stored heightfield.
type HFZ struct {
	Version uint8
	Size    uint32
	Cells   []float32
}

// EncodeHFZ serializes a size*size grid.
func EncodeHFZ(size int, cells []float32) ([]byte, error) {
	if size < 1 || size > MaxHFZSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHFZSize, size)
	}
	if len(cells) != size*size {
		return nil, fmt.Errorf("encoding HFZ: %d cells for size %d", len(cells), size)
	}

	payload := make([]byte, 0, len(cells)*4)
	for _, v := range cells {
		payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(v))
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()

	var out bytes.Buffer
	out.WriteString(hfzMagic)
	out.WriteByte(hfzVersion)
	_ = binary.Write(&out, binary.LittleEndian, uint32(size))
	_ = binary.Write(&out, binary.LittleEndian, xxhash.Sum64(payload))
	out.Write(enc.EncodeAll(payload, nil))
	return out.Bytes(), nil
}

// ParseHFZ parses an HFZ heightfield from raw bytes.
func ParseHFZ(data []byte) (*HFZ, error) {
	if len(data) < hfzHeaderSize {
		return nil, ErrTruncatedHFZData
	}
	if string(data[0:4]) != hfzMagic {
		return nil, ErrInvalidHFZMagic
	}
	version := data[4]
	if version != hfzVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedHFZVersion, version)
	}

	size := binary.LittleEndian.Uint32(data[5:9])
	sum := binary.LittleEndian.Uint64(data[9:17])
	if size == 0 || size > MaxHFZSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHFZSize, size)
	}
	count := int(size) * int(size)

	// Cap decoded output near the expected payload; small grids still get
	// room for the decoder's minimum window.
	limit := uint64(count * 4)
	if limit < 1<<20 {
		limit = 1 << 20
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(data[hfzHeaderSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHFZData, err)
	}
	if len(payload) != count*4 {
		return nil, fmt.Errorf("%w: payload %d bytes, want %d", ErrTruncatedHFZData, len(payload), count*4)
	}
	if xxhash.Sum64(payload) != sum {
		return nil, ErrHFZChecksum
	}

	cells := make([]float32, count)
	for i := range cells {
		cells[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}

	return &HFZ{Version: version, Size: size, Cells: cells}, nil
}

// ParseHFZFile parses an HFZ file from disk.
func ParseHFZFile(path string) (*HFZ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HFZ file: %w", err)
	}
	return ParseHFZ(data)
}

// WriteHFZFile encodes and writes an HFZ file.
func WriteHFZFile(path string, size int, cells []float32) error {
	data, err := EncodeHFZ(size, cells)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
