package formats

import (
	"errors"
	"fmt"
	"os"
)

// RAW format errors.
var (
	ErrTruncatedRawData = errors.New("truncated RAW height map")
	ErrInvalidRawSize   = errors.New("invalid RAW height map size")
)

// ParseRawHeightMap returns the size*size single-byte samples of a headerless,
// row-major RAW height map. Trailing bytes are ignored.
func ParseRawHeightMap(data []byte, size int) ([]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRawSize, size)
	}
	need := size * size
	if len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTruncatedRawData, len(data), need)
	}
	samples := make([]byte, need)
	copy(samples, data)
	return samples, nil
}

// ParseRawHeightMapFile parses a RAW height map from disk.
func ParseRawHeightMapFile(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RAW file: %w", err)
	}
	return ParseRawHeightMap(data, size)
}
