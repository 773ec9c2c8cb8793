package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Registered decoders for height-map images.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrNonSquareImage is returned for images whose width and height differ.
var ErrNonSquareImage = errors.New("height map image is not square")

// HeightImage is a decoded grayscale height map.
type HeightImage struct {
	Size    int
	Format  string // decoder name: png, bmp or tiff
	Samples []byte // Size*Size luminance values, row-major
}

// DecodeHeightImage decodes a square PNG, BMP or TIFF image into 8-bit
// luminance samples.
func DecodeHeightImage(r io.Reader) (*HeightImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding height image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquareImage, b.Dx(), b.Dy())
	}

	size := b.Dx()
	samples := make([]byte, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			samples[y*size+x] = g.Y
		}
	}

	return &HeightImage{Size: size, Format: format, Samples: samples}, nil
}

// DecodeHeightImageFile decodes a height map image from disk.
func DecodeHeightImageFile(path string) (*HeightImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening height image: %w", err)
	}
	defer f.Close()
	return DecodeHeightImage(f)
}
