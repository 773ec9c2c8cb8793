package formats

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// EncodeHeightPNG writes a grayscale preview of a size*size grid, mapping
// [min, max] to black..white. A flat grid renders mid-gray.
func EncodeHeightPNG(w io.Writer, size int, cells []float32, min, max float32) error {
	if size < 1 || len(cells) != size*size {
		return fmt.Errorf("encoding preview: %d cells for size %d", len(cells), size)
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	span := max - min
	for i, v := range cells {
		var g uint8 = 128
		if span > 0 {
			t := (v - min) / span
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			g = uint8(t*255 + 0.5)
		}
		img.SetGray(i%size, i/size, color.Gray{Y: g})
	}
	return png.Encode(w, img)
}

// WriteHeightPNGFile writes a preview PNG to disk.
func WriteHeightPNGFile(path string, size int, cells []float32, min, max float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating preview: %w", err)
	}
	if err := EncodeHeightPNG(f, size, cells, min, max); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
