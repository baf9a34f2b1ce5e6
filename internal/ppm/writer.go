package ppm

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// Encode writes m to w as an 8-bit binary (P6) PPM image.
// Alpha is dropped; PPM has no transparency.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("ppm: failed to write header: %w", err)
	}

	row := make([]byte, 3*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := 0
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.At(x, y).RGBA()
			row[i] = uint8(r >> 8)
			row[i+1] = uint8(g >> 8)
			row[i+2] = uint8(bl >> 8)
			i += 3
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("ppm: failed to write raster: %w", err)
		}
	}

	return bw.Flush()
}
