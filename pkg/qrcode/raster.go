package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// maxSide bounds the edge of a drawn symbol in pixels.
const maxSide = 1 << 14

// rasterize draws modules at box pixels per module with a border-module
// quiet zone and encodes the result as a two-colour PNG.
func rasterize(modules [][]bool, box, border int, fill, back color.Color) ([]byte, error) {
	n := len(modules)
	if n == 0 {
		return nil, fmt.Errorf("empty symbol")
	}
	if box < 1 || border < 0 || box > maxSide || border > maxSide {
		return nil, fmt.Errorf("box size %d and border %d are not drawable", box, border)
	}
	side := (n + 2*border) * box
	if side > maxSide || side/box != n+2*border {
		return nil, fmt.Errorf("symbol of %d modules with border %d at %d px is wider than %d px", n, border, box, maxSide)
	}
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{back, fill})

	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := (x + border) * box
			y0 := (y + border) * box
			for py := y0; py < y0+box; py++ {
				off := img.PixOffset(x0, py)
				for i := range box {
					img.Pix[off+i] = 1
				}
			}
		}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
