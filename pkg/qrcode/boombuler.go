package qrcode

import (
	"github.com/boombuler/barcode/qr"
)

func boombulerLevel(l Level) qr.ErrorCorrectionLevel {
	switch ParseLevel(string(l)) {
	case LevelMedium:
		return qr.M
	case LevelQuartile:
		return qr.Q
	case LevelHigh:
		return qr.H
	default:
		return qr.L
	}
}

// boombulerMatrix always picks the smallest fitting version; the library has
// no way to force one.
func boombulerMatrix(data string, opts Options) ([][]bool, error) {
	code, err := qr.Encode(data, boombulerLevel(opts.ErrorCorrection), qr.Auto)
	if err != nil {
		return nil, err
	}
	b := code.Bounds()
	modules := make([][]bool, b.Dy())
	for y := range modules {
		row := make([]bool, b.Dx())
		for x := range row {
			r, _, _, _ := code.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = r < 0x8000
		}
		modules[y] = row
	}
	return modules, nil
}
