// Package fonts provides the label font and its metrics.
//
// Labels are set in Go Regular (golang.org/x/image/font/gofont). The same
// TTF bytes are embedded into PDF output and used for PNG rasterisation, so
// widths measured here match what is drawn.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Family is the font family name used when registering the font with a renderer.
const Family = "GoRegular"

// PointsPerMM converts millimetres to typographic points.
const PointsPerMM = 72.0 / 25.4

// RegularTTF returns the TTF data of Go Regular.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	parsed     *opentype.Font
	parseErr   error
	parseOnce  sync.Once
	faceMu     sync.Mutex
	faceByPtDP = map[faceKey]font.Face{}
)

type faceKey struct {
	sizePt float64
	dpi    float64
}

func regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a Go Regular face at sizePt points for the given resolution.
// Faces are cached and shared; callers must not Close them or use one face
// from several goroutines at once.
func Face(sizePt, dpi float64) (font.Face, error) {
	faceMu.Lock()
	defer faceMu.Unlock()
	return faceLocked(sizePt, dpi)
}

func faceLocked(sizePt, dpi float64) (font.Face, error) {
	key := faceKey{sizePt, dpi}
	if f, ok := faceByPtDP[key]; ok {
		return f, nil
	}

	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	faceByPtDP[key] = face
	return face, nil
}

// measureDPI is large so rounding to 1/64 pixel is negligible in millimetres.
const measureDPI = 720

// TextWidthMM returns the advance width of s set at sizePt points.
func TextWidthMM(s string, sizePt float64) (float64, error) {
	faceMu.Lock()
	defer faceMu.Unlock()
	face, err := faceLocked(sizePt, measureDPI)
	if err != nil {
		return 0, err
	}
	px := fixedToFloat(font.MeasureString(face, s))
	return px / measureDPI * 25.4, nil
}

// LineHeightMM returns the line height for text set at sizePt points.
func LineHeightMM(sizePt float64) float64 {
	return sizePt * 1.2 / PointsPerMM
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
