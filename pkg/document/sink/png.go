package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	dpi float64
}

// DefaultDPI is the PNG resolution used when none is set.
const DefaultDPI = 150

// WithDPI sets the output resolution in dots per inch.
func WithDPI(dpi float64) PNGOption { return func(r *pngRenderer) { r.dpi = dpi } }

// RenderPNG rasterises each page of the layout and returns one PNG per page.
// QR images are scaled with nearest-neighbour sampling so modules stay sharp.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([][]byte, error) {
	r := pngRenderer{dpi: DefaultDPI}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpi <= 0 {
		return nil, fmt.Errorf("dpi must be positive, got %g", r.dpi)
	}

	px := func(mm float64) float64 { return mm / 25.4 * r.dpi }
	decoded := map[string]image.Image{}

	pages := make([][]byte, 0, len(l.Pages))
	for _, page := range l.Pages {
		dc := gg.NewContext(int(px(l.WidthMM)+0.5), int(px(l.HeightMM)+0.5))
		dc.SetColor(color.White)
		dc.Clear()
		dc.SetColor(color.Black)
		dc.SetLineWidth(max(1, px(0.1)))

		for _, b := range page.Boxes {
			switch b.Kind {
			case layout.KindImage:
				src, ok := decoded[b.ImageID]
				if !ok {
					data, found := l.Images[b.ImageID]
					if !found {
						return nil, fmt.Errorf("page %d: unknown image %q", page.Number, b.ImageID)
					}
					img, _, err := image.Decode(bytes.NewReader(data))
					if err != nil {
						return nil, fmt.Errorf("page %d: decode %s: %w", page.Number, b.ImageID, err)
					}
					src, decoded[b.ImageID] = img, img
				}
				dst := image.NewRGBA(image.Rect(0, 0, max(1, int(px(b.W)+0.5)), max(1, int(px(b.H)+0.5))))
				draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
				dc.DrawImage(dst, int(px(b.X)+0.5), int(px(b.Y)+0.5))
			case layout.KindText:
				face, err := fonts.Face(b.SizePt, r.dpi)
				if err != nil {
					return nil, err
				}
				dc.SetFontFace(face)
				dc.DrawStringAnchored(b.Text, px(b.X), px(b.Y+b.H/2), 0, 0.35)
			case layout.KindBorder:
				dc.DrawRectangle(px(b.X), px(b.Y), px(b.W), px(b.H))
				dc.Stroke()
			}
		}

		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("page %d: encode png: %w", page.Number, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}
