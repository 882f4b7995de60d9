package sink

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

func blackPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testLayout(t *testing.T) layout.Layout {
	return layout.Layout{
		WidthMM:  100,
		HeightMM: 50,
		Title:    "Labels 1–2",
		Pages: []layout.Page{
			{Number: 1, Boxes: []layout.Box{
				{Kind: layout.KindImage, X: 10, Y: 10, W: 20, H: 20, ImageID: "img1", Data: "1"},
				{Kind: layout.KindText, X: 35, Y: 10, W: 10, H: 4, Text: "1-2", SizePt: 8},
				{Kind: layout.KindBorder, X: 5, Y: 5, W: 90, H: 40},
			}},
			{Number: 2, Boxes: []layout.Box{
				{Kind: layout.KindImage, X: 10, Y: 10, W: 20, H: 20, ImageID: "img1", Data: "2"},
			}},
		},
		Images: map[string][]byte{"img1": blackPNG(t)},
	}
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(testLayout(t), WithCreationDate(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 8)])
	}
	if !bytes.Contains(out, []byte("/Count 2")) {
		t.Error("expected a two-page PDF")
	}
}

func TestRenderPDFUnknownImage(t *testing.T) {
	l := testLayout(t)
	l.Images = nil
	if _, err := RenderPDF(l); err == nil || !strings.Contains(err.Error(), "img1") {
		t.Errorf("err = %v, want unknown image error", err)
	}
}

func TestRenderPNG(t *testing.T) {
	pages, err := RenderPNG(testLayout(t), WithDPI(72))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	img, err := png.Decode(bytes.NewReader(pages[0]))
	if err != nil {
		t.Fatalf("decode page: %v", err)
	}
	// 100x50mm at 72dpi.
	if b := img.Bounds(); b.Dx() != 283 || b.Dy() != 142 {
		t.Errorf("size = %dx%d, want 283x142", b.Dx(), b.Dy())
	}
	// Centre of the black image box at (20mm, 20mm).
	if r, _, _, _ := img.At(57, 57).RGBA(); r > 0x1000 {
		t.Errorf("image centre is not dark: r=%#x", r)
	}
	// Blank area inside the border.
	if r, _, _, _ := img.At(200, 100).RGBA(); r < 0xf000 {
		t.Errorf("background is not white: r=%#x", r)
	}
}

func TestRenderPNGInvalidDPI(t *testing.T) {
	if _, err := RenderPNG(testLayout(t), WithDPI(0)); err == nil {
		t.Error("expected error for zero dpi")
	}
}

func TestRenderJSON(t *testing.T) {
	plan, _ := sheet.LayoutBlock(1, 2, 17)
	data, err := RenderJSON(testLayout(t), WithJSONPlans([]sheet.BlockPlan{plan}), WithJSONMeta("job", "abc"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.WidthMM != 100 || out.HeightMM != 50 {
		t.Errorf("size = %vx%v", out.WidthMM, out.HeightMM)
	}
	if len(out.Pages) != 2 || len(out.Pages[0].Boxes) != 3 {
		t.Errorf("pages = %+v", out.Pages)
	}
	if len(out.Blocks) != 1 || out.Blocks[0].Label.Text != "1-2" {
		t.Errorf("blocks = %+v", out.Blocks)
	}
	if out.Meta["job"] != "abc" {
		t.Errorf("meta = %v", out.Meta)
	}
	if out.Images != nil {
		t.Error("images embedded without WithJSONImages")
	}
}

func TestRenderJSONWithImages(t *testing.T) {
	data, err := RenderJSON(testLayout(t), WithJSONImages())
	if err != nil {
		t.Fatal(err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Images["img1"], blackPNG(t)) {
		t.Error("embedded image does not round-trip")
	}
}
