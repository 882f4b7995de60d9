package layout

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/fonts"
)

// fixedWidth measures every character as 1.5mm regardless of size.
func fixedWidth(text string, _ float64) (float64, error) {
	return 1.5 * float64(len(text)), nil
}

func squarePNG(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 25, 25))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuildEmpty(t *testing.T) {
	l, err := Build(document.New(document.DefaultOptions()), fixedWidth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(l.Pages) != 1 || len(l.Pages[0].Boxes) != 0 {
		t.Errorf("pages = %+v, want one blank page", l.Pages)
	}
	if l.WidthMM != 210 || l.HeightMM != 297 {
		t.Errorf("page size = %vx%v", l.WidthMM, l.HeightMM)
	}
}

func TestBuildSharedLabelWraps(t *testing.T) {
	opts := document.DefaultOptions()
	doc := document.New(opts)
	tb, _ := doc.AddTable(1, 17)
	img := squarePNG(t, 0)
	for c := range 17 {
		if err := tb.AddImage(0, c, img, 9, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := tb.AddText(0, 16, " 1-17", 8); err != nil {
		t.Fatal(err)
	}

	l, err := Build(doc, fixedWidth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	boxes := l.Pages[0].Boxes
	if len(boxes) != 18 {
		t.Fatalf("boxes = %d, want 18", len(boxes))
	}

	colW := opts.ContentWidthMM() / 17
	last, label := boxes[16], boxes[17]
	if label.Kind != KindText || label.Text != " 1-17" {
		t.Fatalf("label box = %+v", label)
	}
	if !near(label.Y, last.Y+last.H) {
		t.Errorf("label y = %v, want below image at %v", label.Y, last.Y+last.H)
	}
	cellX := opts.Margins.Left + 16*colW
	if !near(label.X+label.W/2, cellX+colW/2) {
		t.Errorf("label not centred in its cell")
	}
	if !near(last.X+last.W/2, cellX+colW/2) {
		t.Errorf("image not centred in its cell")
	}
	if len(l.Images) != 1 {
		t.Errorf("Images = %d, want 1 shared image", len(l.Images))
	}
}

func TestBuildLabelNextCell(t *testing.T) {
	doc := document.New(document.DefaultOptions())
	tb, _ := doc.AddTable(1, 17)
	_ = tb.AddImage(0, 0, squarePNG(t, 0), 9, "1")
	_ = tb.AddText(0, 1, "1-1", 8)

	l, err := Build(doc, fixedWidth)
	if err != nil {
		t.Fatal(err)
	}
	img, label := l.Pages[0].Boxes[0], l.Pages[0].Boxes[1]
	if img.Data != "1" || img.ImageID == "" {
		t.Errorf("image box = %+v", img)
	}
	if label.X <= img.X+img.W {
		t.Errorf("label x %v overlaps image ending at %v", label.X, img.X+img.W)
	}
	// Runs on the same line share their bottom edge; each cell is its own line.
	if !near(label.Y, img.Y) {
		t.Errorf("label y = %v, image y = %v: both cells start at the row top", label.Y, img.Y)
	}
}

func TestBuildPaginatesWholeRows(t *testing.T) {
	opts := document.Options{
		Paper:         document.PageSize{WidthMM: 100, HeightMM: 50},
		Margins:       document.UniformMargins(5),
		ParagraphMM:   4,
		CellPaddingMM: 0.9,
	}
	doc := document.New(opts)
	tb, _ := doc.AddTable(5, 2)
	for r := range 5 {
		_ = tb.AddImage(r, 0, squarePNG(t, uint8(r)), 9, "")
	}

	l, err := Build(doc, fixedWidth)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(l.Pages))
	}
	if n := len(l.Pages[0].Boxes); n != 3 {
		t.Errorf("page 1 boxes = %d, want 3", n)
	}
	first := l.Pages[1].Boxes[0]
	if !near(first.Y, 5.9) {
		t.Errorf("page 2 first box y = %v, want 5.9", first.Y)
	}
	for _, p := range l.Pages {
		for _, b := range p.Boxes {
			if b.Y+b.H > opts.Paper.HeightMM-opts.Margins.Bottom+1e-6 {
				t.Errorf("page %d: box %+v crosses bottom margin", p.Number, b)
			}
		}
	}
	if len(l.Images) != 5 {
		t.Errorf("Images = %d, want 5", len(l.Images))
	}
}

func TestBuildParagraphs(t *testing.T) {
	opts := document.Options{
		Paper:       document.PageSize{WidthMM: 100, HeightMM: 30},
		Margins:     document.UniformMargins(5),
		ParagraphMM: 6,
	}
	doc := document.New(opts)
	for range 4 {
		_ = doc.AddParagraph()
	}
	tb, _ := doc.AddTable(1, 1)
	_ = tb.AddText(0, 0, "x", 10)

	l, err := Build(doc, fixedWidth)
	if err != nil {
		t.Fatal(err)
	}
	// Three 6mm paragraphs fill the 20mm content area; the fourth and the
	// table move to page 2.
	if len(l.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(l.Pages))
	}
	got := l.Pages[1].Boxes[0]
	want := Box{Kind: KindText, X: 5 + (90-1.5)/2, Y: 11, W: 1.5, H: fonts.LineHeightMM(10), Text: "x", SizePt: 10}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("text box mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBorders(t *testing.T) {
	opts := document.DefaultOptions()
	opts.CellBorders = true
	doc := document.New(opts)
	tb, _ := doc.AddTable(2, 3)
	_ = tb.AddText(0, 0, "a", 8)

	l, err := Build(doc, fixedWidth)
	if err != nil {
		t.Fatal(err)
	}
	if n := l.Count(KindBorder); n != 6 {
		t.Errorf("borders = %d, want 6", n)
	}
	if n := l.Count(KindText); n != 1 {
		t.Errorf("texts = %d, want 1", n)
	}
}

func TestBuildMeasureError(t *testing.T) {
	doc := document.New(document.DefaultOptions())
	tb, _ := doc.AddTable(1, 1)
	_ = tb.AddText(0, 0, "a", 8)

	boom := errors.New("boom")
	_, err := Build(doc, func(string, float64) (float64, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	opts := document.DefaultOptions()
	opts.Margins = document.UniformMargins(200)
	if _, err := Build(document.New(opts), nil); err == nil {
		t.Error("expected error for margins larger than the page")
	}
}
