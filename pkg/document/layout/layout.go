// Package layout paginates a [document.Document] into pages of absolutely
// positioned boxes.
//
// Coordinates are millimetres from the top-left corner of the page. Table
// rows are never split: a row that does not fit below the previous content
// moves to the next page as a whole. Inside a cell, runs flow left to right
// and wrap onto a new line when the cell is full; each line is centred.
package layout

import (
	"fmt"

	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/fonts"
)

// Kind identifies what a box draws.
type Kind string

const (
	KindImage  Kind = "image"
	KindText   Kind = "text"
	KindBorder Kind = "border"
)

// Box is one positioned element on a page.
type Box struct {
	Kind    Kind    `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	ImageID string  `json:"image,omitempty"`
	Data    string  `json:"data,omitempty"`
	Text    string  `json:"text,omitempty"`
	SizePt  float64 `json:"size_pt,omitempty"`
}

// Page is a single page of boxes in drawing order.
type Page struct {
	Number int   `json:"number"`
	Boxes  []Box `json:"boxes"`
}

// Layout is a paginated document.
type Layout struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Title    string  `json:"title,omitempty"`
	Subject  string  `json:"subject,omitempty"`
	Pages    []Page  `json:"pages"`

	// Images holds PNG data by ImageID. Identical images share an ID.
	Images map[string][]byte `json:"-"`
}

// Count returns the number of boxes of the given kind across all pages.
func (l Layout) Count(kind Kind) int {
	n := 0
	for _, p := range l.Pages {
		for _, b := range p.Boxes {
			if b.Kind == kind {
				n++
			}
		}
	}
	return n
}

// Measurer returns the width in millimetres of text set at sizePt points.
type Measurer func(text string, sizePt float64) (float64, error)

// eps absorbs floating point noise when comparing lengths.
const eps = 1e-6

// Build paginates doc. A nil measure uses the embedded label font metrics.
// A document without elements yields one blank page.
func Build(doc *document.Document, measure Measurer) (Layout, error) {
	opts := doc.Options()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}
	if measure == nil {
		measure = fonts.TextWidthMM
	}

	b := &builder{
		opts:    opts,
		measure: measure,
		out: Layout{
			WidthMM:  opts.Paper.WidthMM,
			HeightMM: opts.Paper.HeightMM,
			Title:    opts.Title,
			Subject:  opts.Subject,
			Images:   map[string][]byte{},
		},
		imageIDs: map[string]string{},
	}
	b.newPage()

	for _, el := range doc.Elements() {
		switch e := el.(type) {
		case document.Paragraph:
			b.paragraph()
		case *document.Table:
			if err := b.table(e); err != nil {
				return Layout{}, err
			}
		default:
			return Layout{}, fmt.Errorf("unsupported element %T", el)
		}
	}
	return b.out, nil
}

type builder struct {
	opts     document.Options
	measure  Measurer
	out      Layout
	y        float64
	imageIDs map[string]string
}

func (b *builder) top() float64    { return b.opts.Margins.Top }
func (b *builder) bottom() float64 { return b.opts.Paper.HeightMM - b.opts.Margins.Bottom }

func (b *builder) newPage() {
	b.out.Pages = append(b.out.Pages, Page{Number: len(b.out.Pages) + 1})
	b.y = b.top()
}

// reserve moves to a new page when h does not fit below the cursor. Content
// taller than a whole page is placed at the top and allowed to overflow.
func (b *builder) reserve(h float64) {
	if b.y+h > b.bottom()+eps && b.y > b.top()+eps {
		b.newPage()
	}
}

func (b *builder) add(box Box) {
	p := &b.out.Pages[len(b.out.Pages)-1]
	p.Boxes = append(p.Boxes, box)
}

func (b *builder) paragraph() {
	b.reserve(b.opts.ParagraphMM)
	b.y += b.opts.ParagraphMM
}

func (b *builder) imageID(png []byte) string {
	key := string(png)
	if id, ok := b.imageIDs[key]; ok {
		return id
	}
	id := fmt.Sprintf("img%d", len(b.imageIDs)+1)
	b.imageIDs[key] = id
	b.out.Images[id] = png
	return id
}

type item struct {
	run  document.Run
	w, h float64
}

type line struct {
	items []item
	w, h  float64
}

// flow breaks a cell's runs into lines no wider than width.
func (b *builder) flow(cell document.Cell, width float64) ([]line, error) {
	var lines []line
	var cur line
	for _, r := range cell.Runs {
		it := item{run: r}
		if r.IsImage() {
			it.w, it.h = r.Image.WidthMM, r.Image.HeightMM
		} else {
			w, err := b.measure(r.Text, r.SizePt)
			if err != nil {
				return nil, fmt.Errorf("measure %q: %w", r.Text, err)
			}
			it.w, it.h = w, fonts.LineHeightMM(r.SizePt)
		}
		if len(cur.items) > 0 && cur.w+it.w > width+eps {
			lines = append(lines, cur)
			cur = line{}
		}
		cur.items = append(cur.items, it)
		cur.w += it.w
		cur.h = max(cur.h, it.h)
	}
	if len(cur.items) > 0 {
		lines = append(lines, cur)
	}
	return lines, nil
}

func (b *builder) table(t *document.Table) error {
	pad := b.opts.CellPaddingMM
	colW := b.opts.ContentWidthMM() / float64(t.Cols())
	inner := max(colW-2*pad, 0)

	cells := make([][]line, t.Cols())
	for r := range t.Rows() {
		rowH := 2 * pad
		for c := range t.Cols() {
			lines, err := b.flow(t.Cell(r, c), inner)
			if err != nil {
				return err
			}
			cells[c] = lines
			h := 2 * pad
			for _, ln := range lines {
				h += ln.h
			}
			rowH = max(rowH, h)
		}

		b.reserve(rowH)
		for c, lines := range cells {
			x := b.opts.Margins.Left + float64(c)*colW
			if b.opts.CellBorders {
				b.add(Box{Kind: KindBorder, X: x, Y: b.y, W: colW, H: rowH})
			}
			b.placeLines(lines, x+pad, b.y+pad, inner)
		}
		b.y += rowH
	}
	return nil
}

// placeLines emits boxes for lines starting at (x, y). Runs on a line share
// its bottom edge.
func (b *builder) placeLines(lines []line, x, y, width float64) {
	for _, ln := range lines {
		cx := x + (width-ln.w)/2
		base := y + ln.h
		for _, it := range ln.items {
			box := Box{X: cx, Y: base - it.h, W: it.w, H: it.h}
			if it.run.IsImage() {
				box.Kind = KindImage
				box.ImageID = b.imageID(it.run.Image.PNG)
				box.Data = it.run.Image.Data
			} else {
				box.Kind = KindText
				box.Text = it.run.Text
				box.SizePt = it.run.SizePt
			}
			b.add(box)
			cx += it.w
		}
		y = base
	}
}
