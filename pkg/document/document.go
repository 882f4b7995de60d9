package document

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// Builder is the part of a document the sheet generator writes to.
type Builder interface {
	AddTable(rows, cols int) (TableBuilder, error)
	AddParagraph() error
}

// TableBuilder fills the cells of one table. Content added to a cell is
// appended after what is already there.
type TableBuilder interface {
	AddImage(row, col int, png []byte, widthMM float64, data string) error
	AddText(row, col int, text string, sizePt float64) error
}

// Element is a top-level document element: a [*Table] or a [Paragraph].
type Element interface {
	element()
}

// Paragraph is an empty paragraph used as vertical space.
type Paragraph struct{}

func (Paragraph) element() {}

// Image is a PNG placed at a fixed width. HeightMM keeps the PNG's aspect ratio.
type Image struct {
	PNG      []byte
	WidthMM  float64
	HeightMM float64
	Data     string // value encoded in the image, if any
}

// Run is one piece of cell content: either an image or a text.
type Run struct {
	Image  *Image
	Text   string
	SizePt float64
}

// IsImage reports whether the run holds an image.
func (r Run) IsImage() bool { return r.Image != nil }

// Cell holds runs in insertion order. Every cell is centre-aligned.
type Cell struct {
	Runs []Run
}

// Table is a fixed-size grid of cells with equal column widths.
type Table struct {
	rows, cols int
	cells      []Cell
}

func (*Table) element() {}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.cols }

// Cell returns the cell at (row, col). It panics when out of range.
func (t *Table) Cell(row, col int) Cell {
	return t.cells[row*t.cols+col]
}

func (t *Table) cell(row, col int) (*Cell, error) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cell (%d, %d) outside %dx%d table", row, col, t.rows, t.cols)
	}
	return &t.cells[row*t.cols+col], nil
}

// AddImage appends a PNG to the cell, scaled to widthMM.
func (t *Table) AddImage(row, col int, png []byte, widthMM float64, data string) error {
	c, err := t.cell(row, col)
	if err != nil {
		return err
	}
	if widthMM <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image width must be positive, got %g", widthMM)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image for cell (%d, %d)", row, col)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image for cell (%d, %d) is empty", row, col)
	}
	c.Runs = append(c.Runs, Run{Image: &Image{
		PNG:      png,
		WidthMM:  widthMM,
		HeightMM: widthMM * float64(cfg.Height) / float64(cfg.Width),
		Data:     data,
	}})
	return nil
}

// AddText appends a text run to the cell.
func (t *Table) AddText(row, col int, text string, sizePt float64) error {
	c, err := t.cell(row, col)
	if err != nil {
		return err
	}
	if sizePt <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", sizePt)
	}
	c.Runs = append(c.Runs, Run{Text: text, SizePt: sizePt})
	return nil
}

// Document is an ordered list of tables and paragraphs.
type Document struct {
	opts     Options
	elements []Element
}

// New returns an empty document.
func New(opts Options) *Document {
	return &Document{opts: opts}
}

// Options returns the options the document was created with.
func (d *Document) Options() Options { return d.opts }

// Elements returns the elements in document order.
func (d *Document) Elements() []Element { return d.elements }

// AddTable appends a rows x cols table.
func (d *Document) AddTable(rows, cols int) (TableBuilder, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table must have at least one row and column, got %dx%d", rows, cols)
	}
	t := &Table{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
	d.elements = append(d.elements, t)
	return t, nil
}

// AddParagraph appends a blank paragraph.
func (d *Document) AddParagraph() error {
	d.elements = append(d.elements, Paragraph{})
	return nil
}

// Tables returns the number of tables in the document.
func (d *Document) Tables() int {
	n := 0
	for _, e := range d.elements {
		if _, ok := e.(*Table); ok {
			n++
		}
	}
	return n
}
