package sheet

import "github.com/matzehuels/qrsheet/pkg/errors"

// DefaultColumns is the number of codes per grid row.
const DefaultColumns = 17

// Placement is a cell coordinate in a grid.
type Placement struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// LabelPlacement is the cell that holds a block's range label.
// SharesCell is set when the label is appended to the last code's cell
// instead of occupying a cell of its own.
type LabelPlacement struct {
	Row        int  `json:"row"`
	Column     int  `json:"column"`
	SharesCell bool `json:"shares_cell,omitempty"`
}

// Grid places sequential items into a fixed number of columns, filling rows
// left to right. The zero value uses [DefaultColumns].
type Grid struct {
	columns int
}

// NewGrid returns a grid with the given column count.
// A non-positive count is an INVALID_CONFIG error.
func NewGrid(columns int) (Grid, error) {
	if err := errors.ValidatePositive("columns", columns); err != nil {
		return Grid{}, err
	}
	return Grid{columns: columns}, nil
}

// Columns returns the column count.
func (g Grid) Columns() int {
	if g.columns <= 0 {
		return DefaultColumns
	}
	return g.columns
}

// Place returns the cell of the zero-based index.
// index must be non-negative.
func (g Grid) Place(index int) Placement {
	cols := g.Columns()
	return Placement{Row: index / cols, Column: index % cols}
}

// LabelPosition returns the label cell for a block whose last item has the
// given index: the next cell in the same row, or the item's own cell when it
// is in the final column. The result never leaves the item's row.
func (g Grid) LabelPosition(lastIndex int) LabelPlacement {
	p := g.Place(lastIndex)
	if p.Column < g.Columns()-1 {
		return LabelPlacement{Row: p.Row, Column: p.Column + 1}
	}
	return LabelPlacement{Row: p.Row, Column: p.Column, SharesCell: true}
}

// Rows returns the number of rows needed for count items.
func (g Grid) Rows(count int) int {
	if count <= 0 {
		return 0
	}
	cols := g.Columns()
	return (count + cols - 1) / cols
}

// Place returns the cell of index in a grid with the given column count.
// It fails with INVALID_CONFIG when columns is not positive or index is negative.
func Place(index, columns int) (Placement, error) {
	g, err := NewGrid(columns)
	if err != nil {
		return Placement{}, err
	}
	if index < 0 {
		return Placement{}, errors.New(errors.ErrCodeInvalidConfig, "index must be non-negative, got %d", index)
	}
	return g.Place(index), nil
}

// LabelPosition is the validating form of [Grid.LabelPosition].
func LabelPosition(lastIndex, columns int) (LabelPlacement, error) {
	g, err := NewGrid(columns)
	if err != nil {
		return LabelPlacement{}, err
	}
	if lastIndex < 0 {
		return LabelPlacement{}, errors.New(errors.ErrCodeInvalidConfig, "index must be non-negative, got %d", lastIndex)
	}
	return g.LabelPosition(lastIndex), nil
}
