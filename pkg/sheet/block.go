package sheet

import (
	"math"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// Item is one number and the cell its code goes into.
type Item struct {
	Number int `json:"number"`
	Placement
}

// Label is the "start-end" text of a block and where it goes.
type Label struct {
	Text string `json:"text"`
	LabelPlacement
}

// BlockPlan describes the grid of one chunk. Items are ordered by number,
// which is also row-major cell order.
type BlockPlan struct {
	Start   int    `json:"start"`
	End     int    `json:"end"` // inclusive
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Items   []Item `json:"items"`
	Label   Label  `json:"label"`
}

// Count returns the number of codes in the block.
func (p BlockPlan) Count() int { return len(p.Items) }

// Chunk returns the interval the block covers.
func (p BlockPlan) Chunk() Chunk { return Chunk{Start: p.Start, End: p.End} }

// LayoutBlock plans the block for the closed interval [startNum, endNum].
//
// It fails with INVALID_RANGE when endNum < startNum or when the block would
// hold more than [math.MaxInt] codes; a block always holds at least one code.
// The input is never clamped or reordered.
func LayoutBlock(startNum, endNum, columns int) (BlockPlan, error) {
	g, err := NewGrid(columns)
	if err != nil {
		return BlockPlan{}, err
	}
	if endNum < startNum {
		return BlockPlan{}, errors.New(errors.ErrCodeInvalidRange, "block end (%d) must be >= start (%d)", endNum, startNum)
	}
	if uint(endNum)-uint(startNum) >= math.MaxInt {
		return BlockPlan{}, errors.New(errors.ErrCodeInvalidRange, "block %d-%d holds more than %d codes", startNum, endNum, math.MaxInt)
	}
	return layoutBlock(g, Chunk{Start: startNum, End: endNum}), nil
}

func layoutBlock(g Grid, c Chunk) BlockPlan {
	total := c.Len()
	items := make([]Item, total)
	for idx := range items {
		items[idx] = Item{Number: c.Start + idx, Placement: g.Place(idx)}
	}
	return BlockPlan{
		Start:   c.Start,
		End:     c.End,
		Rows:    g.Rows(total),
		Columns: g.Columns(),
		Items:   items,
		Label:   Label{Text: c.String(), LabelPlacement: g.LabelPosition(total - 1)},
	}
}

// Assemble plans every block of the range [start, endExclusive).
//
// Unlike [Chunker.Chunks], an empty range is an INVALID_RANGE error here. All
// arguments are validated before any plan is built.
func Assemble(start, endExclusive, chunkSize, columns int) ([]BlockPlan, error) {
	if err := errors.ValidateRange(start, endExclusive); err != nil {
		return nil, err
	}
	chunker, err := NewChunker(chunkSize)
	if err != nil {
		return nil, err
	}
	g, err := NewGrid(columns)
	if err != nil {
		return nil, err
	}

	var plans []BlockPlan
	for c := range chunker.Chunks(start, endExclusive) {
		plans = append(plans, layoutBlock(g, c))
	}
	return plans, nil
}

// Total returns the number of codes across all plans.
func Total(plans []BlockPlan) int {
	n := 0
	for _, p := range plans {
		n += p.Count()
	}
	return n
}
