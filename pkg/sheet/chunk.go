package sheet

import (
	"fmt"
	"iter"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// DefaultChunkSize is the number of codes per block.
const DefaultChunkSize = 100

// Chunk is a closed interval [Start, End] of numbers that fits one block.
type Chunk struct {
	Start int `json:"start"`
	End   int `json:"end"` // inclusive
}

// Len returns the number of values in the chunk.
func (c Chunk) Len() int { return c.End - c.Start + 1 }

// String formats the chunk as "start-end", the text used for block labels.
func (c Chunk) String() string { return fmt.Sprintf("%d-%d", c.Start, c.End) }

// Chunker splits ranges into chunks of at most Size values.
// The zero value uses [DefaultChunkSize].
type Chunker struct {
	size int
}

// NewChunker returns a chunker producing chunks of at most size values.
// A non-positive size is an INVALID_CONFIG error.
func NewChunker(size int) (Chunker, error) {
	if err := errors.ValidatePositive("chunk size", size); err != nil {
		return Chunker{}, err
	}
	return Chunker{size: size}, nil
}

// Size returns the maximum chunk length.
func (c Chunker) Size() int {
	if c.size <= 0 {
		return DefaultChunkSize
	}
	return c.size
}

// Chunks returns the chunks covering [start, endExclusive) in ascending order.
//
// The sequence is lazy and can be ranged over any number of times. Every
// chunk except possibly the last holds exactly Size values; together they
// cover the range once with no gaps. When start >= endExclusive the sequence
// is empty.
func (c Chunker) Chunks(start, endExclusive int) iter.Seq[Chunk] {
	size := c.Size()
	return func(yield func(Chunk) bool) {
		for cur := start; cur < endExclusive; {
			// Unsigned subtraction stays exact even when the span exceeds MaxInt.
			if uint(endExclusive)-uint(cur) <= uint(size) {
				yield(Chunk{Start: cur, End: endExclusive - 1})
				return
			}
			if !yield(Chunk{Start: cur, End: cur + size - 1}) {
				return
			}
			cur += size
		}
	}
}

// ChunkRange collects the chunks of [start, endExclusive) into a slice.
// An empty range returns an empty slice and no error.
func ChunkRange(start, endExclusive, size int) ([]Chunk, error) {
	c, err := NewChunker(size)
	if err != nil {
		return nil, err
	}
	chunks := []Chunk{}
	for ch := range c.Chunks(start, endExclusive) {
		chunks = append(chunks, ch)
	}
	return chunks, nil
}
