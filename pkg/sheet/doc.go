// Package sheet computes the layout of a QR label sheet.
//
// # Overview
//
// A sheet is produced from a half-open numeric range [start, end). The range
// is split into fixed-size chunks, and every chunk becomes one block: a grid
// of codes with a trailing "start-end" label. This package contains only the
// arithmetic. It never encodes images or touches a document; callers turn the
// returned [BlockPlan] values into real output.
//
// The pieces, leaf first:
//
//   - [Chunker] splits a range into consecutive closed sub-intervals
//   - [Grid] maps a zero-based index to a (row, column) cell
//   - [LayoutBlock] places every number of one chunk plus its label
//   - [Assemble] runs the chunker and produces one plan per chunk
//
// # Empty Ranges
//
// [Chunker.Chunks] yields nothing for an empty range. [Assemble] and
// [LayoutBlock] reject empty input with an INVALID_RANGE error, because a
// sheet or block without codes is meaningless.
//
// # Labels
//
// The label goes into the cell right after the last code. When the last code
// sits in the final column there is no such cell, so the label shares the
// last code's cell and is appended after the image:
//
//	plan, _ := sheet.LayoutBlock(1, 17, 17)
//	plan.Label.SharesCell // true, label in (0, 16)
//
// All functions are pure and safe for concurrent use.
package sheet
