package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/errors"
	"github.com/matzehuels/qrsheet/pkg/observability"
	"github.com/matzehuels/qrsheet/pkg/qrcode"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

// AssembleOptions are the per-code settings used while writing blocks.
type AssembleOptions struct {
	QR           qrcode.Options
	ImageWidthMM float64
	LabelFontPt  float64
}

// LabelText returns the text written for a block label. A label that shares
// the last code's cell is separated from the image by a space.
func LabelText(l sheet.Label) string {
	if l.SharesCell {
		return " " + l.Text
	}
	return l.Text
}

// Assemble writes every plan into b in order: one table per block with one
// code per number, the range label, then SpacersPerBlock blank paragraphs.
//
// The first failure aborts the run and is returned as COLLABORATOR_FAILURE;
// nothing is retried. onCode, if non-nil, is called after each code with the
// running total.
func Assemble(ctx context.Context, b document.Builder, enc qrcode.Encoder, plans []sheet.BlockPlan, opts AssembleOptions, onCode func(done int)) error {
	done := 0
	for _, plan := range plans {
		blockStart := time.Now()

		tbl, err := b.AddTable(plan.Rows, plan.Columns)
		if err != nil {
			return errors.Wrap(errors.ErrCodeCollaborator, err, "add table for block %s", plan.Label.Text)
		}

		for _, it := range plan.Items {
			data := strconv.Itoa(it.Number)
			png, err := enc.Encode(ctx, data, opts.QR)
			if err != nil {
				return errors.Collaborator(err, "encode %d", it.Number)
			}
			if err := tbl.AddImage(it.Row, it.Column, png, opts.ImageWidthMM, data); err != nil {
				return errors.Wrap(errors.ErrCodeCollaborator, err, "insert code %d", it.Number)
			}
			done++
			if onCode != nil {
				onCode(done)
			}
		}

		if err := tbl.AddText(plan.Label.Row, plan.Label.Column, LabelText(plan.Label), opts.LabelFontPt); err != nil {
			return errors.Wrap(errors.ErrCodeCollaborator, err, "insert label %s", plan.Label.Text)
		}
		for range SpacersPerBlock {
			if err := b.AddParagraph(); err != nil {
				return errors.Wrap(errors.ErrCodeCollaborator, err, "add spacer after block %s", plan.Label.Text)
			}
		}

		observability.Pipeline().OnBlockComplete(ctx, plan.Start, plan.End, time.Since(blockStart))
	}
	return nil
}
