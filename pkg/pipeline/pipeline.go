// Package pipeline generates QR label sheets end to end.
//
// This package ties the layout core, the code encoder, the document model
// and the output sinks together so the CLI and the interactive form share
// one implementation.
//
// # Architecture
//
// A run has three stages:
//
//  1. Plan: split the range into blocks and place every code ([sheet.Assemble])
//  2. Assemble: encode each number and write tables, labels and spacers into a document
//  3. Render: paginate the document and produce PDF, PNG or JSON
//
// Artifacts are rendered in memory. Nothing is written to disk until every
// block has succeeded; [WriteArtifacts] then replaces each output file
// atomically.
//
// # Usage
//
//	enc, _ := qrcode.New("skip2")
//	runner := pipeline.NewRunner(enc, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Start: 1, End: 201}, nil)
//	if err != nil {
//	    return err
//	}
//	paths, err := pipeline.WriteArtifacts(result, "QR_1_201.pdf")
//
// For a UI that must stay responsive, [Runner.Start] runs the same steps on
// a background goroutine and reports [Event] values on a channel.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/document/sink"
	"github.com/matzehuels/qrsheet/pkg/errors"
	"github.com/matzehuels/qrsheet/pkg/qrcode"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultImageWidthMM is the printed width of one code.
	DefaultImageWidthMM = 9.0

	// DefaultLabelFontPt is the font size of block labels.
	DefaultLabelFontPt = 8.0

	// SpacersPerBlock is the number of blank paragraphs after each block.
	SpacersPerBlock = 2
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatPDF

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one sheet.
type Options struct {
	Start        int     `json:"start"`
	End          int     `json:"end"` // exclusive
	ChunkSize    int     `json:"chunk_size"`
	Columns      int     `json:"columns"`
	ImageWidthMM float64 `json:"image_width_mm"`
	LabelFontPt  float64 `json:"label_font_pt"`

	QR       qrcode.Options   `json:"qr"`
	Document document.Options `json:"document"`

	Formats []string `json:"formats,omitempty"`
	DPI     float64  `json:"dpi,omitempty"` // PNG only

	// Runtime options (not serialized)
	Refresh bool        `json:"-"` // ignore cached artifacts
	Logger  *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	// JobID identifies the run in logs and JSON output.
	JobID string

	// Plans holds one plan per block, in range order.
	Plans []sheet.BlockPlan

	// Layout is the paginated document. It is empty when every artifact
	// came from the cache.
	Layout layout.Layout

	// Artifacts holds rendered output keyed by format. PNG pages are keyed
	// "png:1", "png:2", and so on.
	Artifacts map[string][]byte

	// Formats lists the requested formats in order.
	Formats []string

	Stats Stats

	// CacheHit is set when every artifact came from the cache.
	CacheHit bool
}

// Stats contains run statistics.
type Stats struct {
	Blocks       int
	Codes        int
	Pages        int
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks every format and rejects duplicates.
func ValidateFormats(formats []string) error {
	seen := map[string]bool{}
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if seen[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "pdf,png".
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. Zero QR or document options are replaced
// as a whole; within non-zero ones only fields where zero is meaningless are
// defaulted.
func (o *Options) SetDefaults() {
	if o.ChunkSize == 0 {
		o.ChunkSize = sheet.DefaultChunkSize
	}
	if o.Columns == 0 {
		o.Columns = sheet.DefaultColumns
	}
	if o.ImageWidthMM == 0 {
		o.ImageWidthMM = DefaultImageWidthMM
	}
	if o.LabelFontPt == 0 {
		o.LabelFontPt = DefaultLabelFontPt
	}

	if o.QR == (qrcode.Options{}) {
		o.QR = qrcode.DefaultOptions()
	} else {
		def := qrcode.DefaultOptions()
		if o.QR.Encoder == "" {
			o.QR.Encoder = def.Encoder
		}
		if o.QR.ErrorCorrection == "" {
			o.QR.ErrorCorrection = def.ErrorCorrection
		}
		if o.QR.BoxSize == 0 {
			o.QR.BoxSize = def.BoxSize
		}
		if o.QR.FillColor == "" {
			o.QR.FillColor = def.FillColor
		}
		if o.QR.BackColor == "" {
			o.QR.BackColor = def.BackColor
		}
	}

	if o.Document == (document.Options{}) {
		o.Document = document.DefaultOptions()
	} else if o.Document.Paper == (document.PageSize{}) {
		o.Document.Paper = document.A4
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.DPI == 0 {
		o.DPI = sink.DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field before any
// work is done. The range is checked first. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateRange(o.Start, o.End); err != nil {
		return err
	}
	o.SetDefaults()

	if err := errors.ValidatePositive("chunk size", o.ChunkSize); err != nil {
		return err
	}
	if err := errors.ValidatePositive("columns", o.Columns); err != nil {
		return err
	}
	if o.ImageWidthMM <= 0 || o.LabelFontPt <= 0 || o.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"image width (%g mm), label size (%g pt) and dpi (%g) must be positive",
			o.ImageWidthMM, o.LabelFontPt, o.DPI)
	}
	if err := o.QR.Validate(); err != nil {
		return err
	}
	if err := o.Document.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// contentKey lists every option that changes the rendered content.
type contentKey struct {
	Start        int              `json:"start"`
	End          int              `json:"end"`
	ChunkSize    int              `json:"chunk_size"`
	Columns      int              `json:"columns"`
	ImageWidthMM float64          `json:"image_width_mm"`
	LabelFontPt  float64          `json:"label_font_pt"`
	QR           qrcode.Options   `json:"qr"`
	Document     document.Options `json:"document"`
}

func (o *Options) contentKey() contentKey {
	return contentKey{
		Start:        o.Start,
		End:          o.End,
		ChunkSize:    o.ChunkSize,
		Columns:      o.Columns,
		ImageWidthMM: o.ImageWidthMM,
		LabelFontPt:  o.LabelFontPt,
		QR:           o.QR,
		Document:     o.Document,
	}
}
