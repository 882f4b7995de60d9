package document

import (
	"sort"
	"strings"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// PageSize is a paper size in millimetres, portrait orientation.
type PageSize struct {
	WidthMM  float64 `toml:"width_mm" json:"width_mm"`
	HeightMM float64 `toml:"height_mm" json:"height_mm"`
}

// Common paper sizes.
var (
	A4     = PageSize{WidthMM: 210, HeightMM: 297}
	A5     = PageSize{WidthMM: 148, HeightMM: 210}
	Letter = PageSize{WidthMM: 215.9, HeightMM: 279.4}
	Legal  = PageSize{WidthMM: 215.9, HeightMM: 355.6}
)

var papers = map[string]PageSize{
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// PaperByName looks up a paper size case-insensitively.
func PaperByName(name string) (PageSize, error) {
	if p, ok := papers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return PageSize{}, errors.New(errors.ErrCodeInvalidConfig, "unknown paper %q (available: %s)",
		name, strings.Join(PaperNames(), ", "))
}

// PaperNames returns the known paper names, sorted.
func PaperNames() []string {
	names := make([]string, 0, len(papers))
	for n := range papers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Margins are the page margins in millimetres.
type Margins struct {
	Top    float64 `toml:"top" json:"top"`
	Right  float64 `toml:"right" json:"right"`
	Bottom float64 `toml:"bottom" json:"bottom"`
	Left   float64 `toml:"left" json:"left"`
}

// UniformMargins returns margins of mm on every side.
func UniformMargins(mm float64) Margins {
	return Margins{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// HalfInchMM is the default margin.
const HalfInchMM = 12.7

// Options describes page geometry and table styling.
type Options struct {
	Paper         PageSize `toml:"paper" json:"paper"`
	Margins       Margins  `toml:"margins" json:"margins"`
	ParagraphMM   float64  `toml:"paragraph_mm" json:"paragraph_mm"`       // height of a blank paragraph
	CellPaddingMM float64  `toml:"cell_padding_mm" json:"cell_padding_mm"` // inner padding on each side of a cell
	CellBorders   bool     `toml:"cell_borders" json:"cell_borders"`
	Title         string   `toml:"title" json:"title,omitempty"`
	Subject       string   `toml:"subject" json:"subject,omitempty"`
}

// DefaultOptions returns A4 with half-inch margins and borderless cells.
func DefaultOptions() Options {
	return Options{
		Paper:         A4,
		Margins:       UniformMargins(HalfInchMM),
		ParagraphMM:   6,
		CellPaddingMM: 0.9,
	}
}

// ContentWidthMM is the printable width between the left and right margins.
func (o Options) ContentWidthMM() float64 {
	return o.Paper.WidthMM - o.Margins.Left - o.Margins.Right
}

// ContentHeightMM is the printable height between the top and bottom margins.
func (o Options) ContentHeightMM() float64 {
	return o.Paper.HeightMM - o.Margins.Top - o.Margins.Bottom
}

// Validate reports page geometry that leaves no printable area.
func (o Options) Validate() error {
	if o.Paper.WidthMM <= 0 || o.Paper.HeightMM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "paper size must be positive, got %gx%g mm",
			o.Paper.WidthMM, o.Paper.HeightMM)
	}
	m := o.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins must not be negative")
	}
	if o.ContentWidthMM() <= 0 || o.ContentHeightMM() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins leave no printable area on %gx%g mm paper",
			o.Paper.WidthMM, o.Paper.HeightMM)
	}
	if o.ParagraphMM < 0 || o.CellPaddingMM < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "paragraph height and cell padding must not be negative")
	}
	return nil
}
