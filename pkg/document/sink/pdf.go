package sink

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/fonts"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	creator   string
	created   time.Time
	lineWidth float64
}

// WithCreator sets the PDF creator field (default "qrsheet").
func WithCreator(s string) PDFOption { return func(r *pdfRenderer) { r.creator = s } }

// WithCreationDate fixes the creation and modification dates, making output
// byte-for-byte reproducible.
func WithCreationDate(t time.Time) PDFOption { return func(r *pdfRenderer) { r.created = t } }

// WithBorderWidth sets the stroke width of cell borders in millimetres (default 0.1).
func WithBorderWidth(mm float64) PDFOption { return func(r *pdfRenderer) { r.lineWidth = mm } }

// RenderPDF renders every page of the layout. Identical images are embedded once.
func RenderPDF(l layout.Layout, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{creator: "qrsheet", lineWidth: 0.1}
	for _, opt := range opts {
		opt(&r)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: l.WidthMM, Ht: l.HeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCatalogSort(true)
	pdf.SetCreator(r.creator, true)
	if l.Title != "" {
		pdf.SetTitle(l.Title, true)
	}
	if l.Subject != "" {
		pdf.SetSubject(l.Subject, true)
	}
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}
	pdf.AddUTF8FontFromBytes(fonts.Family, "", fonts.RegularTTF())
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetLineWidth(r.lineWidth)

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	registered := map[string]bool{}

	for _, page := range l.Pages {
		pdf.AddPage()
		for _, b := range page.Boxes {
			switch b.Kind {
			case layout.KindImage:
				if !registered[b.ImageID] {
					data, ok := l.Images[b.ImageID]
					if !ok {
						return nil, fmt.Errorf("page %d: unknown image %q", page.Number, b.ImageID)
					}
					pdf.RegisterImageOptionsReader(b.ImageID, imgOpts, bytes.NewReader(data))
					registered[b.ImageID] = true
				}
				pdf.ImageOptions(b.ImageID, b.X, b.Y, b.W, b.H, false, imgOpts, 0, "")
			case layout.KindText:
				pdf.SetFont(fonts.Family, "", b.SizePt)
				pdf.SetXY(b.X, b.Y)
				pdf.CellFormat(b.W, b.H, b.Text, "", 0, "LM", false, 0, "")
			case layout.KindBorder:
				pdf.Rect(b.X, b.Y, b.W, b.H, "D")
			}
			if pdf.Err() {
				return nil, fmt.Errorf("page %d: %w", page.Number, pdf.Error())
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
