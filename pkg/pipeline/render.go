package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/qrsheet/pkg/buildinfo"
	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/document/sink"
	"github.com/matzehuels/qrsheet/pkg/observability"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

// pngKey returns the artifact key of a PNG page (1-based).
func pngKey(page int) string { return fmt.Sprintf("%s:%d", FormatPNG, page) }

// renderFormat renders one format. PNG returns one entry per page.
func renderFormat(ctx context.Context, l layout.Layout, plans []sheet.BlockPlan, jobID, format string, opts Options) (map[string][]byte, error) {
	start := time.Now()
	out := map[string][]byte{}
	var err error

	switch format {
	case FormatPDF:
		var data []byte
		data, err = sink.RenderPDF(l, sink.WithCreator(buildinfo.Creator()))
		out[FormatPDF] = data
	case FormatPNG:
		var pages [][]byte
		pages, err = sink.RenderPNG(l, sink.WithDPI(opts.DPI))
		for i, p := range pages {
			out[pngKey(i+1)] = p
		}
	case FormatJSON:
		var data []byte
		data, err = sink.RenderJSON(l, sink.WithJSONPlans(plans), sink.WithJSONMeta("job_id", jobID))
		out[FormatJSON] = data
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}

	size := 0
	for _, v := range out {
		size += len(v)
	}
	observability.Pipeline().OnRenderComplete(ctx, format, size, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return out, nil
}
