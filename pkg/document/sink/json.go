package sink

import (
	"encoding/json"

	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	plans  []sheet.BlockPlan
	images bool
	meta   map[string]string
}

// WithJSONPlans includes the block plans the layout was built from.
func WithJSONPlans(plans []sheet.BlockPlan) JSONOption {
	return func(r *jsonRenderer) { r.plans = plans }
}

// WithJSONImages embeds the PNG data of every image, base64-encoded.
func WithJSONImages() JSONOption { return func(r *jsonRenderer) { r.images = true } }

// WithJSONMeta records a free-form key/value pair, such as a job ID.
func WithJSONMeta(key, value string) JSONOption {
	return func(r *jsonRenderer) {
		if r.meta == nil {
			r.meta = map[string]string{}
		}
		r.meta[key] = value
	}
}

type jsonOutput struct {
	Meta     map[string]string `json:"meta,omitempty"`
	WidthMM  float64           `json:"width_mm"`
	HeightMM float64           `json:"height_mm"`
	Title    string            `json:"title,omitempty"`
	Subject  string            `json:"subject,omitempty"`
	Blocks   []sheet.BlockPlan `json:"blocks,omitempty"`
	Pages    []layout.Page     `json:"pages"`
	Images   map[string][]byte `json:"images,omitempty"`
}

// RenderJSON exports the layout as a pretty-printed JSON document. Box
// coordinates are millimetres from the top-left page corner.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Meta:     r.meta,
		WidthMM:  l.WidthMM,
		HeightMM: l.HeightMM,
		Title:    l.Title,
		Subject:  l.Subject,
		Blocks:   r.plans,
		Pages:    l.Pages,
	}
	if r.images {
		out.Images = l.Images
	}
	return json.MarshalIndent(out, "", "  ")
}
