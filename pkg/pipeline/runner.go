package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/qrsheet/pkg/cache"
	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/document/layout"
	"github.com/matzehuels/qrsheet/pkg/errors"
	"github.com/matzehuels/qrsheet/pkg/observability"
	"github.com/matzehuels/qrsheet/pkg/qrcode"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

// Runner executes sheet generation with caching.
//
// The Runner keeps no per-run state, so one Runner can serve several runs
// with different options.
type Runner struct {
	Encoder qrcode.Encoder
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil encoder uses the default backend, a nil
// cache disables caching and a nil keyer uses [cache.DefaultKeyer].
func NewRunner(enc qrcode.Encoder, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if enc == nil {
		enc, _ = qrcode.New(qrcode.DefaultEncoder)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Encoder: enc,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Execute runs plan, assemble and render for opts.
//
// All options are validated before any work starts. The context is checked
// once at that point; a run that has started is not cancelled. report, if
// non-nil, receives status and progress events from the calling goroutine.
func (r *Runner) Execute(ctx context.Context, opts Options, report func(Event)) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	if report == nil {
		report = func(Event) {}
	}

	plans, err := sheet.Assemble(opts.Start, opts.End, opts.ChunkSize, opts.Columns)
	if err != nil {
		return nil, err
	}

	result := &Result{
		JobID:     uuid.NewString(),
		Plans:     plans,
		Artifacts: make(map[string][]byte),
		Formats:   opts.Formats,
		Stats:     Stats{Blocks: len(plans), Codes: sheet.Total(plans)},
	}
	logger := opts.Logger.With("job", result.JobID[:8])
	logger.Debug("planned sheet", "start", opts.Start, "end", opts.End, "blocks", len(plans))

	sheetHash, err := cache.HashJSON(opts.contentKey())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash options")
	}

	if !opts.Refresh {
		if r.loadCached(ctx, sheetHash, opts, result) {
			logger.Info("using cached artifacts", "formats", opts.Formats)
			report(progressEvent(result.Stats.Codes, result.Stats.Codes))
			return result, nil
		}
	}

	// Stage 1: Assemble
	report(Event{Kind: EventStatus, Message: fmt.Sprintf("Generating %d codes in %d blocks", result.Stats.Codes, len(plans))})
	observability.Pipeline().OnAssembleStart(ctx, opts.Start, opts.End, len(plans))
	assembleStart := time.Now()

	doc := document.New(opts.Document)
	lastPct := -1
	err = Assemble(ctx, doc, r.Encoder, plans, AssembleOptions{
		QR:           opts.QR,
		ImageWidthMM: opts.ImageWidthMM,
		LabelFontPt:  opts.LabelFontPt,
	}, func(done int) {
		if pct := done * 100 / result.Stats.Codes; pct != lastPct {
			lastPct = pct
			report(progressEvent(done, result.Stats.Codes))
		}
	})
	result.Stats.AssembleTime = time.Since(assembleStart)
	observability.Pipeline().OnAssembleComplete(ctx, result.Stats.Codes, result.Stats.AssembleTime, err)
	if err != nil {
		return nil, err
	}
	logger.Info("assembled sheet",
		"blocks", len(plans),
		"codes", result.Stats.Codes,
		"duration", result.Stats.AssembleTime)

	// Stage 2: Render
	report(Event{Kind: EventStatus, Message: "Laying out pages"})
	renderStart := time.Now()
	l, err := layout.Build(doc, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCollaborator, err, "lay out document")
	}
	result.Layout = l
	result.Stats.Pages = len(l.Pages)

	for _, format := range opts.Formats {
		report(Event{Kind: EventStatus, Message: fmt.Sprintf("Rendering %s", format)})
		out, err := renderFormat(ctx, l, plans, result.JobID, format, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCollaborator, err, "render")
		}
		size := 0
		for k, v := range out {
			result.Artifacts[k] = v
			size += len(v)
		}
		r.storeCached(ctx, sheetHash, format, opts, out)
		logger.Info("rendered output", "format", format, "bytes", size)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Debug("rendered outputs",
		"pages", result.Stats.Pages,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) artifactKey(sheetHash, format string, opts Options) string {
	ko := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		ko.DPI = opts.DPI
	}
	return r.Keyer.ArtifactKey(sheetHash, ko)
}

// loadCached fills result from the cache when every requested format is
// present. It reports false and leaves result untouched otherwise.
func (r *Runner) loadCached(ctx context.Context, sheetHash string, opts Options, result *Result) bool {
	found := map[string][]byte{}
	pageCount := 0
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.artifactKey(sheetHash, format, opts))
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")

		if format != FormatPNG {
			found[format] = data
			continue
		}
		var pages [][]byte
		if err := json.Unmarshal(data, &pages); err != nil || len(pages) == 0 {
			return false
		}
		for i, p := range pages {
			found[pngKey(i+1)] = p
		}
		pageCount = len(pages)
	}
	for k, v := range found {
		result.Artifacts[k] = v
	}
	result.Stats.Pages = pageCount
	result.CacheHit = true
	return true
}

// storeCached writes one rendered format to the cache. Failures are logged
// and otherwise ignored.
func (r *Runner) storeCached(ctx context.Context, sheetHash, format string, opts Options, out map[string][]byte) {
	var data []byte
	if format == FormatPNG {
		pages := make([][]byte, 0, len(out))
		for i := 1; ; i++ {
			p, ok := out[pngKey(i)]
			if !ok {
				break
			}
			pages = append(pages, p)
		}
		encoded, err := json.Marshal(pages)
		if err != nil {
			return
		}
		data = encoded
	} else {
		data = out[format]
	}

	if err := r.Cache.Set(ctx, r.artifactKey(sheetHash, format, opts), data, cache.TTLArtifact); err != nil {
		r.Logger.Debug("cache write failed", "format", format, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
