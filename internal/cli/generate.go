package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qrsheet/pkg/config"
	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/errors"
	"github.com/matzehuels/qrsheet/pkg/pipeline"
	"github.com/matzehuels/qrsheet/pkg/qrcode"
)

// generateOpts holds the command-line flags shared by generate and
// interactive. Flag defaults mirror [config.Default]; only flags the user
// sets override the config file.
type generateOpts struct {
	output  string  // primary output file; other formats reuse its stem
	formats string  // comma-separated output formats
	columns int     // grid columns per block
	chunk   int     // codes per block
	qrWidth float64 // printed code width in mm
	label   float64 // label font size in pt
	paper   string  // paper name: a4, a5, letter, legal
	margin  float64 // uniform page margin in mm
	borders bool    // draw cell borders
	ec      string  // error correction: L, M, Q, H
	boxSize int     // pixels per module
	border  int     // quiet zone in modules
	fill    string  // module colour
	back    string  // background colour
	version int     // QR version, 0 for automatic
	fit     bool    // grow the version to fit the data
	encoder string  // QR backend
	dpi     float64 // PNG resolution
	cfgPath string  // explicit config file
	noCache bool    // skip the artifact cache
	refresh bool    // re-render even when cached
	plain   bool    // log lines instead of the progress view
}

func (o *generateOpts) bind(cmd *cobra.Command) {
	def := config.Default()
	f := cmd.Flags()

	f.StringVarP(&o.output, "output", "o", "", "output file (default QR_START_END.<format>)")
	f.StringVarP(&o.formats, "format", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	f.IntVar(&o.columns, "columns", def.Document.Columns, "grid columns per block")
	f.IntVar(&o.chunk, "chunk-size", def.Document.ChunkSize, "codes per block")
	f.Float64Var(&o.qrWidth, "qr-width", def.Document.ImageWidthMM, "printed code width in mm")
	f.Float64Var(&o.label, "label-size", def.Document.LabelFontPt, "label font size in pt")
	f.StringVar(&o.paper, "paper", def.Document.Paper, "paper size: a4, a5, letter, legal")
	f.Float64Var(&o.margin, "margin", def.Document.MarginMM, "page margin in mm")
	f.BoolVar(&o.borders, "borders", def.Document.CellBorders, "draw cell borders")
	f.StringVar(&o.ec, "ec", string(def.QR.ErrorCorrection), "error correction level: L, M, Q, H")
	f.IntVar(&o.boxSize, "box-size", def.QR.BoxSize, "pixels per QR module")
	f.IntVar(&o.border, "border", def.QR.Border, "quiet zone in modules")
	f.StringVar(&o.fill, "fill", def.QR.FillColor, "module colour (name or #rrggbb)")
	f.StringVar(&o.back, "back", def.QR.BackColor, "background colour (name or #rrggbb)")
	f.IntVar(&o.version, "qr-version", def.QR.Version, "QR version 1-40, 0 for automatic")
	f.BoolVar(&o.fit, "fit", def.QR.Fit, "grow the QR version until the data fits")
	f.StringVar(&o.encoder, "encoder", def.QR.Encoder, "QR backend: skip2, boombuler")
	f.Float64Var(&o.dpi, "dpi", def.Output.DPI, "PNG resolution")
	f.StringVar(&o.cfgPath, "config", "", "config file (default: user config dir)")
	f.BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&o.refresh, "refresh", false, "re-render even if cached")
	f.BoolVar(&o.plain, "plain", false, "print log lines instead of the progress view")

	_ = cmd.RegisterFlagCompletionFunc("paper", paperNames)
	_ = cmd.RegisterFlagCompletionFunc("encoder", cobra.FixedCompletions(qrcode.Backends(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("ec", cobra.FixedCompletions([]string{"L", "M", "Q", "H"}, cobra.ShellCompDirectiveNoFileComp))
}

// resolveConfig loads the config file and applies the flags that were set.
func (o *generateOpts) resolveConfig(cmd *cobra.Command, logger *log.Logger) (config.Config, error) {
	cfg := config.Default()
	path, ok, err := config.Resolve(o.cfgPath)
	if err != nil {
		return cfg, err
	}
	if ok {
		var unknown []string
		if cfg, unknown, err = config.Load(path); err != nil {
			return cfg, err
		}
		for _, k := range unknown {
			logger.Warn("unknown config key", "key", k, "file", path)
		}
		logger.Debug("loaded config", "file", path)
	}

	set := cmd.Flags().Changed
	if set("format") {
		cfg.Output.Formats = pipeline.ParseFormats(o.formats)
	}
	if set("columns") {
		cfg.Document.Columns = o.columns
	}
	if set("chunk-size") {
		cfg.Document.ChunkSize = o.chunk
	}
	if set("qr-width") {
		cfg.Document.ImageWidthMM = o.qrWidth
	}
	if set("label-size") {
		cfg.Document.LabelFontPt = o.label
	}
	if set("paper") {
		cfg.Document.Paper = o.paper
	}
	if set("margin") {
		cfg.Document.MarginMM = o.margin
	}
	if set("borders") {
		cfg.Document.CellBorders = o.borders
	}
	if set("ec") {
		level, err := qrcode.ParseLevelStrict(o.ec)
		if err != nil {
			return cfg, err
		}
		cfg.QR.ErrorCorrection = level
	}
	if set("box-size") {
		cfg.QR.BoxSize = o.boxSize
	}
	if set("border") {
		cfg.QR.Border = o.border
	}
	if set("fill") {
		cfg.QR.FillColor = o.fill
	}
	if set("back") {
		cfg.QR.BackColor = o.back
	}
	if set("qr-version") {
		cfg.QR.Version = o.version
	}
	if set("fit") {
		cfg.QR.Fit = o.fit
	}
	if set("encoder") {
		cfg.QR.Encoder = o.encoder
	}
	if set("dpi") {
		cfg.Output.DPI = o.dpi
	}
	if o.noCache {
		cfg.Output.Cache = false
	}
	return cfg, nil
}

// buildOptions turns the resolved config and the range into pipeline
// options and the primary output path.
func (o *generateOpts) buildOptions(cfg config.Config, start, end int) (pipeline.Options, string, error) {
	opts := pipeline.Options{Start: start, End: end, Refresh: o.refresh}
	if err := cfg.Apply(&opts); err != nil {
		return opts, "", err
	}
	output := o.output
	if output == "" {
		output = pipeline.DefaultOutputName(start, end, primaryFormat(cfg))
	}
	return opts, output, nil
}

func primaryFormat(cfg config.Config) string {
	if len(cfg.Output.Formats) > 0 {
		return cfg.Output.Formats[0]
	}
	return pipeline.DefaultFormat
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate START END",
		Short: "Generate a QR label sheet for START up to (not including) END",
		Long: `Generate one QR code per integer from START up to END (exclusive).

Codes are grouped in blocks of --chunk-size, laid out on a grid of --columns
columns and followed by a "first-last" label. Use -- before a negative START:

  qrsheet generate 1000 1200
  qrsheet generate -f pdf,png -o labels.pdf 1 501
  qrsheet generate -- -50 50`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(args[0], args[1])
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			cfg, err := opts.resolveConfig(cmd, logger)
			if err != nil {
				return err
			}
			popts, output, err := opts.buildOptions(cfg, start, end)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), popts, output, cfg.Output.Cache, opts.plain)
		},
	}
	opts.bind(cmd)
	return cmd
}

// parseRange parses the START and END arguments.
func parseRange(startArg, endArg string) (int, int, error) {
	start, err := strconv.Atoi(startArg)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "START must be an integer, got %q", startArg)
	}
	end, err := strconv.Atoi(endArg)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "END must be an integer, got %q", endArg)
	}
	return start, end, nil
}

// runGenerate starts a background run and follows it with the progress
// view, a spinner or log lines, depending on the terminal.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, useCache, plain bool) error {
	runner, err := c.newRunner(opts.QR.Encoder, !useCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	title := fmt.Sprintf("QR codes %d to %d", opts.Start, opts.End-1)
	events := runner.Start(ctx, opts, output)

	var final pipeline.Event
	switch {
	case !plain && c.stdoutTTY:
		final, err = runProgressView(events, title)
		if err != nil {
			return err
		}
	case !plain && c.stderrTTY:
		final = followWithSpinner(ctx, events)
	default:
		final = followWithLogs(ctx, c.Logger, events)
	}
	return reportResult(final)
}

func reportResult(final pipeline.Event) error {
	if final.Kind != pipeline.EventDone {
		if final.Err == nil {
			return errors.New(errors.ErrCodeInternal, "generation ended without a result")
		}
		return final.Err
	}
	for _, p := range final.Paths {
		printSaved(p)
	}
	if res := final.Result; res != nil {
		printStats(res.Stats.Codes, res.Stats.Blocks, res.Stats.Pages, res.CacheHit)
	}
	return nil
}

// refuseNotice is shown when the user tries to interrupt a running job.
const refuseNotice = "Generation can't be cancelled once started, please wait."

func followWithSpinner(ctx context.Context, events <-chan pipeline.Event) pipeline.Event {
	spinner := newSpinner("Starting")
	spinner.Start()
	defer spinner.Stop()

	interrupted := ctx.Done()
	status := "Generating"
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return pipeline.Event{}
			}
			switch e.Kind {
			case pipeline.EventStatus:
				status = e.Message
				spinner.SetMessage(status)
			case pipeline.EventProgress:
				spinner.SetMessage(fmt.Sprintf("%s %3.0f%%", status, e.Percent()))
			default:
				return e
			}
		case <-interrupted:
			interrupted = nil
			spinner.SetMessage(refuseNotice)
		}
	}
}

func followWithLogs(ctx context.Context, logger *log.Logger, events <-chan pipeline.Event) pipeline.Event {
	prog := newProgress(logger)
	interrupted := ctx.Done()
	lastDecile := -1
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return pipeline.Event{}
			}
			switch e.Kind {
			case pipeline.EventStatus:
				logger.Info(e.Message)
			case pipeline.EventProgress:
				if d := int(e.Percent()) / 10; d != lastDecile {
					lastDecile = d
					logger.Infof("%d/%d codes (%.0f%%)", e.Done, e.Total, e.Percent())
				}
			case pipeline.EventDone:
				prog.done(fmt.Sprintf("Generated %d codes", e.Total))
				return e
			default:
				return e
			}
		case <-interrupted:
			interrupted = nil
			logger.Warn(refuseNotice)
		}
	}
}

// =============================================================================
// Interactive
// =============================================================================

// interactiveCommand creates the interactive command: a terminal form for
// the range and output path, followed by the progress view.
func (c *CLI) interactiveCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Enter the range and output file in a terminal form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.stdoutTTY {
				return errors.New(errors.ErrCodeInvalidInput, "interactive mode needs a terminal; use qrsheet generate START END")
			}
			logger := loggerFromContext(cmd.Context())
			cfg, err := opts.resolveConfig(cmd, logger)
			if err != nil {
				return err
			}

			form, err := runForm(primaryFormat(cfg), opts.output)
			if err != nil {
				return err
			}
			if form.cancelled {
				return context.Canceled
			}

			opts.output = form.output
			popts, output, err := opts.buildOptions(cfg, form.start, form.end)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), popts, output, cfg.Output.Cache, false)
		},
	}
	opts.bind(cmd)
	_ = cmd.Flags().MarkHidden("plain")
	return cmd
}

func paperNames(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return document.PaperNames(), cobra.ShellCompDirectiveNoFileComp
}
