package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qrsheet/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or show the config file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default settings as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultPath()
				if err != nil {
					return fmt.Errorf("get config dir: %w", err)
				}
				path = p
			}
			if err := config.WriteFile(path, config.Default(), force); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			printNextStep("Edit it, then run", appName+" generate 1 201")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var path string
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			source := "built-in defaults"
			resolved, ok, err := config.Resolve(path)
			if err != nil {
				return err
			}
			if ok {
				var unknown []string
				if cfg, unknown, err = config.Load(resolved); err != nil {
					return err
				}
				source = resolved
				for _, k := range unknown {
					printWarning("unknown key %s", k)
				}
			}

			out := cmd.OutOrStdout()
			if asTOML {
				return config.Write(out, cfg)
			}
			fmt.Fprintln(out, StyleDim.Render("Source: "+source))
			fmt.Fprintln(out, renderConfigTable(cfg))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "config file (default: user config dir)")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as TOML")
	return cmd
}

// renderConfigTable lays the settings out as section, key, value rows.
func renderConfigTable(cfg config.Config) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	d := cfg.Document
	q := cfg.QR
	rows := [][]string{
		{"qr", "encoder", q.Encoder},
		{"qr", "error_correction", q.ErrorCorrection.String()},
		{"qr", "box_size", strconv.Itoa(q.BoxSize)},
		{"qr", "border", strconv.Itoa(q.Border)},
		{"qr", "fill_color", q.FillColor},
		{"qr", "back_color", q.BackColor},
		{"qr", "version", strconv.Itoa(q.Version)},
		{"qr", "fit", strconv.FormatBool(q.Fit)},
		{"document", "paper", d.Paper},
		{"document", "margin_mm", f(d.MarginMM)},
		{"document", "columns", strconv.Itoa(d.Columns)},
		{"document", "chunk_size", strconv.Itoa(d.ChunkSize)},
		{"document", "image_width_mm", f(d.ImageWidthMM)},
		{"document", "label_font_pt", f(d.LabelFontPt)},
		{"document", "paragraph_mm", f(d.ParagraphMM)},
		{"document", "cell_padding_mm", f(d.CellPaddingMM)},
		{"document", "cell_borders", strconv.FormatBool(d.CellBorders)},
		{"output", "formats", strings.Join(cfg.Output.Formats, ",")},
		{"output", "dpi", f(cfg.Output.DPI)},
		{"output", "cache", strconv.FormatBool(cfg.Output.Cache)},
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Section", "Key", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return StyleValue
			default:
				return StyleDim
			}
		})
	return t.Render()
}
