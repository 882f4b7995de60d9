// Package config loads qrsheet settings from a TOML file.
//
// A config file has three sections:
//
//	[qr]        encoder, error correction, module size and colours
//	[document]  paper, margins, grid and label settings
//	[output]    formats, PNG resolution and caching
//
// Keys that are absent keep their default values, so a file only needs the
// settings it changes. Unknown keys are reported by [Load] so the caller can
// warn about them.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/document/sink"
	"github.com/matzehuels/qrsheet/pkg/errors"
	"github.com/matzehuels/qrsheet/pkg/pipeline"
	"github.com/matzehuels/qrsheet/pkg/qrcode"
	"github.com/matzehuels/qrsheet/pkg/sheet"
)

// FileName is the name of the config file inside the user config directory.
const FileName = "config.toml"

// Config is the decoded form of a config file.
type Config struct {
	QR       qrcode.Options `toml:"qr"`
	Document Document       `toml:"document"`
	Output   Output         `toml:"output"`
}

// Document holds the [document] section.
type Document struct {
	Paper         string  `toml:"paper"`
	MarginMM      float64 `toml:"margin_mm"`
	Columns       int     `toml:"columns"`
	ChunkSize     int     `toml:"chunk_size"`
	ImageWidthMM  float64 `toml:"image_width_mm"`
	LabelFontPt   float64 `toml:"label_font_pt"`
	ParagraphMM   float64 `toml:"paragraph_mm"`
	CellPaddingMM float64 `toml:"cell_padding_mm"`
	CellBorders   bool    `toml:"cell_borders"`
	Title         string  `toml:"title,omitempty"`
	Subject       string  `toml:"subject,omitempty"`
}

// Output holds the [output] section.
type Output struct {
	Formats []string `toml:"formats"`
	DPI     float64  `toml:"dpi"`
	Cache   bool     `toml:"cache"`
}

// Default returns the built-in settings.
func Default() Config {
	doc := document.DefaultOptions()
	return Config{
		QR: qrcode.DefaultOptions(),
		Document: Document{
			Paper:         "a4",
			MarginMM:      document.HalfInchMM,
			Columns:       sheet.DefaultColumns,
			ChunkSize:     sheet.DefaultChunkSize,
			ImageWidthMM:  pipeline.DefaultImageWidthMM,
			LabelFontPt:   pipeline.DefaultLabelFontPt,
			ParagraphMM:   doc.ParagraphMM,
			CellPaddingMM: doc.CellPaddingMM,
			CellBorders:   doc.CellBorders,
		},
		Output: Output{
			Formats: []string{pipeline.DefaultFormat},
			DPI:     sink.DefaultDPI,
			Cache:   true,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "qrsheet", FileName), nil
}

// Resolve picks the config file to load. An explicit path must exist. With
// no explicit path the default location is used if a file is there; ok is
// false when there is nothing to load.
func Resolve(explicit string) (path string, ok bool, err error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", false, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", explicit)
		}
		return explicit, true, nil
	}
	path, err = DefaultPath()
	if err != nil {
		return "", false, nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", false, nil
	}
	return path, true, nil
}

// Load reads path on top of [Default]. The returned keys are those present
// in the file that qrsheet does not know about.
func Load(path string) (Config, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open config")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r on top of [Default].
func Decode(r io.Reader) (Config, []string, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	slices.Sort(unknown)
	return cfg, unknown, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(cfg)
}

// WriteFile writes cfg to path, creating parent directories. An existing
// file is only replaced when overwrite is set.
func WriteFile(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config")
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return f.Close()
}

// Apply copies the settings into opts. It does not touch the range or the
// runtime fields.
func (c Config) Apply(opts *pipeline.Options) error {
	paper, err := document.PaperByName(c.Document.Paper)
	if err != nil {
		return err
	}
	if c.Document.MarginMM < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %g", c.Document.MarginMM)
	}
	// Config values are explicit: zero is not "unset" here.
	for _, v := range []struct {
		name string
		n    int
	}{
		{"columns", c.Document.Columns},
		{"chunk size", c.Document.ChunkSize},
		{"box size", c.QR.BoxSize},
	} {
		if err := errors.ValidatePositive(v.name, v.n); err != nil {
			return err
		}
	}
	for _, v := range []struct {
		name string
		f    float64
	}{
		{"image width", c.Document.ImageWidthMM},
		{"label size", c.Document.LabelFontPt},
		{"dpi", c.Output.DPI},
	} {
		if err := errors.ValidatePositiveFloat(v.name, v.f); err != nil {
			return err
		}
	}
	if len(c.Output.Formats) > 0 {
		if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
			return err
		}
	}

	opts.QR = c.QR
	opts.Document = document.Options{
		Paper:         paper,
		Margins:       document.UniformMargins(c.Document.MarginMM),
		ParagraphMM:   c.Document.ParagraphMM,
		CellPaddingMM: c.Document.CellPaddingMM,
		CellBorders:   c.Document.CellBorders,
		Title:         c.Document.Title,
		Subject:       c.Document.Subject,
	}
	opts.Columns = c.Document.Columns
	opts.ChunkSize = c.Document.ChunkSize
	opts.ImageWidthMM = c.Document.ImageWidthMM
	opts.LabelFontPt = c.Document.LabelFontPt
	opts.Formats = slices.Clone(c.Output.Formats)
	opts.DPI = c.Output.DPI
	return nil
}
