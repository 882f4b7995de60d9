package qrcode

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// Level is a QR error correction level.
type Level string

const (
	LevelLow      Level = "L" // ~7% recovery
	LevelMedium   Level = "M" // ~15% recovery
	LevelQuartile Level = "Q" // ~25% recovery
	LevelHigh     Level = "H" // ~30% recovery
)

// Levels lists the supported error correction levels.
var Levels = []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh}

// ParseLevel maps s to a Level, ignoring case and surrounding space.
// Unrecognised input falls back to [LevelLow].
func ParseLevel(s string) Level {
	lvl, err := ParseLevelStrict(s)
	if err != nil {
		return LevelLow
	}
	return lvl
}

// ParseLevelStrict is like [ParseLevel] but reports unrecognised input as an
// INVALID_CONFIG error.
func ParseLevelStrict(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelLow:
		return LevelLow, nil
	case LevelMedium:
		return LevelMedium, nil
	case LevelQuartile:
		return LevelQuartile, nil
	case LevelHigh:
		return LevelHigh, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown error correction level %q (want L, M, Q or H)", s)
}

// Limits on symbol and drawing parameters.
const (
	MaxVersion = 40 // largest QR symbol version
	MaxBoxSize = 50 // pixels per module
	MaxBorder  = 16 // quiet zone modules
)

// Options controls how a code is encoded and drawn.
type Options struct {
	Encoder         string `toml:"encoder" json:"encoder"`
	ErrorCorrection Level  `toml:"error_correction" json:"error_correction"`
	BoxSize         int    `toml:"box_size" json:"box_size"` // pixels per module
	Border          int    `toml:"border" json:"border"`     // quiet zone in modules
	FillColor       string `toml:"fill_color" json:"fill_color"`
	BackColor       string `toml:"back_color" json:"back_color"`
	Version         int    `toml:"version" json:"version"` // 0 lets the encoder choose
	Fit             bool   `toml:"fit" json:"fit"`
}

// DefaultOptions returns small, low-redundancy version 1 codes in black on white.
func DefaultOptions() Options {
	return Options{
		Encoder:         DefaultEncoder,
		ErrorCorrection: LevelLow,
		BoxSize:         5,
		Border:          2,
		FillColor:       "black",
		BackColor:       "white",
		Version:         1,
	}
}

// Validate checks every field and returns an INVALID_CONFIG error for the
// first problem found. Empty fields are not defaulted here.
func (o Options) Validate() error {
	if _, ok := backends[o.Encoder]; !ok && o.Encoder != "" {
		return unknownEncoder(o.Encoder)
	}
	if _, err := ParseLevelStrict(string(o.ErrorCorrection)); err != nil {
		return err
	}
	if o.BoxSize < 1 || o.BoxSize > MaxBoxSize {
		return errors.New(errors.ErrCodeInvalidConfig, "box size must be between 1 and %d, got %d", MaxBoxSize, o.BoxSize)
	}
	if o.Border < 0 || o.Border > MaxBorder {
		return errors.New(errors.ErrCodeInvalidConfig, "border must be between 0 and %d, got %d", MaxBorder, o.Border)
	}
	if o.Version < 0 || o.Version > MaxVersion {
		return errors.New(errors.ErrCodeInvalidConfig, "version must be between 0 and %d, got %d", MaxVersion, o.Version)
	}
	if _, err := ParseColor(o.FillColor); err != nil {
		return err
	}
	if _, err := ParseColor(o.BackColor); err != nil {
		return err
	}
	return nil
}

// autoVersion reports whether the encoder should pick the symbol version.
func (o Options) autoVersion() bool {
	return o.Fit || o.Version == 0
}

// ParseColor parses a CSS colour name ("black", "navy") or a "#rgb" or
// "#rrggbb" hex string.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err == nil {
			r, g, b := c.RGB255()
			return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
		}
	}
	return color.RGBA{}, errors.New(errors.ErrCodeInvalidConfig, "invalid color %q", s)
}

func unknownEncoder(name string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "unknown encoder %q (available: %s)",
		name, strings.Join(Backends(), ", "))
}

func (l Level) String() string { return string(l) }
