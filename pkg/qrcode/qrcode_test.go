package qrcode

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	return ar == br && ag == bg && ab == bb
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Encoder != "skip2" || o.ErrorCorrection != LevelLow || o.BoxSize != 5 || o.Border != 2 ||
		o.FillColor != "black" || o.BackColor != "white" || o.Version != 1 || o.Fit {
		t.Errorf("DefaultOptions() = %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"L": LevelLow, "m": LevelMedium, " q ": LevelQuartile, "H": LevelHigh,
		"INVALID": LevelLow, "": LevelLow,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseLevelStrict("X"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ParseLevelStrict(X) err = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "black", want: color.RGBA{0, 0, 0, 0xff}},
		{in: "White", want: color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{in: "#ff0000", want: color.RGBA{0xff, 0, 0, 0xff}},
		{in: "#00f", want: color.RGBA{0, 0, 0xff, 0xff}},
		{in: "blurple", wantErr: true},
		{in: "#12", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ParseColor(%q) err = %v, want INVALID_CONFIG", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"Encoder", func(o *Options) { o.Encoder = "zxing" }},
		{"Level", func(o *Options) { o.ErrorCorrection = "Z" }},
		{"BoxSize", func(o *Options) { o.BoxSize = 0 }},
		{"Border", func(o *Options) { o.Border = -1 }},
		{"BoxSizeTooLarge", func(o *Options) { o.BoxSize = MaxBoxSize + 1 }},
		{"BoxSizeHuge", func(o *Options) { o.BoxSize = 1 << 40 }},
		{"BorderTooLarge", func(o *Options) { o.Border = MaxBorder + 1 }},
		{"Version", func(o *Options) { o.Version = 41 }},
		{"Fill", func(o *Options) { o.FillColor = "nope" }},
		{"Back", func(o *Options) { o.BackColor = "#zzz" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			if err := o.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "skip2", "boombuler"} {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("zxing"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(zxing) err = %v", err)
	}
}

func TestEncodeGeometry(t *testing.T) {
	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			enc, _ := New(name)
			opts := DefaultOptions()
			data, err := enc.Encode(context.Background(), "1042", opts)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img := decode(t, data)

			// Version 1 is 21 modules wide.
			want := (21 + 2*opts.Border) * opts.BoxSize
			if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
				t.Fatalf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), want, want)
			}
			if !sameColor(img.At(0, 0), color.White) {
				t.Errorf("quiet zone is %v, want white", img.At(0, 0))
			}
			// Top-left finder pattern starts right after the quiet zone.
			edge := opts.Border * opts.BoxSize
			if !sameColor(img.At(edge, edge), color.Black) {
				t.Errorf("finder corner is %v, want black", img.At(edge, edge))
			}
		})
	}
}

func TestEncodeColors(t *testing.T) {
	enc, _ := New("skip2")
	opts := DefaultOptions()
	opts.FillColor = "#ff0000"
	opts.BackColor = "yellow"
	opts.Border = 1
	opts.BoxSize = 2

	data, err := enc.Encode(context.Background(), "7", opts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img := decode(t, data)
	if !sameColor(img.At(0, 0), color.RGBA{0xff, 0xff, 0, 0xff}) {
		t.Errorf("background = %v", img.At(0, 0))
	}
	if !sameColor(img.At(2, 2), color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("foreground = %v", img.At(2, 2))
	}
}

func TestEncodeForcedVersionOverflow(t *testing.T) {
	enc, _ := New("skip2")
	long := strings.Repeat("9", 60)

	_, err := enc.Encode(context.Background(), long, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeCollaborator) {
		t.Fatalf("err = %v, want COLLABORATOR_FAILURE", err)
	}

	opts := DefaultOptions()
	opts.Fit = true
	data, err := enc.Encode(context.Background(), long, opts)
	if err != nil {
		t.Fatalf("Encode with Fit: %v", err)
	}
	if w := decode(t, data).Bounds().Dx(); w <= (21+4)*5 {
		t.Errorf("fitted width %d, want larger than version 1", w)
	}
}

func TestEncodeCanceled(t *testing.T) {
	enc, _ := New("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := enc.Encode(ctx, "1", DefaultOptions()); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestRasterizeEmpty(t *testing.T) {
	if _, err := rasterize(nil, 5, 2, color.Black, color.White); err == nil {
		t.Error("expected error for empty matrix")
	}
}

func TestEncodeOversizedSymbol(t *testing.T) {
	o := DefaultOptions()
	o.BoxSize = 1 << 40
	for _, name := range Backends() {
		enc, _ := New(name)
		if _, err := enc.Encode(context.Background(), "1", o); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%s: err = %v, want INVALID_CONFIG", name, err)
		}
	}
}

func TestValidatedLimitsAreDrawable(t *testing.T) {
	const version40Modules = 177
	if side := (version40Modules + 2*MaxBorder) * MaxBoxSize; side > maxSide {
		t.Errorf("largest valid symbol is %d px, limit is %d", side, maxSide)
	}
}

func TestRasterizeTooLarge(t *testing.T) {
	modules := [][]bool{{true}}
	tests := []struct {
		name        string
		box, border int
	}{
		{"Box", maxSide + 1, 0},
		{"Border", 1, maxSide},
		{"Overflow", 1 << 40, 1 << 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rasterize(modules, tt.box, tt.border, color.Black, color.White); err == nil {
				t.Error("expected error for oversized symbol")
			}
		})
	}
}
