package qrcode

import (
	"context"
	"slices"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// DefaultEncoder is the backend used when none is configured.
const DefaultEncoder = "skip2"

// Encoder turns a string into a PNG image of its QR code.
type Encoder interface {
	Encode(ctx context.Context, data string, opts Options) ([]byte, error)
}

// matrixFunc produces the module matrix of a symbol without quiet zone.
// matrix[y][x] is true for dark modules.
type matrixFunc func(data string, opts Options) ([][]bool, error)

var backends = map[string]matrixFunc{
	"skip2":     skip2Matrix,
	"boombuler": boombulerMatrix,
}

// Backends returns the names of the available encoder backends, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns the encoder registered under name. An empty name selects
// [DefaultEncoder].
func New(name string) (Encoder, error) {
	if name == "" {
		name = DefaultEncoder
	}
	fn, ok := backends[name]
	if !ok {
		return nil, unknownEncoder(name)
	}
	return &encoder{name: name, matrix: fn}, nil
}

type encoder struct {
	name   string
	matrix matrixFunc
}

// Encode ignores opts.Encoder; the backend is fixed when the encoder is created.
func (e *encoder) Encode(ctx context.Context, data string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fill, err := ParseColor(opts.FillColor)
	if err != nil {
		return nil, err
	}
	back, err := ParseColor(opts.BackColor)
	if err != nil {
		return nil, err
	}
	if opts.BoxSize < 1 || opts.BoxSize > MaxBoxSize || opts.Border < 0 || opts.Border > MaxBorder {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "box size %d and border %d are not drawable", opts.BoxSize, opts.Border)
	}

	modules, err := e.matrix(data, opts)
	if err != nil {
		return nil, errors.Collaborator(err, "%s: encode %q", e.name, data)
	}
	png, err := rasterize(modules, opts.BoxSize, opts.Border, fill, back)
	if err != nil {
		return nil, errors.Collaborator(err, "%s: draw %q", e.name, data)
	}
	return png, nil
}

func (e *encoder) String() string { return e.name }
