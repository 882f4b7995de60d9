package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/matzehuels/qrsheet/pkg/document"
	"github.com/matzehuels/qrsheet/pkg/qrcode"
)

var tinyPNG = func() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewGray(image.Rect(0, 0, 21, 21)))
	return buf.Bytes()
}()

// fakeEncoder returns a fixed PNG and fails on the configured input.
type fakeEncoder struct {
	mu     sync.Mutex
	failOn string
	calls  []string
}

func (f *fakeEncoder) Encode(_ context.Context, data string, _ qrcode.Options) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, data)
	if data == f.failOn {
		return nil, fmt.Errorf("cannot encode %s", data)
	}
	return tinyPNG, nil
}

func (f *fakeEncoder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingBuilder logs every call as a string.
type recordingBuilder struct {
	ops       []string
	failTable bool
}

type recordingTable struct {
	b *recordingBuilder
}

func (r *recordingBuilder) AddTable(rows, cols int) (document.TableBuilder, error) {
	if r.failTable {
		return nil, fmt.Errorf("disk full")
	}
	r.ops = append(r.ops, fmt.Sprintf("table %dx%d", rows, cols))
	return recordingTable{r}, nil
}

func (r *recordingBuilder) AddParagraph() error {
	r.ops = append(r.ops, "paragraph")
	return nil
}

func (t recordingTable) AddImage(row, col int, _ []byte, widthMM float64, data string) error {
	t.b.ops = append(t.b.ops, fmt.Sprintf("image %s at %d,%d w%g", data, row, col, widthMM))
	return nil
}

func (t recordingTable) AddText(row, col int, text string, sizePt float64) error {
	t.b.ops = append(t.b.ops, fmt.Sprintf("text %q at %d,%d %gpt", text, row, col, sizePt))
	return nil
}
