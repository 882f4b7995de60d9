package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

func collect(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(30 * time.Second)
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, e)
		case <-timeout:
			t.Fatal("worker did not finish")
		}
	}
}

func TestStartSuccess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "QR_1_30.pdf")
	r := NewRunner(&fakeEncoder{}, nil, nil, nil)

	events := collect(t, r.Start(context.Background(), Options{Start: 1, End: 30}, out))
	if len(events) == 0 {
		t.Fatal("no events")
	}
	last := events[len(events)-1]
	if last.Kind != EventDone {
		t.Fatalf("last event = %v (%s), want done", last.Kind, last.Message)
	}
	for _, e := range events[:len(events)-1] {
		if e.Terminal() {
			t.Errorf("terminal event %v before the end", e.Kind)
		}
	}
	if len(last.Paths) != 1 || last.Paths[0] != out {
		t.Errorf("paths = %v, want [%s]", last.Paths, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestStartFailureLeavesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")
	r := NewRunner(&fakeEncoder{failOn: "7"}, nil, nil, nil)

	last := Wait(r.Start(context.Background(), Options{Start: 1, End: 30}, out), nil)
	if last.Kind != EventFailed || !errors.Is(last.Err, errors.ErrCodeCollaborator) {
		t.Fatalf("last = %+v, want collaborator failure", last)
	}
	if last.Message == "" {
		t.Error("failure without message")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file should be written on failure")
	}
}

func TestStartRejectsBeforeWork(t *testing.T) {
	enc := &fakeEncoder{}
	r := NewRunner(enc, nil, nil, nil)

	tests := []struct {
		name   string
		opts   Options
		output string
		want   errors.Code
	}{
		{"BadRange", Options{Start: 5, End: 1}, filepath.Join(t.TempDir(), "a.pdf"), errors.ErrCodeInvalidRange},
		{"MissingDir", Options{Start: 1, End: 5}, filepath.Join(t.TempDir(), "nope", "a.pdf"), errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen int
			last := Wait(r.Start(context.Background(), tt.opts, tt.output), func(Event) { seen++ })
			if last.Kind != EventFailed || !errors.Is(last.Err, tt.want) {
				t.Errorf("last = %+v, want %s", last, tt.want)
			}
			if seen != 0 {
				t.Errorf("%d events before failure", seen)
			}
		})
	}
	if enc.count() != 0 {
		t.Errorf("encoder called %d times", enc.count())
	}
}

func TestEventPercent(t *testing.T) {
	if p := (Event{Done: 1, Total: 4}).Percent(); p != 25 {
		t.Errorf("Percent = %v, want 25", p)
	}
	if p := (Event{}).Percent(); p != 0 {
		t.Errorf("zero Percent = %v", p)
	}
	if EventFailed.String() != "failed" {
		t.Errorf("String = %s", EventFailed)
	}
}
