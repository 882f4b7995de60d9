package pipeline

import (
	"context"

	"github.com/matzehuels/qrsheet/pkg/errors"
)

// EventKind tags an [Event].
type EventKind int

const (
	// EventStatus carries a human-readable status line in Message.
	EventStatus EventKind = iota
	// EventProgress carries Done out of Total codes.
	EventProgress
	// EventDone is terminal: Paths lists the written files.
	EventDone
	// EventFailed is terminal: Message and Err describe the failure.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "status"
	case EventProgress:
		return "progress"
	case EventDone:
		return "done"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event is a message from a background run to its owner.
type Event struct {
	Kind    EventKind
	Message string
	Done    int
	Total   int
	Paths   []string
	Result  *Result
	Err     error
}

// Percent returns progress in [0, 100].
func (e Event) Percent() float64 {
	if e.Total <= 0 {
		return 0
	}
	return 100 * float64(e.Done) / float64(e.Total)
}

// Terminal reports whether the event ends the run.
func (e Event) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventFailed
}

func progressEvent(done, total int) Event {
	return Event{Kind: EventProgress, Done: done, Total: total}
}

// eventBuffer bounds how far a run can get ahead of a slow consumer.
const eventBuffer = 128

// Start runs [Runner.Execute] and [WriteArtifacts] on a new goroutine.
//
// Events arrive in order on the returned channel, which is closed after
// exactly one terminal event. Output is validated before the run begins.
// The context only prevents a run from starting; once generation is under
// way it runs to completion.
func (r *Runner) Start(ctx context.Context, opts Options, output string) <-chan Event {
	ch := make(chan Event, eventBuffer)
	go func() {
		defer close(ch)
		fail := func(err error) {
			ch <- Event{Kind: EventFailed, Message: errors.UserMessage(err), Err: err}
		}

		if err := errors.ValidateOutputPath(output); err != nil {
			fail(err)
			return
		}
		res, err := r.Execute(ctx, opts, func(e Event) { ch <- e })
		if err != nil {
			fail(err)
			return
		}

		ch <- Event{Kind: EventStatus, Message: "Saving"}
		paths, err := WriteArtifacts(res, output)
		if err != nil {
			fail(err)
			return
		}
		ch <- Event{Kind: EventDone, Paths: paths, Result: res, Done: res.Stats.Codes, Total: res.Stats.Codes}
	}()
	return ch
}

// Wait drains events until the terminal one and returns it. onEvent, if
// non-nil, sees every non-terminal event.
func Wait(events <-chan Event, onEvent func(Event)) Event {
	var last Event
	for e := range events {
		if e.Terminal() {
			last = e
			continue
		}
		if onEvent != nil {
			onEvent(e)
		}
	}
	return last
}
