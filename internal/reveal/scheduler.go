// Package reveal animates assistant replies one character at a time and
// splits reply text into display blocks.
package reveal

import (
	"context"
	"iter"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultInterval is the delay between successive characters.
const DefaultInterval = 15 * time.Millisecond

// Prefixes yields every rune prefix of text, from the empty string up to
// text itself: L+1 values for a text of L runes, each one rune longer than
// the last.
func Prefixes(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield("") {
			return
		}
		for i := 0; i < len(text); {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			if !yield(text[:i]) {
				return
			}
		}
	}
}

// Scheduler paces reveals. The zero value uses DefaultInterval.
type Scheduler struct {
	Interval time.Duration
}

func (s Scheduler) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

// Start reveals text on its own goroutine. emit receives the empty prefix
// immediately and then one longer prefix per interval. After the full text
// has been emitted done is called exactly once. Cancelled runs, including
// those whose ctx ends, never call done.
//
// emit and done run on the reveal goroutine and must not call Cancel on the
// handle they belong to.
func (s Scheduler) Start(ctx context.Context, text string, emit func(string), done func()) *Handle {
	h := newHandle()
	go h.run(ctx, s.interval(), text, emit, done, nil)
	return h
}

// Handle controls one running reveal. It is single-use.
type Handle struct {
	mu       sync.Mutex
	stopped  bool
	finished bool
	stop     chan struct{}
	exited   chan struct{}
}

func newHandle() *Handle {
	return &Handle{
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// Cancel stops the reveal. No emit happens after Cancel returns. It is safe
// to call more than once and after the reveal has finished.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.stop)
}

// Done is closed once the reveal goroutine has exited for any reason.
func (h *Handle) Done() <-chan struct{} {
	return h.exited
}

// completed reports whether the reveal ran to completion.
func (h *Handle) completed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.finished
}

func (h *Handle) run(ctx context.Context, interval time.Duration, text string, emit func(string), done func(), exit func()) {
	defer close(h.exited)
	if exit != nil {
		defer exit()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	first := true
	for prefix := range Prefixes(text) {
		if !first {
			select {
			case <-ticker.C:
			case <-h.stop:
				return
			case <-ctx.Done():
				h.Cancel()
				return
			}
		}
		first = false
		if !h.emit(emit, prefix) {
			return
		}
	}

	if h.finish() && done != nil {
		done()
	}
}

// emit delivers prefix unless the handle has been cancelled. The lock is held
// across the callback so Cancel cannot return while an emit is in progress.
func (h *Handle) emit(emit func(string), prefix string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	if emit != nil {
		emit(prefix)
	}
	return true
}

func (h *Handle) finish() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.stopped = true
	h.finished = true
	return true
}
