package reveal

import (
	"context"
	"sync"
)

// Tracker runs at most one reveal per message id.
type Tracker struct {
	sched Scheduler

	mu   sync.Mutex
	runs map[string]*Handle
}

// NewTracker returns a tracker that starts reveals with sched.
func NewTracker(sched Scheduler) *Tracker {
	return &Tracker{sched: sched, runs: make(map[string]*Handle)}
}

// Start begins revealing text for id, cancelling any reveal already running
// for the same id.
func (t *Tracker) Start(ctx context.Context, id, text string, emit func(string), done func()) *Handle {
	h := newHandle()

	t.mu.Lock()
	old := t.runs[id]
	t.runs[id] = h
	t.mu.Unlock()

	if old != nil {
		old.Cancel()
	}

	go h.run(ctx, t.sched.interval(), text, emit, done, func() { t.release(id, h) })
	return h
}

// Cancel stops the reveal for id, if any.
func (t *Tracker) Cancel(id string) {
	t.mu.Lock()
	h := t.runs[id]
	delete(t.runs, id)
	t.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// CancelAll stops every running reveal.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	runs := t.runs
	t.runs = make(map[string]*Handle)
	t.mu.Unlock()

	for _, h := range runs {
		h.Cancel()
	}
}

// Active returns the number of reveals still running.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runs)
}

func (t *Tracker) release(id string, h *Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runs[id] == h {
		delete(t.runs, id)
	}
}
