package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect. It runs once on creation, tracks
// every signal and memo read during the run, and re-runs synchronously
// whenever one of them changes. The function may return a Cleanup that is
// called before each re-run and on disposal.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup from the previous run.
	cleanup Cleanup

	// sources are the values read during the last run.
	sources   []*signalCore
	sourcesMu sync.Mutex

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// NewEffect creates the effect and runs fn immediately.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect body, rebuilding its dependency set.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Sever old dependency edges; the run rebuilds them.
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(old)
}

// addSource records a dependency edge. Implements sourceTracker.
func (e *Effect) addSource(source *signalCore) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose runs the final cleanup and detaches the effect from all of its
// sources. Idempotent; the error return satisfies the
// viewmodel.Disposable contract.
func (e *Effect) Dispose() error {
	if e.disposed.Swap(true) {
		return nil
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
	return nil
}

// IsDisposed reports whether Dispose has been called.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

var _ sourceTracker = (*Effect)(nil)
