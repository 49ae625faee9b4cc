package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached derived computation that automatically tracks its
// dependencies. When any dependency changes, the memo is invalidated and
// recomputes on the next read.
//
// Memos are lazy: the computation only runs when Get or Peek is called.
// If several dependencies change between reads, the memo recomputes once.
//
// Memos can themselves be subscribed to, so chains of derived values work.
type Memo[T any] struct {
	base signalCore

	// compute produces the memo's value.
	compute func() T

	// value is the cached computed value.
	value T

	// valueMu protects value access.
	valueMu sync.RWMutex

	// valid indicates whether the cached value is current.
	valid atomic.Bool

	// sources are the signals/memos this memo read last compute.
	sources   []*signalCore
	sourcesMu sync.Mutex

	// computing breaks recursion on circular dependencies.
	computing atomic.Bool

	// disposed indicates the memo has been detached from its sources.
	disposed atomic.Bool
}

// NewMemo creates a new memo with the given computation.
// The computation does not run until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base: signalCore{
			id: nextID(),
		},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if necessary, and subscribes
// the current listener. A disposed memo returns its last cached value.
func (m *Memo[T]) Get() T {
	if !m.disposed.Load() {
		if listener := getCurrentListener(); listener != nil {
			m.base.subscribe(listener)

			if tr, ok := listener.(sourceTracker); ok {
				tr.addSource(&m.base)
			}
		}

		if !m.valid.Load() {
			m.recompute()
		}
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// Peek returns the memo's value without subscribing.
// Still triggers recomputation if the cached value is stale.
func (m *Memo[T]) Peek() T {
	if !m.disposed.Load() && !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
// Implements the Listener interface.
func (m *Memo[T]) MarkDirty() {
	if m.disposed.Load() {
		return
	}

	// CAS keeps repeated marks idempotent.
	if m.valid.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// addSource records a dependency edge. Implements sourceTracker.
func (m *Memo[T]) addSource(source *signalCore) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

// Dispose detaches the memo from all of its sources. The memo keeps
// serving its last cached value but never recomputes or notifies again.
// Dispose is idempotent and never fails; the error return satisfies the
// viewmodel.Disposable contract.
func (m *Memo[T]) Dispose() error {
	if m.disposed.Swap(true) {
		return nil
	}

	m.sourcesMu.Lock()
	sources := m.sources
	m.sources = nil
	m.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(m)
	}
	return nil
}

// IsDisposed reports whether Dispose has been called.
func (m *Memo[T]) IsDisposed() bool {
	return m.disposed.Load()
}

func (m *Memo[T]) core() *signalCore {
	return &m.base
}

func (m *Memo[T]) peekAny() any {
	return m.Peek()
}

// recompute runs the computation, retracking dependencies from scratch.
func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Already computing: circular dependency, serve the stale value.
		return
	}
	defer m.computing.Store(false)

	// Sever old dependency edges; the compute run rebuilds them.
	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := setCurrentListener(m)
	newValue := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	m.valid.Store(true)
}

// Ensure Memo satisfies the tracking interfaces.
var (
	_ sourceTracker = (*Memo[int])(nil)
	_ Value         = (*Memo[int])(nil)
	_ Value         = (*Signal[int])(nil)
)
