package vmtest

import (
	"sync"
	"testing"

	"github.com/vmkit-dev/vmkit/pkg/viewmodel"
)

// Recorder is a Disposable that counts its Dispose calls.
//
// Example:
//
//	rec := vmtest.NewRecorder()
//	viewmodel.SubView(vm, func() *vmtest.Recorder { return rec })
//	vm.Dispose()
//	vmtest.ExpectDisposed(t, rec)
type Recorder struct {
	mu    sync.Mutex
	calls int
}

// NewRecorder creates a fresh recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Dispose records the call and returns nil.
func (r *Recorder) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return nil
}

// DisposeCalls returns how many times Dispose has been called.
func (r *Recorder) DisposeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// FailingDisposable is a Disposable whose Dispose always returns the
// given error. Use it to exercise partial-failure disposal paths.
type FailingDisposable struct {
	Err error

	mu    sync.Mutex
	calls int
}

// Dispose records the call and returns the configured error.
func (f *FailingDisposable) Dispose() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.Err
}

// DisposeCalls returns how many times Dispose has been called.
func (f *FailingDisposable) DisposeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LifecycleEvent is one observer callback captured by ObserverRecorder.
type LifecycleEvent struct {
	// Type is "created", "registered", or "disposed".
	Type string

	// VM is the view model the event is about.
	VM *viewmodel.ViewModel

	// Kind is set for "registered" events.
	Kind viewmodel.ResourceKind

	// Err is set for "disposed" events that reported an error.
	Err error
}

// ObserverRecorder records every observer callback it receives.
//
// Example:
//
//	obs := vmtest.NewObserverRecorder()
//	vm := viewmodel.New(viewmodel.WithObserver(obs))
//	vm.Dispose()
//	events := obs.Events()
type ObserverRecorder struct {
	mu     sync.Mutex
	events []LifecycleEvent
}

// NewObserverRecorder creates an empty recorder.
func NewObserverRecorder() *ObserverRecorder {
	return &ObserverRecorder{}
}

func (o *ObserverRecorder) ViewModelCreated(vm *viewmodel.ViewModel, parent *viewmodel.ViewModel) {
	o.append(LifecycleEvent{Type: "created", VM: vm})
}

func (o *ObserverRecorder) ResourceRegistered(vm *viewmodel.ViewModel, kind viewmodel.ResourceKind) {
	o.append(LifecycleEvent{Type: "registered", VM: vm, Kind: kind})
}

func (o *ObserverRecorder) ViewModelDisposed(vm *viewmodel.ViewModel, err error) {
	o.append(LifecycleEvent{Type: "disposed", VM: vm, Err: err})
}

func (o *ObserverRecorder) append(ev LifecycleEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

// Events returns a copy of all recorded events in order.
func (o *ObserverRecorder) Events() []LifecycleEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]LifecycleEvent, len(o.events))
	copy(out, o.events)
	return out
}

// CountType returns how many recorded events have the given type.
func (o *ObserverRecorder) CountType(typ string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, ev := range o.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// ExpectDisposed asserts that the recorder was disposed exactly once.
func ExpectDisposed(t *testing.T, r *Recorder) {
	t.Helper()
	if calls := r.DisposeCalls(); calls != 1 {
		t.Errorf("expected exactly one Dispose call, got %d", calls)
	}
}

// ExpectNotDisposed asserts that the recorder was never disposed.
func ExpectNotDisposed(t *testing.T, r *Recorder) {
	t.Helper()
	if calls := r.DisposeCalls(); calls != 0 {
		t.Errorf("expected no Dispose calls, got %d", calls)
	}
}

// ExpectStats asserts the view model's current resource counts.
//
// Example:
//
//	vmtest.ExpectStats(t, vm, viewmodel.Stats{Derived: 1, Children: 2})
func ExpectStats(t *testing.T, vm *viewmodel.ViewModel, want viewmodel.Stats) {
	t.Helper()
	got := vm.Stats()
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
