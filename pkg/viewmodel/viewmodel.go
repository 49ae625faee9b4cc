package viewmodel

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/vmkit-dev/vmkit/pkg/reactive"
)

// Disposable is anything that can be released exactly once.
// reactive.Memo, reactive.Subscription, reactive.Effect, and ViewModel
// itself all satisfy it.
type Disposable interface {
	Dispose() error
}

// vmIDCounter is the source of view-model IDs, separate from the
// reactive primitive ID space.
var vmIDCounter uint64

func nextVMID() uint64 {
	return atomic.AddUint64(&vmIDCounter, 1)
}

// ViewModel is a lifecycle scope. Every derived value, subscription, and
// child created through it is recorded in one of three ordered groups and
// released by Dispose.
//
// A ViewModel is safe for concurrent use, though the intended model is a
// single logical thread of control per instance.
type ViewModel struct {
	id   uint64
	name string

	mu sync.Mutex

	// The three owned groups, each in insertion order.
	derived  []Disposable
	subs     []Disposable
	children []Disposable

	// hooks run first during the disposal cascade, in registration order.
	hooks []func() error

	// observer receives lifecycle events; inherited by NewChild children.
	observer Observer

	// disposed flips exactly once.
	disposed atomic.Bool
}

// Option configures a ViewModel at construction.
type Option func(*ViewModel)

// WithName sets a diagnostic name, surfaced to observers and inspectors.
func WithName(name string) Option {
	return func(vm *ViewModel) {
		vm.name = name
	}
}

// WithObserver attaches a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(vm *ViewModel) {
		vm.observer = o
	}
}

// New creates a root view model.
func New(opts ...Option) *ViewModel {
	return newViewModel(nil, opts...)
}

func newViewModel(parent *ViewModel, opts ...Option) *ViewModel {
	vm := &ViewModel{id: nextVMID()}
	if parent != nil {
		vm.observer = parent.observer
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.observer != nil {
		vm.observer.ViewModelCreated(vm, parent)
	}
	return vm
}

// ID returns the unique identifier for this view model.
func (vm *ViewModel) ID() uint64 {
	return vm.id
}

// Name returns the diagnostic name, or "" if none was set.
func (vm *ViewModel) Name() string {
	return vm.name
}

// IsDisposed reports whether Dispose has been called.
func (vm *ViewModel) IsDisposed() bool {
	return vm.disposed.Load()
}

// Stats is a point-in-time count of a view model's owned groups.
type Stats struct {
	Derived       int
	Subscriptions int
	Children      int
}

// Stats returns the current group sizes.
func (vm *ViewModel) Stats() Stats {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Stats{
		Derived:       len(vm.derived),
		Subscriptions: len(vm.subs),
		Children:      len(vm.children),
	}
}

// Computed creates a derived value scoped to vm. It behaves exactly like
// reactive.NewMemo except that the returned memo is also recorded in vm's
// derived-value group and disposed with it.
func Computed[T any](vm *ViewModel, compute func() T) (*reactive.Memo[T], error) {
	vm.mu.Lock()
	if vm.disposed.Load() {
		vm.mu.Unlock()
		return nil, ErrDisposed
	}
	m := reactive.NewMemo(compute)
	vm.derived = append(vm.derived, m)
	vm.mu.Unlock()

	vm.notifyRegistered(KindComputed)
	return m, nil
}

// Subscribe registers an observation of source scoped to vm. source must
// be a reactive value (a Signal or Memo); anything else fails with
// ErrInvalidSource before any subscription side effect. The callback
// receives the source's current content on every change.
func (vm *ViewModel) Subscribe(source any, fn func(any)) (*reactive.Subscription, error) {
	if !reactive.IsValue(source) {
		return nil, ErrInvalidSource
	}
	src := source.(reactive.Value)

	vm.mu.Lock()
	if vm.disposed.Load() {
		vm.mu.Unlock()
		return nil, ErrDisposed
	}
	sub := reactive.NewSubscription(src, fn)
	vm.subs = append(vm.subs, sub)
	vm.mu.Unlock()

	vm.notifyRegistered(KindSubscription)
	return sub, nil
}

// SubscribeTo is the typed form of Subscribe for signals.
func SubscribeTo[T any](vm *ViewModel, source *reactive.Signal[T], fn func(T)) (*reactive.Subscription, error) {
	return vm.Subscribe(source, func(v any) {
		fn(v.(T))
	})
}

// SubscribeToMemo is the typed form of Subscribe for memos.
func SubscribeToMemo[T any](vm *ViewModel, source *reactive.Memo[T], fn func(T)) (*reactive.Subscription, error) {
	return vm.Subscribe(source, func(v any) {
		fn(v.(T))
	})
}

// Effect registers an auto-tracked side effect scoped to vm. The effect
// runs immediately and re-runs when any value it read changes; it lives
// in the subscriptions group and is disposed with it.
func (vm *ViewModel) Effect(fn func() reactive.Cleanup) (*reactive.Effect, error) {
	vm.mu.Lock()
	if vm.disposed.Load() {
		vm.mu.Unlock()
		return nil, ErrDisposed
	}
	vm.mu.Unlock()

	// The first run happens here, outside vm.mu, so the effect body may
	// call back into vm.
	e := reactive.NewEffect(fn)

	vm.mu.Lock()
	if vm.disposed.Load() {
		vm.mu.Unlock()
		_ = e.Dispose()
		return nil, ErrDisposed
	}
	vm.subs = append(vm.subs, e)
	vm.mu.Unlock()

	vm.notifyRegistered(KindSubscription)
	return e, nil
}

// SubView constructs a child through construct, exactly as the caller
// would have, records it in vm's child group, and returns it unchanged.
// Panics from construct propagate to the caller.
func SubView[T Disposable](vm *ViewModel, construct func() T) (T, error) {
	var zero T
	if vm.disposed.Load() {
		return zero, ErrDisposed
	}

	// Construct outside vm.mu: constructors are allowed to register
	// resources on vm themselves.
	child := construct()

	vm.mu.Lock()
	if vm.disposed.Load() {
		vm.mu.Unlock()
		_ = child.Dispose()
		return zero, ErrDisposed
	}
	vm.children = append(vm.children, child)
	vm.mu.Unlock()

	vm.notifyRegistered(KindSubView)
	return child, nil
}

// NewChild creates a child view model recorded in vm's child group.
// The child inherits vm's observer unless WithObserver overrides it.
func (vm *ViewModel) NewChild(opts ...Option) (*ViewModel, error) {
	if vm.disposed.Load() {
		return nil, ErrDisposed
	}

	child := newViewModel(vm, opts...)

	vm.mu.Lock()
	if vm.disposed.Load() {
		vm.mu.Unlock()
		_ = child.Dispose()
		return nil, ErrDisposed
	}
	vm.children = append(vm.children, child)
	vm.mu.Unlock()

	vm.notifyRegistered(KindSubView)
	return child, nil
}

// OnDispose registers a hook to run first during the disposal cascade.
// Hooks run in registration order; a hook error joins the cascade error
// but does not stop later hooks or groups.
func (vm *ViewModel) OnDispose(fn func() error) error {
	if fn == nil {
		return nil
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.disposed.Load() {
		return ErrDisposed
	}
	vm.hooks = append(vm.hooks, fn)
	return nil
}

// Dispose releases everything the view model owns: dispose hooks first,
// then derived values, then subscriptions, then children, each group in
// insertion order. The cascade continues past failures; all errors are
// returned joined. Dispose is idempotent; subsequent calls return nil.
func (vm *ViewModel) Dispose() error {
	if vm.disposed.Swap(true) {
		return nil
	}

	vm.mu.Lock()
	hooks := vm.hooks
	derived := vm.derived
	subs := vm.subs
	children := vm.children
	vm.hooks = nil
	vm.derived = nil
	vm.subs = nil
	vm.children = nil
	vm.mu.Unlock()

	var errs []error
	for _, h := range hooks {
		if err := h(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range derived {
		if err := d.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range subs {
		if err := s.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range children {
		if err := c.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if vm.observer != nil {
		vm.observer.ViewModelDisposed(vm, err)
	}
	return err
}

// DisposeSubView disposes a single child ahead of the cascade. If child
// is present in the child group it is removed and disposed, returning
// its dispose error. The remaining children keep their relative order.
// An absent or nil child is a silent no-op.
//
// Children are matched by identity, so sub-view types should be pointers.
func (vm *ViewModel) DisposeSubView(child Disposable) error {
	if child == nil {
		return nil
	}

	vm.mu.Lock()
	idx := -1
	for i, c := range vm.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		vm.mu.Unlock()
		return nil
	}
	vm.children = append(vm.children[:idx], vm.children[idx+1:]...)
	vm.mu.Unlock()

	return child.Dispose()
}

func (vm *ViewModel) notifyRegistered(kind ResourceKind) {
	if vm.observer != nil {
		vm.observer.ResourceRegistered(vm, kind)
	}
}

var _ Disposable = (*ViewModel)(nil)
