package reactive

import "sync/atomic"

// Subscription is an explicit observation of a single reactive value.
// Unlike an Effect it does not track reads: it watches exactly the value
// it was created with, and delivers that value's current content to the
// callback synchronously on every change.
type Subscription struct {
	id uint64

	// source is the observed value.
	source Value

	// fn receives the source's content after each change.
	fn func(any)

	// disposed indicates the subscription has been detached.
	disposed atomic.Bool
}

// NewSubscription attaches fn to source and returns the subscription
// handle. source must be a non-nil Signal or Memo; callers that accept
// untyped sources should validate with IsValue first.
func NewSubscription(source Value, fn func(any)) *Subscription {
	s := &Subscription{
		id:     nextID(),
		source: source,
		fn:     fn,
	}
	source.core().subscribe(s)
	return s
}

// MarkDirty delivers the source's current content to the callback.
// Implements the Listener interface.
func (s *Subscription) MarkDirty() {
	if s.disposed.Load() {
		return
	}
	s.fn(s.source.peekAny())
}

// ID returns the unique identifier for this subscription.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Source returns the observed value.
func (s *Subscription) Source() Value {
	return s.source
}

// Dispose detaches the subscription from its source. Idempotent; the
// error return satisfies the viewmodel.Disposable contract.
func (s *Subscription) Dispose() error {
	if s.disposed.Swap(true) {
		return nil
	}
	s.source.core().unsubscribe(s)
	return nil
}

// IsDisposed reports whether Dispose has been called.
func (s *Subscription) IsDisposed() bool {
	return s.disposed.Load()
}
