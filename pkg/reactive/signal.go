package reactive

import (
	"reflect"
	"sync"
)

// signalCore provides type-erased subscriber management.
// It is embedded in Signal[T] and Memo[T] to share subscription logic.
type signalCore struct {
	id uint64

	// subs are the listeners subscribed to this value.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID.
func (c *signalCore) subscribe(l Listener) {
	if l == nil {
		return
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for _, existing := range c.subs {
		if existing.ID() == lid {
			return
		}
	}

	c.subs = append(c.subs, l)
}

// unsubscribe removes a listener.
func (c *signalCore) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for i, existing := range c.subs {
		if existing.ID() == lid {
			// Swap-remove; subscriber order carries no meaning.
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// notifySubscribers notifies all subscribers that this value changed.
// Copies the subscriber list before notifying so no lock is held during
// listener callbacks.
func (c *signalCore) notifySubscribers() {
	c.subMu.RLock()
	subs := make([]Listener, len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Value is the type-erased view of a reactive value. It is implemented by
// Signal[T] and Memo[T]; nothing outside this package can satisfy it.
type Value interface {
	// ID returns the unique identifier for this value.
	ID() uint64

	// core exposes the subscriber list to subscriptions.
	core() *signalCore

	// peekAny returns the current content without tracking.
	peekAny() any
}

// IsValue reports whether v is a usable reactive value (a Signal or Memo,
// and not a typed nil pointer).
func IsValue(v any) bool {
	rv, ok := v.(Value)
	if !ok {
		return false
	}
	p := reflect.ValueOf(rv)
	return p.Kind() != reflect.Pointer || !p.IsNil()
}

// Signal is a reactive value container.
// Reading a Signal's value during a tracked context (memo computation,
// effect execution, or WithListener) automatically subscribes the current
// listener to change notifications.
type Signal[T any] struct {
	base signalCore

	// value is the current content.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal decides whether a write changed the value.
	// If nil, defaultEquals is used.
	equal func(T, T) bool
}

// NewSignal creates a new signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base: signalCore{
			id: nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener,
// if one is tracking.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Track dependency after releasing the value lock.
	if listener := getCurrentListener(); listener != nil {
		s.base.subscribe(listener)

		if tr, ok := listener.(sourceTracker); ok {
			tr.addSource(&s.base)
		}
	}

	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Update atomically reads and rewrites the value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// WithEquals configures a custom equality function and returns the signal.
// Useful where reflect.DeepEqual is too expensive or semantically wrong.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) core() *signalCore {
	return &s.base
}

func (s *Signal[T]) peekAny() any {
	return s.Peek()
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality: == for the common
// comparable kinds, reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// sourceTracker is implemented by listeners that record which values they
// read, so those edges can be severed on re-run or disposal.
type sourceTracker interface {
	Listener
	addSource(source *signalCore)
}
