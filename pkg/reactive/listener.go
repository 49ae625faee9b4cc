package reactive

// Listener is anything that can be notified when a reactive value changes.
// It is implemented by memos, subscriptions, and effects.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For memos this invalidates the cached value; for subscriptions and
	// effects it delivers/re-runs synchronously.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()
