package reactive

// Batch groups multiple value updates into a single notification phase.
// Notifications raised inside the batch are collected, deduplicated by
// listener ID, and delivered once when the outermost batch completes.
//
// Example:
//
//	reactive.Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
//	// Listeners of both signals are notified once.
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all queued listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// Untracked runs fn without tracking reads as dependencies.
// For a single read, Peek is the clearer choice.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
