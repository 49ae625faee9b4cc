package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine: the listener
// currently collecting dependencies and the batch bookkeeping.
type trackingContext struct {
	// currentListener is what's currently tracking dependencies.
	// When a value is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// batchDepth tracks nested Batch() calls.
	// When > 0, value updates queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the batch completes.
	// Deduplicated by ID before notification.
	pendingUpdates []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one if needed.
func getTrackingContext() *trackingContext {
	gid := goroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the listener currently collecting
// dependencies, or nil if no tracking is active.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener installs the listener for dependency tracking and
// returns the previous one so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1 and reports whether
// the outermost batch just completed.
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queuePendingUpdate records a listener to notify when the current batch
// completes.
func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns and clears the pending updates queue.
func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}

// WithListener runs fn with l installed as the tracking listener.
// Reads of signals and memos inside fn subscribe l.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}
