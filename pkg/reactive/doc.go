// Package reactive provides the reactive-value system that vmkit view
// models are built on.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := reactive.NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Memo[T] is a cached derived computation:
//
//	doubled := reactive.NewMemo(func() int { return count.Get() * 2 })
//	value := doubled.Get()  // Recomputes only if dependencies changed
//
// Subscription observes a single reactive value explicitly:
//
//	sub := reactive.NewSubscription(count, func(v any) {
//	    fmt.Println("count is now", v)
//	})
//	defer sub.Dispose()
//
// Effect runs a side effect and re-runs it when any value it read changes:
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Delivery Model
//
// Notification is synchronous: setting a signal delivers to memos,
// subscriptions, and effects on the calling goroutine before Set returns.
// Batch groups several writes into a single deduplicated notification
// phase.
//
// # Thread Safety
//
// All primitives are safe for concurrent use. Dependency tracking is
// per-goroutine, so closures handed to other goroutines do not observe
// the spawning goroutine's tracking state.
package reactive
