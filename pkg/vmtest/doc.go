// Package vmtest provides helpers for testing view models: recording
// disposables, failing disposables for error paths, and an observer
// that records lifecycle events.
package vmtest
