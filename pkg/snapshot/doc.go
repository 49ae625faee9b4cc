// Package snapshot persists and restores view model state.
//
// A view model that implements Snapshotter exposes its serializable
// state as a flat map. Stores put that state somewhere durable:
// in-memory for tests, on disk for local development, or in S3 for
// shared environments.
//
// Basic usage:
//
//	store, _ := snapshot.NewDiskStore("./snapshots")
//	defer store.Close()
//
//	snapshot.Save(ctx, store, "editor", vm)
//	snapshot.Load(ctx, store, "editor", vm)
package snapshot
