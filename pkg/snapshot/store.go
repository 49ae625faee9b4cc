package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// State is the serializable state of a view model, keyed by field name.
type State map[string]any

// Snapshotter is implemented by view models that can persist their state.
type Snapshotter interface {
	// Snapshot returns the current state. The returned map must not be
	// retained or mutated by the view model afterwards.
	Snapshot() State

	// Restore applies a previously saved state.
	Restore(State) error
}

// Store persists named snapshots.
type Store interface {
	// Save writes the snapshot under the given key, replacing any
	// previous snapshot with that key.
	Save(ctx context.Context, key string, state State) error

	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (State, error)

	// Delete removes the snapshot stored under key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored snapshots.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store. Operations on a
	// closed store return ErrStoreClosed.
	Close() error
}

var (
	// ErrNotFound is returned by Load when no snapshot exists for the key.
	ErrNotFound = errors.New("snapshot: not found")

	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("snapshot: store closed")
)

// Save captures the Snapshotter's state and writes it to the store.
func Save(ctx context.Context, store Store, key string, s Snapshotter) error {
	state := s.Snapshot()
	if err := store.Save(ctx, key, state); err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

// Load reads the snapshot under key and restores it into the Snapshotter.
func Load(ctx context.Context, store Store, key string, s Snapshotter) error {
	state, err := store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load snapshot %q: %w", key, err)
	}
	if err := s.Restore(state); err != nil {
		return fmt.Errorf("restore snapshot %q: %w", key, err)
	}
	return nil
}

func encodeState(state State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}
