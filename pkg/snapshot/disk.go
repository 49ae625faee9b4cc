package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const diskExt = ".json"

// DiskStore persists snapshots as JSON files in a directory, one file
// per key. Writes go through a temp file and rename so a crash never
// leaves a half-written snapshot behind.
type DiskStore struct {
	dir string

	mu     sync.Mutex
	closed bool
}

// NewDiskStore creates a store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, key string, state State) error {
	if err := s.check(key); err != nil {
		return err
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *DiskStore) Load(ctx context.Context, key string) (State, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeState(data)
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	if err := s.check(""); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, diskExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, diskExt))
	}
	return keys, nil
}

func (s *DiskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// check validates the key and the closed flag in one place.
func (s *DiskStore) check(key string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrStoreClosed
	}
	if key != "" && (strings.ContainsAny(key, `/\`) || key == "." || key == "..") {
		return fmt.Errorf("invalid snapshot key %q", key)
	}
	return nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+diskExt)
}
