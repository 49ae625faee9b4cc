package snapshot

import (
	"context"
	"errors"
	"testing"
)

// counterVM is a minimal Snapshotter for tests.
type counterVM struct {
	count float64
	label string
}

func (c *counterVM) Snapshot() State {
	return State{"count": c.count, "label": c.label}
}

func (c *counterVM) Restore(state State) error {
	count, ok := state["count"].(float64)
	if !ok {
		return errors.New("missing count")
	}
	label, ok := state["label"].(string)
	if !ok {
		return errors.New("missing label")
	}
	c.count = count
	c.label = label
	return nil
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	src := &counterVM{count: 42, label: "answer"}
	if err := Save(ctx, store, "counter", src); err != nil {
		t.Fatal(err)
	}

	dst := &counterVM{}
	if err := Load(ctx, store, "counter", dst); err != nil {
		t.Fatal(err)
	}
	if dst.count != 42 || dst.label != "answer" {
		t.Errorf("restored %+v, want count=42 label=answer", dst)
	}
}

func TestLoadMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	dst := &counterVM{}
	err := Load(ctx, store, "nope", dst)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRestoreFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	if err := store.Save(ctx, "bad", State{"unrelated": true}); err != nil {
		t.Fatal(err)
	}

	dst := &counterVM{}
	if err := Load(ctx, store, "bad", dst); err == nil {
		t.Error("expected restore error")
	}
}
