package viewmodel

import (
	"errors"
	"testing"

	"github.com/vmkit-dev/vmkit/pkg/reactive"
)

// recDisposable records its dispose calls into a shared order slice.
type recDisposable struct {
	name     string
	order    *[]string
	disposed int
	err      error
}

func (d *recDisposable) Dispose() error {
	d.disposed++
	if d.order != nil {
		*d.order = append(*d.order, d.name)
	}
	return d.err
}

func TestDisposeCascade(t *testing.T) {
	vm := New()
	src := reactive.NewSignal(0)

	memo, err := Computed(vm, func() int { return src.Get() * 2 })
	if err != nil {
		t.Fatalf("Computed failed: %v", err)
	}
	_ = memo.Get()

	sub, err := vm.Subscribe(src, func(any) {})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	child := &recDisposable{name: "child"}
	if _, err := SubView(vm, func() Disposable { return child }); err != nil {
		t.Fatalf("SubView failed: %v", err)
	}

	if err := vm.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}

	if !memo.IsDisposed() {
		t.Error("computed should be disposed by the cascade")
	}
	if !sub.IsDisposed() {
		t.Error("subscription should be disposed by the cascade")
	}
	if child.disposed != 1 {
		t.Errorf("child should be disposed exactly once, got %d", child.disposed)
	}

	st := vm.Stats()
	if st.Derived != 0 || st.Subscriptions != 0 || st.Children != 0 {
		t.Errorf("all groups should be cleared, got %+v", st)
	}
}

func TestDisposeOrder(t *testing.T) {
	vm := New()
	src := reactive.NewSignal(0)

	var order []string

	if err := vm.OnDispose(func() error {
		order = append(order, "hook1")
		return nil
	}); err != nil {
		t.Fatalf("OnDispose failed: %v", err)
	}
	if err := vm.OnDispose(func() error {
		order = append(order, "hook2")
		return nil
	}); err != nil {
		t.Fatalf("OnDispose failed: %v", err)
	}

	if _, err := vm.Subscribe(src, func(any) {}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	c1 := &recDisposable{name: "child1", order: &order}
	c2 := &recDisposable{name: "child2", order: &order}
	if _, err := SubView(vm, func() Disposable { return c1 }); err != nil {
		t.Fatal(err)
	}
	if _, err := SubView(vm, func() Disposable { return c2 }); err != nil {
		t.Fatal(err)
	}

	if err := vm.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}

	want := []string{"hook1", "hook2", "child1", "child2"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestDisposeIdempotent(t *testing.T) {
	vm := New()
	child := &recDisposable{name: "child"}
	if _, err := SubView(vm, func() Disposable { return child }); err != nil {
		t.Fatal(err)
	}

	if err := vm.Dispose(); err != nil {
		t.Fatalf("first Dispose failed: %v", err)
	}
	if err := vm.Dispose(); err != nil {
		t.Errorf("second Dispose should be nil, got %v", err)
	}
	if child.disposed != 1 {
		t.Errorf("child should be disposed exactly once, got %d", child.disposed)
	}
}

func TestDisposeContinuesPastFailures(t *testing.T) {
	vm := New()

	errHook := errors.New("hook failed")
	errChild := errors.New("child failed")

	_ = vm.OnDispose(func() error { return errHook })

	bad := &recDisposable{name: "bad", err: errChild}
	good := &recDisposable{name: "good"}
	if _, err := SubView(vm, func() Disposable { return bad }); err != nil {
		t.Fatal(err)
	}
	if _, err := SubView(vm, func() Disposable { return good }); err != nil {
		t.Fatal(err)
	}

	err := vm.Dispose()
	if err == nil {
		t.Fatal("Dispose should report the cascade errors")
	}
	if !errors.Is(err, errHook) {
		t.Errorf("joined error should include the hook error, got %v", err)
	}
	if !errors.Is(err, errChild) {
		t.Errorf("joined error should include the child error, got %v", err)
	}
	if good.disposed != 1 {
		t.Error("later children must still be disposed after earlier failures")
	}
}

func TestRegistrationAfterDispose(t *testing.T) {
	vm := New()
	if err := vm.Dispose(); err != nil {
		t.Fatal(err)
	}

	src := reactive.NewSignal(0)

	if _, err := Computed(vm, func() int { return 1 }); !errors.Is(err, ErrDisposed) {
		t.Errorf("Computed after dispose should fail with ErrDisposed, got %v", err)
	}
	if _, err := vm.Subscribe(src, func(any) {}); !errors.Is(err, ErrDisposed) {
		t.Errorf("Subscribe after dispose should fail with ErrDisposed, got %v", err)
	}
	if _, err := SubView(vm, func() Disposable { return &recDisposable{} }); !errors.Is(err, ErrDisposed) {
		t.Errorf("SubView after dispose should fail with ErrDisposed, got %v", err)
	}
	if _, err := vm.NewChild(); !errors.Is(err, ErrDisposed) {
		t.Errorf("NewChild after dispose should fail with ErrDisposed, got %v", err)
	}
	if err := vm.OnDispose(func() error { return nil }); !errors.Is(err, ErrDisposed) {
		t.Errorf("OnDispose after dispose should fail with ErrDisposed, got %v", err)
	}

	st := vm.Stats()
	if st.Derived != 0 || st.Subscriptions != 0 || st.Children != 0 {
		t.Errorf("rejected registrations must not repopulate groups, got %+v", st)
	}
}

func TestSubscribeInvalidSource(t *testing.T) {
	vm := New()

	for _, source := range []any{nil, 42, "signal", struct{}{}, (*reactive.Signal[int])(nil)} {
		if _, err := vm.Subscribe(source, func(any) {}); !errors.Is(err, ErrInvalidSource) {
			t.Errorf("Subscribe(%T) should fail with ErrInvalidSource, got %v", source, err)
		}
	}

	if vm.Stats().Subscriptions != 0 {
		t.Error("failed Subscribe must not register anything")
	}
}

func TestSubscribeDelivers(t *testing.T) {
	vm := New()
	src := reactive.NewSignal(0)

	var got []int
	if _, err := SubscribeTo(vm, src, func(v int) {
		got = append(got, v)
	}); err != nil {
		t.Fatal(err)
	}

	src.Set(7)
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected delivery [7], got %v", got)
	}

	if err := vm.Dispose(); err != nil {
		t.Fatal(err)
	}
	src.Set(8)
	if len(got) != 1 {
		t.Errorf("disposed view model's subscriptions must not deliver, got %v", got)
	}
}

func TestSubscribeToMemoDelivers(t *testing.T) {
	vm := New()
	src := reactive.NewSignal(1)

	doubled, err := Computed(vm, func() int { return src.Get() * 2 })
	if err != nil {
		t.Fatal(err)
	}
	_ = doubled.Get()

	var got []int
	if _, err := SubscribeToMemo(vm, doubled, func(v int) {
		got = append(got, v)
	}); err != nil {
		t.Fatal(err)
	}

	src.Set(4)
	if len(got) != 1 || got[0] != 8 {
		t.Errorf("expected delivery [8], got %v", got)
	}
}

type widgetVM struct {
	a, b     int
	disposed int
}

func (w *widgetVM) Dispose() error {
	w.disposed++
	return nil
}

func TestSubViewIdentity(t *testing.T) {
	vm := New()

	direct := &widgetVM{a: 1, b: 2}
	scoped, err := SubView(vm, func() *widgetVM { return &widgetVM{a: 1, b: 2} })
	if err != nil {
		t.Fatal(err)
	}

	if scoped.a != direct.a || scoped.b != direct.b {
		t.Errorf("scoped construction should match direct construction: %+v vs %+v", scoped, direct)
	}
}

func TestDisposeSubView(t *testing.T) {
	vm := New()

	var order []string
	c1 := &recDisposable{name: "c1", order: &order}
	c2 := &recDisposable{name: "c2", order: &order}
	c3 := &recDisposable{name: "c3", order: &order}
	for _, c := range []*recDisposable{c1, c2, c3} {
		c := c
		if _, err := SubView(vm, func() Disposable { return c }); err != nil {
			t.Fatal(err)
		}
	}

	if err := vm.DisposeSubView(c2); err != nil {
		t.Fatalf("DisposeSubView failed: %v", err)
	}
	if c2.disposed != 1 {
		t.Errorf("removed child should be disposed exactly once, got %d", c2.disposed)
	}
	if st := vm.Stats(); st.Children != 2 {
		t.Errorf("expected 2 remaining children, got %d", st.Children)
	}

	// Remaining children keep their relative order through the cascade.
	order = order[:0]
	if err := vm.Dispose(); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "c1" || order[1] != "c3" {
		t.Errorf("expected remaining order [c1 c3], got %v", order)
	}
	if c2.disposed != 1 {
		t.Errorf("removed child must not be disposed again, got %d", c2.disposed)
	}
}

func TestDisposeSubViewAbsent(t *testing.T) {
	vm := New()
	present := &recDisposable{name: "present"}
	if _, err := SubView(vm, func() Disposable { return present }); err != nil {
		t.Fatal(err)
	}

	stranger := &recDisposable{name: "stranger"}
	if err := vm.DisposeSubView(stranger); err != nil {
		t.Errorf("absent child should be a silent no-op, got %v", err)
	}
	if stranger.disposed != 0 {
		t.Error("absent child must not be disposed")
	}
	if vm.Stats().Children != 1 {
		t.Error("child group must be untouched by the no-op")
	}

	if err := vm.DisposeSubView(nil); err != nil {
		t.Errorf("nil child should be a silent no-op, got %v", err)
	}
}

func TestDisposeSubViewPropagatesChildError(t *testing.T) {
	vm := New()
	errChild := errors.New("boom")
	bad := &recDisposable{name: "bad", err: errChild}
	if _, err := SubView(vm, func() Disposable { return bad }); err != nil {
		t.Fatal(err)
	}

	if err := vm.DisposeSubView(bad); !errors.Is(err, errChild) {
		t.Errorf("expected the child's dispose error, got %v", err)
	}
}

func TestNewChildCascades(t *testing.T) {
	root := New(WithName("root"))
	child, err := root.NewChild(WithName("child"))
	if err != nil {
		t.Fatal(err)
	}
	grandchild, err := child.NewChild()
	if err != nil {
		t.Fatal(err)
	}

	if err := root.Dispose(); err != nil {
		t.Fatal(err)
	}
	if !child.IsDisposed() {
		t.Error("child should be disposed with root")
	}
	if !grandchild.IsDisposed() {
		t.Error("grandchild should be disposed with root")
	}
}

func TestEffectScoped(t *testing.T) {
	vm := New()
	src := reactive.NewSignal(0)

	runs := 0
	e, err := vm.Effect(func() reactive.Cleanup {
		runs++
		_ = src.Get()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Fatalf("effect should run immediately, got %d runs", runs)
	}

	src.Set(1)
	if runs != 2 {
		t.Errorf("expected re-run, got %d runs", runs)
	}

	if err := vm.Dispose(); err != nil {
		t.Fatal(err)
	}
	if !e.IsDisposed() {
		t.Error("effect should be disposed by the cascade")
	}
	src.Set(2)
	if runs != 2 {
		t.Errorf("disposed effect must not re-run, got %d runs", runs)
	}
}

func TestComputedBehavesLikeMemo(t *testing.T) {
	vm := New()
	src := reactive.NewSignal(3)

	tripled, err := Computed(vm, func() int { return src.Get() * 3 })
	if err != nil {
		t.Fatal(err)
	}

	if tripled.Get() != 9 {
		t.Errorf("expected 9, got %d", tripled.Get())
	}
	src.Set(4)
	if tripled.Get() != 12 {
		t.Errorf("expected 12, got %d", tripled.Get())
	}
}

func TestViewModelIdentity(t *testing.T) {
	a := New(WithName("a"))
	b := New()

	if a.ID() == b.ID() {
		t.Error("view models should have distinct IDs")
	}
	if a.Name() != "a" {
		t.Errorf("expected name %q, got %q", "a", a.Name())
	}
	if b.Name() != "" {
		t.Errorf("expected empty name, got %q", b.Name())
	}
	if a.IsDisposed() {
		t.Error("fresh view model should not be disposed")
	}
}
