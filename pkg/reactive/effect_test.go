package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	NewEffect(func() Cleanup {
		runs++
		return nil
	})

	if runs != 1 {
		t.Errorf("effect should run on creation, got %d runs", runs)
	}
}

func TestEffectRerunsOnChange(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		_ = count.Get()
		return nil
	})

	count.Set(1)
	count.Set(2)

	if runs != 3 {
		t.Errorf("expected 3 runs (initial + 2 changes), got %d", runs)
	}
}

func TestEffectCleanupBetweenRuns(t *testing.T) {
	count := NewSignal(0)

	var order []string
	NewEffect(func() Cleanup {
		_ = count.Get()
		order = append(order, "run")
		return func() {
			order = append(order, "cleanup")
		}
	})

	count.Set(1)

	want := []string{"run", "cleanup", "run"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	cleanups := 0
	e := NewEffect(func() Cleanup {
		runs++
		_ = count.Get()
		return func() { cleanups++ }
	})

	if err := e.Dispose(); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if cleanups != 1 {
		t.Errorf("dispose should run final cleanup, got %d", cleanups)
	}
	if !e.IsDisposed() {
		t.Error("effect should report disposed")
	}

	count.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect should not re-run, got %d runs", runs)
	}

	if err := e.Dispose(); err != nil {
		t.Errorf("second dispose should be nil, got %v", err)
	}
	if cleanups != 1 {
		t.Errorf("second dispose should not run cleanup again, got %d", cleanups)
	}
}

func TestEffectRetracksDependencies(t *testing.T) {
	useFirst := NewSignal(true)
	first := NewSignal("a")
	second := NewSignal("x")

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		if useFirst.Get() {
			_ = first.Get()
		} else {
			_ = second.Get()
		}
		return nil
	})

	// Tracked: useFirst, first.
	second.Set("y")
	if runs != 1 {
		t.Errorf("untracked signal should not re-run effect, got %d runs", runs)
	}

	useFirst.Set(false)
	if runs != 2 {
		t.Fatalf("expected re-run on branch switch, got %d runs", runs)
	}

	// Now second is tracked, first is not.
	first.Set("b")
	if runs != 2 {
		t.Errorf("dropped dependency should not re-run effect, got %d runs", runs)
	}
	second.Set("z")
	if runs != 3 {
		t.Errorf("expected re-run on new dependency, got %d runs", runs)
	}
}
