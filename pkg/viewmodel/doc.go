// Package viewmodel provides disposable view models: lifecycle scopes
// that own the derived values, subscriptions, and child view models
// created through them, and release all of them with one Dispose call.
//
// A view model owns three ordered groups. Computed registers a derived
// value, Subscribe (and Effect) register observations, and SubView or
// NewChild register children. Dispose cascades in a fixed order (dispose
// hooks first, then derived values, subscriptions, and children), each
// group in insertion order. The cascade continues past individual failures and
// returns them joined.
//
//	vm := viewmodel.New(viewmodel.WithName("search"))
//	query := reactive.NewSignal("")
//	results, _ := viewmodel.Computed(vm, func() []string { return search(query.Get()) })
//	vm.Subscribe(results, func(v any) { render(v.([]string)) })
//	defer vm.Dispose()
//
// A disposed view model rejects further registration with ErrDisposed.
//
// The package also provides Extend, a constructor-composition helper that
// emulates single-level extension by applying initializer steps to one
// concrete struct, with no type hierarchy involved.
package viewmodel
