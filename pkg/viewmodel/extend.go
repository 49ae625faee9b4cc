package viewmodel

// Builder constructs values of T from loosely-typed constructor
// arguments. It is the unit of composition for Extend: a "type" is just a
// builder, and an "extended type" is a builder that runs its parent
// first.
type Builder[T any] func(args ...any) *T

// Init is an initializer step applied to an already-constructed value.
// It receives the same arguments the builder was invoked with and
// attaches or overrides fields on v in place.
type Init[T any] func(v *T, args ...any)

// Extend composes parent with init into a new builder. Invoking the
// result constructs the base value through parent (forwarding args when
// passArgsToParent is true, with no arguments otherwise), then applies
// init to that same value with all args, and returns it.
//
// This is flat composition on one concrete struct: there is no type
// hierarchy and no virtual dispatch, and panics from parent or init
// propagate to the caller unhandled.
func Extend[T any](parent Builder[T], init Init[T], passArgsToParent bool) Builder[T] {
	return func(args ...any) *T {
		var v *T
		if passArgsToParent {
			v = parent(args...)
		} else {
			v = parent()
		}
		if init != nil {
			init(v, args...)
		}
		return v
	}
}

// Extend derives a further builder from b, so extension chains read
// naturally:
//
//	Base := viewmodel.Builder[Widget](newWidget)
//	Child := Base.Extend(childInit, true)
//	GrandChild := Child.Extend(grandChildInit, true)
//
// Each level is one more initializer step applied to the same value, in
// registration order.
func (b Builder[T]) Extend(init Init[T], passArgsToParent bool) Builder[T] {
	return Extend(b, init, passArgsToParent)
}

// New invokes the builder. Equivalent to calling it directly; reads
// better at call sites that treat builders as types.
func (b Builder[T]) New(args ...any) *T {
	return b(args...)
}
