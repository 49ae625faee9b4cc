package viewmodel

// ResourceKind identifies which of a view model's groups a registered
// resource belongs to.
type ResourceKind uint8

const (
	KindComputed ResourceKind = iota + 1
	KindSubscription
	KindSubView
)

// String returns a human-readable name for the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case KindComputed:
		return "computed"
	case KindSubscription:
		return "subscription"
	case KindSubView:
		return "subview"
	default:
		return "unknown"
	}
}

// Observer receives view-model lifecycle events. Implementations must be
// safe for concurrent use; callbacks run synchronously on the goroutine
// performing the operation.
//
// Observers are inherited by children created via NewChild, so attaching
// one to a root view model instruments the whole tree.
type Observer interface {
	// ViewModelCreated is called when a view model is constructed.
	// parent is nil for root view models.
	ViewModelCreated(vm *ViewModel, parent *ViewModel)

	// ResourceRegistered is called after a resource is appended to one of
	// the view model's groups.
	ResourceRegistered(vm *ViewModel, kind ResourceKind)

	// ViewModelDisposed is called after the disposal cascade finishes.
	// err is the joined cascade error, or nil.
	ViewModelDisposed(vm *ViewModel, err error)
}

// multiObserver fans events out to several observers in order.
type multiObserver []Observer

func (m multiObserver) ViewModelCreated(vm *ViewModel, parent *ViewModel) {
	for _, o := range m {
		o.ViewModelCreated(vm, parent)
	}
}

func (m multiObserver) ResourceRegistered(vm *ViewModel, kind ResourceKind) {
	for _, o := range m {
		o.ResourceRegistered(vm, kind)
	}
}

func (m multiObserver) ViewModelDisposed(vm *ViewModel, err error) {
	for _, o := range m {
		o.ViewModelDisposed(vm, err)
	}
}

// Observers combines several observers into one. Nil entries are skipped;
// combining zero observers returns nil.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 0 {
		return nil
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}
