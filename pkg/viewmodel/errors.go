package viewmodel

import "errors"

// ErrInvalidSource is returned by Subscribe when the source argument is
// not a reactive value. The check is eager: no subscription side effect
// has happened when this error is returned.
var ErrInvalidSource = errors.New("viewmodel: subscribe source is not a reactive value")

// ErrDisposed is returned when a registration operation (Computed,
// Subscribe, Effect, SubView, NewChild, OnDispose) is called on a view
// model that has already been disposed.
var ErrDisposed = errors.New("viewmodel: view model is disposed")
