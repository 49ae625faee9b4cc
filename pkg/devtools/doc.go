// Package devtools provides a lifecycle inspector for vmkit view models.
//
// A Hub observes a view-model tree via the viewmodel.Observer interface,
// keeps a live picture of every view model and its resource counts, and
// broadcasts lifecycle events to WebSocket clients. A Server exposes the
// hub over HTTP: the tree as JSON, the event stream on /ws, health on
// /healthz, and Prometheus metrics on /metrics.
//
//	hub := devtools.NewHub(logger)
//	metrics := devtools.NewMetrics(prometheus.DefaultRegisterer)
//	root := viewmodel.New(viewmodel.WithObserver(viewmodel.Observers(hub, metrics)))
//
//	srv := devtools.NewServer(devtools.ServerConfig{Addr: ":6070", Hub: hub})
//	go srv.Start(ctx)
package devtools
