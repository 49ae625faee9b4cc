// Package middleware provides HTTP middleware for vmkit's inspector
// server: Prometheus request metrics and OpenTelemetry tracing.
//
// Both middlewares are standard func(http.Handler) http.Handler wrappers
// and compose with chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestMetrics())
//	r.Use(middleware.OpenTelemetry())
package middleware
