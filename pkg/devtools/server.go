package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmkit-dev/vmkit/pkg/middleware"
)

// ServerConfig configures the inspector server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":6070".
	Addr string

	// Hub is the event hub to serve. Required.
	Hub *Hub

	// Logger receives server logs. Defaults to a silent logger.
	Logger *slog.Logger

	// Registry serves /metrics and receives the middleware collectors.
	// Defaults to the global Prometheus registry.
	Registry *prometheus.Registry

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration
}

// Server serves the inspector HTTP surface: the live tree, the WebSocket
// event stream, health, and Prometheus metrics.
type Server struct {
	cfg  ServerConfig
	log  *slog.Logger
	hub  *Hub
	http *http.Server

	upgrader websocket.Upgrader
}

// NewServer creates an inspector server. Call Start to run it.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		cfg: cfg,
		log: logger,
		hub: cfg.Hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The inspector is a local development tool.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	metricsOpts := []middleware.MetricsOption{middleware.WithSubsystem("inspector")}
	if s.cfg.Registry != nil {
		metricsOpts = append(metricsOpts, middleware.WithRegistry(s.cfg.Registry))
	}
	r.Use(middleware.RequestMetrics(metricsOpts...))
	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("vmkit-inspector")))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/tree", s.handleTree)
	r.Get("/ws", s.handleWS)

	if s.cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return r
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully. It returns nil on clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("inspector listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("inspector shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.hub.Tree()); err != nil {
		s.log.Error("tree encode failed", "err", err)
	}
}

// handleWS upgrades the connection and streams lifecycle events to the
// client. The current tree is sent first as synthetic "created" events so
// clients start from a consistent picture.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	for _, node := range s.hub.Tree() {
		ev := Event{
			Type:     "created",
			ID:       node.ID,
			Name:     node.Name,
			ParentID: node.ParentID,
			Time:     node.CreatedAt,
		}
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}

	// Discard client reads; the stream is one-way. This also surfaces
	// close frames so the write loop below can exit.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				_ = conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
