// Package gateway is the optional HTTP sidecar: health, status, and metrics
// endpoints for operating the server. It is a leaf module; nothing imports it
// except the application wiring.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flemzord/popmcp/internal/config"
	"github.com/flemzord/popmcp/internal/node"
	"github.com/flemzord/popmcp/internal/tool"
)

// Gateway serves the operational HTTP endpoints.
type Gateway struct {
	config    config.GatewayConfig
	logger    *slog.Logger
	metrics   *Metrics
	registry  *tool.Registry
	tracker   *node.Tracker
	server    *http.Server
	startedAt time.Time
}

// New wires a gateway. metrics, registry, and tracker are shared with the
// dispatcher.
func New(cfg config.GatewayConfig, logger *slog.Logger, metrics *Metrics, registry *tool.Registry, tracker *node.Tracker) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
		tracker:  tracker,
	}
}

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", g.handleHealth())
	r.Get("/status", g.handleStatus())
	r.Get("/metrics", g.handleMetrics())

	return r
}

// Start begins serving. Non-blocking; serve errors are logged.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully with the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
