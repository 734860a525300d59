// Package app is the composition root: it wires configuration, logging, the
// tool catalogue, persistence, and the transports into a running server.
package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/flemzord/popmcp/internal/config"
	"github.com/flemzord/popmcp/internal/executor"
	"github.com/flemzord/popmcp/internal/gateway"
	"github.com/flemzord/popmcp/internal/history"
	"github.com/flemzord/popmcp/internal/mcpserver"
	"github.com/flemzord/popmcp/internal/node"
	"github.com/flemzord/popmcp/internal/pop"
	"github.com/flemzord/popmcp/internal/security"
	"github.com/flemzord/popmcp/internal/tool"
	"github.com/flemzord/popmcp/internal/watchdog"
)

// Options selects how the server runs.
type Options struct {
	Config  *config.Config
	Version string

	// HTTPAddr switches the MCP transport from stdio to streamable HTTP.
	HTTPAddr string
}

// Run wires everything and blocks serving the MCP transport.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	logger := NewLogger(cfg.Log.Level)

	var hist *history.Store
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history store unavailable, continuing without persistence", "error", err)
		} else {
			hist = store
			defer hist.Close()
		}
	}

	tracker := node.NewTracker()
	restoreNodes(ctx, tracker, hist, logger)

	reg := tool.NewRegistry()
	pop.Register(reg, pop.Options{ExtraMarkers: cfg.Pop.FailureMarkers})

	deps := tool.Deps{
		Exec:       executor.NewLocal(logger),
		Program:    cfg.Pop.Binary,
		Tracker:    tracker,
		History:    hist,
		Logger:     logger,
		SURI:       security.SURI,
		DefaultURL: cfg.Pop.DefaultURL,
	}

	metrics := gateway.NewMetrics()
	dispatcher := tool.NewDispatcher(reg, deps, metrics)

	if cfg.Gateway.Enabled {
		gw := gateway.New(cfg.Gateway, logger, metrics, reg, tracker)
		if err := gw.Start(); err != nil {
			return err
		}
		defer func() { _ = gw.Stop(context.Background()) }()
	}

	if cfg.Watchdog.Enabled {
		wd := watchdog.New(cfg.Watchdog.Schedule, tracker, hist, logger)
		if err := wd.Start(); err != nil {
			return err
		}
		defer wd.Stop()
	}

	srv := mcpserver.New(opts.Version, reg, dispatcher, logger)
	if opts.HTTPAddr != "" {
		return srv.ServeHTTP(opts.HTTPAddr)
	}
	return srv.ServeStdio()
}

// restoreNodes reloads node records persisted by a previous run, so URL
// fallback and clean_nodes keep working across restarts.
func restoreNodes(ctx context.Context, tracker *node.Tracker, hist *history.Store, logger *slog.Logger) {
	if hist == nil {
		return
	}
	nodes, err := hist.ListNodes(ctx)
	if err != nil {
		logger.Warn("failed to restore persisted nodes", "error", err)
		return
	}
	for _, n := range nodes {
		tracker.Set(n)
		logger.Info("restored tracked node", "kind", string(n.Kind), "url", n.WSURL)
	}
}

// NewLogger builds the redacting stderr logger. Stdout belongs to the MCP
// stdio transport and must stay clean of log lines.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	redactor := security.NewRedactor()
	if suri, ok := security.SURI(); ok {
		redactor.AddLiteral(suri)
	}
	return slog.New(security.NewRedactingHandler(inner, redactor))
}
