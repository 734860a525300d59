// Package watchdog runs a scheduled liveness check over tracked nodes. A
// node that stops answering its WebSocket endpoint is dropped from the
// tracker and the history store, so tools stop defaulting to a dead URL.
package watchdog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flemzord/popmcp/internal/history"
	"github.com/flemzord/popmcp/internal/node"
)

// probeTimeout bounds each liveness dial.
const probeTimeout = 5 * time.Second

// Watchdog periodically probes tracked nodes.
type Watchdog struct {
	schedule string
	tracker  *node.Tracker
	history  *history.Store // may be nil
	logger   *slog.Logger

	lock sync.Mutex // TryLock guard: overlapping ticks are skipped
	cron *cron.Cron
}

// New creates a watchdog. history may be nil when persistence is disabled.
func New(schedule string, tracker *node.Tracker, hist *history.Store, logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		schedule: schedule,
		tracker:  tracker,
		history:  hist,
		logger:   logger,
	}
}

// Start schedules the check. Returns an error for an invalid schedule
// expression.
func (w *Watchdog) Start() error {
	w.cron = cron.New()

	_, err := w.cron.AddFunc(w.schedule, func() {
		// TryLock is atomic; if the previous tick is still probing, skip.
		if !w.lock.TryLock() {
			w.logger.Warn("watchdog tick still running, skipping")
			return
		}
		defer w.lock.Unlock()
		w.Check(context.Background())
	})
	if err != nil {
		return fmt.Errorf("watchdog: invalid schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.logger.Info("watchdog started", "schedule", w.schedule)
	return nil
}

// Stop shuts the scheduler down, waiting for an in-flight check.
func (w *Watchdog) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
		w.logger.Info("watchdog stopped")
	}
}

// Check probes every tracked node once and drops the dead ones.
func (w *Watchdog) Check(ctx context.Context) {
	for _, n := range w.tracker.All() {
		if n.WSURL == "" {
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := node.Probe(probeCtx, n.WSURL)
		cancel()
		if err == nil {
			continue
		}

		w.logger.Info("tracked node is gone, dropping it",
			"kind", string(n.Kind),
			"url", n.WSURL,
			"error", err,
		)
		w.tracker.Remove(n.Kind)
		if w.history != nil {
			if derr := w.history.DeleteNode(ctx, n.Kind); derr != nil {
				w.logger.Warn("failed to drop persisted node record", "error", derr)
			}
		}
	}
}
