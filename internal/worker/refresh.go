package worker

import (
	"context"
	"log/slog"
	"time"
)

// Refresher replaces the current rate snapshot with a fresh one.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AfterRefreshHook is called after each successful refresh.
type AfterRefreshHook interface {
	Publish(ctx context.Context) error
}

// RefreshWorker periodically refreshes exchange rates.
type RefreshWorker struct {
	refresher Refresher
	interval  time.Duration
	hook      AfterRefreshHook // optional
}

// NewRefreshWorker creates a new RefreshWorker with an optional post-refresh hook.
func NewRefreshWorker(refresher Refresher, interval time.Duration, hook AfterRefreshHook) *RefreshWorker {
	return &RefreshWorker{
		refresher: refresher,
		interval:  interval,
		hook:      hook,
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) {
	slog.Info("RefreshWorker: starting", "interval", w.interval)

	// Refresh immediately on startup
	w.refresh(ctx, "initial refresh")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RefreshWorker: shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx, "refresh")
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context, label string) {
	start := time.Now()
	if err := w.refresher.Refresh(ctx); err != nil {
		slog.Error("RefreshWorker: "+label+" failed, serving previous rates", "error", err)
		return
	}
	slog.Info("RefreshWorker: "+label+" completed", "duration", time.Since(start))
	w.runHook(ctx)
}

func (w *RefreshWorker) runHook(ctx context.Context) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Publish(ctx); err != nil {
		slog.Error("RefreshWorker: publish hook failed", "error", err)
	} else {
		slog.Info("RefreshWorker: publish hook completed")
	}
}
