package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/observability/metrics"
)

// ExpiryWorker periodically counts rentals whose end date has passed
// and publishes the totals as gauges. It never mutates data: expired
// agreements stay on record until someone deletes them.
type ExpiryWorker struct {
	store    domain.Store
	logger   *slog.Logger
	interval time.Duration
}

// NewExpiryWorker creates a new expiry worker
func NewExpiryWorker(store domain.Store, logger *slog.Logger, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{store: store, logger: logger, interval: interval}
}

// Start begins the sweep loop. It runs one sweep immediately so the
// gauges are populated right after boot.
func (w *ExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("expiry worker started", slog.Duration("interval", w.interval))
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	today := domain.FormatDate(time.Now())

	rentals, err := w.store.Rentals().List(ctx)
	if err != nil {
		w.logger.Error("expiry sweep: list rentals failed", slog.String("error", err.Error()))
		metrics.ObserveExpirySweep("error")
		return
	}
	ended, err := w.store.Rentals().CountEndedBefore(ctx, today)
	if err != nil {
		w.logger.Error("expiry sweep: count failed", slog.String("error", err.Error()))
		metrics.ObserveExpirySweep("error")
		return
	}

	metrics.SetRentalCounts(len(rentals), ended)
	metrics.ObserveExpirySweep("success")
	w.logger.Info("expiry sweep completed",
		slog.Int("rentals", len(rentals)),
		slog.Int("ended", ended),
	)
}
