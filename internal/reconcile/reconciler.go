// Package reconcile repairs products that were stored without their stock row.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ierrors "github.com/abgdnv/inventory/internal/errors"
)

// Store is the part of the inventory store the reconciler needs.
type Store interface {
	FindProductsWithoutStock(ctx context.Context) ([]int64, error)
	CreateStock(ctx context.Context, productID int64) error
}

type Reconciler struct {
	store  Store
	logger *slog.Logger
}

func NewReconciler(store Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger.With("component", "reconciler"),
	}
}

// RunOnce creates the missing stock rows and returns how many were created.
// A row created concurrently by another writer counts as repaired.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	ids, err := r.store.FindProductsWithoutStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list products without stock: %w", err)
	}
	repaired := 0
	for _, id := range ids {
		err = r.store.CreateStock(ctx, id)
		switch {
		case err == nil, errors.Is(err, ierrors.ErrStockExists):
			repaired++
		case errors.Is(err, ierrors.ErrProductNotFound):
			// deleted since the listing
		default:
			return repaired, fmt.Errorf("failed to create stock for product %d: %w", id, err)
		}
	}
	if len(ids) > 0 {
		r.logger.InfoContext(ctx, "Reconciled products without stock", "found", len(ids), "repaired", repaired)
	}
	return repaired, nil
}

// Run reconciles at start-up and then every interval until ctx is done.
// A zero interval runs once. Failed passes are logged and retried on the next tick.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if _, err := r.RunOnce(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Reconciliation failed", "error", err)
	}
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Reconciler stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "Reconciliation failed", "error", err)
			}
		}
	}
}
