package jobs

import (
	"context"

	"whimsicalfrog/internal/repositories"
	"whimsicalfrog/internal/services"

	"github.com/sirupsen/logrus"
)

// StockReconciliationService re-runs the full sync cascade for every item
// with variant rows. Sales decrement at the most specific granularity the
// buyer named, so items whose carts mixed granularities can drift between
// levels; the nightly pass bounds that divergence to one day.
type StockReconciliationService struct {
	colorRepo repositories.ItemColorRepository
	sizeRepo  repositories.ItemSizeRepository
	stock     services.StockService
}

func NewStockReconciliationService(colorRepo repositories.ItemColorRepository, sizeRepo repositories.ItemSizeRepository, stock services.StockService) *StockReconciliationService {
	return &StockReconciliationService{colorRepo: colorRepo, sizeRepo: sizeRepo, stock: stock}
}

// Reconcile returns the number of items resynchronized. Per-item failures
// are logged and skipped; one bad row must not stall the rest of the pass.
func (s *StockReconciliationService) Reconcile(ctx context.Context) (int, error) {
	sized, err := s.sizeRepo.DistinctItemSKUs(ctx)
	if err != nil {
		return 0, err
	}
	colored, err := s.colorRepo.DistinctItemSKUs(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(sized)+len(colored))
	count := 0

	for _, sku := range sized {
		seen[sku] = true
		if _, err := s.stock.SyncTotalStockWithSizes(ctx, sku); err != nil {
			logrus.WithError(err).WithField("sku", sku).Error("stock reconciliation failed for item")
			continue
		}
		count++
	}

	// Items with colors but no size rows still need the color roll-up.
	for _, sku := range colored {
		if seen[sku] {
			continue
		}
		if _, err := s.stock.SyncTotalStockWithColors(ctx, sku); err != nil {
			logrus.WithError(err).WithField("sku", sku).Error("stock reconciliation failed for item")
			continue
		}
		count++
	}

	logrus.WithField("items", count).Info("stock reconciliation complete")
	return count, nil
}
