package jobs

import (
	"context"

	"whimsicalfrog/internal/repositories"

	"github.com/sirupsen/logrus"
)

// LowStockAlertService flags items at or below their reorder point so the
// admin dashboard can surface them.
type LowStockAlertService struct {
	itemRepo repositories.ItemRepository
}

type LowStockAlert struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	ReorderPoint int    `json:"reorder_point"`
}

func NewLowStockAlertService(itemRepo repositories.ItemRepository) *LowStockAlertService {
	return &LowStockAlertService{itemRepo: itemRepo}
}

func (a *LowStockAlertService) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	items, err := a.itemRepo.ListBelowReorder(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]LowStockAlert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, LowStockAlert{
			SKU:          item.SKU,
			Name:         item.Name,
			CurrentStock: item.StockQuantity,
			ReorderPoint: item.ReorderPoint,
		})
		logrus.WithFields(logrus.Fields{
			"sku": item.SKU, "stock": item.StockQuantity, "reorder_point": item.ReorderPoint,
		}).Warn("item at or below reorder point")
	}
	return alerts, nil
}
