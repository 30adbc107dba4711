package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	// ExistsForSKU reports whether any historical order line references the
	// SKU. Items with sales history may only be archived, never hard-deleted.
	ExistsForSKU(ctx context.Context, sku string) (bool, error)
	// SalesBySKU aggregates lifetime units and revenue per catalog item
	// (non-archived items only, zero rows included via LEFT JOIN).
	SalesBySKU(ctx context.Context) ([]*models.ProductSalesStat, error)
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepo(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, sku, color_name, size_code, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SKU, &item.ColorName,
			&item.SizeCode, &item.Quantity, &item.UnitPrice, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderItemRepo) ExistsForSKU(ctx context.Context, sku string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM order_items WHERE sku = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, sku).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *orderItemRepo) SalesBySKU(ctx context.Context) ([]*models.ProductSalesStat, error) {
	query := `
		SELECT i.sku, i.name, COALESCE(i.category, ''), i.retail_price, COALESCE(i.image_url, ''),
		       COALESCE(SUM(oi.quantity), 0) AS units,
		       COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue
		FROM items i
		LEFT JOIN order_items oi ON oi.sku = i.sku
		WHERE i.is_archived = FALSE
		GROUP BY i.sku, i.name, i.category, i.retail_price, i.image_url
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.ProductSalesStat
	for rows.Next() {
		s := &models.ProductSalesStat{}
		if err := rows.Scan(&s.SKU, &s.Name, &s.Category, &s.RetailPrice, &s.ImageURL,
			&s.Units, &s.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
