package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type ItemSizeRepository interface {
	Create(ctx context.Context, size *models.ItemSize) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ItemSize, error)
	ListByItem(ctx context.Context, itemSKU string) ([]*models.ItemSize, error)
	ListByColor(ctx context.Context, colorID uuid.UUID) ([]*models.ItemSize, error)
	Update(ctx context.Context, size *models.ItemSize) error
	Delete(ctx context.Context, id uuid.UUID) error
	DistinctItemSKUs(ctx context.Context) ([]string, error)
}

type itemSizeRepo struct {
	db DB
}

func NewItemSizeRepo(db DB) ItemSizeRepository {
	return &itemSizeRepo{db: db}
}

const itemSizeColumns = `id, item_sku, color_id, size_name, size_code, stock_level, price_adjustment, display_order, is_active`

func scanItemSize(row interface{ Scan(...any) error }) (*models.ItemSize, error) {
	size := &models.ItemSize{}
	err := row.Scan(&size.ID, &size.ItemSKU, &size.ColorID, &size.SizeName, &size.SizeCode,
		&size.StockLevel, &size.PriceAdjustment, &size.DisplayOrder, &size.IsActive)
	if err != nil {
		return nil, err
	}
	return size, nil
}

func (r *itemSizeRepo) Create(ctx context.Context, size *models.ItemSize) error {
	query := `
		INSERT INTO item_sizes (id, item_sku, color_id, size_name, size_code, stock_level, price_adjustment, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, size.ID, size.ItemSKU, size.ColorID, size.SizeName,
		size.SizeCode, size.StockLevel, size.PriceAdjustment, size.DisplayOrder, size.IsActive)
	return err
}

func (r *itemSizeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ItemSize, error) {
	query := `SELECT ` + itemSizeColumns + ` FROM item_sizes WHERE id = $1`
	return scanItemSize(r.db.QueryRow(ctx, query, id))
}

func (r *itemSizeRepo) ListByItem(ctx context.Context, itemSKU string) ([]*models.ItemSize, error) {
	query := `
		SELECT ` + itemSizeColumns + `
		FROM item_sizes
		WHERE item_sku = $1 AND is_active = TRUE
		ORDER BY display_order, size_code
	`
	return r.queryMany(ctx, query, itemSKU)
}

func (r *itemSizeRepo) ListByColor(ctx context.Context, colorID uuid.UUID) ([]*models.ItemSize, error) {
	query := `
		SELECT ` + itemSizeColumns + `
		FROM item_sizes
		WHERE color_id = $1 AND is_active = TRUE
		ORDER BY display_order, size_code
	`
	return r.queryMany(ctx, query, colorID)
}

func (r *itemSizeRepo) queryMany(ctx context.Context, query string, args ...any) ([]*models.ItemSize, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []*models.ItemSize
	for rows.Next() {
		size, err := scanItemSize(rows)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return sizes, rows.Err()
}

func (r *itemSizeRepo) Update(ctx context.Context, size *models.ItemSize) error {
	query := `
		UPDATE item_sizes
		SET color_id = $1, size_name = $2, size_code = $3, stock_level = $4,
		    price_adjustment = $5, display_order = $6, is_active = $7
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, size.ColorID, size.SizeName, size.SizeCode,
		size.StockLevel, size.PriceAdjustment, size.DisplayOrder, size.IsActive, size.ID)
	return err
}

func (r *itemSizeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM item_sizes WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *itemSizeRepo) DistinctItemSKUs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT item_sku FROM item_sizes WHERE is_active = TRUE`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skus []string
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, err
		}
		skus = append(skus, sku)
	}
	return skus, rows.Err()
}
