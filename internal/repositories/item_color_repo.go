package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type ItemColorRepository interface {
	Create(ctx context.Context, color *models.ItemColor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ItemColor, error)
	GetByItemAndName(ctx context.Context, itemSKU, colorName string) (*models.ItemColor, error)
	ListByItem(ctx context.Context, itemSKU string) ([]*models.ItemColor, error)
	Update(ctx context.Context, color *models.ItemColor) error
	Delete(ctx context.Context, id uuid.UUID) error
	DistinctItemSKUs(ctx context.Context) ([]string, error)
}

type itemColorRepo struct {
	db DB
}

func NewItemColorRepo(db DB) ItemColorRepository {
	return &itemColorRepo{db: db}
}

const itemColorColumns = `id, item_sku, color_name, color_code, stock_level, display_order, is_active`

func scanItemColor(row interface{ Scan(...any) error }) (*models.ItemColor, error) {
	color := &models.ItemColor{}
	err := row.Scan(&color.ID, &color.ItemSKU, &color.ColorName, &color.ColorCode,
		&color.StockLevel, &color.DisplayOrder, &color.IsActive)
	if err != nil {
		return nil, err
	}
	return color, nil
}

func (r *itemColorRepo) Create(ctx context.Context, color *models.ItemColor) error {
	query := `
		INSERT INTO item_colors (id, item_sku, color_name, color_code, stock_level, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, color.ID, color.ItemSKU, color.ColorName,
		color.ColorCode, color.StockLevel, color.DisplayOrder, color.IsActive)
	return err
}

func (r *itemColorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ItemColor, error) {
	query := `SELECT ` + itemColorColumns + ` FROM item_colors WHERE id = $1`
	return scanItemColor(r.db.QueryRow(ctx, query, id))
}

func (r *itemColorRepo) GetByItemAndName(ctx context.Context, itemSKU, colorName string) (*models.ItemColor, error) {
	query := `
		SELECT ` + itemColorColumns + `
		FROM item_colors
		WHERE item_sku = $1 AND color_name = $2 AND is_active = TRUE
	`
	return scanItemColor(r.db.QueryRow(ctx, query, itemSKU, colorName))
}

func (r *itemColorRepo) ListByItem(ctx context.Context, itemSKU string) ([]*models.ItemColor, error) {
	query := `
		SELECT ` + itemColorColumns + `
		FROM item_colors
		WHERE item_sku = $1 AND is_active = TRUE
		ORDER BY display_order, color_name
	`
	rows, err := r.db.Query(ctx, query, itemSKU)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []*models.ItemColor
	for rows.Next() {
		color, err := scanItemColor(rows)
		if err != nil {
			return nil, err
		}
		colors = append(colors, color)
	}
	return colors, rows.Err()
}

func (r *itemColorRepo) Update(ctx context.Context, color *models.ItemColor) error {
	query := `
		UPDATE item_colors
		SET color_name = $1, color_code = $2, stock_level = $3, display_order = $4, is_active = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, color.ColorName, color.ColorCode,
		color.StockLevel, color.DisplayOrder, color.IsActive, color.ID)
	return err
}

func (r *itemColorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM item_colors WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// DistinctItemSKUs lists every SKU that tracks color-level stock; the
// reconciliation job walks this set.
func (r *itemColorRepo) DistinctItemSKUs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT item_sku FROM item_colors WHERE is_active = TRUE`
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
