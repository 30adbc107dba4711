package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

// InlineEditableFields is the allowlist for single-field inline edits from
// the admin inventory table.
var InlineEditableFields = map[string]string{
	"name":          "name",
	"category":      "category",
	"description":   "description",
	"stockQuantity": "stock_quantity",
	"reorderPoint":  "reorder_point",
	"costPrice":     "cost_price",
	"retailPrice":   "retail_price",
	"imageUrl":      "image_url",
	"status":        "status",
}

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetBySKU(ctx context.Context, sku string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	UpdateField(ctx context.Context, sku, column string, value any) error
	UpdateCostPrice(ctx context.Context, sku string, costPrice float64) error
	UpdateRetailPrice(ctx context.Context, sku string, retailPrice float64) error
	Archive(ctx context.Context, sku string, archivedBy *uuid.UUID) error
	Restore(ctx context.Context, sku string) error
	HardDelete(ctx context.Context, sku string) error
	LastSKUForPrefix(ctx context.Context, prefix string) (string, error)
	AdvancedSearch(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.Item, error)
	ListBelowReorder(ctx context.Context) ([]*models.Item, error)
}

type itemRepo struct {
	db DB
}

func NewItemRepo(db DB) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `sku, name, category, description, cost_price, retail_price, stock_quantity, reorder_point, status, is_archived, archived_at, archived_by, image_url, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(&item.SKU, &item.Name, &item.Category, &item.Description,
		&item.CostPrice, &item.RetailPrice, &item.StockQuantity, &item.ReorderPoint,
		&item.Status, &item.IsArchived, &item.ArchivedAt, &item.ArchivedBy,
		&item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (sku, name, category, description, cost_price, retail_price, stock_quantity, reorder_point, status, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.SKU, item.Name, item.Category, item.Description,
		item.CostPrice, item.RetailPrice, item.StockQuantity, item.ReorderPoint,
		item.Status, item.ImageURL)
	return err
}

func (r *itemRepo) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1`
	return scanItem(r.db.QueryRow(ctx, query, sku))
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, category = $2, description = $3, cost_price = $4, retail_price = $5,
		    stock_quantity = $6, reorder_point = $7, status = $8, image_url = $9, updated_at = NOW()
		WHERE sku = $10
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Category, item.Description,
		item.CostPrice, item.RetailPrice, item.StockQuantity, item.ReorderPoint,
		item.Status, item.ImageURL, item.SKU)
	return err
}

// UpdateField writes a single allowlisted column. column must be one of the
// values of InlineEditableFields; callers translate the request field name.
func (r *itemRepo) UpdateField(ctx context.Context, sku, column string, value any) error {
	query := fmt.Sprintf(`UPDATE items SET %s = $1, updated_at = NOW() WHERE sku = $2`, column)
	_, err := r.db.Exec(ctx, query, value, sku)
	return err
}

func (r *itemRepo) UpdateCostPrice(ctx context.Context, sku string, costPrice float64) error {
	query := `UPDATE items SET cost_price = $1, updated_at = NOW() WHERE sku = $2`
	_, err := r.db.Exec(ctx, query, costPrice, sku)
	return err
}

func (r *itemRepo) UpdateRetailPrice(ctx context.Context, sku string, retailPrice float64) error {
	query := `UPDATE items SET retail_price = $1, updated_at = NOW() WHERE sku = $2`
	_, err := r.db.Exec(ctx, query, retailPrice, sku)
	return err
}

func (r *itemRepo) Archive(ctx context.Context, sku string, archivedBy *uuid.UUID) error {
	query := `
		UPDATE items
		SET is_archived = TRUE, status = $1, archived_at = $2, archived_by = $3, updated_at = NOW()
		WHERE sku = $4
	`
	_, err := r.db.Exec(ctx, query, models.ItemStatusArchived, time.Now(), archivedBy, sku)
	return err
}

func (r *itemRepo) Restore(ctx context.Context, sku string) error {
	query := `
		UPDATE items
		SET is_archived = FALSE, status = $1, archived_at = NULL, archived_by = NULL, updated_at = NOW()
		WHERE sku = $2
	`
	_, err := r.db.Exec(ctx, query, models.ItemStatusActive, sku)
	return err
}

func (r *itemRepo) HardDelete(ctx context.Context, sku string) error {
	query := `DELETE FROM items WHERE sku = $1`
	_, err := r.db.Exec(ctx, query, sku)
	return err
}

// LastSKUForPrefix returns the highest existing SKU under a generation
// prefix such as "WF-TS-", or empty when none exist.
func (r *itemRepo) LastSKUForPrefix(ctx context.Context, prefix string) (string, error) {
	query := `SELECT sku FROM items WHERE sku LIKE $1 ORDER BY sku DESC LIMIT 1`
	var sku string
	err := r.db.QueryRow(ctx, query, prefix+"%").Scan(&sku)
	if err != nil {
		return "", err
	}
	return sku, nil
}

// AdvancedSearch performs filtered catalog queries for the admin list views
func (r *itemRepo) AdvancedSearch(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.Item, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.SortBy == "" {
		filter.SortBy = "name"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}

	queryBase := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	args := []any{}
	conditionCount := 0

	if !filter.IncludeArchived {
		queryBase += ` AND is_archived = FALSE`
	}
	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d OR sku ILIKE $%d)`,
			conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Category != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, *filter.Category)
	}
	if filter.Status != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND status = $%d`, conditionCount)
		args = append(args, *filter.Status)
	}
	if filter.MinStock != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND stock_quantity >= $%d`, conditionCount)
		args = append(args, *filter.MinStock)
	}
	if filter.MaxStock != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND stock_quantity <= $%d`, conditionCount)
		args = append(args, *filter.MaxStock)
	}
	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND retail_price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND retail_price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}
	if filter.BelowReorder {
		queryBase += ` AND stock_quantity <= reorder_point`
	}

	sortField := "name"
	switch filter.SortBy {
	case "sku":
		sortField = "sku"
	case "stock_quantity":
		sortField = "stock_quantity"
	case "retail_price":
		sortField = "retail_price"
	case "created_at":
		sortField = "created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) ListBelowReorder(ctx context.Context) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE is_archived = FALSE AND stock_quantity <= reorder_point
		ORDER BY stock_quantity ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
