package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type CostFactorRepository interface {
	Create(ctx context.Context, factor *models.CostFactor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CostFactor, error)
	ListBySKU(ctx context.Context, sku string) ([]*models.CostFactor, error)
	ListBySKUAndType(ctx context.Context, sku, factorType string) ([]*models.CostFactor, error)
	Update(ctx context.Context, factor *models.CostFactor) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForSKU(ctx context.Context, sku string) (int64, error)
	Amounts(ctx context.Context, sku string) ([]float64, error)
}

type costFactorRepo struct {
	db DB
}

func NewCostFactorRepo(db DB) CostFactorRepository {
	return &costFactorRepo{db: db}
}

const costFactorColumns = `id, sku, factor_type, label, amount, created_at`

func scanCostFactor(row interface{ Scan(...any) error }) (*models.CostFactor, error) {
	f := &models.CostFactor{}
	err := row.Scan(&f.ID, &f.SKU, &f.FactorType, &f.Label, &f.Amount, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *costFactorRepo) Create(ctx context.Context, factor *models.CostFactor) error {
	query := `
		INSERT INTO cost_factors (id, sku, factor_type, label, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, factor.ID, factor.SKU, factor.FactorType, factor.Label, factor.Amount)
	return err
}

func (r *costFactorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CostFactor, error) {
	query := `SELECT ` + costFactorColumns + ` FROM cost_factors WHERE id = $1`
	return scanCostFactor(r.db.QueryRow(ctx, query, id))
}

func (r *costFactorRepo) ListBySKU(ctx context.Context, sku string) ([]*models.CostFactor, error) {
	query := `SELECT ` + costFactorColumns + ` FROM cost_factors WHERE sku = $1 ORDER BY created_at, id`
	return r.queryMany(ctx, query, sku)
}

func (r *costFactorRepo) ListBySKUAndType(ctx context.Context, sku, factorType string) ([]*models.CostFactor, error) {
	query := `SELECT ` + costFactorColumns + ` FROM cost_factors WHERE sku = $1 AND factor_type = $2 ORDER BY created_at, id`
	return r.queryMany(ctx, query, sku, factorType)
}

func (r *costFactorRepo) queryMany(ctx context.Context, query string, args ...any) ([]*models.CostFactor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []*models.CostFactor
	for rows.Next() {
		f, err := scanCostFactor(rows)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

func (r *costFactorRepo) Update(ctx context.Context, factor *models.CostFactor) error {
	query := `UPDATE cost_factors SET label = $1, amount = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, factor.Label, factor.Amount, factor.ID)
	return err
}

func (r *costFactorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM cost_factors WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// DeleteAllForSKU clears every cost factor for an item and reports how many
// rows were removed. Used by the clear-all admin action.
func (r *costFactorRepo) DeleteAllForSKU(ctx context.Context, sku string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM cost_factors WHERE sku = $1`, sku)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Amounts returns every factor amount for a SKU. The pricing service sums
// them itself so rounding happens in one place.
func (r *costFactorRepo) Amounts(ctx context.Context, sku string) ([]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT amount FROM cost_factors WHERE sku = $1`, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amounts []float64
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, rows.Err()
}
