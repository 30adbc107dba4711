package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type PriceFactorRepository interface {
	Create(ctx context.Context, factor *models.PriceFactor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PriceFactor, error)
	ListBySKU(ctx context.Context, sku string) ([]*models.PriceFactor, error)
	Update(ctx context.Context, factor *models.PriceFactor) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForSKU(ctx context.Context, sku string) (int64, error)
	ContributingAmounts(ctx context.Context, sku string) ([]float64, error)
}

type priceFactorRepo struct {
	db DB
}

func NewPriceFactorRepo(db DB) PriceFactorRepository {
	return &priceFactorRepo{db: db}
}

const priceFactorColumns = `id, sku, factor_type, label, amount, created_at`

func scanPriceFactor(row interface{ Scan(...any) error }) (*models.PriceFactor, error) {
	f := &models.PriceFactor{}
	err := row.Scan(&f.ID, &f.SKU, &f.FactorType, &f.Label, &f.Amount, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *priceFactorRepo) Create(ctx context.Context, factor *models.PriceFactor) error {
	query := `
		INSERT INTO price_factors (id, sku, factor_type, label, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, factor.ID, factor.SKU, factor.FactorType, factor.Label, factor.Amount)
	return err
}

func (r *priceFactorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PriceFactor, error) {
	query := `SELECT ` + priceFactorColumns + ` FROM price_factors WHERE id = $1`
	return scanPriceFactor(r.db.QueryRow(ctx, query, id))
}

func (r *priceFactorRepo) ListBySKU(ctx context.Context, sku string) ([]*models.PriceFactor, error) {
	query := `SELECT ` + priceFactorColumns + ` FROM price_factors WHERE sku = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []*models.PriceFactor
	for rows.Next() {
		f, err := scanPriceFactor(rows)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

func (r *priceFactorRepo) Update(ctx context.Context, factor *models.PriceFactor) error {
	query := `UPDATE price_factors SET label = $1, amount = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, factor.Label, factor.Amount, factor.ID)
	return err
}

func (r *priceFactorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM price_factors WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *priceFactorRepo) DeleteAllForSKU(ctx context.Context, sku string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM price_factors WHERE sku = $1`, sku)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ContributingAmounts returns amounts for rows that feed the retail price
// roll-up. Annotation rows (analysis, meta) are excluded.
func (r *priceFactorRepo) ContributingAmounts(ctx context.Context, sku string) ([]float64, error) {
	query := `SELECT amount FROM price_factors WHERE sku = $1 AND factor_type NOT IN ($2, $3)`
	rows, err := r.db.Query(ctx, query, sku, models.FactorTypeAnalysis, models.FactorTypeMeta)
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
