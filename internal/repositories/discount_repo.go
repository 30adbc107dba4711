package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type DiscountCodeRepository interface {
	Create(ctx context.Context, code *models.DiscountCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	Update(ctx context.Context, code *models.DiscountCode) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.DiscountCode, error)
}

type discountCodeRepo struct {
	db DB
}

func NewDiscountCodeRepo(db DB) DiscountCodeRepository {
	return &discountCodeRepo{db: db}
}

const discountColumns = `id, code, kind, value, min_subtotal, starts_at, expires_at, is_active, created_at`

func scanDiscountCode(row interface{ Scan(...any) error }) (*models.DiscountCode, error) {
	dc := &models.DiscountCode{}
	err := row.Scan(&dc.ID, &dc.Code, &dc.Kind, &dc.Value, &dc.MinSubtotal,
		&dc.StartsAt, &dc.ExpiresAt, &dc.IsActive, &dc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return dc, nil
}

func (r *discountCodeRepo) Create(ctx context.Context, code *models.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, code, kind, value, min_subtotal, starts_at, expires_at, is_active, created_at)
		VALUES ($1, UPPER($2), $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, code.ID, code.Code, code.Kind, code.Value,
		code.MinSubtotal, code.StartsAt, code.ExpiresAt, code.IsActive)
	return err
}

func (r *discountCodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE id = $1`
	return scanDiscountCode(r.db.QueryRow(ctx, query, id))
}

func (r *discountCodeRepo) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code = UPPER($1)`
	return scanDiscountCode(r.db.QueryRow(ctx, query, code))
}

func (r *discountCodeRepo) Update(ctx context.Context, code *models.DiscountCode) error {
	query := `
		UPDATE discount_codes
		SET kind = $1, value = $2, min_subtotal = $3, starts_at = $4, expires_at = $5, is_active = $6
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, code.Kind, code.Value, code.MinSubtotal,
		code.StartsAt, code.ExpiresAt, code.IsActive, code.ID)
	return err
}

func (r *discountCodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM discount_codes WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *discountCodeRepo) List(ctx context.Context, limit, offset int) ([]*models.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*models.DiscountCode
	for rows.Next() {
		dc, err := scanDiscountCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, dc)
	}
	return codes, rows.Err()
}
