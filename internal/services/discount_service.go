package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrDiscountNotFound    = errors.New("discount code not found")
	ErrDiscountInactive    = errors.New("discount code is not active")
	ErrDiscountNotStarted  = errors.New("discount code is not yet valid")
	ErrDiscountExpired     = errors.New("discount code has expired")
	ErrDiscountMinSubtotal = errors.New("order subtotal is below the discount minimum")
	ErrInvalidDiscountKind = errors.New("discount kind must be percent or fixed")
)

// DiscountService manages promo codes and computes the discount a valid
// code yields for a given subtotal.
type DiscountService interface {
	CreateCode(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	UpdateCode(ctx context.Context, code *models.DiscountCode) error
	DeleteCode(ctx context.Context, id uuid.UUID) error
	ListCodes(ctx context.Context, limit, offset int) ([]*models.DiscountCode, error)
	// ValidateAndCompute checks the code against its window, active flag,
	// and minimum subtotal, then returns the discount amount rounded to
	// cents. The discount never exceeds the subtotal.
	ValidateAndCompute(ctx context.Context, code string, subtotal float64) (*models.DiscountCode, float64, error)
}

type discountService struct {
	repo repositories.DiscountCodeRepository
}

func NewDiscountService(repo repositories.DiscountCodeRepository) DiscountService {
	return &discountService{repo: repo}
}

func (d *discountService) CreateCode(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	if !models.ValidDiscountKind(code.Kind) {
		return nil, ErrInvalidDiscountKind
	}
	code.Code = strings.ToUpper(strings.TrimSpace(code.Code))
	if err := d.repo.Create(ctx, code); err != nil {
		return nil, err
	}
	return d.repo.GetByCode(ctx, code.Code)
}

func (d *discountService) UpdateCode(ctx context.Context, code *models.DiscountCode) error {
	if !models.ValidDiscountKind(code.Kind) {
		return ErrInvalidDiscountKind
	}
	code.Code = strings.ToUpper(strings.TrimSpace(code.Code))
	return d.repo.Update(ctx, code)
}

func (d *discountService) DeleteCode(ctx context.Context, id uuid.UUID) error {
	return d.repo.Delete(ctx, id)
}

func (d *discountService) ListCodes(ctx context.Context, limit, offset int) ([]*models.DiscountCode, error) {
	return d.repo.List(ctx, limit, offset)
}

func (d *discountService) ValidateAndCompute(ctx context.Context, code string, subtotal float64) (*models.DiscountCode, float64, error) {
	dc, err := d.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrDiscountNotFound
		}
		return nil, 0, err
	}

	now := time.Now()
	if !dc.IsActive {
		return nil, 0, ErrDiscountInactive
	}
	if dc.StartsAt != nil && now.Before(*dc.StartsAt) {
		return nil, 0, ErrDiscountNotStarted
	}
	if dc.ExpiresAt != nil && now.After(*dc.ExpiresAt) {
		return nil, 0, ErrDiscountExpired
	}
	if subtotal < dc.MinSubtotal {
		return nil, 0, ErrDiscountMinSubtotal
	}

	sub := decimal.NewFromFloat(subtotal)
	var amount decimal.Decimal
	switch dc.Kind {
	case models.DiscountKindPercent:
		amount = sub.Mul(decimal.NewFromFloat(dc.Value)).Div(decimal.NewFromInt(100))
	case models.DiscountKindFixed:
		amount = decimal.NewFromFloat(dc.Value)
	default:
		return nil, 0, ErrInvalidDiscountKind
	}
	if amount.GreaterThan(sub) {
		amount = sub
	}

	f, _ := amount.Round(2).Float64()
	return dc, f, nil
}
