package services

import (
	"context"
	"errors"
	"strings"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrVariantNotFound = errors.New("variant not found")

// VariantService manages color and size records under an item. Every
// mutation ends with the relevant sync cascade so the denormalized totals
// never drift from the size rows.
type VariantService interface {
	AddColor(ctx context.Context, color *models.ItemColor) (*models.ItemColor, error)
	UpdateColor(ctx context.Context, color *models.ItemColor) error
	DeleteColor(ctx context.Context, id uuid.UUID) error
	ListColors(ctx context.Context, itemSKU string) ([]*models.ItemColor, error)

	AddSize(ctx context.Context, size *models.ItemSize) (*models.ItemSize, error)
	UpdateSize(ctx context.Context, size *models.ItemSize) error
	DeleteSize(ctx context.Context, id uuid.UUID) error
	ListSizes(ctx context.Context, itemSKU string) ([]*models.ItemSize, error)
}

type variantService struct {
	colorRepo repositories.ItemColorRepository
	sizeRepo  repositories.ItemSizeRepository
	stock     StockService
}

func NewVariantService(colorRepo repositories.ItemColorRepository, sizeRepo repositories.ItemSizeRepository, stock StockService) VariantService {
	return &variantService{colorRepo: colorRepo, sizeRepo: sizeRepo, stock: stock}
}

func (v *variantService) AddColor(ctx context.Context, color *models.ItemColor) (*models.ItemColor, error) {
	color.ID = uuid.New()
	color.ItemSKU = strings.ToUpper(color.ItemSKU)
	color.IsActive = true
	if err := v.colorRepo.Create(ctx, color); err != nil {
		return nil, err
	}
	if _, err := v.stock.SyncTotalStockWithColors(ctx, color.ItemSKU); err != nil {
		return nil, err
	}
	return v.colorRepo.GetByID(ctx, color.ID)
}

func (v *variantService) UpdateColor(ctx context.Context, color *models.ItemColor) error {
	existing, err := v.colorRepo.GetByID(ctx, color.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVariantNotFound
		}
		return err
	}
	color.ItemSKU = existing.ItemSKU
	if err := v.colorRepo.Update(ctx, color); err != nil {
		return err
	}

	// A color with size rows gets its level from them, not from the edit.
	sizes, err := v.sizeRepo.ListByColor(ctx, color.ID)
	if err != nil {
		return err
	}
	if len(sizes) > 0 {
		if _, err := v.stock.SyncColorStockWithSizes(ctx, color.ID); err != nil {
			return err
		}
	}
	_, err = v.stock.SyncTotalStockWithColors(ctx, existing.ItemSKU)
	return err
}

func (v *variantService) DeleteColor(ctx context.Context, id uuid.UUID) error {
	existing, err := v.colorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVariantNotFound
		}
		return err
	}
	if err := v.colorRepo.Delete(ctx, id); err != nil {
		return err
	}
	_, err = v.stock.SyncTotalStockWithColors(ctx, existing.ItemSKU)
	return err
}

func (v *variantService) ListColors(ctx context.Context, itemSKU string) ([]*models.ItemColor, error) {
	return v.colorRepo.ListByItem(ctx, strings.ToUpper(itemSKU))
}

func (v *variantService) AddSize(ctx context.Context, size *models.ItemSize) (*models.ItemSize, error) {
	size.ID = uuid.New()
	size.ItemSKU = strings.ToUpper(size.ItemSKU)
	size.IsActive = true
	if err := v.sizeRepo.Create(ctx, size); err != nil {
		return nil, err
	}
	if err := v.resyncForSize(ctx, size); err != nil {
		return nil, err
	}
	return v.sizeRepo.GetByID(ctx, size.ID)
}

func (v *variantService) UpdateSize(ctx context.Context, size *models.ItemSize) error {
	existing, err := v.sizeRepo.GetByID(ctx, size.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVariantNotFound
		}
		return err
	}
	size.ItemSKU = existing.ItemSKU
	if err := v.sizeRepo.Update(ctx, size); err != nil {
		return err
	}
	return v.resyncForSize(ctx, size)
}

func (v *variantService) DeleteSize(ctx context.Context, id uuid.UUID) error {
	existing, err := v.sizeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVariantNotFound
		}
		return err
	}
	if err := v.sizeRepo.Delete(ctx, id); err != nil {
		return err
	}
	return v.resyncForSize(ctx, existing)
}

func (v *variantService) ListSizes(ctx context.Context, itemSKU string) ([]*models.ItemSize, error) {
	return v.sizeRepo.ListByItem(ctx, strings.ToUpper(itemSKU))
}

func (v *variantService) resyncForSize(ctx context.Context, size *models.ItemSize) error {
	if size.ColorID != nil {
		if _, err := v.stock.SyncColorStockWithSizes(ctx, *size.ColorID); err != nil {
			return err
		}
	}
	_, err := v.stock.SyncTotalStockWithSizes(ctx, size.ItemSKU)
	return err
}
