package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"whimsicalfrog/internal/caching"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemHasSales     = errors.New("item has order history and can only be archived")
	ErrInvalidEditField = errors.New("field is not inline-editable")
)

// skuCategoryCodes maps well-known categories to their SKU prefix code.
// Unlisted categories fall back to their first two letters.
var skuCategoryCodes = map[string]string{
	"T-Shirts":    "TS",
	"Tumblers":    "TU",
	"Artwork":     "AR",
	"Sublimation": "SU",
	"WindowWraps": "WW",
}

// ItemService is the catalog surface: item lifecycle, inline edits, SKU
// generation, and search.
type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItem(ctx context.Context, sku string) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	UpdateItemField(ctx context.Context, sku, field string, value any) error
	ArchiveItem(ctx context.Context, sku string, archivedBy *uuid.UUID) error
	RestoreItem(ctx context.Context, sku string) error
	DeleteItem(ctx context.Context, sku string) error
	SearchItems(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.Item, error)
	GenerateSKU(ctx context.Context, category string) (string, error)
}

type itemService struct {
	itemRepo      repositories.ItemRepository
	orderItemRepo repositories.OrderItemRepository
	cache         caching.CacheService
}

func NewItemService(itemRepo repositories.ItemRepository, orderItemRepo repositories.OrderItemRepository, cache caching.CacheService) ItemService {
	return &itemService{itemRepo: itemRepo, orderItemRepo: orderItemRepo, cache: cache}
}

// GenerateSKU produces the next SKU under the category's prefix, in the
// form WF-<CODE>-NNN with a zero-padded three-digit counter.
func (s *itemService) GenerateSKU(ctx context.Context, category string) (string, error) {
	code, ok := skuCategoryCodes[category]
	if !ok {
		cleaned := strings.ToUpper(strings.Map(func(r rune) rune {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				return r
			}
			return -1
		}, category))
		if len(cleaned) >= 2 {
			code = cleaned[:2]
		} else if len(cleaned) == 1 {
			code = cleaned + "X"
		} else {
			code = "GN"
		}
	}

	prefix := "WF-" + code + "-"
	last, err := s.itemRepo.LastSKUForPrefix(ctx, prefix)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	next := 1
	if last != "" {
		if n, convErr := strconv.Atoi(strings.TrimPrefix(last, prefix)); convErr == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next), nil
}

func (s *itemService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.SKU == "" {
		sku, err := s.GenerateSKU(ctx, item.Category)
		if err != nil {
			return nil, err
		}
		item.SKU = sku
	} else {
		item.SKU = strings.ToUpper(item.SKU)
	}
	if item.Status == "" {
		item.Status = models.ItemStatusActive
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"sku": item.SKU, "category": item.Category}).Info("item created")
	return s.itemRepo.GetBySKU(ctx, item.SKU)
}

func (s *itemService) GetItem(ctx context.Context, sku string) (*models.Item, error) {
	sku = strings.ToUpper(sku)
	if cached, err := s.cache.GetItem(ctx, sku); err == nil && cached != nil {
		return cached, nil
	}

	item, err := s.itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if cacheErr := s.cache.SetItem(ctx, item, 10*time.Minute); cacheErr != nil {
		logrus.WithError(cacheErr).WithField("sku", sku).Warn("failed to cache item")
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.SKU = strings.ToUpper(item.SKU)
	if _, err := s.get(ctx, item.SKU); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, item.SKU)
	return s.itemRepo.GetBySKU(ctx, item.SKU)
}

// UpdateItemField applies one inline edit from the admin inventory table.
// The field name must be on the allowlist; anything else is rejected before
// it reaches SQL.
func (s *itemService) UpdateItemField(ctx context.Context, sku, field string, value any) error {
	column, ok := repositories.InlineEditableFields[field]
	if !ok {
		return ErrInvalidEditField
	}
	sku = strings.ToUpper(sku)
	if _, err := s.get(ctx, sku); err != nil {
		return err
	}
	if err := s.itemRepo.UpdateField(ctx, sku, column, value); err != nil {
		return err
	}
	s.invalidate(ctx, sku)
	logrus.WithFields(logrus.Fields{"sku": sku, "field": field}).Info("item field updated")
	return nil
}

func (s *itemService) ArchiveItem(ctx context.Context, sku string, archivedBy *uuid.UUID) error {
	sku = strings.ToUpper(sku)
	if _, err := s.get(ctx, sku); err != nil {
		return err
	}
	if err := s.itemRepo.Archive(ctx, sku, archivedBy); err != nil {
		return err
	}
	s.invalidate(ctx, sku)
	logrus.WithField("sku", sku).Info("item archived")
	return nil
}

func (s *itemService) RestoreItem(ctx context.Context, sku string) error {
	sku = strings.ToUpper(sku)
	if _, err := s.get(ctx, sku); err != nil {
		return err
	}
	if err := s.itemRepo.Restore(ctx, sku); err != nil {
		return err
	}
	s.invalidate(ctx, sku)
	logrus.WithField("sku", sku).Info("item restored")
	return nil
}

// DeleteItem hard-deletes an item, but only when no order line references
// it. Items with sales history keep their rows for reporting and may only
// be archived.
func (s *itemService) DeleteItem(ctx context.Context, sku string) error {
	sku = strings.ToUpper(sku)
	if _, err := s.get(ctx, sku); err != nil {
		return err
	}
	hasSales, err := s.orderItemRepo.ExistsForSKU(ctx, sku)
	if err != nil {
		return err
	}
	if hasSales {
		return ErrItemHasSales
	}
	if err := s.itemRepo.HardDelete(ctx, sku); err != nil {
		return err
	}
	s.invalidate(ctx, sku)
	logrus.WithField("sku", sku).Info("item deleted")
	return nil
}

func (s *itemService) SearchItems(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.Item, error) {
	return s.itemRepo.AdvancedSearch(ctx, filter)
}

func (s *itemService) get(ctx context.Context, sku string) (*models.Item, error) {
	item, err := s.itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) invalidate(ctx context.Context, sku string) {
	if err := s.cache.InvalidateItem(ctx, sku); err != nil {
		logrus.WithError(err).WithField("sku", sku).Warn("failed to invalidate item cache")
	}
}
