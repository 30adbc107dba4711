package services

import (
	"context"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) UpdateField(ctx context.Context, sku, column string, value any) error {
	return m.Called(ctx, sku, column, value).Error(0)
}

func (m *MockItemRepository) UpdateCostPrice(ctx context.Context, sku string, costPrice float64) error {
	return m.Called(ctx, sku, costPrice).Error(0)
}

func (m *MockItemRepository) UpdateRetailPrice(ctx context.Context, sku string, retailPrice float64) error {
	return m.Called(ctx, sku, retailPrice).Error(0)
}

func (m *MockItemRepository) Archive(ctx context.Context, sku string, archivedBy *uuid.UUID) error {
	return m.Called(ctx, sku, archivedBy).Error(0)
}

func (m *MockItemRepository) Restore(ctx context.Context, sku string) error {
	return m.Called(ctx, sku).Error(0)
}

func (m *MockItemRepository) HardDelete(ctx context.Context, sku string) error {
	return m.Called(ctx, sku).Error(0)
}

func (m *MockItemRepository) LastSKUForPrefix(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockItemRepository) AdvancedSearch(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) ListBelowReorder(ctx context.Context) ([]*models.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

type MockCostFactorRepository struct {
	mock.Mock
}

func (m *MockCostFactorRepository) Create(ctx context.Context, factor *models.CostFactor) error {
	return m.Called(ctx, factor).Error(0)
}

func (m *MockCostFactorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CostFactor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CostFactor), args.Error(1)
}

func (m *MockCostFactorRepository) ListBySKU(ctx context.Context, sku string) ([]*models.CostFactor, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CostFactor), args.Error(1)
}

func (m *MockCostFactorRepository) ListBySKUAndType(ctx context.Context, sku, factorType string) ([]*models.CostFactor, error) {
	args := m.Called(ctx, sku, factorType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CostFactor), args.Error(1)
}

func (m *MockCostFactorRepository) Update(ctx context.Context, factor *models.CostFactor) error {
	return m.Called(ctx, factor).Error(0)
}

func (m *MockCostFactorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCostFactorRepository) DeleteAllForSKU(ctx context.Context, sku string) (int64, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCostFactorRepository) Amounts(ctx context.Context, sku string) ([]float64, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type MockPriceFactorRepository struct {
	mock.Mock
}

func (m *MockPriceFactorRepository) Create(ctx context.Context, factor *models.PriceFactor) error {
	return m.Called(ctx, factor).Error(0)
}

func (m *MockPriceFactorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PriceFactor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceFactor), args.Error(1)
}

func (m *MockPriceFactorRepository) ListBySKU(ctx context.Context, sku string) ([]*models.PriceFactor, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PriceFactor), args.Error(1)
}

func (m *MockPriceFactorRepository) Update(ctx context.Context, factor *models.PriceFactor) error {
	return m.Called(ctx, factor).Error(0)
}

func (m *MockPriceFactorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPriceFactorRepository) DeleteAllForSKU(ctx context.Context, sku string) (int64, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPriceFactorRepository) ContributingAmounts(ctx context.Context, sku string) ([]float64, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) ExistsForSKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderItemRepository) SalesBySKU(ctx context.Context) ([]*models.ProductSalesStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductSalesStat), args.Error(1)
}

type MockDiscountCodeRepository struct {
	mock.Mock
}

func (m *MockDiscountCodeRepository) Create(ctx context.Context, code *models.DiscountCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockDiscountCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountCode), args.Error(1)
}

func (m *MockDiscountCodeRepository) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountCode), args.Error(1)
}

func (m *MockDiscountCodeRepository) Update(ctx context.Context, code *models.DiscountCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockDiscountCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDiscountCodeRepository) List(ctx context.Context, limit, offset int) ([]*models.DiscountCode, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DiscountCode), args.Error(1)
}

// mockStockReader returns a fixed stock level per SKU for upsell tests.
type mockStockReader struct {
	levels map[string]int
}

func (m *mockStockReader) GetStockLevel(ctx context.Context, itemSKU, colorName, sizeCode string) (int, error) {
	return m.levels[itemSKU], nil
}

// noopCache is a CacheService that never holds anything: every read misses,
// every write succeeds.
type noopCache struct{}

func (noopCache) GetItem(ctx context.Context, sku string) (*models.Item, error)        { return nil, nil }
func (noopCache) SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error {
	return nil
}
func (noopCache) DeleteItem(ctx context.Context, sku string) error { return nil }
func (noopCache) GetStockBreakdown(ctx context.Context, sku string) (*models.StockBreakdown, error) {
	return nil, nil
}
func (noopCache) SetStockBreakdown(ctx context.Context, breakdown *models.StockBreakdown, ttl time.Duration) error {
	return nil
}
func (noopCache) DeleteStockBreakdown(ctx context.Context, sku string) error { return nil }
func (noopCache) GetUpsellRuleset(ctx context.Context) (*models.UpsellRuleset, error) {
	return nil, nil
}
func (noopCache) SetUpsellRuleset(ctx context.Context, ruleset *models.UpsellRuleset, ttl time.Duration) error {
	return nil
}
func (noopCache) DeleteUpsellRuleset(ctx context.Context) error    { return nil }
func (noopCache) InvalidateItem(ctx context.Context, sku string) error { return nil }
func (noopCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (noopCache) GetString(ctx context.Context, key string) (string, error) { return "", nil }
func (noopCache) Delete(ctx context.Context, key string) error              { return nil }
