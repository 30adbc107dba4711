package services

import (
	"context"
	"testing"

	"whimsicalfrog/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newItemFixture() (ItemService, *MockItemRepository, *MockOrderItemRepository) {
	itemRepo := new(MockItemRepository)
	orderItemRepo := new(MockOrderItemRepository)
	return NewItemService(itemRepo, orderItemRepo, noopCache{}), itemRepo, orderItemRepo
}

func TestGenerateSKUKnownCategory(t *testing.T) {
	svc, itemRepo, _ := newItemFixture()

	itemRepo.On("LastSKUForPrefix", mock.Anything, "WF-TS-").Return("WF-TS-012", nil)

	sku, err := svc.GenerateSKU(context.Background(), "T-Shirts")
	require.NoError(t, err)
	assert.Equal(t, "WF-TS-013", sku)
}

func TestGenerateSKUFirstOfPrefix(t *testing.T) {
	svc, itemRepo, _ := newItemFixture()

	itemRepo.On("LastSKUForPrefix", mock.Anything, "WF-TU-").Return("", pgx.ErrNoRows)

	sku, err := svc.GenerateSKU(context.Background(), "Tumblers")
	require.NoError(t, err)
	assert.Equal(t, "WF-TU-001", sku)
}

func TestGenerateSKUUnknownCategoryUsesInitials(t *testing.T) {
	svc, itemRepo, _ := newItemFixture()

	itemRepo.On("LastSKUForPrefix", mock.Anything, "WF-CA-").Return("", pgx.ErrNoRows)

	sku, err := svc.GenerateSKU(context.Background(), "Candles")
	require.NoError(t, err)
	assert.Equal(t, "WF-CA-001", sku)
}

func TestCreateItemGeneratesSKUWhenMissing(t *testing.T) {
	svc, itemRepo, _ := newItemFixture()

	itemRepo.On("LastSKUForPrefix", mock.Anything, "WF-AR-").Return("WF-AR-004", nil)
	itemRepo.On("Create", mock.Anything, mock.MatchedBy(func(i *models.Item) bool {
		return i.SKU == "WF-AR-005" && i.Status == models.ItemStatusActive
	})).Return(nil)
	itemRepo.On("GetBySKU", mock.Anything, "WF-AR-005").Return(&models.Item{SKU: "WF-AR-005"}, nil)

	created, err := svc.CreateItem(context.Background(), &models.Item{Name: "Heron Print", Category: "Artwork"})
	require.NoError(t, err)
	assert.Equal(t, "WF-AR-005", created.SKU)
}

func TestDeleteItemBlockedBySalesHistory(t *testing.T) {
	svc, itemRepo, orderItemRepo := newItemFixture()

	itemRepo.On("GetBySKU", mock.Anything, "WF-TS-001").Return(&models.Item{SKU: "WF-TS-001"}, nil)
	orderItemRepo.On("ExistsForSKU", mock.Anything, "WF-TS-001").Return(true, nil)

	err := svc.DeleteItem(context.Background(), "WF-TS-001")
	assert.ErrorIs(t, err, ErrItemHasSales)
	itemRepo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestDeleteItemWithoutHistory(t *testing.T) {
	svc, itemRepo, orderItemRepo := newItemFixture()

	itemRepo.On("GetBySKU", mock.Anything, "WF-TS-009").Return(&models.Item{SKU: "WF-TS-009"}, nil)
	orderItemRepo.On("ExistsForSKU", mock.Anything, "WF-TS-009").Return(false, nil)
	itemRepo.On("HardDelete", mock.Anything, "WF-TS-009").Return(nil)

	err := svc.DeleteItem(context.Background(), "wf-ts-009")
	require.NoError(t, err)
	itemRepo.AssertExpectations(t)
}

func TestUpdateItemFieldRejectsUnknownField(t *testing.T) {
	svc, _, _ := newItemFixture()

	err := svc.UpdateItemField(context.Background(), "WF-TS-001", "sku", "HACKED")
	assert.ErrorIs(t, err, ErrInvalidEditField)
}

func TestUpdateItemFieldTranslatesColumn(t *testing.T) {
	svc, itemRepo, _ := newItemFixture()

	itemRepo.On("GetBySKU", mock.Anything, "WF-TS-001").Return(&models.Item{SKU: "WF-TS-001"}, nil)
	itemRepo.On("UpdateField", mock.Anything, "WF-TS-001", "reorder_point", 12).Return(nil)

	err := svc.UpdateItemField(context.Background(), "WF-TS-001", "reorderPoint", 12)
	require.NoError(t, err)
	itemRepo.AssertExpectations(t)
}

func TestGetItemNotFound(t *testing.T) {
	svc, itemRepo, _ := newItemFixture()

	itemRepo.On("GetBySKU", mock.Anything, "WF-XX-999").Return(nil, pgx.ErrNoRows)

	_, err := svc.GetItem(context.Background(), "WF-XX-999")
	assert.ErrorIs(t, err, ErrItemNotFound)
}
