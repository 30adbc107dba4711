package services

import (
	"context"
	"errors"
	"testing"

	"whimsicalfrog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSyncCostPriceFromFactors(t *testing.T) {
	itemRepo := new(MockItemRepository)
	costRepo := new(MockCostFactorRepository)
	priceRepo := new(MockPriceFactorRepository)
	svc := NewPricingService(itemRepo, costRepo, priceRepo)

	costRepo.On("Amounts", mock.Anything, "WF-TS-001").Return([]float64{3.10, 4.25, 0.90}, nil)
	itemRepo.On("UpdateCostPrice", mock.Anything, "WF-TS-001", 8.25).Return(nil)

	synced, total, err := svc.SyncCostPriceFromFactors(context.Background(), "WF-TS-001")
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, 8.25, total)
	itemRepo.AssertExpectations(t)
}

func TestSyncCostPriceRoundsToCents(t *testing.T) {
	itemRepo := new(MockItemRepository)
	costRepo := new(MockCostFactorRepository)
	svc := NewPricingService(itemRepo, costRepo, new(MockPriceFactorRepository))

	// 0.1 + 0.2 must come out as 0.30, not 0.30000000000000004.
	costRepo.On("Amounts", mock.Anything, "WF-TS-001").Return([]float64{0.1, 0.2}, nil)
	itemRepo.On("UpdateCostPrice", mock.Anything, "WF-TS-001", 0.3).Return(nil)

	synced, total, err := svc.SyncCostPriceFromFactors(context.Background(), "WF-TS-001")
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, 0.3, total)
}

func TestSyncCostPriceNoFactorsIsNoOp(t *testing.T) {
	itemRepo := new(MockItemRepository)
	costRepo := new(MockCostFactorRepository)
	svc := NewPricingService(itemRepo, costRepo, new(MockPriceFactorRepository))

	costRepo.On("Amounts", mock.Anything, "WF-TS-001").Return([]float64{}, nil)

	synced, total, err := svc.SyncCostPriceFromFactors(context.Background(), "WF-TS-001")
	require.NoError(t, err)
	assert.False(t, synced, "an item with no factor rows keeps its manual price")
	assert.Zero(t, total)
	itemRepo.AssertNotCalled(t, "UpdateCostPrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncRetailPriceFromFactors(t *testing.T) {
	itemRepo := new(MockItemRepository)
	priceRepo := new(MockPriceFactorRepository)
	svc := NewPricingService(itemRepo, new(MockCostFactorRepository), priceRepo)

	// ContributingAmounts already excludes analysis and meta rows.
	priceRepo.On("ContributingAmounts", mock.Anything, "WF-TU-001").Return([]float64{12.00, 5.99}, nil)
	itemRepo.On("UpdateRetailPrice", mock.Anything, "WF-TU-001", 17.99).Return(nil)

	synced, total, err := svc.SyncRetailPriceFromFactors(context.Background(), "WF-TU-001")
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, 17.99, total)
}

func TestSyncRetailPricePropagatesRepoError(t *testing.T) {
	priceRepo := new(MockPriceFactorRepository)
	svc := NewPricingService(new(MockItemRepository), new(MockCostFactorRepository), priceRepo)

	priceRepo.On("ContributingAmounts", mock.Anything, "WF-TU-001").Return(nil, errors.New("connection refused"))

	_, _, err := svc.SyncRetailPriceFromFactors(context.Background(), "WF-TU-001")
	assert.Error(t, err)
}

func TestGetCostBreakdownGroupsAndTotals(t *testing.T) {
	costRepo := new(MockCostFactorRepository)
	svc := NewPricingService(new(MockItemRepository), costRepo, new(MockPriceFactorRepository))

	costRepo.On("ListBySKU", mock.Anything, "WF-TS-001").Return([]*models.CostFactor{
		{FactorType: models.FactorTypeMaterials, Label: "Blank shirt", Amount: 4.50},
		{FactorType: models.FactorTypeMaterials, Label: "Vinyl", Amount: 1.25},
		{FactorType: models.FactorTypeLabor, Label: "Press time", Amount: 3.00},
		{FactorType: models.FactorTypeEnergy, Label: "Heat press", Amount: 0.40},
	}, nil)

	breakdown, err := svc.GetCostBreakdown(context.Background(), "WF-TS-001")
	require.NoError(t, err)

	assert.Len(t, breakdown.Materials, 2)
	assert.Len(t, breakdown.Labor, 1)
	assert.Len(t, breakdown.Energy, 1)
	assert.Empty(t, breakdown.Equipment)
	assert.Equal(t, 5.75, breakdown.Totals.MaterialTotal)
	assert.Equal(t, 3.00, breakdown.Totals.LaborTotal)
	assert.Equal(t, 0.40, breakdown.Totals.EnergyTotal)
	assert.Equal(t, 9.15, breakdown.Totals.SuggestedCost)
}
