package services

import (
	"context"
	"errors"
	"testing"

	"whimsicalfrog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesFixture() []*models.ProductSalesStat {
	return []*models.ProductSalesStat{
		{SKU: "WF-TS-001", Name: "Frog Tee", Category: "T-Shirts", RetailPrice: 25, Units: 50, Revenue: 1250},
		{SKU: "WF-TU-001", Name: "Frog Tumbler", Category: "Tumblers", RetailPrice: 18, Units: 40, Revenue: 720},
		{SKU: "WF-TS-002", Name: "Pond Tee", Category: "T-Shirts", RetailPrice: 25, Units: 30, Revenue: 750},
		{SKU: "WF-AR-001", Name: "Lily Print", Category: "Artwork", RetailPrice: 60, Units: 10, Revenue: 600},
		{SKU: "WF-AR-002", Name: "Marsh Print", Category: "Artwork", RetailPrice: 45, Units: 0, Revenue: 0},
	}
}

func newUpsellFixture(t *testing.T, stats []*models.ProductSalesStat, levels map[string]int) (UpsellService, *MockOrderItemRepository) {
	t.Helper()
	orderItemRepo := new(MockOrderItemRepository)
	orderItemRepo.On("SalesBySKU", context.Background()).Return(stats, nil)
	if levels == nil {
		levels = map[string]int{
			"WF-TS-001": 5, "WF-TU-001": 5, "WF-TS-002": 5, "WF-AR-001": 5, "WF-AR-002": 5,
		}
	}
	return NewUpsellService(orderItemRepo, &mockStockReader{levels: levels}, noopCache{}), orderItemRepo
}

func TestGenerateRulesRanking(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	ruleset, err := svc.GenerateRules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"WF-TS-001", "WF-TU-001", "WF-TS-002", "WF-AR-001", "WF-AR-002"}, ruleset.Ranked)
	assert.Equal(t, "WF-TS-001", ruleset.SiteLeader)
	assert.Equal(t, "WF-TU-001", ruleset.SiteSecondary)
	assert.Equal(t, "WF-TS-001", ruleset.CategoryLeaders["T-Shirts"])
	assert.Equal(t, "WF-TS-002", ruleset.CategorySecondaries["T-Shirts"])
	assert.Equal(t, "WF-AR-001", ruleset.CategoryLeaders["Artwork"])
}

func TestGenerateRulesTieBreaks(t *testing.T) {
	stats := []*models.ProductSalesStat{
		{SKU: "B", Name: "beta", Category: "X", Units: 10, Revenue: 100},
		{SKU: "A", Name: "Alpha", Category: "X", Units: 10, Revenue: 100},
		{SKU: "C", Name: "gamma", Category: "X", Units: 10, Revenue: 200},
	}
	svc, _ := newUpsellFixture(t, stats, map[string]int{"A": 1, "B": 1, "C": 1})

	ruleset, err := svc.GenerateRules(context.Background())
	require.NoError(t, err)

	// Equal units: revenue wins; equal revenue: case-insensitive name.
	assert.Equal(t, []string{"C", "A", "B"}, ruleset.Ranked)
}

func TestGenerateRulesPerSKULists(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	ruleset, err := svc.GenerateRules(context.Background())
	require.NoError(t, err)

	// The category leader recommends the category secondary, never itself.
	rules := ruleset.Rules["WF-TS-001"]
	assert.NotContains(t, rules, "WF-TS-001")
	assert.Equal(t, "WF-TS-002", rules[0])

	// A non-leader recommends its category leader first, then the site pair.
	rules = ruleset.Rules["WF-TS-002"]
	assert.Equal(t, "WF-TS-001", rules[0])
	assert.Contains(t, rules, "WF-TU-001")
}

func TestGenerateRulesDefaultList(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	ruleset, err := svc.GenerateRules(context.Background())
	require.NoError(t, err)

	defaults := ruleset.Rules[models.DefaultRuleKey]
	assert.Equal(t, "WF-TS-001", defaults[0])
	assert.Equal(t, "WF-TU-001", defaults[1])
	assert.NotContains(t, defaults, "WF-AR-002", "zero-unit SKUs stay out of the default list")
	assert.LessOrEqual(t, len(defaults), 6)
}

func TestGenerateRulesDegradesOnFailure(t *testing.T) {
	orderItemRepo := new(MockOrderItemRepository)
	orderItemRepo.On("SalesBySKU", context.Background()).Return(nil, errors.New("connection refused"))
	svc := NewUpsellService(orderItemRepo, &mockStockReader{}, noopCache{})

	ruleset, err := svc.GenerateRules(context.Background())
	require.NoError(t, err)
	assert.True(t, ruleset.Empty())

	result, err := svc.ResolveCartUpsells(context.Background(), []string{"WF-TS-001"}, 4)
	require.NoError(t, err)
	assert.Empty(t, result.Upsells)
}

func TestResolveCartUpsellsExcludesCartMembers(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	result, err := svc.ResolveCartUpsells(context.Background(), []string{"wf-ts-001", "WF-TU-001"}, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"WF-TS-001", "WF-TU-001"}, result.RequestedSKUs, "input is uppercased and deduped")
	for _, u := range result.Upsells {
		assert.NotEqual(t, "WF-TS-001", u.SKU)
		assert.NotEqual(t, "WF-TU-001", u.SKU)
	}
}

func TestResolveCartUpsellsSkipsOutOfStock(t *testing.T) {
	levels := map[string]int{
		"WF-TS-001": 5, "WF-TU-001": 0, "WF-TS-002": 5, "WF-AR-001": 5, "WF-AR-002": 5,
	}
	svc, _ := newUpsellFixture(t, salesFixture(), levels)

	result, err := svc.ResolveCartUpsells(context.Background(), []string{"WF-AR-001"}, 4)
	require.NoError(t, err)

	for _, u := range result.Upsells {
		assert.NotEqual(t, "WF-TU-001", u.SKU, "out-of-stock candidates never surface")
	}
}

func TestResolveCartUpsellsNoDuplicates(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	result, err := svc.ResolveCartUpsells(context.Background(), []string{"WF-TS-002"}, 4)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, u := range result.Upsells {
		assert.False(t, seen[u.SKU], "duplicate recommendation %s", u.SKU)
		seen[u.SKU] = true
	}
}

func TestResolveCartUpsellsEmptyCartUsesDefaults(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	result, err := svc.ResolveCartUpsells(context.Background(), nil, 3)
	require.NoError(t, err)

	require.NotEmpty(t, result.Upsells)
	assert.Equal(t, "WF-TS-001", result.Upsells[0].SKU, "site leader heads the default list")
	assert.LessOrEqual(t, len(result.Upsells), 3)
}

func TestResolveCartUpsellsRespectsLimit(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	result, err := svc.ResolveCartUpsells(context.Background(), []string{"WF-AR-002"}, 2)
	require.NoError(t, err)
	assert.Len(t, result.Upsells, 2)
}

func TestResolveCartUpsellsBackfillsFromRanking(t *testing.T) {
	svc, _ := newUpsellFixture(t, salesFixture(), nil)

	// With a large limit, every in-stock non-cart SKU should appear.
	result, err := svc.ResolveCartUpsells(context.Background(), []string{"WF-TS-001"}, 10)
	require.NoError(t, err)
	assert.Len(t, result.Upsells, 4)
	assert.Greater(t, result.Metadata.Backfilled, 0)
}
