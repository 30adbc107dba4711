package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"whimsicalfrog/internal/caching"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/sirupsen/logrus"
)

// DefaultUpsellLimit caps a resolved recommendation list when the caller
// does not ask for a specific size.
const DefaultUpsellLimit = 4

// defaultRuleCap bounds the "_default" fallback list.
const defaultRuleCap = 6

// StockReader is the slice of StockService the upsell resolver needs to
// filter out-of-stock candidates.
type StockReader interface {
	GetStockLevel(ctx context.Context, itemSKU, colorName, sizeCode string) (int, error)
}

// UpsellService builds sales-ranked recommendation rules and resolves them
// against a cart. Rule generation degrades to an empty ruleset on database
// failure so the storefront cart never breaks on a recommendation error.
type UpsellService interface {
	GenerateRules(ctx context.Context) (*models.UpsellRuleset, error)
	ResolveCartUpsells(ctx context.Context, cartSKUs []string, limit int) (*models.UpsellResult, error)
}

type upsellService struct {
	orderItemRepo repositories.OrderItemRepository
	stock         StockReader
	cache         caching.CacheService
}

func NewUpsellService(orderItemRepo repositories.OrderItemRepository, stock StockReader, cache caching.CacheService) UpsellService {
	return &upsellService{orderItemRepo: orderItemRepo, stock: stock, cache: cache}
}

// GenerateRules builds the full ruleset from the lifetime sales aggregate.
// Ranking is units descending, revenue descending, then name ascending
// case-insensitive. On aggregate failure it returns an empty ruleset and
// logs; resolution then yields zero upsells rather than an error page.
func (u *upsellService) GenerateRules(ctx context.Context) (*models.UpsellRuleset, error) {
	stats, err := u.orderItemRepo.SalesBySKU(ctx)
	if err != nil {
		logrus.WithError(err).Error("upsell rule generation failed, serving empty ruleset")
		return &models.UpsellRuleset{
			Rules:               map[string][]string{},
			Products:            map[string]*models.ProductSalesStat{},
			CategoryLeaders:     map[string]string{},
			CategorySecondaries: map[string]string{},
			GeneratedAt:         time.Now().UTC(),
		}, nil
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Units != stats[j].Units {
			return stats[i].Units > stats[j].Units
		}
		if stats[i].Revenue != stats[j].Revenue {
			return stats[i].Revenue > stats[j].Revenue
		}
		return strings.ToLower(stats[i].Name) < strings.ToLower(stats[j].Name)
	})

	ruleset := &models.UpsellRuleset{
		Rules:               map[string][]string{},
		Products:            map[string]*models.ProductSalesStat{},
		CategoryLeaders:     map[string]string{},
		CategorySecondaries: map[string]string{},
		GeneratedAt:         time.Now().UTC(),
	}

	for _, st := range stats {
		sku := strings.ToUpper(st.SKU)
		ruleset.Ranked = append(ruleset.Ranked, sku)
		ruleset.Products[sku] = st

		if ruleset.SiteLeader == "" {
			ruleset.SiteLeader = sku
		} else if ruleset.SiteSecondary == "" {
			ruleset.SiteSecondary = sku
		}

		if st.Category != "" {
			if _, ok := ruleset.CategoryLeaders[st.Category]; !ok {
				ruleset.CategoryLeaders[st.Category] = sku
			} else if _, ok := ruleset.CategorySecondaries[st.Category]; !ok {
				ruleset.CategorySecondaries[st.Category] = sku
			}
		}
	}

	for _, st := range stats {
		sku := strings.ToUpper(st.SKU)
		var candidates []string

		if st.Category != "" {
			leader := ruleset.CategoryLeaders[st.Category]
			if leader != "" && leader != sku {
				candidates = append(candidates, leader)
			} else if secondary := ruleset.CategorySecondaries[st.Category]; secondary != "" && secondary != sku {
				candidates = append(candidates, secondary)
			}
		}
		for _, site := range []string{ruleset.SiteLeader, ruleset.SiteSecondary} {
			if site != "" && site != sku && !contains(candidates, site) {
				candidates = append(candidates, site)
			}
		}
		ruleset.Rules[sku] = candidates
	}

	var defaults []string
	for _, site := range []string{ruleset.SiteLeader, ruleset.SiteSecondary} {
		if site != "" {
			defaults = append(defaults, site)
		}
	}
	for _, sku := range ruleset.Ranked {
		if len(defaults) >= defaultRuleCap {
			break
		}
		if ruleset.Products[sku].Units > 0 && !contains(defaults, sku) {
			defaults = append(defaults, sku)
		}
	}
	ruleset.Rules[models.DefaultRuleKey] = defaults

	return ruleset, nil
}

// ResolveCartUpsells resolves recommendations for the given cart. Ruleset
// lookups go through the short-TTL cache; cart members, duplicates, and
// out-of-stock candidates are excluded; when per-SKU rules come up short,
// the "_default" list, the site pair, and finally the global ranking
// backfill the result.
func (u *upsellService) ResolveCartUpsells(ctx context.Context, cartSKUs []string, limit int) (*models.UpsellResult, error) {
	if limit <= 0 {
		limit = DefaultUpsellLimit
	}

	ruleset, err := u.cache.GetUpsellRuleset(ctx)
	if err != nil {
		logrus.WithError(err).Warn("upsell ruleset cache read failed")
	}
	if ruleset == nil {
		ruleset, err = u.GenerateRules(ctx)
		if err != nil {
			return nil, err
		}
		if cacheErr := u.cache.SetUpsellRuleset(ctx, ruleset, caching.UpsellRulesetTTL); cacheErr != nil {
			logrus.WithError(cacheErr).Warn("failed to cache upsell ruleset")
		}
	}

	inCart := map[string]bool{}
	var normalized []string
	for _, sku := range cartSKUs {
		up := strings.ToUpper(strings.TrimSpace(sku))
		if up == "" || inCart[up] {
			continue
		}
		inCart[up] = true
		normalized = append(normalized, up)
	}

	result := &models.UpsellResult{
		RequestedSKUs: normalized,
		Metadata: models.UpsellMetadata{
			SiteLeader:    ruleset.SiteLeader,
			SiteSecondary: ruleset.SiteSecondary,
			GeneratedAt:   ruleset.GeneratedAt,
		},
	}
	if ruleset.Empty() {
		return result, nil
	}

	picked := map[string]bool{}
	add := func(sku string) bool {
		if len(result.Upsells) >= limit {
			return false
		}
		if sku == "" || inCart[sku] || picked[sku] {
			return true
		}
		st, ok := ruleset.Products[sku]
		if !ok {
			return true
		}
		level, err := u.stock.GetStockLevel(ctx, sku, "", "")
		if err != nil {
			logrus.WithError(err).WithField("sku", sku).Warn("stock check failed, skipping upsell candidate")
			return true
		}
		if level <= 0 {
			return true
		}
		picked[sku] = true
		result.Upsells = append(result.Upsells, &models.UpsellCandidate{
			SKU:      st.SKU,
			Name:     st.Name,
			Price:    st.RetailPrice,
			Image:    st.ImageURL,
			Category: st.Category,
			Units:    st.Units,
			Revenue:  st.Revenue,
		})
		return true
	}

	for _, cartSKU := range normalized {
		for _, candidate := range ruleset.Rules[cartSKU] {
			if !add(candidate) {
				break
			}
		}
	}
	for _, candidate := range ruleset.Rules[models.DefaultRuleKey] {
		if !add(candidate) {
			break
		}
	}
	for _, site := range []string{ruleset.SiteLeader, ruleset.SiteSecondary} {
		if !add(site) {
			break
		}
	}

	before := len(result.Upsells)
	for _, sku := range ruleset.Ranked {
		if !add(sku) {
			break
		}
	}
	result.Metadata.Backfilled = len(result.Upsells) - before

	return result, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
