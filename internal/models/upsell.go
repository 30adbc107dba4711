package models

import "time"

// DefaultRuleKey indexes the fallback recommendation list used for SKUs with
// no category-specific data.
const DefaultRuleKey = "_default"

// ProductSalesStat is one row of the sales aggregate behind the upsell
// ranker: lifetime units and revenue for a catalog item.
type ProductSalesStat struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	RetailPrice float64 `json:"retail_price"`
	ImageURL    string  `json:"image_url"`
	Units       int     `json:"units"`
	Revenue     float64 `json:"revenue"`
}

// UpsellRuleset is the per-request recommendation map: for every SKU an
// ordered candidate list, plus the "_default" list under DefaultRuleKey.
// It is a pure function of items × order_items and is rebuilt rather than
// mutated.
type UpsellRuleset struct {
	// Rules maps an uppercase SKU to its ordered candidate SKUs.
	Rules map[string][]string `json:"rules"`
	// Products holds the stats backing the ranking, keyed by uppercase SKU.
	Products map[string]*ProductSalesStat `json:"products"`
	// Ranked lists all SKUs in global rank order (units desc, revenue desc,
	// name asc case-insensitive).
	Ranked []string `json:"ranked"`

	SiteLeader          string            `json:"site_leader"`
	SiteSecondary       string            `json:"site_secondary"`
	CategoryLeaders     map[string]string `json:"category_leaders"`
	CategorySecondaries map[string]string `json:"category_secondaries"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Empty reports whether the ruleset carries no product data (the degraded
// shape produced when rule generation fails).
func (r *UpsellRuleset) Empty() bool {
	return r == nil || len(r.Products) == 0
}

// UpsellCandidate is one recommended product in a resolved upsell list.
type UpsellCandidate struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Units    int     `json:"units"`
	Revenue  float64 `json:"revenue"`
}

// UpsellMetadata describes how a result was produced.
type UpsellMetadata struct {
	SiteLeader    string    `json:"site_leader"`
	SiteSecondary string    `json:"site_secondary"`
	GeneratedAt   time.Time `json:"generated_at"`
	Backfilled    int       `json:"backfilled"`
}

// UpsellResult is the resolved recommendation set for one cart.
type UpsellResult struct {
	Upsells       []*UpsellCandidate `json:"upsells"`
	Metadata      UpsellMetadata     `json:"metadata"`
	RequestedSKUs []string           `json:"requested_skus"`
}
