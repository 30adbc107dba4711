package models

import (
	"github.com/google/uuid"
)

// ItemColor is a color-level stock record under an item. When sizes exist
// beneath a color its stock_level is denormalized from the size rows.
type ItemColor struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ItemSKU      string    `json:"item_sku" db:"item_sku"`
	ColorName    string    `json:"color_name" db:"color_name"`
	ColorCode    *string   `json:"color_code" db:"color_code"`
	StockLevel   int       `json:"stock_level" db:"stock_level"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// ItemSize is the finest-grained stock record. ColorID is nil for items that
// track sizes without colors.
type ItemSize struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ItemSKU         string     `json:"item_sku" db:"item_sku"`
	ColorID         *uuid.UUID `json:"color_id" db:"color_id"`
	SizeName        string     `json:"size_name" db:"size_name"`
	SizeCode        string     `json:"size_code" db:"size_code"`
	StockLevel      int        `json:"stock_level" db:"stock_level"`
	PriceAdjustment float64    `json:"price_adjustment" db:"price_adjustment"`
	DisplayOrder    int        `json:"display_order" db:"display_order"`
	IsActive        bool       `json:"is_active" db:"is_active"`
}

// ColorStock is one line of a stock breakdown.
type ColorStock struct {
	ColorName  string `json:"color_name"`
	StockLevel int    `json:"stock_level"`
}

type SizeStock struct {
	SizeCode   string `json:"size_code"`
	StockLevel int    `json:"stock_level"`
}

type ColorSizeStock struct {
	ColorName  string `json:"color_name"`
	SizeCode   string `json:"size_code"`
	StockLevel int    `json:"stock_level"`
}

// StockBreakdown is the full stock picture for an item: the cached total plus
// every tracked dimension.
type StockBreakdown struct {
	SKU        string           `json:"sku"`
	Total      int              `json:"total"`
	Colors     []ColorStock     `json:"colors"`
	Sizes      []SizeStock      `json:"sizes"`
	ColorSizes []ColorSizeStock `json:"color_sizes"`
}
