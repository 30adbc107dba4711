package models

import (
	"time"

	"github.com/google/uuid"
)

// Item statuses.
const (
	ItemStatusActive   = "active"
	ItemStatusDraft    = "draft"
	ItemStatusArchived = "archived"
)

// ItemSearchFilter holds search and filter criteria for catalog queries
type ItemSearchFilter struct {
	Query           string   `json:"query,omitempty"`             // Full-text search across name, description, sku
	Category        *string  `json:"category,omitempty"`          // Category filter
	Status          *string  `json:"status,omitempty"`            // Status filter: active, draft, archived
	IncludeArchived bool     `json:"include_archived,omitempty"`  // Include soft-deleted items
	MinStock        *int     `json:"min_stock,omitempty"`         // Minimum stock quantity
	MaxStock        *int     `json:"max_stock,omitempty"`         // Maximum stock quantity
	MinPrice        *float64 `json:"min_price,omitempty"`         // Minimum retail price
	MaxPrice        *float64 `json:"max_price,omitempty"`         // Maximum retail price
	BelowReorder    bool     `json:"below_reorder,omitempty"`     // Only items at or below reorder point
	SortBy          string   `json:"sort_by,omitempty"`           // Sort field: name, sku, stock_quantity, retail_price, created_at
	SortOrder       string   `json:"sort_order,omitempty"`        // Sort order: asc, desc
	Limit           int      `json:"limit,omitempty"`             // Page size (default: 50)
	Offset          int      `json:"offset,omitempty"`            // Page offset
}

type Item struct {
	SKU           string     `json:"sku" db:"sku"`
	Name          string     `json:"name" db:"name"`
	Category      string     `json:"category" db:"category"`
	Description   *string    `json:"description" db:"description"`
	CostPrice     float64    `json:"cost_price" db:"cost_price"`
	RetailPrice   float64    `json:"retail_price" db:"retail_price"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	ReorderPoint  int        `json:"reorder_point" db:"reorder_point"`
	Status        string     `json:"status" db:"status"`
	IsArchived    bool       `json:"is_archived" db:"is_archived"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	ArchivedBy    *uuid.UUID `json:"archived_by,omitempty" db:"archived_by"`
	ImageURL      *string    `json:"image_url" db:"image_url"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
