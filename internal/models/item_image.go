package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemImage is one stored image for an item. At most one row per SKU has
// IsPrimary set; the primary image backs the item's cached image_url.
type ItemImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SKU       string    `json:"sku" db:"sku"`
	ObjectKey string    `json:"object_key" db:"object_key"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
