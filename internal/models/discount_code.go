package models

import (
	"time"

	"github.com/google/uuid"
)

// Discount kinds.
const (
	DiscountKindPercent = "percent"
	DiscountKindFixed   = "fixed"
)

type DiscountCode struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Code        string     `json:"code" db:"code"`
	Kind        string     `json:"kind" db:"kind"`
	Value       float64    `json:"value" db:"value"`
	MinSubtotal float64    `json:"min_subtotal" db:"min_subtotal"`
	StartsAt    *time.Time `json:"starts_at" db:"starts_at"`
	ExpiresAt   *time.Time `json:"expires_at" db:"expires_at"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ValidDiscountKind validates discount kind values
func ValidDiscountKind(kind string) bool {
	return kind == DiscountKindPercent || kind == DiscountKindFixed
}
