package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CustomerID   uuid.UUID `json:"customer_id" db:"customer_id"`
	Status       string    `json:"status" db:"status"`
	Subtotal     float64   `json:"subtotal" db:"subtotal"`
	Discount     float64   `json:"discount" db:"discount"`
	Total        float64   `json:"total" db:"total"`
	DiscountCode *string   `json:"discount_code" db:"discount_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OrderItem records one sold line at time of sale. Rows are immutable; they
// are the factual basis for units-sold and revenue in the upsell ranker.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	SKU       string    `json:"sku" db:"sku"`
	ColorName *string   `json:"color_name" db:"color_name"`
	SizeCode  *string   `json:"size_code" db:"size_code"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidOrderStatus validates order status values
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
