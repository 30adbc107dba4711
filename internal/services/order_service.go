package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order has no lines")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OrderLineRequest is one requested cart line before pricing.
type OrderLineRequest struct {
	SKU       string `json:"sku" validate:"required"`
	ColorName string `json:"color_name"`
	SizeCode  string `json:"size_code"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderService places and manages orders. Placing an order prices every
// line at the item's current retail price, applies an optional discount
// code, persists order and lines together, then decrements stock at the
// granularity each line specified.
type OrderService interface {
	PlaceOrder(ctx context.Context, customerID uuid.UUID, lines []OrderLineRequest, discountCode string) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, []*models.OrderItem, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	itemRepo      repositories.ItemRepository
	stock         StockService
	discounts     DiscountService
}

func NewOrderService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository, itemRepo repositories.ItemRepository, stock StockService, discounts DiscountService) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		itemRepo:      itemRepo,
		stock:         stock,
		discounts:     discounts,
	}
}

func (o *orderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, lines []OrderLineRequest, discountCode string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	subtotal := decimal.Zero
	orderItems := make([]*models.OrderItem, 0, len(lines))
	for _, line := range lines {
		sku := strings.ToUpper(strings.TrimSpace(line.SKU))

		item, err := o.itemRepo.GetBySKU(ctx, sku)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", ErrItemNotFound, sku)
			}
			return nil, err
		}
		if item.IsArchived || item.Status != models.ItemStatusActive {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, sku)
		}

		ok, err := o.stock.HasStockAvailable(ctx, sku, line.Quantity, line.ColorName, line.SizeCode)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, sku)
		}

		oi := &models.OrderItem{
			SKU:       sku,
			Quantity:  line.Quantity,
			UnitPrice: item.RetailPrice,
		}
		if line.ColorName != "" {
			c := line.ColorName
			oi.ColorName = &c
		}
		if line.SizeCode != "" {
			sc := line.SizeCode
			oi.SizeCode = &sc
		}
		orderItems = append(orderItems, oi)

		subtotal = subtotal.Add(decimal.NewFromFloat(item.RetailPrice).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	subtotalF, _ := subtotal.Round(2).Float64()

	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     models.OrderStatusPending,
		Subtotal:   subtotalF,
		Total:      subtotalF,
	}

	if code := strings.ToUpper(strings.TrimSpace(discountCode)); code != "" {
		dc, amount, err := o.discounts.ValidateAndCompute(ctx, code, subtotalF)
		if err != nil {
			return nil, err
		}
		order.Discount = amount
		order.DiscountCode = &dc.Code
		totalF, _ := subtotal.Sub(decimal.NewFromFloat(amount)).Round(2).Float64()
		order.Total = totalF
	}

	for _, oi := range orderItems {
		oi.ID = uuid.New()
		oi.OrderID = order.ID
	}

	if err := o.orderRepo.CreateWithItems(ctx, order, orderItems); err != nil {
		return nil, err
	}

	// Stock decrements happen after the order rows commit. A failed
	// decrement leaves the order intact; the nightly reconciliation pass
	// resolves the divergence.
	for i, oi := range orderItems {
		line := lines[i]
		if err := o.stock.ReduceStockForSale(ctx, oi.SKU, oi.Quantity, line.ColorName, line.SizeCode); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"order_id": order.ID, "sku": oi.SKU,
			}).Error("stock decrement failed after order commit")
		}
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID, "customer_id": customerID, "total": order.Total, "lines": len(orderItems),
	}).Info("order placed")
	return order, nil
}

func (o *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, []*models.OrderItem, error) {
	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}
	items, err := o.orderItemRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (o *orderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return o.orderRepo.ListByCustomer(ctx, customerID, limit, offset)
}

func (o *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !models.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}
	if _, err := o.orderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}
	return o.orderRepo.UpdateStatus(ctx, id, status)
}
