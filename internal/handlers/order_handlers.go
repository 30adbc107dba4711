package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

type OrderHandlers struct {
	orders services.OrderService
}

func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

type placeOrderRequest struct {
	Lines        []services.OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
	DiscountCode string                      `json:"discount_code"`
}

func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), userID, req.Lines, req.DiscountCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyOrder):
			return common.SendError(c, http.StatusBadRequest, "order has no lines")
		case errors.Is(err, services.ErrItemNotFound):
			return common.SendError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInsufficientStock):
			return common.SendError(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrDiscountNotFound),
			errors.Is(err, services.ErrDiscountInactive),
			errors.Is(err, services.ErrDiscountNotStarted),
			errors.Is(err, services.ErrDiscountExpired),
			errors.Is(err, services.ErrDiscountMinSubtotal):
			return common.SendError(c, http.StatusBadRequest, err.Error())
		}
		return common.SendServerError(c, "failed to place order")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "order placed", Data: order})
}

func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	order, items, err := h.orders.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFoundError(c, "order")
		}
		return common.SendServerError(c, "failed to load order")
	}

	// Customers may only read their own orders.
	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	if order.CustomerID != userID && !common.IsAdmin(c.Request().Context()) {
		return common.SendForbiddenError(c)
	}

	return common.SendData(c, map[string]any{"order": order, "items": items})
}

func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	orders, err := h.orders.ListCustomerOrders(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list orders")
	}
	return common.SendData(c, orders)
}

// ListUserOrders is the admin view of a customer's order history.
func (h *OrderHandlers) ListUserOrders(c echo.Context) error {
	userID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	orders, err := h.orders.ListCustomerOrders(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list orders")
	}
	return common.SendData(c, orders)
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.orders.UpdateOrderStatus(c.Request().Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return common.SendNotFoundError(c, "order")
		case errors.Is(err, services.ErrInvalidOrderStatus):
			return common.SendError(c, http.StatusBadRequest, "invalid order status")
		}
		return common.SendServerError(c, "failed to update order status")
	}
	return common.SendSuccess(c, "order status updated", nil)
}
