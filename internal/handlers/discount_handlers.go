package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

type DiscountHandlers struct {
	discounts services.DiscountService
}

func NewDiscountHandlers(discounts services.DiscountService) *DiscountHandlers {
	return &DiscountHandlers{discounts: discounts}
}

type discountCodeRequest struct {
	Code        string     `json:"code" validate:"required"`
	Kind        string     `json:"kind" validate:"required,oneof=percent fixed"`
	Value       float64    `json:"value" validate:"required,gt=0"`
	MinSubtotal float64    `json:"min_subtotal" validate:"gte=0"`
	StartsAt    *time.Time `json:"starts_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsActive    *bool      `json:"is_active"`
}

func (h *DiscountHandlers) CreateCode(c echo.Context) error {
	var req discountCodeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	code := &models.DiscountCode{
		Code:        req.Code,
		Kind:        req.Kind,
		Value:       req.Value,
		MinSubtotal: req.MinSubtotal,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	created, err := h.discounts.CreateCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDiscountKind) {
			return common.SendError(c, http.StatusBadRequest, "discount kind must be percent or fixed")
		}
		return common.SendServerError(c, "failed to create discount code")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "discount code created", Data: created})
}

func (h *DiscountHandlers) UpdateCode(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "discount id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req discountCodeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	code := &models.DiscountCode{
		ID:          id,
		Code:        req.Code,
		Kind:        req.Kind,
		Value:       req.Value,
		MinSubtotal: req.MinSubtotal,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := h.discounts.UpdateCode(c.Request().Context(), code); err != nil {
		if errors.Is(err, services.ErrInvalidDiscountKind) {
			return common.SendError(c, http.StatusBadRequest, "discount kind must be percent or fixed")
		}
		return common.SendServerError(c, "failed to update discount code")
	}
	return common.SendSuccess(c, "discount code updated", nil)
}

func (h *DiscountHandlers) DeleteCode(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "discount id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.discounts.DeleteCode(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "failed to delete discount code")
	}
	return common.SendSuccess(c, "discount code deleted", nil)
}

func (h *DiscountHandlers) ListCodes(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	codes, err := h.discounts.ListCodes(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list discount codes")
	}
	return common.SendData(c, codes)
}

type validateCodeRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
}

// ValidateCode lets the storefront check a code before checkout.
func (h *DiscountHandlers) ValidateCode(c echo.Context) error {
	var req validateCodeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	code, amount, err := h.discounts.ValidateAndCompute(c.Request().Context(), req.Code, req.Subtotal)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDiscountNotFound):
			return common.SendNotFoundError(c, "discount code")
		case errors.Is(err, services.ErrDiscountInactive),
			errors.Is(err, services.ErrDiscountNotStarted),
			errors.Is(err, services.ErrDiscountExpired),
			errors.Is(err, services.ErrDiscountMinSubtotal):
			return common.SendError(c, http.StatusBadRequest, err.Error())
		}
		return common.SendServerError(c, "failed to validate discount code")
	}
	return common.SendData(c, map[string]any{"code": code.Code, "kind": code.Kind, "discount": amount})
}
