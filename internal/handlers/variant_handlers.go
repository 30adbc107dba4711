package handlers

import (
	"errors"
	"net/http"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VariantHandlers manages color and size rows under an item. Every mutation
// triggers the stock sync cascade inside the service.
type VariantHandlers struct {
	variants services.VariantService
}

func NewVariantHandlers(variants services.VariantService) *VariantHandlers {
	return &VariantHandlers{variants: variants}
}

type colorRequest struct {
	ColorName    string  `json:"color_name" validate:"required"`
	ColorCode    *string `json:"color_code"`
	StockLevel   int     `json:"stock_level" validate:"gte=0"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

func (h *VariantHandlers) AddColor(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req colorRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	color := &models.ItemColor{
		ItemSKU:      sku,
		ColorName:    req.ColorName,
		ColorCode:    req.ColorCode,
		StockLevel:   req.StockLevel,
		DisplayOrder: req.DisplayOrder,
	}
	created, err := h.variants.AddColor(c.Request().Context(), color)
	if err != nil {
		return common.SendServerError(c, "failed to add color")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "color added", Data: created})
}

func (h *VariantHandlers) UpdateColor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "color id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req colorRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	color := &models.ItemColor{
		ID:           id,
		ColorName:    req.ColorName,
		ColorCode:    req.ColorCode,
		StockLevel:   req.StockLevel,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.variants.UpdateColor(c.Request().Context(), color); err != nil {
		if errors.Is(err, services.ErrVariantNotFound) {
			return common.SendNotFoundError(c, "color")
		}
		return common.SendServerError(c, "failed to update color")
	}
	return common.SendSuccess(c, "color updated", nil)
}

func (h *VariantHandlers) DeleteColor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "color id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.variants.DeleteColor(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrVariantNotFound) {
			return common.SendNotFoundError(c, "color")
		}
		return common.SendServerError(c, "failed to delete color")
	}
	return common.SendSuccess(c, "color deleted", nil)
}

func (h *VariantHandlers) ListColors(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	colors, err := h.variants.ListColors(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to list colors")
	}
	return common.SendData(c, colors)
}

type sizeRequest struct {
	ColorID         *uuid.UUID `json:"color_id"`
	SizeName        string     `json:"size_name" validate:"required"`
	SizeCode        string     `json:"size_code" validate:"required"`
	StockLevel      int        `json:"stock_level" validate:"gte=0"`
	PriceAdjustment float64    `json:"price_adjustment"`
	DisplayOrder    int        `json:"display_order"`
	IsActive        *bool      `json:"is_active"`
}

func (h *VariantHandlers) AddSize(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req sizeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	size := &models.ItemSize{
		ItemSKU:         sku,
		ColorID:         req.ColorID,
		SizeName:        req.SizeName,
		SizeCode:        req.SizeCode,
		StockLevel:      req.StockLevel,
		PriceAdjustment: req.PriceAdjustment,
		DisplayOrder:    req.DisplayOrder,
	}
	created, err := h.variants.AddSize(c.Request().Context(), size)
	if err != nil {
		return common.SendServerError(c, "failed to add size")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "size added", Data: created})
}

func (h *VariantHandlers) UpdateSize(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "size id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req sizeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	size := &models.ItemSize{
		ID:              id,
		ColorID:         req.ColorID,
		SizeName:        req.SizeName,
		SizeCode:        req.SizeCode,
		StockLevel:      req.StockLevel,
		PriceAdjustment: req.PriceAdjustment,
		DisplayOrder:    req.DisplayOrder,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := h.variants.UpdateSize(c.Request().Context(), size); err != nil {
		if errors.Is(err, services.ErrVariantNotFound) {
			return common.SendNotFoundError(c, "size")
		}
		return common.SendServerError(c, "failed to update size")
	}
	return common.SendSuccess(c, "size updated", nil)
}

func (h *VariantHandlers) DeleteSize(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "size id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.variants.DeleteSize(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrVariantNotFound) {
			return common.SendNotFoundError(c, "size")
		}
		return common.SendServerError(c, "failed to delete size")
	}
	return common.SendSuccess(c, "size deleted", nil)
}

func (h *VariantHandlers) ListSizes(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	sizes, err := h.variants.ListSizes(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to list sizes")
	}
	return common.SendData(c, sizes)
}
