package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers serves the catalog surface: item CRUD, inline edits,
// archive lifecycle, search, and stock reads.
type InventoryHandlers struct {
	itemService services.ItemService
	stock       services.StockService
	audit       services.AuditService
}

func NewInventoryHandlers(itemService services.ItemService, stock services.StockService, audit services.AuditService) *InventoryHandlers {
	return &InventoryHandlers{itemService: itemService, stock: stock, audit: audit}
}

type createItemRequest struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category" validate:"required"`
	Description   *string `json:"description"`
	CostPrice     float64 `json:"cost_price" validate:"gte=0"`
	RetailPrice   float64 `json:"retail_price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ReorderPoint  int     `json:"reorder_point" validate:"gte=0"`
	Status        string  `json:"status"`
}

func (h *InventoryHandlers) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	item := &models.Item{
		SKU:           req.SKU,
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		CostPrice:     req.CostPrice,
		RetailPrice:   req.RetailPrice,
		StockQuantity: req.StockQuantity,
		ReorderPoint:  req.ReorderPoint,
		Status:        req.Status,
	}
	created, err := h.itemService.CreateItem(c.Request().Context(), item)
	if err != nil {
		return common.SendServerError(c, "failed to create item")
	}

	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	h.audit.Record(c.Request().Context(), &userID, models.ActionCreate, "item", created.SKU, models.JSONB{"name": created.Name})

	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "item created", Data: created})
}

func (h *InventoryHandlers) GetItem(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	item, err := h.itemService.GetItem(c.Request().Context(), sku)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendServerError(c, "failed to load item")
	}
	return common.SendData(c, item)
}

type updateItemRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category" validate:"required"`
	Description   *string `json:"description"`
	CostPrice     float64 `json:"cost_price" validate:"gte=0"`
	RetailPrice   float64 `json:"retail_price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ReorderPoint  int     `json:"reorder_point" validate:"gte=0"`
	Status        string  `json:"status"`
	ImageURL      *string `json:"image_url"`
}

func (h *InventoryHandlers) UpdateItem(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	item := &models.Item{
		SKU:           sku,
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		CostPrice:     req.CostPrice,
		RetailPrice:   req.RetailPrice,
		StockQuantity: req.StockQuantity,
		ReorderPoint:  req.ReorderPoint,
		Status:        req.Status,
		ImageURL:      req.ImageURL,
	}
	updated, err := h.itemService.UpdateItem(c.Request().Context(), item)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendServerError(c, "failed to update item")
	}

	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	h.audit.Record(c.Request().Context(), &userID, models.ActionUpdate, "item", sku, nil)

	return common.SendSuccess(c, "item updated", updated)
}

type inlineEditRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

// InlineEditItem applies a single-field edit from the admin inventory
// table. Only allowlisted fields pass.
func (h *InventoryHandlers) InlineEditItem(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req inlineEditRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.itemService.UpdateItemField(c.Request().Context(), sku, req.Field, req.Value); err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return common.SendNotFoundError(c, "item")
		case errors.Is(err, services.ErrInvalidEditField):
			return common.SendError(c, http.StatusBadRequest, "field is not editable")
		}
		return common.SendServerError(c, "failed to update field")
	}

	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	h.audit.Record(c.Request().Context(), &userID, models.ActionUpdate, "item", sku, models.JSONB{"field": req.Field})

	return common.SendSuccess(c, "field updated", nil)
}

func (h *InventoryHandlers) ArchiveItem(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	if err := h.itemService.ArchiveItem(c.Request().Context(), sku, &userID); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendServerError(c, "failed to archive item")
	}
	h.audit.Record(c.Request().Context(), &userID, models.ActionArchive, "item", sku, nil)
	return common.SendSuccess(c, "item archived", nil)
}

func (h *InventoryHandlers) RestoreItem(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.itemService.RestoreItem(c.Request().Context(), sku); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendServerError(c, "failed to restore item")
	}

	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	h.audit.Record(c.Request().Context(), &userID, models.ActionRestore, "item", sku, nil)
	return common.SendSuccess(c, "item restored", nil)
}

func (h *InventoryHandlers) DeleteItem(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.itemService.DeleteItem(c.Request().Context(), sku); err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return common.SendNotFoundError(c, "item")
		case errors.Is(err, services.ErrItemHasSales):
			return common.SendError(c, http.StatusConflict, "item has order history and can only be archived")
		}
		return common.SendServerError(c, "failed to delete item")
	}

	userID, _ := common.GetUserIDFromContext(c.Request().Context())
	h.audit.Record(c.Request().Context(), &userID, models.ActionDelete, "item", sku, nil)
	return common.SendSuccess(c, "item deleted", nil)
}

func (h *InventoryHandlers) SearchItems(c echo.Context) error {
	filter := &models.ItemSearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if v := c.QueryParam("category"); v != "" {
		filter.Category = &v
	}
	if v := c.QueryParam("status"); v != "" {
		filter.Status = &v
	}
	if c.QueryParam("include_archived") == "true" {
		filter.IncludeArchived = true
	}
	if c.QueryParam("below_reorder") == "true" {
		filter.BelowReorder = true
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)

	items, err := h.itemService.SearchItems(c.Request().Context(), filter)
	if err != nil {
		return common.SendServerError(c, "search failed")
	}
	return common.SendData(c, items)
}

func (h *InventoryHandlers) NextSKU(c echo.Context) error {
	category := c.QueryParam("category")
	if err := common.ValidateRequiredString(category, "category"); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	sku, err := h.itemService.GenerateSKU(c.Request().Context(), category)
	if err != nil {
		return common.SendServerError(c, "failed to generate sku")
	}
	return common.SendData(c, map[string]string{"sku": sku})
}

func (h *InventoryHandlers) GetStockBreakdown(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	breakdown, err := h.stock.GetStockBreakdown(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to load stock breakdown")
	}
	return common.SendData(c, breakdown)
}

// GetStockLevel resolves availability at the granularity the query names:
// optional color and size params narrow the lookup.
func (h *InventoryHandlers) GetStockLevel(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	level, err := h.stock.GetStockLevel(c.Request().Context(), sku, c.QueryParam("color"), c.QueryParam("size"))
	if err != nil {
		return common.SendServerError(c, "failed to resolve stock level")
	}
	return common.SendData(c, map[string]any{"sku": sku, "stock_level": level})
}
