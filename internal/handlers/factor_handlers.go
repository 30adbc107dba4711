package handlers

import (
	"errors"
	"net/http"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

// FactorHandlers serves the admin cost-breakdown and price-factor screens.
// Mutations re-run the matching price roll-up before responding.
type FactorHandlers struct {
	factors services.FactorService
	pricing services.PricingService
}

func NewFactorHandlers(factors services.FactorService, pricing services.PricingService) *FactorHandlers {
	return &FactorHandlers{factors: factors, pricing: pricing}
}

type factorRequest struct {
	FactorType string  `json:"factor_type" validate:"required"`
	Label      string  `json:"label" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
}

func (h *FactorHandlers) GetCostBreakdown(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	breakdown, err := h.pricing.GetCostBreakdown(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to load cost breakdown")
	}
	return common.SendData(c, breakdown)
}

func (h *FactorHandlers) AddCostFactor(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req factorRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	factor := &models.CostFactor{SKU: sku, FactorType: req.FactorType, Label: req.Label, Amount: req.Amount}
	created, err := h.factors.AddCostFactor(c.Request().Context(), factor)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFactorType) {
			return common.SendError(c, http.StatusBadRequest, "invalid factor type")
		}
		return common.SendServerError(c, "failed to add cost factor")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "cost factor added", Data: created})
}

func (h *FactorHandlers) UpdateCostFactor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "factor id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req factorRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	factor := &models.CostFactor{ID: id, FactorType: req.FactorType, Label: req.Label, Amount: req.Amount}
	if err := h.factors.UpdateCostFactor(c.Request().Context(), factor); err != nil {
		switch {
		case errors.Is(err, services.ErrFactorNotFound):
			return common.SendNotFoundError(c, "cost factor")
		case errors.Is(err, services.ErrInvalidFactorType):
			return common.SendError(c, http.StatusBadRequest, "invalid factor type")
		}
		return common.SendServerError(c, "failed to update cost factor")
	}
	return common.SendSuccess(c, "cost factor updated", nil)
}

func (h *FactorHandlers) DeleteCostFactor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "factor id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.factors.DeleteCostFactor(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrFactorNotFound) {
			return common.SendNotFoundError(c, "cost factor")
		}
		return common.SendServerError(c, "failed to delete cost factor")
	}
	return common.SendSuccess(c, "cost factor deleted", nil)
}

func (h *FactorHandlers) ClearCostFactors(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	removed, err := h.factors.ClearCostFactors(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to clear cost factors")
	}
	return common.SendSuccess(c, "cost factors cleared", map[string]int64{"removed": removed})
}

// SyncCostPrice forces the roll-up without a factor mutation. Responds with
// whether anything was written.
func (h *FactorHandlers) SyncCostPrice(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	synced, total, err := h.pricing.SyncCostPriceFromFactors(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to sync cost price")
	}
	return common.SendData(c, map[string]any{"synced": synced, "cost_price": total})
}

func (h *FactorHandlers) ListPriceFactors(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	factors, err := h.factors.ListPriceFactors(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to list price factors")
	}
	return common.SendData(c, factors)
}

func (h *FactorHandlers) AddPriceFactor(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req factorRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	factor := &models.PriceFactor{SKU: sku, FactorType: req.FactorType, Label: req.Label, Amount: req.Amount}
	created, err := h.factors.AddPriceFactor(c.Request().Context(), factor)
	if err != nil {
		return common.SendServerError(c, "failed to add price factor")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "price factor added", Data: created})
}

func (h *FactorHandlers) UpdatePriceFactor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "factor id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req factorRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	factor := &models.PriceFactor{ID: id, FactorType: req.FactorType, Label: req.Label, Amount: req.Amount}
	if err := h.factors.UpdatePriceFactor(c.Request().Context(), factor); err != nil {
		if errors.Is(err, services.ErrFactorNotFound) {
			return common.SendNotFoundError(c, "price factor")
		}
		return common.SendServerError(c, "failed to update price factor")
	}
	return common.SendSuccess(c, "price factor updated", nil)
}

func (h *FactorHandlers) DeletePriceFactor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "factor id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.factors.DeletePriceFactor(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrFactorNotFound) {
			return common.SendNotFoundError(c, "price factor")
		}
		return common.SendServerError(c, "failed to delete price factor")
	}
	return common.SendSuccess(c, "price factor deleted", nil)
}

func (h *FactorHandlers) ClearPriceFactors(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	removed, err := h.factors.ClearPriceFactors(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to clear price factors")
	}
	return common.SendSuccess(c, "price factors cleared", map[string]int64{"removed": removed})
}

func (h *FactorHandlers) SyncRetailPrice(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	synced, total, err := h.pricing.SyncRetailPriceFromFactors(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to sync retail price")
	}
	return common.SendData(c, map[string]any{"synced": synced, "retail_price": total})
}
