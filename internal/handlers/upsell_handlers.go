package handlers

import (
	"net/http"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

// UpsellHandlers serves the storefront cart recommendation endpoint.
type UpsellHandlers struct {
	upsells services.UpsellService
}

func NewUpsellHandlers(upsells services.UpsellService) *UpsellHandlers {
	return &UpsellHandlers{upsells: upsells}
}

type cartUpsellRequest struct {
	CartSKUs []string `json:"cart_skus"`
	Limit    int      `json:"limit"`
}

// ResolveCartUpsells returns recommendations for the posted cart. An empty
// cart is fine; the default list serves it. Recommendation failures degrade
// to an empty list rather than an error.
func (h *UpsellHandlers) ResolveCartUpsells(c echo.Context) error {
	var req cartUpsellRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.upsells.ResolveCartUpsells(c.Request().Context(), req.CartSKUs, req.Limit)
	if err != nil {
		return common.SendServerError(c, "failed to resolve upsells")
	}
	return common.SendData(c, result)
}

// RegenerateRules rebuilds the recommendation ruleset on demand from the
// admin dashboard.
func (h *UpsellHandlers) RegenerateRules(c echo.Context) error {
	ruleset, err := h.upsells.GenerateRules(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "failed to regenerate rules")
	}
	return common.SendSuccess(c, "upsell rules regenerated", map[string]any{
		"products":     len(ruleset.Products),
		"generated_at": ruleset.GeneratedAt,
	})
}
