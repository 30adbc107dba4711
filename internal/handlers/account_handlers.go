package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

type AccountHandlers struct {
	accounts services.AccountService
}

func NewAccountHandlers(accounts services.AccountService) *AccountHandlers {
	return &AccountHandlers{accounts: accounts}
}

func (h *AccountHandlers) GetProfile(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	user, err := h.accounts.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return common.SendServerError(c, "failed to load profile")
	}
	return common.SendData(c, user)
}

func (h *AccountHandlers) UpdateProfile(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return common.SendNotFoundError(c, "user")
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendError(c, http.StatusConflict, "email is already registered")
		}
		return common.SendServerError(c, "failed to update profile")
	}
	return common.SendSuccess(c, "profile updated", user)
}

// AdminUpdateProfile edits any user's profile. Routed under the admin group
// only.
func (h *AccountHandlers) AdminUpdateProfile(c echo.Context) error {
	targetID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req services.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), targetID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return common.SendNotFoundError(c, "user")
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendError(c, http.StatusConflict, "email is already registered")
		}
		return common.SendServerError(c, "failed to update profile")
	}
	return common.SendSuccess(c, "profile updated", user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *AccountHandlers) ChangePassword(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongCurrentPassword):
			return common.SendError(c, http.StatusBadRequest, "current password is incorrect")
		case errors.Is(err, services.ErrUserNotFound):
			return common.SendNotFoundError(c, "user")
		}
		return common.SendServerError(c, "failed to change password")
	}
	return common.SendSuccess(c, "password changed", nil)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// AdminResetPassword sets a user's password without the current one.
// Routed under the admin group only.
func (h *AccountHandlers) AdminResetPassword(c echo.Context) error {
	targetID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.AdminResetPassword(c.Request().Context(), targetID, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return common.SendServerError(c, "failed to reset password")
	}
	return common.SendSuccess(c, "password reset", nil)
}

func (h *AccountHandlers) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	users, err := h.accounts.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list users")
	}
	return common.SendData(c, users)
}
