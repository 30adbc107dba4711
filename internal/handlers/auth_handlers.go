package handlers

import (
	"errors"
	"net/http"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	auth services.AuthService
}

func NewAuthHandlers(auth services.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return common.SendError(c, http.StatusConflict, "email is already registered")
		}
		return common.SendServerError(c, "registration failed")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "account created", Data: user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendError(c, http.StatusUnauthorized, "invalid email or password")
		}
		return common.SendServerError(c, "login failed")
	}
	return common.SendData(c, map[string]any{"token": token, "user": user})
}
