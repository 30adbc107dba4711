package common

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the authenticated user's role from the request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// IsAdmin reports whether the request context carries the admin role.
func IsAdmin(ctx context.Context) bool {
	role, ok := GetRoleFromContext(ctx)
	return ok && role == "admin"
}

// SuccessResponse is the envelope every mutation endpoint returns.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failures. Raw driver errors never reach
// the client; they are logged server-side instead.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SendSuccess writes the {success:true, message, data} envelope.
func SendSuccess(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message, Data: data})
}

// SendData writes a bare success envelope around a payload.
func SendData(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

// SendError writes the {success:false, error} envelope with the given status.
func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Success: false, Error: message})
}

// SendValidationError reports a 400 for a bad request field.
func SendValidationError(c echo.Context, field, message string) error {
	return SendError(c, http.StatusBadRequest, fmt.Sprintf("%s: %s", field, message))
}

// SendNotFoundError reports a missing resource.
func SendNotFoundError(c echo.Context, resource string) error {
	return SendError(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// SendUnauthorizedError reports a 401.
func SendUnauthorizedError(c echo.Context) error {
	return SendError(c, http.StatusUnauthorized, "Unauthorized access")
}

// SendForbiddenError reports a 403.
func SendForbiddenError(c echo.Context) error {
	return SendError(c, http.StatusForbidden, "Admin access required")
}

// SendServerError reports a generic 500 without leaking internals.
func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message)
}

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{1,49}$`)

// ValidateSKU normalizes and validates a SKU string.
func ValidateSKU(sku string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(sku))
	if s == "" {
		return "", fmt.Errorf("sku is required")
	}
	if !skuPattern.MatchString(s) {
		return "", fmt.Errorf("sku has invalid format")
	}
	return s, nil
}

// ValidateUUID validates and parses a UUID path or query parameter.
func ValidateUUID(idStr, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateNonNegativeFloat validates amounts that may legitimately be zero.
func ValidateNonNegativeFloat(value float64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s must be a non-negative number", fieldName)
	}
	return nil
}

// ValidatePositiveInt validates counts that must be at least one.
func ValidatePositiveInt(value int, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

// ValidatePaginationParams clamps pagination parameters to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
