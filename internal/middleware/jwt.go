package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/services"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// AdminTokenHeader carries the static back-office token used by internal
// tooling when no user session exists.
const AdminTokenHeader = "X-WF-Admin-Token"

// JWTAuth validates the bearer token and populates the request context with
// the caller's user id and role.
func JWTAuth(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.JWTClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*services.JWTClaims)
			if !ok {
				return
			}
			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

// AdminAuth gates the back-office routes. An admin JWT passes; so does the
// static admin token header, for scripts and cron tooling that have no user
// session. With no ADMIN_API_TOKEN configured the header path is disabled.
func AdminAuth(jwtSecret, adminToken string) echo.MiddlewareFunc {
	jwtAuth := JWTAuth(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if header := c.Request().Header.Get(AdminTokenHeader); header != "" && adminToken != "" {
				if subtle.ConstantTimeCompare([]byte(header), []byte(adminToken)) == 1 {
					ctx := context.WithValue(c.Request().Context(), common.RoleKey, "admin")
					c.SetRequest(c.Request().WithContext(ctx))
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
			}

			return jwtAuth(func(c echo.Context) error {
				if !common.IsAdmin(c.Request().Context()) {
					return echo.NewHTTPError(http.StatusForbidden, "admin access required")
				}
				return next(c)
			})(c)
		}
	}
}
