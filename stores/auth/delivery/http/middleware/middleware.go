package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/delivery"
	"github.com/x-xyz/gomarket/domain"
)

type AuthMiddleware struct {
	auth           domain.AuthUsecase
	adminAddresses []domain.Address
}

func New(auth domain.AuthUsecase, adminAddresses []string) *AuthMiddleware {
	admins := make([]domain.Address, 0, len(adminAddresses))
	for _, a := range adminAddresses {
		admins = append(admins, domain.Address(a).ToLower())
	}
	return &AuthMiddleware{
		auth:           auth,
		adminAddresses: admins,
	}
}

// Auth requires a bearer token and puts the caller under "address"
func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) IsAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			address, _ := c.Get("address").(domain.Address)
			for _, admin := range m.adminAddresses {
				if admin.Equals(address) {
					return next(c)
				}
			}
			return delivery.MakeJsonResp(c, http.StatusForbidden, domain.ErrUnauthorized)
		}
	}
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	ads, err := m.auth.ParseToken(ctx, key)
	if err != nil {
		ctx.WithField("err", err).Warn("auth.ParseToken failed")
		return false, nil
	}
	c.Set("address", domain.Address(ads))
	return true, nil
}

// Caller returns the address set by Auth
func Caller(c echo.Context) domain.Address {
	address, _ := c.Get("address").(domain.Address)
	return address
}
