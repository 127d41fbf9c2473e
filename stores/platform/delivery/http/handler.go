package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/delivery"
	"github.com/x-xyz/gomarket/base/validator"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	authMiddleware "github.com/x-xyz/gomarket/stores/auth/delivery/http/middleware"
)

type handler struct {
	platform market.PlatformUseCase
}

func New(e *echo.Echo, platform market.PlatformUseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{platform}

	g := e.Group("/platform")

	g.GET("/settings", h.settings)

	g.GET("/artists/:artist", h.isWhitelisted)

	g.POST("/artists", h.addArtist, authMiddleware.Auth(), authMiddleware.IsAdmin())

	g.DELETE("/artists/:artist", h.removeArtist, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) settings(c echo.Context) error {
	return delivery.MakeJsonResp(c, http.StatusOK, h.platform.Settings())
}

type artistResp struct {
	Artist      domain.Address `json:"artist"`
	Whitelisted bool           `json:"whitelisted"`
}

func (h *handler) isWhitelisted(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	artist := c.Param("artist")
	if !validator.IsValidAddress(artist) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	ok, err := h.platform.IsWhitelistedArtist(ctx, domain.Address(artist))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, artistResp{domain.Address(artist).ToLower(), ok})
}

type artistParams struct {
	Artist domain.Address `json:"artist" validate:"required,address"`
}

func (h *handler) addArtist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &artistParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := h.platform.AddArtist(ctx, p.Artist); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, artistResp{p.Artist.ToLower(), true})
}

func (h *handler) removeArtist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	artist := c.Param("artist")
	if !validator.IsValidAddress(artist) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	if err := h.platform.RemoveArtist(ctx, domain.Address(artist)); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, artistResp{domain.Address(artist).ToLower(), false})
}
