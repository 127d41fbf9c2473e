package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/delivery"
	"github.com/x-xyz/gomarket/base/validator"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/stores/auth/usecase"
)

type authHandler struct {
	auth domain.AuthUsecase
}

func New(e *echo.Echo, auth domain.AuthUsecase) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.POST("/nonce", handler.nonce)
	g.POST("/login", handler.login)
}

type nonceParams struct {
	Address domain.Address `json:"address" validate:"required"`
}

// nonce returns the message the wallet has to sign
func (h *authHandler) nonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &nonceParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if !validator.IsValidAddress(string(p.Address)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	nonce, err := h.auth.Nonce(ctx, p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res := struct {
		Nonce   string `json:"nonce"`
		Message string `json:"message"`
	}{nonce, usecase.LoginMessage(nonce)}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

type loginParams struct {
	Address   domain.Address `json:"address" validate:"required"`
	Signature string         `json:"signature" validate:"required"`
}

func (h *authHandler) login(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &loginParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	tkn, err := h.auth.Login(ctx, p.Address, p.Signature)
	if err == domain.ErrInvalidSignature || err == domain.ErrUnauthorized {
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
}
