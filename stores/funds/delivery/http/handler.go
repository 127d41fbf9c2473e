package http

import (
	"math/big"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/delivery"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	authMiddleware "github.com/x-xyz/gomarket/stores/auth/delivery/http/middleware"
)

type handler struct {
	funds market.FundsService
}

func New(e *echo.Echo, funds market.FundsService, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{funds}

	g := e.Group("/funds", authMiddleware.Auth())

	g.GET("/balance", h.balance)

	g.POST("/withdraw", h.withdraw)

	g.PUT("/reject-payments", h.setRejectsPayments)

	g.POST("/deposit", h.deposit, authMiddleware.IsAdmin())
}

func (h *handler) balance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	account, err := h.funds.Account(ctx, authMiddleware.Caller(c))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, account)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	caller := authMiddleware.Caller(c)
	amount, err := h.funds.Withdraw(ctx, caller)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	ctx.WithFields(log.Fields{"address": caller, "amount": amount}).Info("withdrawn")
	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		Amount *big.Int `json:"amount"`
	}{amount})
}

type rejectsPaymentsParams struct {
	Rejects bool `json:"rejects"`
}

func (h *handler) setRejectsPayments(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &rejectsPaymentsParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := h.funds.SetRejectsPayments(ctx, authMiddleware.Caller(c), p.Rejects); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

type depositParams struct {
	Address domain.Address `json:"address" validate:"required,address"`
	Amount  string         `json:"amount" validate:"required"`
}

// deposit funds an account, it stands in for an on-chain transfer into the market
func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &depositParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidNumberFormat)
	}

	if err := h.funds.Deposit(ctx, p.Address, amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	account, err := h.funds.Account(ctx, p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, account)
}
