package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/delivery"
	"github.com/x-xyz/gomarket/base/validator"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type handler struct {
	ledger market.PrimarySaleLedger
}

func New(e *echo.Echo, ledger market.PrimarySaleLedger) {
	h := &handler{ledger}

	e.GET("/primary-sales/:asset/:tokenId", h.peek)
}

func (h *handler) peek(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	asset := c.Param("asset")
	if !validator.IsValidAddress(asset) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	tokenId := domain.TokenId(c.Param("tokenId"))
	if _, err := tokenId.ToBigInt(); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidNumberFormat)
	}

	record, err := h.ledger.Peek(ctx, domain.Address(asset), tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, record)
}
