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
	sale market.SaleUseCase
}

func New(e *echo.Echo, sale market.SaleUseCase) {
	h := &handler{sale}

	e.GET("/sales", h.getAll)
}

type searchParams struct {
	Asset   *string `query:"asset"`
	TokenId *string `query:"tokenId"`
	Account *string `query:"account"`
	Offset  int     `query:"offset"`
	Limit   int     `query:"limit"`
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &searchParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts := []market.SaleFindAllOptionsFunc{}
	if p.Asset != nil {
		if !validator.IsValidAddress(*p.Asset) || p.TokenId == nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, market.SaleWithToken(domain.Address(*p.Asset), domain.TokenId(*p.TokenId)))
	}
	if p.Account != nil {
		if !validator.IsValidAddress(*p.Account) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, market.SaleWithAccount(domain.Address(*p.Account)))
	}
	if p.Limit == 0 {
		p.Limit = 50
	}
	opts = append(opts, market.SaleWithPagination(p.Offset, p.Limit))

	sales, err := h.sale.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, sales)
}
