package http

import (
	"math/big"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/delivery"
	"github.com/x-xyz/gomarket/base/validator"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	authMiddleware "github.com/x-xyz/gomarket/stores/auth/delivery/http/middleware"
)

type handler struct {
	auction market.AuctionMarket
}

func New(e *echo.Echo, auction market.AuctionMarket, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{auction}

	g := e.Group("/auction")

	g.GET("/listings", h.find)

	g.POST("/listings", h.list, authMiddleware.Auth())

	g.DELETE("/listings", h.delist, authMiddleware.Auth())

	g.POST("/bids", h.bid, authMiddleware.Auth())

	g.POST("/end", h.end, authMiddleware.Auth())
}

func (h *handler) find(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	opts := []market.ListingFindAllOptionsFunc{}
	if asset := c.QueryParam("asset"); asset != "" {
		if !validator.IsValidAddress(asset) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, market.WithAsset(domain.Address(asset)))
	}
	if seller := c.QueryParam("seller"); seller != "" {
		if !validator.IsValidAddress(seller) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, market.WithSeller(domain.Address(seller)))
	}

	listings, err := h.auction.Find(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listings)
}

type listParams struct {
	Asset    domain.Address `json:"asset" validate:"required,address"`
	TokenId  domain.TokenId `json:"tokenId" validate:"required"`
	Quantity uint64         `json:"quantity" validate:"required"`
	Reserve  string         `json:"reserve"`
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &listParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	reserve := new(big.Int)
	if p.Reserve != "" {
		if _, ok := reserve.SetString(p.Reserve, 10); !ok {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidNumberFormat)
		}
	}

	listing, err := h.auction.List(ctx, market.ListRequest{
		Asset:     p.Asset,
		TokenId:   p.TokenId,
		Seller:    authMiddleware.Caller(c),
		Quantity:  p.Quantity,
		UnitPrice: reserve,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, listing)
}

type tokenParams struct {
	Asset   domain.Address `json:"asset" validate:"required,address"`
	TokenId domain.TokenId `json:"tokenId" validate:"required"`
}

func (h *handler) delist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &tokenParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	res, err := h.auction.Delist(ctx, market.DelistRequest{
		Asset:   p.Asset,
		TokenId: p.TokenId,
		Seller:  authMiddleware.Caller(c),
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type bidParams struct {
	Asset   domain.Address `json:"asset" validate:"required,address"`
	TokenId domain.TokenId `json:"tokenId" validate:"required"`
	Seller  domain.Address `json:"seller" validate:"required,address"`
	Payment string         `json:"payment" validate:"required"`
}

func (h *handler) bid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &bidParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	payment, ok := new(big.Int).SetString(p.Payment, 10)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidNumberFormat)
	}

	res, err := h.auction.PlaceBid(ctx, market.BidRequest{
		Asset:   p.Asset,
		TokenId: p.TokenId,
		Seller:  p.Seller,
		Bidder:  authMiddleware.Caller(c),
		Payment: payment,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type endParams struct {
	Asset   domain.Address `json:"asset" validate:"required,address"`
	TokenId domain.TokenId `json:"tokenId" validate:"required"`
	Seller  domain.Address `json:"seller" validate:"required,address"`
}

func (h *handler) end(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &endParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	sale, err := h.auction.EndAuction(ctx, market.EndAuctionRequest{
		Asset:   p.Asset,
		TokenId: p.TokenId,
		Seller:  p.Seller,
		Caller:  authMiddleware.Caller(c),
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, sale)
}
