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
	market market.FixedPriceMarket
}

func New(e *echo.Echo, fixed market.FixedPriceMarket, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{fixed}

	g := e.Group("/fixed")

	g.GET("/listings", h.find)

	g.POST("/listings", h.list, authMiddleware.Auth())

	g.PATCH("/listings", h.update, authMiddleware.Auth())

	g.DELETE("/listings", h.delist, authMiddleware.Auth())

	g.POST("/purchases", h.purchase, authMiddleware.Auth())

	g.POST("/collector-mints", h.collectorMint, authMiddleware.Auth())
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	return v, nil
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
	if tokenId := c.QueryParam("tokenId"); tokenId != "" {
		opts = append(opts, market.WithTokenId(domain.TokenId(tokenId)))
	}
	if seller := c.QueryParam("seller"); seller != "" {
		if !validator.IsValidAddress(seller) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, market.WithSeller(domain.Address(seller)))
	}

	listings, err := h.market.Find(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listings)
}

type listParams struct {
	Asset     domain.Address `json:"asset" validate:"required,address"`
	TokenId   domain.TokenId `json:"tokenId" validate:"required"`
	Quantity  uint64         `json:"quantity" validate:"required"`
	UnitPrice string         `json:"unitPrice" validate:"required"`
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
	price, err := parseAmount(p.UnitPrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	listing, err := h.market.List(ctx, market.ListRequest{
		Asset:     p.Asset,
		TokenId:   p.TokenId,
		Seller:    authMiddleware.Caller(c),
		Quantity:  p.Quantity,
		UnitPrice: price,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, listing)
}

type updateParams struct {
	Asset     domain.Address `json:"asset" validate:"required,address"`
	TokenId   domain.TokenId `json:"tokenId" validate:"required"`
	UnitPrice string         `json:"unitPrice" validate:"required"`
	Quantity  *uint64        `json:"quantity"`
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &updateParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	price, err := parseAmount(p.UnitPrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	listing, err := h.market.UpdateListedNft(ctx, market.UpdateListingRequest{
		Asset:     p.Asset,
		TokenId:   p.TokenId,
		Seller:    authMiddleware.Caller(c),
		UnitPrice: price,
		Quantity:  p.Quantity,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listing)
}

type delistParams struct {
	Asset    domain.Address `json:"asset" validate:"required,address"`
	TokenId  domain.TokenId `json:"tokenId" validate:"required"`
	Quantity uint64         `json:"quantity"`
}

func (h *handler) delist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &delistParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	rest, err := h.market.DelistNft(ctx, market.DelistRequest{
		Asset:    p.Asset,
		TokenId:  p.TokenId,
		Seller:   authMiddleware.Caller(c),
		Quantity: p.Quantity,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, rest)
}

type purchaseParams struct {
	Asset   domain.Address `json:"asset" validate:"required,address"`
	TokenId domain.TokenId `json:"tokenId" validate:"required"`
	Seller  domain.Address `json:"seller" validate:"required,address"`
	Amount  uint64         `json:"amount" validate:"required"`
	Payment string         `json:"payment" validate:"required"`
}

func (h *handler) purchase(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &purchaseParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	payment, err := parseAmount(p.Payment)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	sale, err := h.market.PurchaseNft(ctx, market.PurchaseRequest{
		Asset:   p.Asset,
		TokenId: p.TokenId,
		Seller:  p.Seller,
		Buyer:   authMiddleware.Caller(c),
		Amount:  p.Amount,
		Payment: payment,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, sale)
}

type collectorMintParams struct {
	Request           market.CollectorMintRequest `json:"request" validate:"required"`
	Hash              string                      `json:"hash" validate:"required"`
	ArtistSignature   string                      `json:"artistSignature" validate:"required"`
	PlatformSignature string                      `json:"platformSignature" validate:"required"`
	PurchaseAmount    uint64                      `json:"purchaseAmount" validate:"required"`
	Payment           string                      `json:"payment" validate:"required"`
}

func (h *handler) collectorMint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &collectorMintParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	payment, err := parseAmount(p.Payment)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.market.CollectorMintPurchase(ctx, market.CollectorMintPurchaseRequest{
		Request:           p.Request,
		Hash:              p.Hash,
		ArtistSignature:   p.ArtistSignature,
		PlatformSignature: p.PlatformSignature,
		PurchaseAmount:    p.PurchaseAmount,
		Buyer:             authMiddleware.Caller(c),
		Payment:           payment,
	}, time.Now())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}
