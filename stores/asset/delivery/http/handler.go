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
	asset market.AssetUseCase
}

func New(e *echo.Echo, asset market.AssetUseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{asset}

	e.POST("/contracts", h.registerContract, authMiddleware.Auth(), authMiddleware.IsAdmin())

	g := e.Group("/assets/:asset")

	g.PUT("/approval", h.setApprovalForAll, authMiddleware.Auth())

	g.POST("/mint", h.mint, authMiddleware.Auth())

	g.GET("/:tokenId/holdings", h.holdings)

	g.GET("/:tokenId/royalty", h.royalty)
}

func assetParam(c echo.Context) (domain.Address, bool) {
	asset := c.Param("asset")
	return domain.Address(asset), validator.IsValidAddress(asset)
}

type contractParams struct {
	Address   domain.Address   `json:"address" validate:"required,address"`
	Name      string           `json:"name"`
	TokenType domain.TokenType `json:"tokenType" validate:"required"`
}

func (h *handler) registerContract(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &contractParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	contract := &market.AssetContract{Address: p.Address.ToLower(), Name: p.Name, TokenType: p.TokenType}
	if err := h.asset.RegisterContract(ctx, contract); err == domain.ErrConflict {
		return delivery.MakeJsonResp(c, http.StatusConflict, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, contract)
}

type approvalParams struct {
	Operator domain.Address `json:"operator" validate:"required,address"`
	Approved bool           `json:"approved"`
}

func (h *handler) setApprovalForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	asset, ok := assetParam(c)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	p := &approvalParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	if err := h.asset.SetApprovalForAll(ctx, asset, authMiddleware.Caller(c), p.Operator, p.Approved); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, p)
}

type mintParams struct {
	Amount        uint64                `json:"amount" validate:"required"`
	TokenURI      string                `json:"tokenURI"`
	Royalty       uint64                `json:"royalty"`
	Collaborators []market.Collaborator `json:"collaborators"`
}

// mint creates a token owned by the caller and opens its primary sale
func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	asset, ok := assetParam(c)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	p := &mintParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	caller := authMiddleware.Caller(c)
	record, err := h.asset.MintPrimary(ctx, market.MintRequest{
		Asset:    asset,
		To:       caller,
		Amount:   p.Amount,
		TokenURI: p.TokenURI,
		Royalty: market.RoyaltyInfo{
			Creator:       caller,
			Percent:       p.Royalty,
			Collaborators: p.Collaborators,
		},
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, record)
}

func (h *handler) holdings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	asset, ok := assetParam(c)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	holdings, err := h.asset.Holdings(ctx, asset, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, holdings)
}

func (h *handler) royalty(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	asset, ok := assetParam(c)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}
	royalty, err := h.asset.RoyaltyInfo(ctx, asset, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, royalty)
}
