package usecase

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/keylock"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/domain/market"
)

type Cfg struct {
	Repo       market.CollectorMintRepo
	Signature  market.SignatureService
	Config     market.ConfigService
	Asset      market.AssetService
	Ledger     market.PrimarySaleLedger
	Registry   market.ListingRegistry
	Settler    market.Settler
	Transactor market.Transactor
	Locks      *keylock.Locker
	Publisher  market.EventPublisher
}

type gate struct {
	repo      market.CollectorMintRepo
	signature market.SignatureService
	config    market.ConfigService
	asset     market.AssetService
	ledger    market.PrimarySaleLedger
	registry  market.ListingRegistry
	settler   market.Settler
	tx        market.Transactor
	locks     *keylock.Locker
	publisher market.EventPublisher
	met       metrics.Service
}

// New returns the collector mint gate. Registry must be the fixed price registry.
func New(cfg *Cfg) market.CollectorMintGate {
	return &gate{
		repo:      cfg.Repo,
		signature: cfg.Signature,
		config:    cfg.Config,
		asset:     cfg.Asset,
		ledger:    cfg.Ledger,
		registry:  cfg.Registry,
		settler:   cfg.Settler,
		tx:        cfg.Transactor,
		locks:     cfg.Locks,
		publisher: cfg.Publisher,
		met:       metrics.New("collectormint"),
	}
}

// authorize checks the digest and both signatures over it
func (im *gate) authorize(c ctx.Ctx, req *market.CollectorMintPurchaseRequest) error {
	hash, err := im.signature.HashStruct(&req.Request)
	if err != nil {
		c.WithFields(log.Fields{"err": err}).Error("signature.HashStruct failed")
		return market.ErrInvalidMintRequest.WithDetail(err.Error())
	}
	if !strings.EqualFold(hexutil.Encode(hash), req.Hash) {
		return market.ErrInvalidSignature.WithDetail("hash")
	}

	artist, err := im.signature.RecoverSigner(hash, req.ArtistSignature)
	if err != nil || !artist.Equals(req.Request.ArtistSigner) {
		return market.UnauthorizedOnNFT(market.RoleArtist)
	}
	whitelisted, err := im.config.IsWhitelistedArtist(c, artist)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "artist": artist}).Error("config.IsWhitelistedArtist failed")
		return err
	}
	if !whitelisted {
		return market.UnauthorizedOnNFT(market.RoleArtist)
	}

	platform, err := im.signature.RecoverSigner(hash, req.PlatformSignature)
	if err != nil || !platform.Equals(im.config.PlatformSigner()) {
		return market.UnauthorizedOnNFT(market.RolePlatform)
	}
	return nil
}

// CollectorMintPurchase mints the signed request to the artist, opens its
// fixed price listing and sells purchaseAmount units to the buyer. Either all
// of it happens or none of it.
func (im *gate) CollectorMintPurchase(c ctx.Ctx, req market.CollectorMintPurchaseRequest, now time.Time) (*market.CollectorMintResult, error) {
	mint := &req.Request
	if err := mint.Validate(); err != nil {
		return nil, err
	}
	if req.PurchaseAmount == 0 || req.PurchaseAmount > mint.Amount {
		return nil, market.ErrInvalidQuantity
	}
	if err := im.authorize(c, &req); err != nil {
		im.met.BumpSum("unauthorized", 1)
		return nil, err
	}

	artist := mint.ArtistSigner.ToLower()
	defer im.locks.Lock(keys.RedisKey(keys.PfxCollectorMint, artist.ToLowerStr(), mint.CollectorMintId))()

	if used, err := im.repo.IsUsed(c, artist, mint.CollectorMintId); err != nil {
		return nil, err
	} else if used {
		return nil, market.ErrCollectorMintIdUsed
	}

	price, err := mint.Price()
	if err != nil {
		return nil, err
	}
	required := new(big.Int).Mul(price, new(big.Int).SetUint64(req.PurchaseAmount))
	required.Add(required, market.CollectorSurcharge(required, im.config.CollectorFeePercent()))
	if req.Payment == nil || req.Payment.Cmp(required) != 0 {
		return nil, market.ErrInvalidAmountForThisPurchase.WithDetail("required " + required.String())
	}

	res := &market.CollectorMintResult{}
	err = im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.repo.MarkUsed(c, artist, mint.CollectorMintId); err != nil {
			return err
		}

		tokenId, err := im.asset.Mint(c, market.MintRequest{
			Asset:    mint.AssetContract,
			To:       artist,
			Amount:   mint.Amount,
			TokenURI: mint.TokenURI,
			Royalty:  mint.ToRoyaltyInfo(),
		})
		if err != nil {
			c.WithFields(log.Fields{"err": err, "asset": mint.AssetContract}).Error("asset.Mint failed")
			return err
		}
		res.TokenId = tokenId

		if _, err := im.ledger.RecordMint(c, mint.AssetContract, tokenId, mint.Amount, artist); err != nil {
			return err
		}

		listing, err := im.registry.List(c, market.ListRequest{
			Asset:     mint.AssetContract,
			TokenId:   tokenId,
			Seller:    artist,
			Quantity:  mint.Amount,
			UnitPrice: price,
		}, now)
		if err != nil {
			return err
		}

		sale, err := im.settler.Settle(c, market.SettleRequest{
			Listing:      listing,
			Buyer:        req.Buyer,
			Amount:       req.PurchaseAmount,
			Gross:        req.Payment,
			ExpectedKind: market.SaleKindPrimary,
		}, now)
		if err != nil {
			return err
		}
		res.Sale = sale

		if req.PurchaseAmount < mint.Amount {
			listing.Quantity -= req.PurchaseAmount
			res.Listing = listing
		}
		return nil
	})
	if err != nil {
		im.met.BumpSum("failed", 1)
		c.WithFields(log.Fields{"err": err, "artist": artist, "collectorMintId": mint.CollectorMintId}).Warn("collector mint purchase failed")
		return nil, err
	}
	im.met.BumpSum("minted", 1)

	base := market.Event{
		Venue:   market.VenueFixedPrice,
		Asset:   res.Sale.Asset,
		TokenId: res.TokenId,
		Seller:  artist,
		At:      now,
	}
	minted := base
	minted.Type = market.EventCollectorMinted
	minted.Quantity = mint.Amount
	minted.Amount = price
	sold := base
	sold.Type = market.EventSold
	sold.Actor = res.Sale.Buyer
	sold.Quantity = res.Sale.Quantity
	sold.Amount = domain.CloneBigInt(res.Sale.Gross)
	sold.Sale = res.Sale
	if im.publisher != nil {
		im.publisher.Publish(c, minted, sold)
	}
	return res, nil
}
