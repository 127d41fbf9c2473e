package usecase

import (
	"time"

	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/keys"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/cache"
)

// LoadSettings reads the platform settings under key, e.g. "market"
func LoadSettings(v *viper.Viper, key string) (market.Settings, error) {
	s := market.Settings{}
	if err := v.UnmarshalKey(key, &s); err != nil {
		return s, xerrors.Errorf("unmarshal %s: %w", key, err)
	}
	if err := s.Validate(); err != nil {
		return s, xerrors.Errorf("invalid %s settings: %w", key, err)
	}
	return s, nil
}

type Cfg struct {
	Settings market.Settings
	Repo     market.ArtistWhitelistRepo
	// Whitelist caches whitelist lookups, nil disables caching
	Whitelist cache.Service
}

type impl struct {
	settings  market.Settings
	repo      market.ArtistWhitelistRepo
	whitelist cache.Service
}

func New(cfg *Cfg) market.PlatformUseCase {
	return &impl{
		settings:  cfg.Settings,
		repo:      cfg.Repo,
		whitelist: cfg.Whitelist,
	}
}

func whitelistKey(artist domain.Address) string {
	return keys.RedisKey(keys.PfxArtistWhitelist, artist.ToLowerStr())
}

func (im *impl) IsWhitelistedArtist(c ctx.Ctx, artist domain.Address) (bool, error) {
	if im.whitelist == nil {
		return im.repo.Has(c, artist)
	}

	whitelisted := false
	err := im.whitelist.GetByFunc(c, whitelistKey(artist), &whitelisted, func() (interface{}, error) {
		return im.repo.Has(c, artist)
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "artist": artist}).Error("whitelist.GetByFunc failed")
		return false, err
	}
	return whitelisted, nil
}

func (im *impl) AddArtist(c ctx.Ctx, artist domain.Address) error {
	if artist.IsZero() {
		return market.ErrInvalidAddress.WithDetail("artist")
	}
	if err := im.repo.Add(c, artist); err != nil {
		return err
	}
	return im.invalidate(c, artist)
}

func (im *impl) RemoveArtist(c ctx.Ctx, artist domain.Address) error {
	if err := im.repo.Remove(c, artist); err != nil {
		return err
	}
	return im.invalidate(c, artist)
}

func (im *impl) invalidate(c ctx.Ctx, artist domain.Address) error {
	if im.whitelist == nil {
		return nil
	}
	if err := im.whitelist.Del(c, whitelistKey(artist)); err != nil {
		c.WithFields(log.Fields{"err": err, "artist": artist}).Error("whitelist.Del failed")
		return err
	}
	return nil
}

func (im *impl) Settings() market.Settings {
	return im.settings
}

func (im *impl) PrimaryFeePercent() uint64 {
	return im.settings.PrimaryFeePercent
}

func (im *impl) SecondaryFeePercent() uint64 {
	return im.settings.SecondaryFeePercent
}

func (im *impl) CollectorFeePercent() uint64 {
	return im.settings.CollectorFeePercent
}

func (im *impl) AuctionDuration() time.Duration {
	return im.settings.AuctionDuration
}

func (im *impl) AuctionExtensionWindow() time.Duration {
	return im.settings.AuctionExtensionWindow
}

func (im *impl) PlatformTreasury() domain.Address {
	return im.settings.Treasury.ToLower()
}

func (im *impl) PlatformSigner() domain.Address {
	return im.settings.PlatformSigner.ToLower()
}

func (im *impl) MarketOperator(venue market.Venue) domain.Address {
	if venue == market.VenueAuction {
		return im.settings.AuctionOperator.ToLower()
	}
	return im.settings.FixedPriceOperator.ToLower()
}
