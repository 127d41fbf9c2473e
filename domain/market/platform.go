package market

import (
	"time"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
)

// Settings are the platform constants, loaded from the market config section
type Settings struct {
	PrimaryFeePercent      uint64         `mapstructure:"primary_fee_percent" json:"primaryFeePercent"`
	SecondaryFeePercent    uint64         `mapstructure:"secondary_fee_percent" json:"secondaryFeePercent"`
	CollectorFeePercent    uint64         `mapstructure:"collector_fee_percent" json:"collectorFeePercent"`
	AuctionDuration        time.Duration  `mapstructure:"auction_duration" json:"auctionDuration"`
	AuctionExtensionWindow time.Duration  `mapstructure:"auction_extension_window" json:"auctionExtensionWindow"`
	Treasury               domain.Address `mapstructure:"treasury" json:"treasury"`
	PlatformSigner         domain.Address `mapstructure:"platform_signer" json:"platformSigner"`
	FixedPriceOperator     domain.Address `mapstructure:"fixed_price_operator" json:"fixedPriceOperator"`
	AuctionOperator        domain.Address `mapstructure:"auction_operator" json:"auctionOperator"`
}

// Validate rejects fee settings that could not be paid out of a gross amount
func (s *Settings) Validate() error {
	if s.PrimaryFeePercent+s.CollectorFeePercent > 100 || s.SecondaryFeePercent > 100 {
		return ErrInvalidRoyalty.WithDetail("fee percent")
	}
	if s.AuctionDuration <= 0 || s.AuctionExtensionWindow < 0 {
		return ErrInvalidQuantity.WithDetail("auction duration")
	}
	if s.Treasury.IsZero() {
		return ErrInvalidAddress.WithDetail("treasury")
	}
	if s.PlatformSigner.IsZero() {
		return ErrInvalidAddress.WithDetail("platform_signer")
	}
	if s.FixedPriceOperator.IsZero() || s.AuctionOperator.IsZero() {
		return ErrInvalidAddress.WithDetail("operator")
	}
	return nil
}

// PlatformUseCase is the ConfigService plus whitelist management
type PlatformUseCase interface {
	ConfigService
	Settings() Settings
	AddArtist(c ctx.Ctx, artist domain.Address) error
	RemoveArtist(c ctx.Ctx, artist domain.Address) error
}
