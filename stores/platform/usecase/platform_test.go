package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/cache"
	"github.com/x-xyz/gomarket/service/cache/provider/primitive"
	"github.com/x-xyz/gomarket/stores/platform/repository"
)

const settingsYaml = `
market:
  primary_fee_percent: 15
  secondary_fee_percent: 5
  collector_fee_percent: 3
  auction_duration: 24h
  auction_extension_window: 15m
  treasury: "0x00000000000000000000000000000000000000F1"
  platform_signer: "0x00000000000000000000000000000000000000F2"
  fixed_price_operator: "0x00000000000000000000000000000000000000F3"
  auction_operator: "0x00000000000000000000000000000000000000F4"
`

func loadYaml(t *testing.T, content string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestLoadSettings(t *testing.T) {
	req := require.New(t)

	s, err := LoadSettings(loadYaml(t, settingsYaml), "market")
	req.NoError(err)
	req.Equal(uint64(15), s.PrimaryFeePercent)
	req.Equal(uint64(5), s.SecondaryFeePercent)
	req.Equal(uint64(3), s.CollectorFeePercent)
	req.Equal(24*time.Hour, s.AuctionDuration)
	req.Equal(15*time.Minute, s.AuctionExtensionWindow)
	req.Equal(domain.Address("0x00000000000000000000000000000000000000F1"), s.Treasury)

	bad := strings.Replace(settingsYaml, "primary_fee_percent: 15", "primary_fee_percent: 98", 1)
	_, err = LoadSettings(loadYaml(t, bad), "market")
	req.Error(err)
	req.ErrorIs(err, market.ErrInvalidRoyalty)
}

type platformSuite struct {
	suite.Suite
	ctx  ctx.Ctx
	repo market.ArtistWhitelistRepo
	im   market.PlatformUseCase
}

func TestPlatformSuite(t *testing.T) {
	suite.Run(t, new(platformSuite))
}

func (s *platformSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.repo = repository.NewMemoryRepo()
	s.im = New(&Cfg{
		Settings: market.Settings{
			Treasury:           "0x00000000000000000000000000000000000000F1",
			FixedPriceOperator: "0x00000000000000000000000000000000000000F3",
			AuctionOperator:    "0x00000000000000000000000000000000000000F4",
		},
		Repo: s.repo,
		Whitelist: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "test",
			Cache: primitive.NewPrimitive("whitelist", 1),
		}),
	})
}

func (s *platformSuite) TestWhitelist() {
	artist := domain.Address("0x00000000000000000000000000000000000000A1")

	ok, err := s.im.IsWhitelistedArtist(s.ctx, artist)
	s.NoError(err)
	s.False(ok)

	s.NoError(s.im.AddArtist(s.ctx, artist))
	ok, err = s.im.IsWhitelistedArtist(s.ctx, artist)
	s.NoError(err)
	s.True(ok)

	// served from cache until invalidated
	s.NoError(s.repo.Remove(s.ctx, artist))
	ok, err = s.im.IsWhitelistedArtist(s.ctx, artist)
	s.NoError(err)
	s.True(ok)

	s.NoError(s.im.RemoveArtist(s.ctx, artist))
	ok, err = s.im.IsWhitelistedArtist(s.ctx, artist)
	s.NoError(err)
	s.False(ok)

	s.ErrorIs(s.im.AddArtist(s.ctx, domain.EmptyAddress), market.ErrInvalidAddress)
}

func (s *platformSuite) TestOperators() {
	s.Equal(domain.Address("0x00000000000000000000000000000000000000f3"), s.im.MarketOperator(market.VenueFixedPrice))
	s.Equal(domain.Address("0x00000000000000000000000000000000000000f4"), s.im.MarketOperator(market.VenueAuction))
	s.Equal(domain.Address("0x00000000000000000000000000000000000000f1"), s.im.PlatformTreasury())
}
