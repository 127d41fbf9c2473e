package usecase

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/stores/sale/repository"
)

type saleSuite struct {
	suite.Suite
	ctx ctx.Ctx
	im  market.SaleUseCase
}

func TestSaleSuite(t *testing.T) {
	suite.Run(t, new(saleSuite))
}

func (s *saleSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.im = New(&Cfg{Repo: repository.NewMemoryRepo()})
}

func (s *saleSuite) TestRecordAndFind() {
	first := &market.SaleRecord{Asset: "0xAA", TokenId: "1", Seller: "0xA1", Buyer: "0xB1", Gross: big.NewInt(1), SoldAt: time.Unix(1, 0)}
	second := &market.SaleRecord{Asset: "0xAA", TokenId: "2", Seller: "0xB1", Buyer: "0xC1", Gross: big.NewInt(2), SoldAt: time.Unix(2, 0)}
	s.Require().NoError(s.im.Record(s.ctx, first))
	s.Require().NoError(s.im.Record(s.ctx, second))
	s.NotEmpty(first.SaleId)
	s.NotEqual(first.SaleId, second.SaleId)

	all, err := s.im.FindAll(s.ctx)
	s.NoError(err)
	s.Len(all, 2)
	s.Equal(second.SaleId, all[0].SaleId)

	mine, err := s.im.FindAll(s.ctx, market.SaleWithAccount("0xb1"))
	s.NoError(err)
	s.Len(mine, 2)

	token, err := s.im.FindAll(s.ctx, market.SaleWithToken("0xaa", "1"))
	s.NoError(err)
	s.Len(token, 1)

	page, err := s.im.FindAll(s.ctx, market.SaleWithPagination(1, 5))
	s.NoError(err)
	s.Len(page, 1)
	s.Equal(first.SaleId, page[0].SaleId)

	s.Equal(domain.ErrConflict, s.im.Record(s.ctx, first))
}

type recordingSink struct {
	mu     sync.Mutex
	events []market.Event
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Handle(c ctx.Ctx, e market.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestPublisher(t *testing.T) {
	sink := &recordingSink{}
	p := NewPublisher(&PublisherCfg{Sinks: []Sink{sink, NewLogSink()}, Workers: 2})
	defer p.Close()

	p.Publish(ctx.Background(),
		market.Event{Type: market.EventListed},
		market.Event{Type: market.EventSold, Sale: &market.SaleRecord{SaleId: "x"}},
	)
	require.Eventually(t, func() bool { return sink.len() == 2 }, time.Second, 10*time.Millisecond)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	ret := m.Called(channelID, embed)
	return nil, ret.Error(0)
}

func TestDiscordSink(t *testing.T) {
	req := require.New(t)

	sender := &mockSender{}
	sink := NewDiscordSinkWithSender(DiscordCfg{ChannelId: "chan", Decimals: 18, Symbol: "ETH", AssetUrl: "https://market/%s/%s"}, sender)

	// only sales are posted
	req.NoError(sink.Handle(ctx.Background(), market.Event{Type: market.EventListed}))

	gross, _ := new(big.Int).SetString("1500000000000000000", 10)
	sender.On("ChannelMessageSendEmbed", "chan", mock.MatchedBy(func(e *discordgo.MessageEmbed) bool {
		return e.Description == "https://market/0xaa/7" && e.Fields[3].Value == "1.5 ETH"
	})).Return(nil).Once()

	req.NoError(sink.Handle(ctx.Background(), market.Event{Type: market.EventSold, Sale: &market.SaleRecord{
		Asset: "0xaa", TokenId: "7", Seller: "0xa1", Buyer: "0xb1", Quantity: 1, Gross: gross, Kind: market.SaleKindPrimary,
	}}))
	sender.AssertExpectations(t)
}

func TestFormatAmount(t *testing.T) {
	req := require.New(t)
	req.Equal("0", FormatAmount(nil, 18))
	req.Equal("0.000000000000000001", FormatAmount(big.NewInt(1), 18))
	req.Equal("51", FormatAmount(big.NewInt(51), 0))
}
