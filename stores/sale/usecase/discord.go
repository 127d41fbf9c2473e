package usecase

import (
	"fmt"
	"math/big"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain/market"
)

// EmbedSender is the part of *discordgo.Session the sink uses
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type DiscordCfg struct {
	BotKey    string
	ChannelId string
	// Decimals of the payment currency, 18 for ether
	Decimals int32
	Symbol   string
	// AssetUrl is a format string taking asset and token id
	AssetUrl string
}

type discordSink struct {
	cfg    DiscordCfg
	sender EmbedSender
}

// NewDiscordSink posts sales to a discord channel
func NewDiscordSink(cfg DiscordCfg) (Sink, error) {
	session, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
	if err != nil {
		return nil, err
	}
	return NewDiscordSinkWithSender(cfg, session), nil
}

func NewDiscordSinkWithSender(cfg DiscordCfg, sender EmbedSender) Sink {
	return &discordSink{cfg, sender}
}

func (s *discordSink) Name() string {
	return "discord"
}

// FormatAmount renders a smallest unit amount in whole currency units
func FormatAmount(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

func (s *discordSink) Handle(c ctx.Ctx, e market.Event) error {
	if e.Type != market.EventSold || e.Sale == nil {
		return nil
	}
	sale := e.Sale

	msg := &discordgo.MessageEmbed{
		Title: "Item sold!",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Seller", Value: string(sale.Seller)},
			{Name: "Buyer", Value: string(sale.Buyer)},
			{Name: "Quantity", Value: fmt.Sprint(sale.Quantity)},
			{Name: "Price", Value: fmt.Sprintf("%s %s", FormatAmount(sale.Gross, s.cfg.Decimals), s.cfg.Symbol)},
			{Name: "Sale", Value: string(sale.Kind)},
		},
	}
	if s.cfg.AssetUrl != "" {
		msg.Description = fmt.Sprintf(s.cfg.AssetUrl, sale.Asset, sale.TokenId)
	}

	if _, err := s.sender.ChannelMessageSendEmbed(s.cfg.ChannelId, msg); err != nil {
		return err
	}
	return nil
}
