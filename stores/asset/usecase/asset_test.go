package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/stores/asset/repository"
	ledgerRepo "github.com/x-xyz/gomarket/stores/primarysale/repository"
	ledgerUsecase "github.com/x-xyz/gomarket/stores/primarysale/usecase"
)

var (
	unique   = domain.Address("0x0000000000000000000000000000000000000721")
	fungible = domain.Address("0x0000000000000000000000000000000000001155")
	artist   = domain.Address("0x00000000000000000000000000000000000000A1")
	buyer    = domain.Address("0x00000000000000000000000000000000000000B1")
	operator = domain.Address("0x00000000000000000000000000000000000000C1")
)

type assetSuite struct {
	suite.Suite
	ctx    ctx.Ctx
	ledger market.PrimarySaleLedger
	im     market.AssetUseCase
}

func TestAssetSuite(t *testing.T) {
	suite.Run(t, new(assetSuite))
}

func (s *assetSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.ledger = ledgerUsecase.NewLedger(&ledgerUsecase.LedgerCfg{Repo: ledgerRepo.NewMemoryRepo()})
	s.im = New(&Cfg{
		Repo:       repository.NewMemoryRepo(),
		Ledger:     s.ledger,
		Transactor: txn.New(nil),
	})
	s.Require().NoError(s.im.RegisterContract(s.ctx, &market.AssetContract{Address: unique, TokenType: domain.TokenType721}))
	s.Require().NoError(s.im.RegisterContract(s.ctx, &market.AssetContract{Address: fungible, TokenType: domain.TokenType1155}))
}

func (s *assetSuite) TestRegisterContract() {
	s.Equal(domain.ErrConflict, s.im.RegisterContract(s.ctx, &market.AssetContract{Address: unique, TokenType: domain.TokenType721}))
	s.ErrorIs(s.im.RegisterContract(s.ctx, &market.AssetContract{Address: operator, TokenType: 20}), market.ErrUnsupportedAsset)

	_, err := s.im.TokenType(s.ctx, operator)
	s.ErrorIs(err, market.ErrUnsupportedAsset)

	tokenType, err := s.im.TokenType(s.ctx, fungible)
	s.NoError(err)
	s.Equal(domain.TokenType1155, tokenType)
}

func (s *assetSuite) TestMint() {
	_, err := s.im.Mint(s.ctx, market.MintRequest{Asset: unique, To: artist, Amount: 2})
	s.ErrorIs(err, market.ErrInvalidQuantity)

	_, err = s.im.Mint(s.ctx, market.MintRequest{Asset: unique, To: artist, Amount: 1, Royalty: market.RoyaltyInfo{Percent: 101}})
	s.ErrorIs(err, market.ErrInvalidRoyalty)

	_, err = s.im.Mint(s.ctx, market.MintRequest{Asset: unique, To: artist, Amount: 1, Royalty: market.RoyaltyInfo{
		Collaborators: []market.Collaborator{{Address: artist, Share: 60}, {Address: buyer, Share: 30}},
	}})
	s.ErrorIs(err, market.ErrCollaboratorSharesMustSumTo100)

	id, err := s.im.Mint(s.ctx, market.MintRequest{Asset: unique, To: artist, Amount: 1, Royalty: market.RoyaltyInfo{Percent: 10}})
	s.Require().NoError(err)
	s.Equal(domain.TokenId("1"), id)

	id, err = s.im.Mint(s.ctx, market.MintRequest{Asset: unique, To: artist, Amount: 1})
	s.Require().NoError(err)
	s.Equal(domain.TokenId("2"), id)

	owner, err := s.im.OwnerOf(s.ctx, unique, "1")
	s.NoError(err)
	s.Equal(artist.ToLower(), owner)

	royalty, err := s.im.RoyaltyInfo(s.ctx, unique, "1")
	s.NoError(err)
	s.Equal(uint64(10), royalty.Percent)
	s.Equal(artist.ToLower(), royalty.Creator)

	royalty, err = s.im.RoyaltyInfo(s.ctx, unique, "404")
	s.NoError(err)
	s.Equal(uint64(0), royalty.Percent)
}

func (s *assetSuite) TestMintPrimary() {
	record, err := s.im.MintPrimary(s.ctx, market.MintRequest{Asset: fungible, To: artist, Amount: 10})
	s.Require().NoError(err)
	s.Equal(uint64(10), record.RemainingUnits)
	s.Equal(artist.ToLower(), record.FirstOwner)

	balance, err := s.im.BalanceOf(s.ctx, fungible, record.TokenId, artist)
	s.NoError(err)
	s.Equal(uint64(10), balance)

	kind, err := s.ledger.KindOf(s.ctx, fungible, record.TokenId)
	s.NoError(err)
	s.Equal(market.SaleKindPrimary, kind)
}

func (s *assetSuite) TestTransfers() {
	uid, err := s.im.Mint(s.ctx, market.MintRequest{Asset: unique, To: artist, Amount: 1})
	s.Require().NoError(err)
	fid, err := s.im.Mint(s.ctx, market.MintRequest{Asset: fungible, To: artist, Amount: 5})
	s.Require().NoError(err)

	s.ErrorIs(s.im.TransferUnique(s.ctx, unique, buyer, artist, uid), market.ErrNotOwner)
	s.ErrorIs(s.im.TransferUnique(s.ctx, fungible, artist, buyer, fid), market.ErrUnsupportedAsset)
	s.NoError(s.im.TransferUnique(s.ctx, unique, artist, buyer, uid))
	owner, err := s.im.OwnerOf(s.ctx, unique, uid)
	s.NoError(err)
	s.Equal(buyer.ToLower(), owner)

	s.ErrorIs(s.im.TransferFungible(s.ctx, fungible, artist, buyer, fid, 6), market.ErrNotOwner)
	s.NoError(s.im.TransferFungible(s.ctx, fungible, artist, buyer, fid, 2))

	holdings, err := s.im.Holdings(s.ctx, fungible, fid)
	s.NoError(err)
	s.Len(holdings, 2)
	a, _ := s.im.BalanceOf(s.ctx, fungible, fid, artist)
	b, _ := s.im.BalanceOf(s.ctx, fungible, fid, buyer)
	s.Equal(uint64(3), a)
	s.Equal(uint64(2), b)
}

func (s *assetSuite) TestTransferRollback() {
	fid, err := s.im.Mint(s.ctx, market.MintRequest{Asset: fungible, To: artist, Amount: 5})
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = txn.New(nil).RunWithTransaction(s.ctx, func(c ctx.Ctx) error {
		if err := s.im.TransferFungible(c, fungible, artist, buyer, fid, 5); err != nil {
			return err
		}
		return boom
	})
	s.Equal(boom, err)
	balance, _ := s.im.BalanceOf(s.ctx, fungible, fid, artist)
	s.Equal(uint64(5), balance)
	_, err = s.im.OwnerOf(s.ctx, unique, "1")
	s.Equal(domain.ErrNotFound, err)
}

func (s *assetSuite) TestApproval() {
	approved, err := s.im.IsApprovedForAll(s.ctx, unique, artist, operator)
	s.NoError(err)
	s.False(approved)

	s.NoError(s.im.SetApprovalForAll(s.ctx, unique, artist, operator, true))
	approved, err = s.im.IsApprovedForAll(s.ctx, unique, artist, operator)
	s.NoError(err)
	s.True(approved)

	s.ErrorIs(s.im.SetApprovalForAll(s.ctx, buyer, artist, operator, true), market.ErrUnsupportedAsset)
}
