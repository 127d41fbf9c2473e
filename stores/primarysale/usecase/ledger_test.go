package usecase

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/stores/primarysale/repository"
)

var (
	asset   = domain.Address("0xAbC0000000000000000000000000000000000001")
	tokenId = domain.TokenId("7")
	artist  = domain.Address("0x00000000000000000000000000000000000000a1")
)

type ledgerSuite struct {
	suite.Suite
	ctx ctx.Ctx
	im  market.PrimarySaleLedger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(ledgerSuite))
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.im = NewLedger(&LedgerCfg{Repo: repository.NewMemoryRepo()})
}

func (s *ledgerSuite) TestRecordMint() {
	record, err := s.im.RecordMint(s.ctx, asset, tokenId, 10, artist)
	s.Require().NoError(err)
	s.Equal(uint64(10), record.RemainingUnits)
	s.False(record.SoldOut)

	_, err = s.im.RecordMint(s.ctx, asset.ToLower(), tokenId, 5, artist)
	s.ErrorIs(err, market.ErrPrimarySaleAlreadyRecorded)

	_, err = s.im.RecordMint(s.ctx, asset, "8", 0, artist)
	s.ErrorIs(err, market.ErrInvalidQuantity)
}

func (s *ledgerSuite) TestRecordMintSupplyCap() {
	record, err := s.im.RecordMint(s.ctx, asset, "9", MaxTotalSupply, artist)
	s.Require().NoError(err)
	s.Equal(uint64(MaxTotalSupply), record.RemainingUnits)

	_, err = s.im.RecordMint(s.ctx, asset, "10", MaxTotalSupply+1, artist)
	s.ErrorIs(err, market.ErrInvalidQuantity)
	_, err = s.im.Peek(s.ctx, asset, "10")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ledgerSuite) TestConsumeUntilSoldOut() {
	_, err := s.im.RecordMint(s.ctx, asset, tokenId, 10, artist)
	s.Require().NoError(err)

	kind, err := s.im.Consume(s.ctx, asset, tokenId, 4)
	s.NoError(err)
	s.Equal(market.SaleKindPrimary, kind)

	record, err := s.im.Peek(s.ctx, asset, tokenId)
	s.Require().NoError(err)
	s.Equal(uint64(6), record.RemainingUnits)

	// more than remaining takes the rest
	kind, err = s.im.Consume(s.ctx, asset, tokenId, 9)
	s.NoError(err)
	s.Equal(market.SaleKindPrimary, kind)

	record, err = s.im.Peek(s.ctx, asset, tokenId)
	s.Require().NoError(err)
	s.Equal(uint64(0), record.RemainingUnits)
	s.True(record.SoldOut)

	for i := 0; i < 3; i++ {
		kind, err = s.im.Consume(s.ctx, asset, tokenId, 1)
		s.NoError(err)
		s.Equal(market.SaleKindSecondary, kind)
	}
	record, _ = s.im.Peek(s.ctx, asset, tokenId)
	s.Equal(uint64(0), record.RemainingUnits)
}

func (s *ledgerSuite) TestUnknownTokenIsSecondary() {
	kind, err := s.im.Consume(s.ctx, asset, "404", 1)
	s.NoError(err)
	s.Equal(market.SaleKindSecondary, kind)

	kind, err = s.im.KindOf(s.ctx, asset, "404")
	s.NoError(err)
	s.Equal(market.SaleKindSecondary, kind)

	_, err = s.im.Peek(s.ctx, asset, "404")
	s.Equal(domain.ErrNotFound, err)
	s.NoError(s.im.CheckListable(s.ctx, asset, "404", 1000))
}

func (s *ledgerSuite) TestCheckListable() {
	_, err := s.im.RecordMint(s.ctx, asset, tokenId, 3, artist)
	s.Require().NoError(err)

	s.NoError(s.im.CheckListable(s.ctx, asset, tokenId, 3))
	s.ErrorIs(s.im.CheckListable(s.ctx, asset, tokenId, 4), market.ErrPrimarySupplyExceeded)

	_, err = s.im.Consume(s.ctx, asset, tokenId, 3)
	s.Require().NoError(err)
	s.NoError(s.im.CheckListable(s.ctx, asset, tokenId, 100))
}

func (s *ledgerSuite) TestKindOf() {
	_, err := s.im.RecordMint(s.ctx, asset, tokenId, 1, artist)
	s.Require().NoError(err)

	kind, err := s.im.KindOf(s.ctx, asset, tokenId)
	s.NoError(err)
	s.Equal(market.SaleKindPrimary, kind)

	_, err = s.im.Consume(s.ctx, asset, tokenId, 1)
	s.Require().NoError(err)
	kind, err = s.im.KindOf(s.ctx, asset, tokenId)
	s.NoError(err)
	s.Equal(market.SaleKindSecondary, kind)
}

func (s *ledgerSuite) TestRollbackRestoresUnits() {
	_, err := s.im.RecordMint(s.ctx, asset, tokenId, 5, artist)
	s.Require().NoError(err)

	boom := errors.New("transfer failed")
	err = txn.New(nil).RunWithTransaction(s.ctx, func(c ctx.Ctx) error {
		if _, err := s.im.Consume(c, asset, tokenId, 5); err != nil {
			return err
		}
		if _, err := s.im.RecordMint(c, asset, "9", 1, artist); err != nil {
			return err
		}
		return boom
	})
	s.Equal(boom, err)

	record, err := s.im.Peek(s.ctx, asset, tokenId)
	s.Require().NoError(err)
	s.Equal(uint64(5), record.RemainingUnits)
	s.False(record.SoldOut)

	_, err = s.im.Peek(s.ctx, asset, "9")
	s.Equal(domain.ErrNotFound, err)
}

func (s *ledgerSuite) TestConcurrentConsumeNeverOversells() {
	_, err := s.im.RecordMint(s.ctx, asset, tokenId, 50, artist)
	s.Require().NoError(err)

	var mu sync.Mutex
	primary := 0
	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kind, err := s.im.Consume(s.ctx, asset, tokenId, 1)
			if err != nil {
				return
			}
			if kind == market.SaleKindPrimary {
				mu.Lock()
				primary++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(50, primary)
	record, _ := s.im.Peek(s.ctx, asset, tokenId)
	s.True(record.SoldOut)
}
