package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/redis"
	mockRedis "github.com/x-xyz/gomarket/service/redis/mocks"
)

type redisRepoSuite struct {
	suite.Suite
	ctx   ctx.Ctx
	redis *mockRedis.Service
	im    market.PrimarySaleRepo
	key   market.TokenKey
}

func TestRedisRepoSuite(t *testing.T) {
	suite.Run(t, new(redisRepoSuite))
}

func (s *redisRepoSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.redis = &mockRedis.Service{}
	s.im = NewRedisRepo(s.redis)
	s.key = market.NewTokenKey("0xAAA", "1")
}

func (s *redisRepoSuite) TearDownTest() {
	s.redis.AssertExpectations(s.T())
}

func (s *redisRepoSuite) TestRecordKey() {
	s.Equal("{primarySale:0xaaa:1}", recordKey(s.key))
}

func (s *redisRepoSuite) TestCreate() {
	rk := recordKey(s.key)
	s.redis.On("ScriptDo", mock.Anything, createScript, rk, "0xaaa", "1", "10", "0xbbb").Return(int64(1), nil).Once()
	s.NoError(s.im.Create(s.ctx, &market.PrimarySaleRecord{Asset: "0xAAA", TokenId: "1", TotalSupply: 10, FirstOwner: "0xBBB"}))

	s.redis.On("ScriptDo", mock.Anything, createScript, rk, "0xaaa", "1", "10", "0xbbb").Return(int64(0), nil).Once()
	err := s.im.Create(s.ctx, &market.PrimarySaleRecord{Asset: "0xAAA", TokenId: "1", TotalSupply: 10, FirstOwner: "0xBBB"})
	s.ErrorIs(err, market.ErrPrimarySaleAlreadyRecorded)
}

func (s *redisRepoSuite) TestCreateRollback() {
	rk := recordKey(s.key)
	s.redis.On("ScriptDo", mock.Anything, createScript, rk, "0xaaa", "1", "1", "0xbbb").Return(int64(1), nil).Once()
	s.redis.On("Del", mock.Anything, rk).Return(1, nil).Once()

	boom := errors.New("boom")
	err := txn.New(nil).RunWithTransaction(s.ctx, func(c ctx.Ctx) error {
		if err := s.im.Create(c, &market.PrimarySaleRecord{Asset: "0xAAA", TokenId: "1", TotalSupply: 1, FirstOwner: "0xBBB"}); err != nil {
			return err
		}
		return boom
	})
	s.Equal(boom, err)
}

func (s *redisRepoSuite) TestFindOne() {
	rk := recordKey(s.key)
	s.redis.On("HGetAll", mock.Anything, rk).Return(nil, redis.ErrNotFound).Once()
	_, err := s.im.FindOne(s.ctx, s.key)
	s.Equal(domain.ErrNotFound, err)

	s.redis.On("HGetAll", mock.Anything, rk).Return(map[string][]byte{
		"asset":       []byte("0xaaa"),
		"tokenId":     []byte("1"),
		"totalSupply": []byte("10"),
		"remaining":   []byte("0"),
		"firstOwner":  []byte("0xbbb"),
		"soldOut":     []byte("1"),
	}, nil).Once()
	record, err := s.im.FindOne(s.ctx, s.key)
	s.Require().NoError(err)
	s.Equal(&market.PrimarySaleRecord{
		Asset:          "0xaaa",
		TokenId:        "1",
		TotalSupply:    10,
		RemainingUnits: 0,
		FirstOwner:     "0xbbb",
		SoldOut:        true,
	}, record)
}

func (s *redisRepoSuite) TestConsumeAndRollback() {
	rk := recordKey(s.key)
	s.redis.On("ScriptDo", mock.Anything, consumeScript, rk, "3").Return(int64(2), nil).Once()
	s.redis.On("ScriptDo", mock.Anything, restoreScript, rk, "2").Return(int64(1), nil).Once()

	boom := errors.New("boom")
	err := txn.New(nil).RunWithTransaction(s.ctx, func(c ctx.Ctx) error {
		taken, err := s.im.Consume(c, s.key, 3)
		s.NoError(err)
		s.Equal(uint64(2), taken)
		return boom
	})
	s.Equal(boom, err)
}

func (s *redisRepoSuite) TestConsumeNothing() {
	rk := recordKey(s.key)
	s.redis.On("ScriptDo", mock.Anything, consumeScript, rk, "1").Return(int64(0), nil).Once()
	taken, err := s.im.Consume(s.ctx, s.key, 1)
	s.NoError(err)
	s.Equal(uint64(0), taken)
}
