package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/service/cache"
	"github.com/x-xyz/gomarket/service/cache/provider/primitive"
	"github.com/x-xyz/gomarket/stores/auth/usecase"
)

func newUsecase() domain.AuthUsecase {
	return usecase.New(&usecase.Cfg{
		JwtSecret: "jwt-secret",
		Nonces: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "nonce",
			Cache: primitive.NewPrimitive("nonce", 1),
		}),
	})
}

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := newUsecase()
	tkn, err := u.SignToken(ctx, "0xMyAddress")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "0xmyaddress", ads)

	_, err = u.ParseToken(ctx, tkn+"x")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	req := require.New(t)
	ctx := ctx.Background()
	u := newUsecase()

	privateKey, err := crypto.GenerateKey()
	req.NoError(err)
	address := domain.Address(crypto.PubkeyToAddress(privateKey.PublicKey).Hex())

	_, err = u.Login(ctx, address, "0x00")
	req.Equal(domain.ErrUnauthorized, err)

	nonce, err := u.Nonce(ctx, address)
	req.NoError(err)

	sign := func(msg string) string {
		sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), privateKey)
		req.NoError(err)
		return hexutil.Encode(sig)
	}

	_, err = u.Login(ctx, address, sign("wrong message"))
	req.Equal(domain.ErrInvalidSignature, err)

	tkn, err := u.Login(ctx, address, sign(fmt.Sprintf(usecase.LoginMsgTemplate, nonce)))
	req.NoError(err)
	ads, err := u.ParseToken(ctx, tkn)
	req.NoError(err)
	req.Equal(address.ToLowerStr(), ads)

	// nonce is single use
	_, err = u.Login(ctx, address, sign(fmt.Sprintf(usecase.LoginMsgTemplate, nonce)))
	req.Equal(domain.ErrUnauthorized, err)
}
