package ethereum

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

func TestSignatureService(t *testing.T) {
	req := require.New(t)
	privateKey, publicKey, err := GenerateKey()
	req.NoError(err)
	artist := domain.Address(crypto.PubkeyToAddress(*publicKey).Hex())

	svc := NewSignatureService(market.Eip712Domain{
		Name:              "gomarket",
		Version:           "1",
		ChainId:           1,
		VerifyingContract: "0x0000000000000000000000000000000000000abc",
	})
	mintReq := &market.CollectorMintRequest{
		AssetContract:   "0x0000000000000000000000000000000000000def",
		TokenURI:        "ipfs://token",
		Royalty:         10,
		Amount:          5,
		ArtistSigner:    artist,
		UnitPrice:       "1000",
		CollectorMintId: "1",
	}

	hash, err := svc.HashStruct(mintReq)
	req.NoError(err)
	req.Len(hash, 32)

	sig, err := crypto.Sign(hash, privateKey)
	req.NoError(err)
	signer, err := svc.RecoverSigner(hash, hexutil.Encode(sig))
	req.NoError(err)
	req.True(signer.Equals(artist))

	_, err = svc.RecoverSigner(hash, "0x00")
	req.ErrorIs(err, market.ErrInvalidSignature)
}
