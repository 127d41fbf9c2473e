package ethereum

import (
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type signatureService struct {
	domain market.Eip712Domain
}

// NewSignatureService verifies collector mint signatures under d
func NewSignatureService(d market.Eip712Domain) market.SignatureService {
	return &signatureService{domain: d}
}

func (im *signatureService) RecoverSigner(hash []byte, signature string) (domain.Address, error) {
	addr, err := RecoverHashSigner(hash, signature)
	if err != nil {
		return "", market.ErrInvalidSignature.WithDetail(err.Error())
	}
	return domain.Address(addr.Hex()).ToLower(), nil
}

func (im *signatureService) HashStruct(req *market.CollectorMintRequest) ([]byte, error) {
	return req.Hash(im.domain)
}
