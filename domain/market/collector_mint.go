package market

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/x-xyz/gomarket/domain"
)

const (
	CollectorMintPrimaryType = "CollectorMint"
	Eip712DomainName         = "EIP712Domain"
)

// CollectorMintRequest is signed off-chain by the artist and the platform.
// Numbers travel as decimal strings so the signed payload is unambiguous.
type CollectorMintRequest struct {
	AssetContract   domain.Address   `json:"assetContract" validate:"required"`
	TokenURI        string           `json:"tokenURI"`
	Royalty         uint64           `json:"royalty"`
	Collaborators   []domain.Address `json:"collaborators"`
	Shares          []uint64         `json:"shares"`
	Amount          uint64           `json:"amount" validate:"required"`
	ArtistSigner    domain.Address   `json:"artistSigner" validate:"required"`
	UnitPrice       string           `json:"unitPrice" validate:"required"`
	CollectorMintId string           `json:"collectorMintId" validate:"required"`
}

// Eip712Domain configures the domain separator of collector mint signatures
type Eip712Domain struct {
	Name              string
	Version           string
	ChainId           domain.ChainId
	VerifyingContract domain.Address
}

func (d Eip712Domain) toTypedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           math.NewHexOrDecimal256(int64(d.ChainId)),
		VerifyingContract: d.VerifyingContract.ToLowerStr(),
	}
}

var CollectorMintTypes = apitypes.Types{
	CollectorMintPrimaryType: {
		{Name: "assetContract", Type: "address"},
		{Name: "tokenURI", Type: "string"},
		{Name: "royalty", Type: "uint256"},
		{Name: "collaborators", Type: "address[]"},
		{Name: "shares", Type: "uint256[]"},
		{Name: "amount", Type: "uint256"},
		{Name: "artistSigner", Type: "address"},
		{Name: "unitPrice", Type: "uint256"},
		{Name: "collectorMintId", Type: "uint256"},
	},
	Eip712DomainName: {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
}

func (r *CollectorMintRequest) ToMessage() apitypes.TypedDataMessage {
	collaborators := []interface{}{}
	for _, c := range r.Collaborators {
		collaborators = append(collaborators, c.ToLowerStr())
	}
	shares := []interface{}{}
	for _, s := range r.Shares {
		shares = append(shares, new(big.Int).SetUint64(s).String())
	}
	return apitypes.TypedDataMessage{
		"assetContract":   r.AssetContract.ToLowerStr(),
		"tokenURI":        r.TokenURI,
		"royalty":         new(big.Int).SetUint64(r.Royalty).String(),
		"collaborators":   collaborators,
		"shares":          shares,
		"amount":          new(big.Int).SetUint64(r.Amount).String(),
		"artistSigner":    r.ArtistSigner.ToLowerStr(),
		"unitPrice":       r.UnitPrice,
		"collectorMintId": r.CollectorMintId,
	}
}

// Hash returns the EIP-712 digest keccak256("\x19\x01" || domainSeparator || hashStruct(request))
func (r *CollectorMintRequest) Hash(d Eip712Domain) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       CollectorMintTypes,
		PrimaryType: CollectorMintPrimaryType,
		Domain:      d.toTypedDataDomain(),
		Message:     r.ToMessage(),
	}

	domainSeparator, err := typedData.HashStruct(Eip712DomainName, typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256([]byte("\x19\x01"), domainSeparator, structHash), nil
}

func (r *CollectorMintRequest) Price() (*big.Int, error) {
	p, ok := math.ParseBig256(r.UnitPrice)
	if !ok || r.UnitPrice == "" {
		return nil, ErrInvalidMintRequest.WithDetail("unitPrice")
	}
	return p, nil
}

// ToCollaborators pairs collaborators with their shares
func (r *CollectorMintRequest) ToCollaborators() []Collaborator {
	res := make([]Collaborator, 0, len(r.Collaborators))
	for i, c := range r.Collaborators {
		res = append(res, Collaborator{Address: c.ToLower(), Share: r.Shares[i]})
	}
	return res
}

func (r *CollectorMintRequest) ToRoyaltyInfo() RoyaltyInfo {
	return RoyaltyInfo{
		Creator:       r.ArtistSigner.ToLower(),
		Percent:       r.Royalty,
		Collaborators: r.ToCollaborators(),
	}
}

// Validate checks the request content before any signature work and rewrites
// the numeric strings to their canonical decimal form
func (r *CollectorMintRequest) Validate() error {
	if r.AssetContract.IsZero() {
		return ErrInvalidAddress.WithDetail("assetContract")
	}
	if r.ArtistSigner.IsZero() {
		return ErrInvalidAddress.WithDetail("artistSigner")
	}
	if r.Amount == 0 {
		return ErrInvalidQuantity
	}
	price, err := r.Price()
	if err != nil {
		return err
	}
	if price.Sign() <= 0 {
		return ErrListPriceMustBeGreaterThanZero
	}
	id, ok := math.ParseBig256(r.CollectorMintId)
	if !ok || r.CollectorMintId == "" || id.Sign() < 0 {
		return ErrInvalidMintRequest.WithDetail("collectorMintId")
	}
	// "1", "01" and "0x1" hash alike, so the used-id key must not tell them apart
	r.CollectorMintId = id.String()
	r.UnitPrice = price.String()
	if r.Royalty > 100 {
		return ErrInvalidRoyalty
	}
	if len(r.Collaborators) != len(r.Shares) {
		return ErrCollaboratorSharesMustSumTo100
	}
	return ValidateCollaborators(r.ToCollaborators())
}
