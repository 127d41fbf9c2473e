package market

import (
	"fmt"
	"math/big"

	"github.com/x-xyz/gomarket/domain"
)

// Venue names one of the two market deployments
type Venue string

const (
	VenueFixedPrice Venue = "fixed"
	VenueAuction    Venue = "auction"
)

func (v Venue) IsValid() bool {
	return v == VenueFixedPrice || v == VenueAuction
}

// SaleKind classifies a fill against the primary sale ledger
type SaleKind string

const (
	SaleKindPrimary   SaleKind = "primary"
	SaleKindSecondary SaleKind = "secondary"
)

// TokenKey identifies one token id of one asset contract
type TokenKey struct {
	Asset   domain.Address `json:"asset" bson:"asset"`
	TokenId domain.TokenId `json:"tokenId" bson:"tokenId"`
}

func NewTokenKey(asset domain.Address, tokenId domain.TokenId) TokenKey {
	return TokenKey{Asset: asset.ToLower(), TokenId: tokenId}
}

func (k TokenKey) String() string {
	return fmt.Sprintf("%s:%s", k.Asset.ToLowerStr(), k.TokenId)
}

// PrimarySaleRecord is the shared primary sale cursor of one token id
type PrimarySaleRecord struct {
	Asset          domain.Address `json:"asset" bson:"asset"`
	TokenId        domain.TokenId `json:"tokenId" bson:"tokenId"`
	TotalSupply    uint64         `json:"totalSupply" bson:"totalSupply"`
	RemainingUnits uint64         `json:"remainingUnits" bson:"remainingUnits"`
	FirstOwner     domain.Address `json:"firstOwner" bson:"firstOwner"`
	SoldOut        bool           `json:"soldOut" bson:"soldOut"`
}

func (r *PrimarySaleRecord) ToKey() TokenKey {
	return NewTokenKey(r.Asset, r.TokenId)
}

// Collaborator receives a share of the proceeds of a token
type Collaborator struct {
	Address domain.Address `json:"address" bson:"address"`
	Share   uint64         `json:"share" bson:"share"`
}

// RoyaltyInfo is stored by the asset service at mint time
type RoyaltyInfo struct {
	Creator       domain.Address `json:"creator" bson:"creator"`
	Percent       uint64         `json:"percent" bson:"percent"`
	Collaborators []Collaborator `json:"collaborators" bson:"collaborators"`
}

func (r *RoyaltyInfo) HasCollaborators() bool {
	return r != nil && len(r.Collaborators) > 0
}

// ValidateCollaborators checks a collaborator set the way mint requests are checked:
// no zero address and shares summing to exactly 100.
func ValidateCollaborators(collaborators []Collaborator) error {
	if len(collaborators) == 0 {
		return nil
	}
	sum := uint64(0)
	for _, c := range collaborators {
		if c.Address.IsZero() {
			return ErrNullCollaboratorAddress
		}
		if c.Share > 100 {
			return ErrCollaboratorSharesMustSumTo100
		}
		sum += c.Share
	}
	if sum != 100 {
		return ErrCollaboratorSharesMustSumTo100
	}
	return nil
}

// Account is the funds view of one address
type Account struct {
	Address         domain.Address `json:"address"`
	Balance         *big.Int       `json:"balance"`
	Pending         *big.Int       `json:"pendingWithdrawal"`
	RejectsPayments bool           `json:"rejectsPayments"`
}
