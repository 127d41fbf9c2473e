package market

import (
	"fmt"
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/domain"
)

// ListingId identifies an active listing inside one venue
type ListingId struct {
	Venue   Venue          `json:"venue" bson:"venue"`
	Asset   domain.Address `json:"asset" bson:"asset"`
	TokenId domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller  domain.Address `json:"seller" bson:"seller"`
}

func NewListingId(venue Venue, asset domain.Address, tokenId domain.TokenId, seller domain.Address) ListingId {
	return ListingId{
		Venue:   venue,
		Asset:   asset.ToLower(),
		TokenId: tokenId,
		Seller:  seller.ToLower(),
	}
}

func (id ListingId) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", id.Venue, id.Asset.ToLowerStr(), id.TokenId, id.Seller.ToLowerStr())
}

func (id ListingId) ToTokenKey() TokenKey {
	return NewTokenKey(id.Asset, id.TokenId)
}

type Listing struct {
	Venue     Venue            `json:"venue"`
	Asset     domain.Address   `json:"asset"`
	TokenId   domain.TokenId   `json:"tokenId"`
	Seller    domain.Address   `json:"seller"`
	TokenType domain.TokenType `json:"tokenType"`
	Quantity  uint64           `json:"quantity"`
	// UnitPrice is the reserve price of an auction listing
	UnitPrice       *big.Int      `json:"unitPrice"`
	IsSecondarySale bool          `json:"isSecondarySale"`
	ListedAt        time.Time     `json:"listedAt"`
	Auction         *AuctionState `json:"auction,omitempty"`
}

func (l *Listing) ToId() ListingId {
	return NewListingId(l.Venue, l.Asset, l.TokenId, l.Seller)
}

func (l *Listing) IsAuction() bool {
	return l.Venue == VenueAuction
}

// PriceOf returns amount * unitPrice
func (l *Listing) PriceOf(amount uint64) *big.Int {
	return new(big.Int).Mul(domain.CloneBigInt(l.UnitPrice), new(big.Int).SetUint64(amount))
}

// Clone deep copies l so stores never share mutable state with callers
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	res := *l
	res.UnitPrice = domain.CloneBigInt(l.UnitPrice)
	if l.Auction != nil {
		res.Auction = l.Auction.Clone()
	}
	return &res
}

type ListingFindAllOptions struct {
	Venue   *Venue
	Asset   *domain.Address
	TokenId *domain.TokenId
	Seller  *domain.Address
	Offset  *int
	Limit   *int
}

type ListingFindAllOptionsFunc func(*ListingFindAllOptions) error

func GetListingFindAllOptions(opts ...ListingFindAllOptionsFunc) (ListingFindAllOptions, error) {
	res := ListingFindAllOptions{}
	for _, o := range opts {
		if err := o(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithVenue(venue Venue) ListingFindAllOptionsFunc {
	return func(o *ListingFindAllOptions) error {
		if !venue.IsValid() {
			return domain.ErrBadParamInput
		}
		o.Venue = &venue
		return nil
	}
}

func WithAsset(asset domain.Address) ListingFindAllOptionsFunc {
	return func(o *ListingFindAllOptions) error {
		a := asset.ToLower()
		o.Asset = &a
		return nil
	}
}

func WithTokenId(tokenId domain.TokenId) ListingFindAllOptionsFunc {
	return func(o *ListingFindAllOptions) error {
		o.TokenId = &tokenId
		return nil
	}
}

func WithSeller(seller domain.Address) ListingFindAllOptionsFunc {
	return func(o *ListingFindAllOptions) error {
		s := seller.ToLower()
		o.Seller = &s
		return nil
	}
}

func WithPagination(offset, limit int) ListingFindAllOptionsFunc {
	return func(o *ListingFindAllOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		o.Offset = &offset
		o.Limit = &limit
		return nil
	}
}

// Match reports whether l satisfies every filter set in o
func (o ListingFindAllOptions) Match(l *Listing) bool {
	if o.Venue != nil && *o.Venue != l.Venue {
		return false
	}
	if o.Asset != nil && !o.Asset.Equals(l.Asset) {
		return false
	}
	if o.TokenId != nil && *o.TokenId != l.TokenId {
		return false
	}
	if o.Seller != nil && !o.Seller.Equals(l.Seller) {
		return false
	}
	return true
}
