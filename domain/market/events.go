package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/domain"
)

type EventType string

const (
	EventListed          EventType = "Listed"
	EventListingUpdated  EventType = "ListingUpdated"
	EventDelisted        EventType = "Delisted"
	EventSold            EventType = "Sold"
	EventBidPlaced       EventType = "BidPlaced"
	EventBidRefunded     EventType = "BidRefunded"
	EventRefundEscrowed  EventType = "RefundEscrowed"
	EventAuctionExtended EventType = "AuctionExtended"
	EventAuctionEnded    EventType = "AuctionEnded"
	EventCollectorMinted EventType = "CollectorMinted"
)

// Event is emitted after a state transition commits
type Event struct {
	Type     EventType      `json:"type"`
	Venue    Venue          `json:"venue"`
	Asset    domain.Address `json:"asset"`
	TokenId  domain.TokenId `json:"tokenId"`
	Seller   domain.Address `json:"seller"`
	Actor    domain.Address `json:"actor,omitempty"`
	Quantity uint64         `json:"quantity,omitempty"`
	Amount   *big.Int       `json:"amount,omitempty"`
	EndTime  time.Time      `json:"endTime,omitempty"`
	Sale     *SaleRecord    `json:"sale,omitempty"`
	At       time.Time      `json:"at"`
}

// SaleRecord is the structured record of one settled fill
type SaleRecord struct {
	SaleId           string         `json:"saleId"`
	Venue            Venue          `json:"venue"`
	Kind             SaleKind       `json:"kind"`
	HasCollaborators bool           `json:"hasCollaborators"`
	IsFungible       bool           `json:"isFungible"`
	Asset            domain.Address `json:"asset"`
	TokenId          domain.TokenId `json:"tokenId"`
	Seller           domain.Address `json:"seller"`
	Buyer            domain.Address `json:"buyer"`
	Quantity         uint64         `json:"quantity"`
	UnitPrice        *big.Int       `json:"unitPrice"`
	Gross            *big.Int       `json:"gross"`
	Split            Split          `json:"split"`
	SoldAt           time.Time      `json:"soldAt"`
}

type SaleFindAllOptions struct {
	Asset   *domain.Address
	TokenId *domain.TokenId
	Account *domain.Address
	Offset  *int
	Limit   *int
}

type SaleFindAllOptionsFunc func(*SaleFindAllOptions) error

func GetSaleFindAllOptions(opts ...SaleFindAllOptionsFunc) (SaleFindAllOptions, error) {
	res := SaleFindAllOptions{}
	for _, o := range opts {
		if err := o(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func SaleWithToken(asset domain.Address, tokenId domain.TokenId) SaleFindAllOptionsFunc {
	return func(o *SaleFindAllOptions) error {
		a := asset.ToLower()
		o.Asset = &a
		o.TokenId = &tokenId
		return nil
	}
}

// SaleWithAccount matches sales where account is the buyer or the seller
func SaleWithAccount(account domain.Address) SaleFindAllOptionsFunc {
	return func(o *SaleFindAllOptions) error {
		a := account.ToLower()
		o.Account = &a
		return nil
	}
}

func SaleWithPagination(offset, limit int) SaleFindAllOptionsFunc {
	return func(o *SaleFindAllOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		o.Offset = &offset
		o.Limit = &limit
		return nil
	}
}

func (o SaleFindAllOptions) Match(s *SaleRecord) bool {
	if o.Asset != nil && !o.Asset.Equals(s.Asset) {
		return false
	}
	if o.TokenId != nil && *o.TokenId != s.TokenId {
		return false
	}
	if o.Account != nil && !o.Account.Equals(s.Buyer) && !o.Account.Equals(s.Seller) {
		return false
	}
	return true
}
