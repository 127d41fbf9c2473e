package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/gomarket/domain"
)

type AuctionStatus string

const (
	// AuctionStatusListed has no bid and no running clock
	AuctionStatusListed AuctionStatus = "listed"
	// AuctionStatusActive accepts bids until EndTime
	AuctionStatusActive AuctionStatus = "active"
	// AuctionStatusEndable is past EndTime and waits for EndAuction
	AuctionStatusEndable AuctionStatus = "endable"
	AuctionStatusEnded   AuctionStatus = "ended"
)

// AuctionState is the bid ledger of an auction listing.
// EndTime stays zero until the first accepted bid and afterwards only moves forward.
type AuctionState struct {
	HighestBidder domain.Address `json:"highestBidder"`
	HighestBid    *big.Int       `json:"highestBid"`
	EndTime       time.Time      `json:"endTime"`
	Extensions    int            `json:"extensions"`
	Ended         bool           `json:"ended"`
}

func (a *AuctionState) Started() bool {
	return !a.EndTime.IsZero()
}

func (a *AuctionState) HasBid() bool {
	return !a.HighestBidder.IsEmpty() && a.HighestBid != nil && a.HighestBid.Sign() > 0
}

func (a *AuctionState) Status(now time.Time) AuctionStatus {
	switch {
	case a.Ended:
		return AuctionStatusEnded
	case !a.Started():
		return AuctionStatusListed
	case now.Before(a.EndTime):
		return AuctionStatusActive
	default:
		return AuctionStatusEndable
	}
}

func (a *AuctionState) Clone() *AuctionState {
	res := *a
	if a.HighestBid != nil {
		res.HighestBid = new(big.Int).Set(a.HighestBid)
	}
	return &res
}
