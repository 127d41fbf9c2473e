package market

import (
	"math/big"

	"github.com/x-xyz/gomarket/domain"
)

type PayoutRole string

const (
	PayoutRolePlatform     PayoutRole = "platform"
	PayoutRoleCreator      PayoutRole = "creator"
	PayoutRoleCollaborator PayoutRole = "collaborator"
	PayoutRoleSeller       PayoutRole = "seller"
)

type Payout struct {
	Recipient domain.Address `json:"recipient"`
	Amount    *big.Int       `json:"amount"`
	Role      PayoutRole     `json:"role"`
}

// SplitInput holds everything ComputeSplit needs. Percentages are whole
// percents. Collaborator shares are assumed to be validated already.
type SplitInput struct {
	Gross               *big.Int
	Kind                SaleKind
	PrimaryFeePercent   uint64
	SecondaryFeePercent uint64
	CollectorFeePercent uint64
	RoyaltyPercent      uint64
	Treasury            domain.Address
	Seller              domain.Address
	Creator             domain.Address
	Collaborators       []Collaborator
}

type Split struct {
	Gross              *big.Int `json:"gross"`
	PlatformAmount     *big.Int `json:"platformAmount"`
	CollectorFeeAmount *big.Int `json:"collectorFeeAmount"`
	RoyaltyAmount      *big.Int `json:"royaltyAmount"`
	SellerNetAmount    *big.Int `json:"sellerNetAmount"`
	// CollaboratorAmounts is aligned with SplitInput.Collaborators
	CollaboratorAmounts []*big.Int `json:"collaboratorAmounts"`
	Payouts             []Payout   `json:"payouts"`
}

// Total sums every payout, it always equals Gross
func (s *Split) Total() *big.Int {
	total := new(big.Int)
	for _, p := range s.Payouts {
		total.Add(total, p.Amount)
	}
	return total
}

// PercentOf returns floor(amount * percent / 100)
func PercentOf(amount *big.Int, percent uint64) *big.Int {
	res := new(big.Int).Mul(domain.CloneBigInt(amount), new(big.Int).SetUint64(percent))
	return res.Quo(res, domain.Big100)
}

// CollectorSurcharge is added on top of the listed price of a primary purchase
func CollectorSurcharge(price *big.Int, collectorFeePercent uint64) *big.Int {
	return PercentOf(price, collectorFeePercent)
}

// ComputeSplit divides a gross payment between platform, creator, collaborators and seller.
//
// Primary: platform takes P% + C% of gross and the rest goes to the seller, or
// is divided equally between collaborators when the token has any.
// Secondary: platform takes S%, royalty R% is divided between collaborators by
// share (or paid to the creator) and the seller keeps the rest.
//
// Integer division remainders of a collaborator division go to the first
// collaborator. Fees exceeding gross are clamped, so payouts always sum to gross.
func ComputeSplit(in SplitInput) Split {
	gross := domain.CloneBigInt(in.Gross)
	if gross.Sign() < 0 {
		gross.SetInt64(0)
	}

	s := Split{
		Gross:              new(big.Int).Set(gross),
		PlatformAmount:     new(big.Int),
		CollectorFeeAmount: new(big.Int),
		RoyaltyAmount:      new(big.Int),
		SellerNetAmount:    new(big.Int),
	}

	remaining := new(big.Int).Set(gross)
	take := func(amount *big.Int) *big.Int {
		if amount.Cmp(remaining) > 0 {
			amount = new(big.Int).Set(remaining)
		}
		remaining.Sub(remaining, amount)
		return amount
	}

	if in.Kind == SaleKindPrimary {
		platformFee := take(PercentOf(gross, in.PrimaryFeePercent))
		s.CollectorFeeAmount = take(PercentOf(gross, in.CollectorFeePercent))
		s.PlatformAmount.Add(platformFee, s.CollectorFeeAmount)
		s.SellerNetAmount.Set(remaining)
		s.addPayout(in.Treasury, s.PlatformAmount, PayoutRolePlatform)

		if len(in.Collaborators) > 0 {
			s.CollaboratorAmounts = divideEqually(s.SellerNetAmount, len(in.Collaborators))
			s.addCollaboratorPayouts(in.Collaborators)
		} else {
			s.addPayout(in.Seller, s.SellerNetAmount, PayoutRoleSeller)
		}
		return s
	}

	s.PlatformAmount = take(PercentOf(gross, in.SecondaryFeePercent))
	s.RoyaltyAmount = take(PercentOf(gross, in.RoyaltyPercent))
	s.SellerNetAmount.Set(remaining)
	s.addPayout(in.Treasury, s.PlatformAmount, PayoutRolePlatform)

	switch {
	case len(in.Collaborators) > 0:
		s.CollaboratorAmounts = divideByShares(s.RoyaltyAmount, in.Collaborators)
		s.addCollaboratorPayouts(in.Collaborators)
	case !in.Creator.IsZero():
		s.addPayout(in.Creator, s.RoyaltyAmount, PayoutRoleCreator)
	default:
		// nobody to pay a royalty to, the seller keeps it
		s.SellerNetAmount.Add(s.SellerNetAmount, s.RoyaltyAmount)
		s.RoyaltyAmount = new(big.Int)
	}
	s.addPayout(in.Seller, s.SellerNetAmount, PayoutRoleSeller)
	return s
}

func (s *Split) addPayout(to domain.Address, amount *big.Int, role PayoutRole) {
	if amount.Sign() == 0 {
		return
	}
	s.Payouts = append(s.Payouts, Payout{Recipient: to.ToLower(), Amount: new(big.Int).Set(amount), Role: role})
}

func (s *Split) addCollaboratorPayouts(collaborators []Collaborator) {
	for i, c := range collaborators {
		s.addPayout(c.Address, s.CollaboratorAmounts[i], PayoutRoleCollaborator)
	}
}

func divideEqually(amount *big.Int, n int) []*big.Int {
	each, rem := new(big.Int).QuoRem(amount, big.NewInt(int64(n)), new(big.Int))
	res := make([]*big.Int, n)
	for i := range res {
		res[i] = new(big.Int).Set(each)
	}
	res[0].Add(res[0], rem)
	return res
}

func divideByShares(amount *big.Int, collaborators []Collaborator) []*big.Int {
	res := make([]*big.Int, len(collaborators))
	paid := new(big.Int)
	for i, c := range collaborators {
		res[i] = PercentOf(amount, c.Share)
		paid.Add(paid, res[i])
	}
	res[0].Add(res[0], new(big.Int).Sub(amount, paid))
	return res
}
