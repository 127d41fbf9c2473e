package market

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/gomarket/domain"
)

var (
	treasury = domain.Address("0x00000000000000000000000000000000000000aa")
	seller   = domain.Address("0x00000000000000000000000000000000000000bb")
	creator  = domain.Address("0x00000000000000000000000000000000000000cc")
	collab1  = domain.Address("0x0000000000000000000000000000000000000001")
	collab2  = domain.Address("0x0000000000000000000000000000000000000002")
	collab3  = domain.Address("0x0000000000000000000000000000000000000003")
)

func amounts(payouts []Payout) map[domain.Address]int64 {
	res := map[domain.Address]int64{}
	for _, p := range payouts {
		res[p.Recipient] += p.Amount.Int64()
	}
	return res
}

func TestComputeSplitPrimary(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:             big.NewInt(60),
		Kind:              SaleKindPrimary,
		PrimaryFeePercent: 15,
		Treasury:          treasury,
		Seller:            seller,
	})
	req.Equal(int64(9), s.PlatformAmount.Int64())
	req.Equal(int64(51), s.SellerNetAmount.Int64())
	req.Equal(int64(0), s.RoyaltyAmount.Int64())
	req.Equal(map[domain.Address]int64{treasury: 9, seller: 51}, amounts(s.Payouts))
}

func TestComputeSplitPrimaryWithCollectorFee(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:               big.NewInt(63),
		Kind:                SaleKindPrimary,
		PrimaryFeePercent:   15,
		CollectorFeePercent: 5,
		Treasury:            treasury,
		Seller:              seller,
	})
	// floor(63*15/100) + floor(63*5/100)
	req.Equal(int64(3), s.CollectorFeeAmount.Int64())
	req.Equal(int64(12), s.PlatformAmount.Int64())
	req.Equal(int64(51), s.SellerNetAmount.Int64())
	req.Equal(int64(63), s.Total().Int64())
}

func TestComputeSplitPrimaryCollaboratorsEqualDivision(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:             big.NewInt(100),
		Kind:              SaleKindPrimary,
		PrimaryFeePercent: 50,
		Treasury:          treasury,
		Seller:            seller,
		// declared shares are ignored on primary sales
		Collaborators: []Collaborator{{collab1, 80}, {collab2, 10}, {collab3, 10}},
	})
	req.Equal(int64(50), s.SellerNetAmount.Int64())
	// 50 / 3 = 16 rem 2, remainder to the first collaborator
	req.Equal([]int64{18, 16, 16}, []int64{s.CollaboratorAmounts[0].Int64(), s.CollaboratorAmounts[1].Int64(), s.CollaboratorAmounts[2].Int64()})
	req.Equal(map[domain.Address]int64{treasury: 50, collab1: 18, collab2: 16, collab3: 16}, amounts(s.Payouts))
}

func TestComputeSplitSecondary(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:               big.NewInt(1000),
		Kind:                SaleKindSecondary,
		PrimaryFeePercent:   15,
		SecondaryFeePercent: 3,
		CollectorFeePercent: 5,
		RoyaltyPercent:      10,
		Treasury:            treasury,
		Seller:              seller,
		Creator:             creator,
	})
	req.Equal(int64(30), s.PlatformAmount.Int64())
	req.Equal(int64(0), s.CollectorFeeAmount.Int64())
	req.Equal(int64(100), s.RoyaltyAmount.Int64())
	req.Equal(int64(870), s.SellerNetAmount.Int64())
	req.Equal(map[domain.Address]int64{treasury: 30, creator: 100, seller: 870}, amounts(s.Payouts))
}

func TestComputeSplitSecondaryRoyaltyByShares(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:               big.NewInt(1001),
		Kind:                SaleKindSecondary,
		SecondaryFeePercent: 0,
		RoyaltyPercent:      10,
		Treasury:            treasury,
		Seller:              seller,
		Creator:             creator,
		Collaborators:       []Collaborator{{collab1, 33}, {collab2, 33}, {collab3, 34}},
	})
	// royalty 100: 33 + 33 + 34
	req.Equal(int64(100), s.RoyaltyAmount.Int64())
	req.Equal(map[domain.Address]int64{collab1: 33, collab2: 33, collab3: 34, seller: 901}, amounts(s.Payouts))
}

func TestComputeSplitSecondaryWithoutCreatorPaysSeller(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:          big.NewInt(100),
		Kind:           SaleKindSecondary,
		RoyaltyPercent: 10,
		Treasury:       treasury,
		Seller:         seller,
	})
	req.Equal(int64(0), s.RoyaltyAmount.Int64())
	req.Equal(map[domain.Address]int64{seller: 100}, amounts(s.Payouts))
}

func TestComputeSplitClampsOversizedFees(t *testing.T) {
	req := require.New(t)

	s := ComputeSplit(SplitInput{
		Gross:               big.NewInt(77),
		Kind:                SaleKindPrimary,
		PrimaryFeePercent:   100,
		CollectorFeePercent: 100,
		Treasury:            treasury,
		Seller:              seller,
	})
	req.Equal(int64(77), s.PlatformAmount.Int64())
	req.Equal(int64(0), s.SellerNetAmount.Int64())
	req.Equal(int64(77), s.Total().Int64())
}

func TestComputeSplitAlwaysSumsToGross(t *testing.T) {
	req := require.New(t)
	r := rand.New(rand.NewSource(7))
	collaborators := []Collaborator{{collab1, 17}, {collab2, 41}, {collab3, 42}}

	for i := 0; i < 2000; i++ {
		gross := new(big.Int).Rand(r, new(big.Int).Lsh(domain.Big1, 80))
		kind := SaleKindPrimary
		if r.Intn(2) == 0 {
			kind = SaleKindSecondary
		}
		in := SplitInput{
			Gross:               gross,
			Kind:                kind,
			PrimaryFeePercent:   uint64(r.Intn(101)),
			SecondaryFeePercent: uint64(r.Intn(101)),
			CollectorFeePercent: uint64(r.Intn(101)),
			RoyaltyPercent:      uint64(r.Intn(101)),
			Treasury:            treasury,
			Seller:              seller,
			Creator:             creator,
		}
		if r.Intn(2) == 0 {
			in.Collaborators = collaborators[:1+r.Intn(3)]
			if len(in.Collaborators) < 3 {
				in.Collaborators = []Collaborator{{collab1, 100}}
			}
		}

		s := ComputeSplit(in)
		req.Zero(gross.Cmp(s.Total()), "gross %s kind %s", gross, kind)
		sum := new(big.Int).Add(s.PlatformAmount, s.RoyaltyAmount)
		sum.Add(sum, s.SellerNetAmount)
		req.Zero(gross.Cmp(sum))
		for _, p := range s.Payouts {
			req.True(p.Amount.Sign() > 0)
		}
	}
}

func TestCollectorSurcharge(t *testing.T) {
	req := require.New(t)
	req.Equal(int64(3), CollectorSurcharge(big.NewInt(60), 5).Int64())
	req.Equal(int64(0), CollectorSurcharge(big.NewInt(60), 0).Int64())
}
