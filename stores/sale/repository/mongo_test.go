package repository

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/gomarket/domain/market"
)

func TestSaleDocConversion(t *testing.T) {
	req := require.New(t)

	split := market.ComputeSplit(market.SplitInput{
		Gross:               big.NewInt(1000),
		Kind:                market.SaleKindSecondary,
		SecondaryFeePercent: 5,
		RoyaltyPercent:      10,
		Treasury:            "0xf1",
		Seller:              "0xa1",
		Collaborators:       []market.Collaborator{{Address: "0xc1", Share: 70}, {Address: "0xc2", Share: 30}},
	})
	sale := &market.SaleRecord{
		SaleId:           "id",
		Venue:            market.VenueFixedPrice,
		Kind:             market.SaleKindSecondary,
		HasCollaborators: true,
		Asset:            "0xAB",
		TokenId:          "1",
		Seller:           "0xa1",
		Buyer:            "0xb1",
		Quantity:         1,
		UnitPrice:        big.NewInt(1000),
		Gross:            big.NewInt(1000),
		Split:            split,
		SoldAt:           time.Unix(100, 0).UTC(),
	}

	doc, err := toDoc(sale)
	req.NoError(err)
	back, err := doc.toSale()
	req.NoError(err)

	req.Equal("0xab", string(back.Asset))
	req.Equal(0, back.Gross.Cmp(sale.Gross))
	req.Equal(0, back.Split.PlatformAmount.Cmp(split.PlatformAmount))
	req.Equal(0, back.Split.RoyaltyAmount.Cmp(split.RoyaltyAmount))
	req.Equal(0, back.Split.SellerNetAmount.Cmp(split.SellerNetAmount))
	req.Len(back.Split.CollaboratorAmounts, 2)
	req.Len(back.Split.Payouts, len(split.Payouts))
	req.Equal(0, back.Split.Total().Cmp(sale.Gross))
}
