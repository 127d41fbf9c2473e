package mongoclient

import (
	"math/big"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
)

// ToDecimal128 converts an integer amount
func ToDecimal128(v *big.Int) (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(v.String())
	if err != nil {
		return primitive.Decimal128{}, xerrors.Errorf("amount %s out of decimal128 range: %w", v, err)
	}
	return d, nil
}

// FromDecimal128 converts back to an integer amount, scientific notation included
func FromDecimal128(d primitive.Decimal128) (*big.Int, error) {
	s := d.String()
	if v, ok := new(big.Int).SetString(s, 10); ok {
		return v, nil
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return nil, xerrors.Errorf("bad decimal128 %s: %w", s, err)
	}
	if !dec.Equal(dec.Truncate(0)) {
		return nil, xerrors.Errorf("fractional amount %s", s)
	}
	return dec.BigInt(), nil
}
