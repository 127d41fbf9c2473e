package mongoclient

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimal128RoundTrip(t *testing.T) {
	req := require.New(t)
	for _, s := range []string{"0", "1", "1000000000000000000", "123456789012345678901234567890"} {
		v, ok := new(big.Int).SetString(s, 10)
		req.True(ok)
		d, err := ToDecimal128(v)
		req.NoError(err)
		back, err := FromDecimal128(d)
		req.NoError(err)
		req.Equal(0, v.Cmp(back), s)
	}
}

func TestFromDecimal128Scientific(t *testing.T) {
	req := require.New(t)
	d, err := primitive.ParseDecimal128("1.5E+3")
	req.NoError(err)
	v, err := FromDecimal128(d)
	req.NoError(err)
	req.Equal("1500", v.String())

	d, err = primitive.ParseDecimal128("1.5")
	req.NoError(err)
	_, err = FromDecimal128(d)
	req.Error(err)
}

func TestToDecimal128OutOfRange(t *testing.T) {
	// 41 significant digits
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)
	v.Add(v, big.NewInt(1))
	_, err := ToDecimal128(v)
	require.Error(t, err)
}
