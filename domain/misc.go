package domain

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

var (
	Big0   = big.NewInt(0)
	Big1   = big.NewInt(1)
	Big100 = big.NewInt(100)
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// TokenType tells a unique asset contract (721) from a fungible-quantity one (1155)
type TokenType int

const (
	TokenType721  TokenType = 721
	TokenType1155 TokenType = 1155
)

func (t TokenType) IsFungible() bool {
	return t == TokenType1155
}

func (t TokenType) IsValid() bool {
	return t == TokenType721 || t == TokenType1155
}

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

// IsZero is true for the empty string and the zero address
func (a Address) IsZero() bool {
	return a.IsEmpty() || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) ToBigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok || id.Sign() < 0 {
		return nil, xerrors.Errorf("invalid id %s", i)
	}
	return id, nil
}

func (i TokenId) ToHexString() (string, error) {
	id, err := i.ToBigInt()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%064x", id), nil
}

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}

// CloneBigInt returns a copy of n, nil is treated as zero
func CloneBigInt(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(n)
}
