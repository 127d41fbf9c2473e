package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/gomarket/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// Nonce issues a one-time login nonce for address
	Nonce(ctx ctx.Ctx, address Address) (string, error)
	// Login checks a personal_sign signature over the nonce message and returns a token
	Login(ctx ctx.Ctx, address Address, signature string) (string, error)
	SignToken(ctx ctx.Ctx, address Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
}
