package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/ethereum"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/service/cache"
)

const (
	// LoginMsgTemplate is the message a wallet signs to log in, %s is the nonce
	LoginMsgTemplate = "gomarket login: %s"
	defaultTokenTTL  = 24 * time.Hour
)

type Cfg struct {
	JwtSecret string
	TokenTTL  time.Duration
	// Nonces should expire entries, see cache.ServiceConfig.Ttl
	Nonces cache.Service
}

type impl struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	nonces    cache.Service
	timeNow   func() time.Time
}

func New(cfg *Cfg) domain.AuthUsecase {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	return &impl{
		jwtSecret: []byte(cfg.JwtSecret),
		tokenTTL:  ttl,
		nonces:    cfg.Nonces,
		timeNow:   time.Now,
	}
}

// LoginMessage is what the wallet signs for nonce
func LoginMessage(nonce string) string {
	return fmt.Sprintf(LoginMsgTemplate, nonce)
}

func (im *impl) Nonce(ctx ctx.Ctx, address domain.Address) (string, error) {
	nonce := uuid.NewString()
	if err := im.nonces.Set(ctx, address.ToLowerStr(), nonce); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("nonces.Set failed")
		return "", err
	}
	return nonce, nil
}

func (im *impl) Login(ctx ctx.Ctx, address domain.Address, signature string) (string, error) {
	var nonce string
	if err := im.nonces.Get(ctx, address.ToLowerStr(), &nonce); err == cache.ErrNotFound {
		return "", domain.ErrUnauthorized
	} else if err != nil {
		return "", err
	}

	ok, err := ethereum.ValidateMsgSignature([]byte(LoginMessage(nonce)), signature, string(address))
	if err != nil || !ok {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Warn("login signature rejected")
		return "", domain.ErrInvalidSignature
	}

	// one nonce, one login
	if err := im.nonces.Del(ctx, address.ToLowerStr()); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("nonces.Del failed")
		return "", err
	}
	return im.SignToken(ctx, address)
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: im.timeNow().Add(im.tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	ss, err := token.SignedString(im.jwtSecret)
	if err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	}
	return ss, nil
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (string, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		return claims.Address, nil
	}
	return "", domain.ErrUnauthorized
}
