package usecase

import (
	"math/big"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

// Funds is both the payment rail and the bid refunder
type Funds interface {
	market.FundsService
	market.Refunder
}

type Cfg struct {
	Repo market.AccountRepo
	// Transactor scopes Withdraw, nil runs it on an in-process journal
	Transactor market.Transactor
}

type impl struct {
	repo market.AccountRepo
	tx   market.Transactor
	met  metrics.Service
}

func New(cfg *Cfg) Funds {
	tx := cfg.Transactor
	if tx == nil {
		tx = txn.New(nil)
	}
	return &impl{
		repo: cfg.Repo,
		tx:   tx,
		met:  metrics.New("funds"),
	}
}

func isPositive(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}

func (im *impl) Debit(ctx ctx.Ctx, from domain.Address, amount *big.Int) error {
	if !isPositive(amount) {
		return nil
	}
	if err := im.repo.AddBalance(ctx, from, new(big.Int).Neg(amount)); err != nil {
		if err != market.ErrInsufficientFunds {
			ctx.WithFields(log.Fields{"err": err, "from": from}).Error("repo.AddBalance failed")
		}
		return err
	}
	return nil
}

func (im *impl) Credit(ctx ctx.Ctx, to domain.Address, amount *big.Int) error {
	if !isPositive(amount) {
		return nil
	}
	account, err := im.repo.FindOne(ctx, to)
	if err != nil && err != domain.ErrNotFound {
		ctx.WithFields(log.Fields{"err": err, "to": to}).Error("repo.FindOne failed")
		return err
	}
	if account != nil && account.RejectsPayments {
		im.met.BumpSum("credit.rejected", 1)
		return market.ErrPaymentRejected
	}
	if err := im.repo.AddBalance(ctx, to, amount); err != nil {
		ctx.WithFields(log.Fields{"err": err, "to": to}).Error("repo.AddBalance failed")
		return err
	}
	return nil
}

func (im *impl) Escrow(ctx ctx.Ctx, to domain.Address, amount *big.Int) error {
	if !isPositive(amount) {
		return nil
	}
	if err := im.repo.AddPending(ctx, to, amount); err != nil {
		ctx.WithFields(log.Fields{"err": err, "to": to}).Error("repo.AddPending failed")
		return err
	}
	im.met.BumpSum("escrow", 1)
	return nil
}

// Withdraw moves pending refunds into the spendable balance of the holder
func (im *impl) Withdraw(c0 ctx.Ctx, to domain.Address) (*big.Int, error) {
	var amount *big.Int
	err := im.tx.RunWithTransaction(c0, func(c ctx.Ctx) error {
		taken, err := im.repo.TakePending(c, to)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "to": to}).Error("repo.TakePending failed")
			return err
		}
		if taken.Sign() == 0 {
			return market.ErrNothingToWithdraw
		}
		if err := im.repo.AddBalance(c, to, taken); err != nil {
			c.WithFields(log.Fields{"err": err, "to": to}).Error("repo.AddBalance failed")
			return err
		}
		amount = taken
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}

func (im *impl) Deposit(ctx ctx.Ctx, to domain.Address, amount *big.Int) error {
	if !isPositive(amount) {
		return domain.ErrBadParamInput
	}
	if err := im.repo.AddBalance(ctx, to, amount); err != nil {
		ctx.WithFields(log.Fields{"err": err, "to": to}).Error("repo.AddBalance failed")
		return err
	}
	return nil
}

func (im *impl) Account(ctx ctx.Ctx, address domain.Address) (*market.Account, error) {
	account, err := im.repo.FindOne(ctx, address)
	if err == domain.ErrNotFound {
		return &market.Account{Address: address.ToLower(), Balance: new(big.Int), Pending: new(big.Int)}, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("repo.FindOne failed")
		return nil, err
	}
	return account, nil
}

func (im *impl) SetRejectsPayments(ctx ctx.Ctx, address domain.Address, rejects bool) error {
	return im.repo.SetRejectsPayments(ctx, address, rejects)
}

// Refund credits a returned bid and escrows it when the bidder refuses the payment
func (im *impl) Refund(ctx ctx.Ctx, to domain.Address, amount *big.Int) (*market.RefundOutcome, error) {
	outcome := &market.RefundOutcome{To: to.ToLower(), Amount: domain.CloneBigInt(amount)}
	err := im.Credit(ctx, to, amount)
	if err == nil {
		return outcome, nil
	}
	if err != market.ErrPaymentRejected {
		return nil, err
	}

	if err := im.Escrow(ctx, to, amount); err != nil {
		return nil, err
	}
	ctx.WithFields(log.Fields{"to": to, "amount": amount}).Warn("refund rejected, escrowed")
	outcome.Escrowed = true
	return outcome, nil
}
