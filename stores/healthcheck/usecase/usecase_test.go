package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/gomarket/base/ctx"
)

type fakeRepo struct {
	err error
}

func (f *fakeRepo) PingDB(context ctx.Ctx) error {
	return f.err
}

func TestCheck(t *testing.T) {
	req := require.New(t)
	req.NoError(New(&fakeRepo{}).Check(ctx.Background()))

	boom := errors.New("mongo down")
	req.Equal(boom, New(&fakeRepo{err: boom}).Check(ctx.Background()))
}
