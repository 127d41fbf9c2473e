package txn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/gomarket/base/ctx"
)

var (
	mockCtx = ctx.Background()
	errMock = errors.New("mock")
)

type fakeRunner struct {
	attempts  int
	commitErr error
}

func (f *fakeRunner) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	var err error
	for i := 0; i < f.attempts; i++ {
		if err = run(c); err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	return f.commitErr
}

type testSuite struct {
	suite.Suite
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCommit() {
	undone := 0
	err := New(nil).RunWithTransaction(mockCtx, func(c ctx.Ctx) error {
		s.True(InTransaction(c))
		OnRollback(c, func() { undone++ })
		return nil
	})
	s.NoError(err)
	s.Equal(0, undone)
}

func (s *testSuite) TestRollbackInReverseOrder() {
	order := []int{}
	err := New(nil).RunWithTransaction(mockCtx, func(c ctx.Ctx) error {
		OnRollback(c, func() { order = append(order, 1) })
		OnRollback(c, func() { order = append(order, 2) })
		return errMock
	})
	s.Equal(errMock, err)
	s.Equal([]int{2, 1}, order)
}

func (s *testSuite) TestNestedJoinsOuter() {
	undone := 0
	t := New(nil)
	err := t.RunWithTransaction(mockCtx, func(c ctx.Ctx) error {
		s.NoError(t.RunWithTransaction(c, func(c ctx.Ctx) error {
			OnRollback(c, func() { undone++ })
			return nil
		}))
		return errMock
	})
	s.Equal(errMock, err)
	s.Equal(1, undone)
}

func (s *testSuite) TestOnRollbackOutsideTransaction() {
	s.False(InTransaction(mockCtx))
	OnRollback(mockCtx, func() { s.Fail("must not run") })
}

func (s *testSuite) TestRetriedAttemptsRollBackIndividually() {
	runner := &fakeRunner{attempts: 2}
	undone, calls := 0, 0
	err := New(runner).RunWithTransaction(mockCtx, func(c ctx.Ctx) error {
		calls++
		OnRollback(c, func() { undone++ })
		if calls == 1 {
			return errMock
		}
		return nil
	})
	s.NoError(err)
	s.Equal(2, calls)
	s.Equal(1, undone)
}

func (s *testSuite) TestCommitFailureRollsBack() {
	runner := &fakeRunner{attempts: 1, commitErr: errMock}
	undone := 0
	err := New(runner).RunWithTransaction(mockCtx, func(c ctx.Ctx) error {
		OnRollback(c, func() { undone++ })
		return nil
	})
	s.Equal(errMock, err)
	s.Equal(1, undone)
}
