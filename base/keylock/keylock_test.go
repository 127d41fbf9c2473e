package keylock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSameKeySerializes(t *testing.T) {
	req := require.New(t)
	l := New()

	unlock := l.Lock("a")
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		l.Lock("a")()
	}()

	select {
	case <-acquired:
		req.Fail("second lock acquired while first is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		req.Fail("second lock never acquired")
	}
	req.Equal(0, l.size())
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	req := require.New(t)
	l := New()

	unlock := l.Lock("a")
	defer unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Lock("b")()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("lock on a different key blocked")
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	l := New()
	unlock := l.Lock("a")
	unlock()
	unlock()
	require.Equal(t, 0, l.size())
}

func TestConcurrentCounter(t *testing.T) {
	l := New()
	counter := 0
	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer l.Lock("counter")()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, 100, counter)
	require.Equal(t, 0, l.size())
}
