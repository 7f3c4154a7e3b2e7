package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (c *countingExpirer) ExpireStale(ctx context.Context) (int, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep without deadline")
	}
	return 1, c.err
}

func TestExpiryChecker(t *testing.T) {
	t.Run("sweeps immediately and on every tick", func(t *testing.T) {
		exp := &countingExpirer{}
		ec := New(exp, 10*time.Millisecond, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			ec.Start(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool { return exp.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("checker did not stop after cancel")
		}
	})

	t.Run("errors do not stop the loop", func(t *testing.T) {
		exp := &countingExpirer{err: errors.New("db unavailable")}
		ec := New(exp, 10*time.Millisecond, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go ec.Start(ctx)

		assert.Eventually(t, func() bool { return exp.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	})
}
