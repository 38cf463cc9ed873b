package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := New(4, 0)
	ctx := context.Background()
	p.Start(ctx)

	var n atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Submit(ctx, func(ctx context.Context) error {
			n.Add(1)
			return nil
		}))
	}
	require.NoError(t, p.Wait())
	assert.Equal(t, int64(100), n.Load())
}

func TestPoolKeepsFirstError(t *testing.T) {
	p := New(1, 4)
	ctx := context.Background()
	p.Start(ctx)

	boom := errors.New("boom")
	require.NoError(t, p.Submit(ctx, func(ctx context.Context) error { return boom }))
	require.NoError(t, p.Submit(ctx, func(ctx context.Context) error { return errors.New("later") }))
	assert.ErrorIs(t, p.Wait(), boom)
}

func TestSubmitAfterWait(t *testing.T) {
	p := New(2, 2)
	ctx := context.Background()
	p.Start(ctx)
	require.NoError(t, p.Wait())

	err := p.Submit(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}
