package credits

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIfAbsentSetsQuotaOnce(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	require.NoError(t, l.InitIfAbsent(ctx, "cs_1", DefaultQuota))
	n, ok, err := l.Remaining(ctx, "cs_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	for _, quota := range []int{0, 1, 3, 99} {
		require.NoError(t, l.InitIfAbsent(ctx, "cs_1", quota))
		n, _, _ = l.Remaining(ctx, "cs_1")
		assert.Equal(t, 3, n, "re-init with quota %d must not change the counter", quota)
	}
}

func TestInitIfAbsentDoesNotRefillSpentCredits(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	require.NoError(t, l.InitIfAbsent(ctx, "cs_1", DefaultQuota))
	_, err := l.Consume(ctx, "cs_1")
	require.NoError(t, err)
	require.NoError(t, l.InitIfAbsent(ctx, "cs_1", DefaultQuota))

	n, _, _ := l.Remaining(ctx, "cs_1")
	assert.Equal(t, 2, n)
}

func TestInitIfAbsentRejectsNegativeQuota(t *testing.T) {
	l := NewMemoryLedger()
	assert.ErrorIs(t, l.InitIfAbsent(context.Background(), "cs_1", -1), ErrInvalidQuota)
	_, ok, _ := l.Remaining(context.Background(), "cs_1")
	assert.False(t, ok)
}

func TestConsumeSequence(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		l := NewMemoryLedger()
		ctx := context.Background()
		require.NoError(t, l.InitIfAbsent(ctx, "cs", n))

		for i := 1; i <= n; i++ {
			res, err := l.Consume(ctx, "cs")
			require.NoError(t, err)
			assert.True(t, res.OK)
			assert.Equal(t, n-i, res.Remaining)
		}

		res, err := l.Consume(ctx, "cs")
		require.NoError(t, err)
		assert.Equal(t, ConsumeResult{OK: false, Remaining: 0}, res)

		left, _, _ := l.Remaining(ctx, "cs")
		assert.Equal(t, 0, left)
	}
}

func TestConsumeUnknownPayment(t *testing.T) {
	l := NewMemoryLedger()
	res, err := l.Consume(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, ConsumeResult{OK: false, Remaining: 0}, res)

	_, ok, _ := l.Remaining(context.Background(), "never-seen")
	assert.False(t, ok, "a failed consume must not create an entry")
}

func TestConsumeConcurrentNeverOverspends(t *testing.T) {
	tests := []struct {
		name  string
		quota int
		calls int
	}{
		{name: "last credit race", quota: 1, calls: 2},
		{name: "default quota", quota: DefaultQuota, calls: 50},
		{name: "larger quota", quota: 20, calls: 200},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			l := NewMemoryLedger()
			ctx := context.Background()
			require.NoError(t, l.InitIfAbsent(ctx, "cs", tt.quota))

			var (
				wg        sync.WaitGroup
				successes atomic.Int64
				failures  atomic.Int64
				start     = make(chan struct{})
			)
			for i := 0; i < tt.calls; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					res, err := l.Consume(ctx, "cs")
					if err != nil {
						t.Error(err)
						return
					}
					if res.OK {
						successes.Add(1)
					} else {
						failures.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.EqualValues(t, tt.quota, successes.Load())
			assert.EqualValues(t, tt.calls-tt.quota, failures.Load())
			left, _, _ := l.Remaining(ctx, "cs")
			assert.Equal(t, 0, left)
		})
	}
}

func TestConsumeCanceledContext(t *testing.T) {
	l := NewMemoryLedger()
	require.NoError(t, l.InitIfAbsent(context.Background(), "cs", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Consume(ctx, "cs")
	assert.ErrorIs(t, err, context.Canceled)

	left, _, _ := l.Remaining(context.Background(), "cs")
	assert.Equal(t, 1, left)
}
