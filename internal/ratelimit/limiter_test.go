package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitWithinBurst(t *testing.T) {
	l := NewOperationLimiter(Config{Default: Limit{RequestsPerSecond: 1, BurstSize: 3}})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(ctx, "flight-offers"))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitRespectsContext(t *testing.T) {
	l := NewOperationLimiter(Config{Default: Limit{RequestsPerSecond: 0.01, BurstSize: 1}})
	require.NoError(t, l.Wait(context.Background(), "hotel-offers"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "hotel-offers"))
}

func TestOperationsAreIndependent(t *testing.T) {
	l := NewOperationLimiter(Config{
		Default:   Limit{RequestsPerSecond: 0.01, BurstSize: 1},
		Overrides: map[string]Limit{"token": {RequestsPerSecond: 100, BurstSize: 5}},
	})
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "flight-offers"))
	require.NoError(t, l.Wait(ctx, "hotel-list"))
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(ctx, "token"))
	}
	assert.Same(t, l.limiter("hotel-list"), l.limiter("hotel-list"))
}

func TestDefaultConfigAppliesToUnknownOperations(t *testing.T) {
	l := NewOperationLimiter(DefaultConfig())
	lim := l.limiter("flight-offers")
	assert.Equal(t, 10, lim.Burst())
	assert.InDelta(t, 10.0, float64(lim.Limit()), 0.001)
}

func TestNilLimiterNeverBlocks(t *testing.T) {
	var l *OperationLimiter
	assert.NoError(t, l.Wait(context.Background(), "anything"))
}
