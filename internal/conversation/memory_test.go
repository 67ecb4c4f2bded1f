package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripassistant/internal/logging"
	"github.com/dharmasatrya/tripassistant/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAppendSeedsSystemPrompt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "t1", models.RoleUser, "hello"))
	require.NoError(t, s.Append(ctx, "t1", models.RoleAssistant, "hi there"))

	msgs, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.Equal(t, SystemPrompt, msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "hi there", msgs[2].Content)
}

func TestGetUnknownThread(t *testing.T) {
	s := NewMemoryStore()

	msgs, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "t1", models.RoleUser, "hello"))

	msgs, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	msgs[1].Content = "changed"

	again, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", again[1].Content)
}

func TestEmptyThreadID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyThreadID)
	assert.ErrorIs(t, s.Append(ctx, "", models.RoleUser, "x"), ErrEmptyThreadID)
	assert.ErrorIs(t, s.Clear(ctx, ""), ErrEmptyThreadID)
}

func TestClearAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "b", models.RoleUser, "x"))
	require.NoError(t, s.Append(ctx, "a", models.RoleUser, "y"))

	ids, err := s.ListThreads(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, s.Clear(ctx, "a"))
	ids, err = s.ListThreads(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	require.NoError(t, s.Append(ctx, "a", models.RoleUser, "again"))
	msgs, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestSweepEvictsIdleThreads(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithTTL(time.Hour), WithClock(clock.Now), WithLogger(logging.NewNop()))
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "old", models.RoleUser, "x"))
	clock.Advance(45 * time.Minute)
	require.NoError(t, s.Append(ctx, "fresh", models.RoleUser, "y"))
	clock.Advance(30 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	ids, err := s.ListThreads(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids)
}

func TestSweepWithoutTTL(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Append(context.Background(), "t", models.RoleUser, "x"))
	assert.Equal(t, 0, s.Sweep())
}

func TestStartJanitor(t *testing.T) {
	s := NewMemoryStore(WithTTL(time.Minute), WithLogger(logging.NewNop()))

	stop, err := s.StartJanitor("@every 1h")
	require.NoError(t, err)
	stop()

	_, err = s.StartJanitor("not a schedule")
	assert.Error(t, err)
}

func TestConcurrentAppendKeepsEveryMessage(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, "shared", models.RoleUser, fmt.Sprintf("m%d", i)))
		}(i)
	}
	wg.Wait()

	msgs, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, msgs, 51)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
}
