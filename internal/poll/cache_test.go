package poll

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestGetTriggersSingleFetch(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		fetches.Add(1)
		<-release
		return 42, nil
	}

	ctx := context.Background()
	// Both reads land while the entry is cold; only one fetch may launch.
	r1 := c.Get(ctx, "k", fetch)
	r2 := c.Get(ctx, "k", fetch)
	assert.True(t, r1.Fetching)
	assert.True(t, r2.Fetching)
	assert.False(t, r2.HasValue)

	close(release)
	waitFor(t, func() bool { return c.Snapshot("k").HasValue })

	assert.Equal(t, int32(1), fetches.Load())
	snap := c.Snapshot("k")
	assert.Equal(t, 42, snap.Value)
	assert.NoError(t, snap.Err)
}

func TestFreshValueServedWithoutRefetch(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		fetches.Add(1)
		return 7, nil
	}

	ctx := context.Background()
	c.Get(ctx, "k", fetch)
	waitFor(t, func() bool { return c.Snapshot("k").HasValue })

	// A fresh entry must not trigger another fetch.
	r := c.Get(ctx, "k", fetch)
	assert.Equal(t, 7, r.Value)
	assert.False(t, r.Fetching)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestStaleWhileError(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())
	ctx := context.Background()

	ok := func(ctx context.Context) (int, error) { return 1, nil }
	c.Get(ctx, "k", ok)
	waitFor(t, func() bool { return c.Snapshot("k").HasValue })

	bad := func(ctx context.Context) (int, error) { return 0, assert.AnError }
	require.True(t, c.Refresh(ctx, "k", bad))
	waitFor(t, func() bool { return c.Snapshot("k").Err != nil })

	// The last good value keeps serving alongside the refresh error.
	snap := c.Snapshot("k")
	assert.True(t, snap.HasValue)
	assert.Equal(t, 1, snap.Value)
	assert.Error(t, snap.Err)
}

func TestInvalidateDiscardsInFlightResult(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())
	ctx := context.Background()

	release := make(chan struct{})
	done := make(chan struct{})
	slow := func(ctx context.Context) (int, error) {
		<-release
		defer close(done)
		return 99, nil
	}

	require.True(t, c.Refresh(ctx, "k", slow))
	c.Invalidate("k")

	close(release)
	<-done
	// Give complete() a moment to run past the token check.
	time.Sleep(20 * time.Millisecond)

	snap := c.Snapshot("k")
	assert.False(t, snap.HasValue, "superseded fetch result must be discarded")
}

func TestRefreshWhileInFlightIsNoop(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())
	ctx := context.Background()

	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	}

	require.True(t, c.Refresh(ctx, "k", fetch))
	assert.False(t, c.Refresh(ctx, "k", fetch), "second refresh must report in-flight")
	close(release)
}

func TestGetWaitBlocksOnColdCacheOnly(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())
	ctx := context.Background()

	fetch := func(ctx context.Context) (int, error) { return 5, nil }
	r := c.GetWait(ctx, "k", fetch)
	assert.True(t, r.HasValue)
	assert.Equal(t, 5, r.Value)
}

func TestRunStopsWithContext(t *testing.T) {
	c := New[int](Config{StaleTime: time.Millisecond, RefetchInterval: 10 * time.Millisecond}, testLogger())

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		fetches.Add(1)
		return 1, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		c.Run(ctx, "k", fetch)
		close(stopped)
	}()

	waitFor(t, func() bool { return fetches.Load() >= 2 })
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestSubscribeNotifiesOnCompletion(t *testing.T) {
	c := New[int](Config{StaleTime: time.Minute, RefetchInterval: time.Minute}, testLogger())
	ctx := context.Background()

	got := make(chan Result[int], 1)
	cancel := c.Subscribe("k", func(r Result[int]) {
		select {
		case got <- r:
		default:
		}
	})
	defer cancel()

	c.Refresh(ctx, "k", func(ctx context.Context) (int, error) { return 3, nil })

	select {
	case r := <-got:
		assert.Equal(t, 3, r.Value)
		assert.True(t, r.HasValue)
	case <-time.After(time.Second):
		t.Fatal("subscriber not notified")
	}
}

func TestKeyDeterminism(t *testing.T) {
	type params struct {
		Limit int     `json:"limit"`
		Min   float64 `json:"min"`
	}
	k1 := Key("trades", params{Limit: 80, Min: 1000})
	k2 := Key("trades", params{Limit: 80, Min: 1000})
	k3 := Key("trades", params{Limit: 250, Min: 150})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, "trades", Key("trades", nil))
}
