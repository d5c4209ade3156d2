package frame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/shoehorn/fit"
)

func TestTickRunsInRegistrationOrder(t *testing.T) {
	l := New()
	var got []int
	l.RequestTick(func() { got = append(got, 1) })
	l.RequestTick(func() { got = append(got, 2) })
	l.RequestTick(func() { got = append(got, 3) })

	require.Equal(t, 3, l.Tick())
	require.Equal(t, []int{1, 2, 3}, got)
	require.Zero(t, l.Tick())
}

func TestCancelledTickNeverRuns(t *testing.T) {
	l := New()
	ran := false
	tok := l.RequestTick(func() { ran = true })
	l.CancelTick(tok)
	l.CancelTick(tok)
	l.CancelTick(fit.Token(999))

	require.Zero(t, l.Tick())
	require.False(t, ran)
	require.Zero(t, l.Pending())
}

func TestCallbacksRequestedDuringTickRunNextFrame(t *testing.T) {
	l := New()
	var got []string
	l.RequestTick(func() {
		got = append(got, "first")
		l.RequestTick(func() { got = append(got, "second") })
	})

	require.Equal(t, 1, l.Tick())
	require.Equal(t, []string{"first"}, got)
	require.Equal(t, 1, l.Pending())
	require.Equal(t, 1, l.Tick())
	require.Equal(t, []string{"first", "second"}, got)
}

func TestCancelDuringTickSkipsLaterCallback(t *testing.T) {
	l := New()
	var second fit.Token
	ran := false
	l.RequestTick(func() { l.CancelTick(second) })
	second = l.RequestTick(func() { ran = true })

	require.Equal(t, 1, l.Tick())
	require.False(t, ran)
}

func TestAfterTickHookOnlyFiresWhenWorkRan(t *testing.T) {
	hooks := 0
	l := New(WithAfterTick(func() { hooks++ }))
	l.Tick()
	require.Zero(t, hooks)

	l.RequestTick(func() {})
	l.Tick()
	require.Equal(t, 1, hooks)
}

func TestPostAndDrain(t *testing.T) {
	l := New()
	var got []int
	ctx := context.Background()
	require.NoError(t, l.Post(ctx, func() { got = append(got, 1) }))
	require.NoError(t, l.Post(ctx, func() { got = append(got, 2) }))

	require.Equal(t, 2, l.Drain())
	require.Equal(t, []int{1, 2}, got)
	require.Zero(t, l.Drain())
}

func TestPostRespectsContextWhenFull(t *testing.T) {
	l := New()
	ctx := context.Background()
	for range taskBuffer {
		require.NoError(t, l.Post(ctx, func() {}))
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, l.Post(cancelled, func() {}), context.Canceled)
}

func TestRunDrivesTicksAndTasks(t *testing.T) {
	l := New(WithInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(done)
	}()

	ticked := make(chan struct{})
	require.NoError(t, l.Post(ctx, func() {
		l.RequestTick(func() { close(ticked) })
	}))

	select {
	case <-ticked:
	case <-ctx.Done():
		t.Fatal("tick callback never ran")
	}
	cancel()
	<-done
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	require.Equal(t, DefaultInterval, New(WithInterval(0)).Interval())
	require.Equal(t, time.Second, New(WithInterval(time.Second)).Interval())
}
