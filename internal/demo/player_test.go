package demo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock jumps forward by the requested duration on every After call.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type recorded struct {
	typ   string
	index int
	at    time.Duration
}

func TestPlayer_DefaultScriptOrder(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	p := NewPlayer(discard(), WithClock(clock))

	var got []recorded
	err := p.Play(context.Background(), DefaultScript(), func(_ context.Context, ev Event) error {
		got = append(got, recorded{ev.Type, ev.Index, clock.Now().Sub(start)})
		return nil
	})
	require.NoError(t, err)

	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	want := []recorded{
		{EventTypingStarted, 0, ms(1000)},
		{EventTypingStarted, 1, ms(2000)},
		{EventTypingStopped, 0, ms(2500)},
		{EventMessage, 0, ms(2500)},
		{EventTypingStopped, 1, ms(3500)},
		{EventMessage, 1, ms(3500)},
		{EventMessage, 2, ms(4000)},
		{EventTypingStarted, 3, ms(6000)},
		{EventTypingStopped, 3, ms(7500)},
		{EventMessage, 3, ms(7500)},
		{EventTypingStarted, 4, ms(8000)},
		{EventTypingStopped, 4, ms(9500)},
		{EventMessage, 4, ms(9500)},
		{EventMessage, 5, ms(10000)},
		{EventTypingStarted, 6, ms(12000)},
		{EventTypingStopped, 6, ms(13500)},
		{EventMessage, 6, ms(13500)},
		{EventTypingStarted, 7, ms(14000)},
		{EventTypingStopped, 7, ms(15500)},
		{EventMessage, 7, ms(15500)},
		{EventComplete, 8, ms(15500)},
	}
	assert.Equal(t, want, got)
}

func TestPlayer_Timeline(t *testing.T) {
	p := NewPlayer(discard(), WithTypingDuration(500*time.Millisecond))
	script := Script{
		{Kind: KindSent, Text: "hi", Delay: 0},
		{Kind: KindReceived, Text: "hello", Delay: time.Second},
	}

	events := p.Timeline(script)
	require.Len(t, events, 5)
	assert.Equal(t, Event{Type: EventMessage, Index: 0, Kind: KindSent, Text: "hi"}, events[0])
	assert.Equal(t, EventTypingStarted, events[1].Type)
	assert.Equal(t, int64(1000), events[1].AtMS)
	assert.Equal(t, EventMessage, events[3].Type)
	assert.Equal(t, "hello", events[3].Text)
	assert.Equal(t, int64(1500), events[3].AtMS)
	assert.Equal(t, EventComplete, events[4].Type)
}

func TestPlayer_EmptyScript(t *testing.T) {
	p := NewPlayer(discard(), WithClock(newFakeClock()))
	var got []string
	err := p.Play(context.Background(), nil, func(_ context.Context, ev Event) error {
		got = append(got, ev.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{EventComplete}, got)
}

func TestPlayer_CancelStopsPendingEvents(t *testing.T) {
	clock := newFakeClock()
	p := NewPlayer(discard(), WithClock(clock))
	ctx, cancel := context.WithCancel(context.Background())

	var got []string
	err := p.Play(ctx, DefaultScript(), func(_ context.Context, ev Event) error {
		got = append(got, ev.Type)
		if ev.Type == EventMessage && ev.Index == 0 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{EventTypingStarted, EventTypingStarted, EventTypingStopped, EventMessage}, got)
}

func TestPlayer_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	p := NewPlayer(discard(), WithClock(newFakeClock()))
	err := p.Play(ctx, DefaultScript(), func(context.Context, Event) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPlayer_SinkErrorStops(t *testing.T) {
	boom := errors.New("client gone")
	p := NewPlayer(discard(), WithClock(newFakeClock()))

	calls := 0
	err := p.Play(context.Background(), DefaultScript(), func(context.Context, Event) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPlayer_RealClock(t *testing.T) {
	p := NewPlayer(discard(), WithTypingDuration(time.Millisecond))
	script := Script{{Kind: KindReceived, Text: "quick", Delay: 2 * time.Millisecond}}

	var got []string
	err := p.Play(context.Background(), script, func(_ context.Context, ev Event) error {
		got = append(got, ev.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{EventTypingStarted, EventTypingStopped, EventMessage, EventComplete}, got)
}
