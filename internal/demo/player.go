package demo

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// Event types.
const (
	EventTypingStarted = "typing_started"
	EventTypingStopped = "typing_stopped"
	EventMessage       = "message"
	EventComplete      = "complete"
)

// Event is one update of the chat window.
type Event struct {
	Type  string        `json:"type"`
	Index int           `json:"index"`
	Kind  string        `json:"kind,omitempty"`
	Text  string        `json:"text,omitempty"`
	At    time.Duration `json:"-"`
	AtMS  int64         `json:"at_ms"`
}

// Sink receives events as they become due. Returning an error stops playback.
type Sink func(ctx context.Context, ev Event) error

// Clock lets tests drive playback without sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Player schedules scripts.
type Player struct {
	typing time.Duration
	clock  Clock
	logger *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithTypingDuration sets how long the typing indicator shows.
func WithTypingDuration(d time.Duration) Option {
	return func(p *Player) {
		if d >= 0 {
			p.typing = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(p *Player) { p.clock = c }
}

// NewPlayer creates a player.
func NewPlayer(logger *slog.Logger, opts ...Option) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		typing: DefaultTypingDuration,
		clock:  realClock{},
		logger: logger.With(slog.String("component", "demo_player")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Timeline expands script into events ordered by offset. A received message
// starts typing at its delay and appears once typing stops. A sent message
// appears at its delay. Events due at the same moment keep script order.
func (p *Player) Timeline(script Script) []Event {
	events := make([]Event, 0, len(script)*3+1)
	var end time.Duration
	for i, msg := range script {
		at := max(msg.Delay, 0)
		if msg.Kind == KindReceived {
			events = append(events, Event{Type: EventTypingStarted, Index: i, Kind: msg.Kind, At: at})
			at += p.typing
			events = append(events, Event{Type: EventTypingStopped, Index: i, Kind: msg.Kind, At: at})
		}
		events = append(events, Event{Type: EventMessage, Index: i, Kind: msg.Kind, Text: msg.Text, At: at})
		end = max(end, at)
	}
	events = append(events, Event{Type: EventComplete, Index: len(script), At: end})

	slices.SortStableFunc(events, func(a, b Event) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	for i := range events {
		events[i].AtMS = events[i].At.Milliseconds()
	}
	return events
}

// Play emits the script's events to sink at their offsets from now. It
// returns ctx.Err() when cancelled, leaving later events unsent.
func (p *Player) Play(ctx context.Context, script Script, sink Sink) error {
	start := p.clock.Now()
	events := p.Timeline(script)

	p.logger.DebugContext(ctx, "Demo playback started",
		slog.Int("messages", len(script)),
		slog.Int("events", len(events)))

	for _, ev := range events {
		if wait := ev.At - p.clock.Now().Sub(start); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-p.clock.After(wait):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink(ctx, ev); err != nil {
			return err
		}
	}

	p.logger.DebugContext(ctx, "Demo playback finished")
	return nil
}
