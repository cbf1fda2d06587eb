package display

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dasgefolge/sil/internal/errors"
)

// Publisher accepts display events from a producer.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus is the multi-producer, single-consumer channel between the session,
// the asset loader and the renderer.
type Bus struct {
	events      chan Event
	done        chan struct{}
	closeOnce   sync.Once
	sendTimeout time.Duration
	logger      *zerolog.Logger
}

// NewBus creates a bus with the given buffer. A full buffer blocks
// publishers for at most sendTimeout before the event is dropped.
func NewBus(buffer int, sendTimeout time.Duration, logger *zerolog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Bus{
		events:      make(chan Event, buffer),
		done:        make(chan struct{}),
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// Events returns the consumer side of the bus.
func (bus *Bus) Events() <-chan Event {
	return bus.events
}

// Done is closed once the consumer has gone away.
func (bus *Bus) Done() <-chan struct{} {
	return bus.done
}

// Close marks the consumer as gone. Later publishes fail with ErrChannelSend.
func (bus *Bus) Close() {
	bus.closeOnce.Do(func() {
		close(bus.done)
	})
}

// Publish delivers event to the consumer. Events that must not be lost, the
// terminal Error state and the update signal, wait for room without a
// timeout until the consumer goes away or ctx is done.
func (bus *Bus) Publish(ctx context.Context, event Event) error {
	select {
	case <-bus.done:
		return errors.ErrChannelSend
	default:
	}

	var timeout <-chan time.Time
	if bus.sendTimeout > 0 && !event.mustDeliver() {
		timer := time.NewTimer(bus.sendTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case bus.events <- event:
		return nil
	case <-bus.done:
		return errors.ErrChannelSend
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		bus.logger.Warn().
			Str("type", string(event.Type)).
			Str("state", event.State.String()).
			Dur("timeout", bus.sendTimeout).
			Msg("display channel full, event dropped")
		return nil
	}
}
