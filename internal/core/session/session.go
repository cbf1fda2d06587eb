// Package session runs the beamer's state machine: it holds the current
// event context, listens to the event server and picks a display mode on
// every tick.
package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/core/mode"
	"github.com/dasgefolge/sil/internal/core/model"
	"github.com/dasgefolge/sil/internal/errors"
	"github.com/dasgefolge/sil/internal/protocol"
	"github.com/dasgefolge/sil/internal/transport"
)

// Status messages shown on the logo screen while starting up.
const (
	MessageStarting         = "starting up"
	MessageSplines          = "reticulating splines"
	MessageGettingEvent     = "getting current event"
	MessageDeterminingFirst = "determining first mode"
)

// VersionChecker handles latest-version announcements.
type VersionChecker interface {
	Check(ctx context.Context, version string) (bool, error)
}

// Dependencies are the collaborators of a session.
type Dependencies struct {
	Publisher display.Publisher
	Dialer    transport.Dialer
	// APIKey loads the credential sent during the handshake.
	APIKey  func() (string, error)
	Checker VersionChecker
	Rand    *rand.Rand
	Now     func() time.Time
	Logger  *zerolog.Logger
}

// Session is a single run of the state machine. It owns the event context,
// the rotator and the random source; none of them are shared.
type Session struct {
	config    model.SessionConfig
	publisher display.Publisher
	dialer    transport.Dialer
	apiKey    func() (string, error)
	checker   VersionChecker
	rng       *rand.Rand
	now       func() time.Time
	logger    *zerolog.Logger
}

// New creates a session.
func New(config model.SessionConfig, deps Dependencies) *Session {
	defaults := model.DefaultSessionConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		nop := zerolog.Nop()
		deps.Logger = &nop
	}
	if deps.APIKey == nil {
		deps.APIKey = func() (string, error) {
			return "", errors.ErrConfigMissing
		}
	}
	return &Session{
		config:    config,
		publisher: deps.Publisher,
		dialer:    deps.Dialer,
		apiKey:    deps.APIKey,
		checker:   deps.Checker,
		rng:       deps.Rand,
		now:       deps.Now,
		logger:    deps.Logger,
	}
}

// Maintain runs the session until it fails, then shows the failure as the
// terminal Error state. It returns the failure. Cancellation and a
// conditional start without an event end the session without an Error state.
func (s *Session) Maintain(ctx context.Context) error {
	err := s.Run(ctx)
	if errors.Is(err, errors.ErrNoEvent) || ctx.Err() != nil {
		return err
	}

	s.logger.Error().Err(err).Msg("session terminated")
	if publishErr := s.publisher.Publish(context.Background(), display.StateEvent(display.Error(err))); publishErr != nil {
		s.logger.Error().Err(publishErr).Msg("failed to show session error")
	}
	return err
}

// Run initializes the session and then runs forever. It only returns with
// an error.
func (s *Session) Run(ctx context.Context) error {
	if err := s.show(ctx, display.Logo(MessageStarting)); err != nil {
		return err
	}
	if s.rng.Float64() < s.config.Splash.Chance {
		if err := s.show(ctx, display.Logo(MessageSplines)); err != nil {
			return err
		}
		if err := sleep(ctx, s.config.Splash.Delay.Random(s.rng)); err != nil {
			return err
		}
	}

	if err := s.show(ctx, display.Logo(MessageGettingEvent)); err != nil {
		return err
	}
	inbound, event, closeConn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer closeConn()

	if err := s.show(ctx, display.Logo(MessageDeterminingFirst)); err != nil {
		return err
	}
	return s.loop(ctx, inbound, event)
}

func (s *Session) loop(ctx context.Context, inbound <-chan transport.Inbound, event *model.Event) error {
	rotator := mode.NewRotator(s.rng)

	// A timer rearmed after each tick delays late ticks instead of bursting.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-inbound:
			next, err := s.handleRunning(ctx, event, item, ok)
			if err != nil {
				return err
			}
			event = next
		case <-timer.C:
			if err := s.tick(ctx, rotator, event); err != nil {
				return err
			}
			timer.Reset(s.config.TickInterval)
		}
	}
}

func (s *Session) tick(ctx context.Context, rotator *mode.Rotator, event *model.Event) error {
	candidate, ok := rotator.Next(event, s.now())
	if ok {
		s.logger.Debug().
			Str("mode", candidate.Mode.String()).
			Str("priority", candidate.Priority.String()).
			Msg("selected mode")
	} else {
		s.logger.Debug().Msg("no modes available")
	}
	return s.show(ctx, candidate.State)
}

func (s *Session) handleRunning(ctx context.Context, event *model.Event, item transport.Inbound, ok bool) (*model.Event, error) {
	if !ok {
		return nil, errors.ErrEndOfStream
	}
	if item.Err != nil {
		return nil, item.Err
	}

	message := item.Message
	switch message.Type {
	case protocol.ServerPing:
		return event, nil
	case protocol.ServerError:
		return nil, &errors.ServerError{Debug: message.Debug, Display: message.Display}
	case protocol.ServerNoEvent:
		s.logger.Info().Msg("no event running")
		return nil, nil
	case protocol.ServerCurrentEvent:
		return s.eventFrom(message)
	case protocol.ServerLatestVersion:
		if err := s.checkVersion(ctx, message.Version); err != nil {
			return nil, err
		}
		return event, nil
	default:
		return nil, &errors.ReadError{Err: message.Validate()}
	}
}

func (s *Session) eventFrom(message protocol.ServerMessage) (*model.Event, error) {
	event, err := model.NewEvent(message.Timezone)
	if err != nil {
		return nil, &errors.ReadError{Err: err}
	}
	s.logger.Info().
		Str("event", message.ID).
		Str("timezone", message.Timezone).
		Msg("current event")
	return event, nil
}

func (s *Session) checkVersion(ctx context.Context, version string) error {
	if s.checker == nil {
		return nil
	}
	_, err := s.checker.Check(ctx, version)
	return err
}

func (s *Session) show(ctx context.Context, state display.State) error {
	return s.publisher.Publish(ctx, display.StateEvent(state))
}

func sleep(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
