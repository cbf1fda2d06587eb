package session

import (
	"context"

	"github.com/dasgefolge/sil/internal/core/model"
	"github.com/dasgefolge/sil/internal/errors"
	"github.com/dasgefolge/sil/internal/protocol"
	"github.com/dasgefolge/sil/internal/transport"
)

// connect establishes the live connection and waits for the initial event
// context. With a mock event the inbound stream never yields.
func (s *Session) connect(ctx context.Context) (<-chan transport.Inbound, *model.Event, func(), error) {
	if s.config.MockEvent {
		s.logger.Info().Msg("using mock event")
		return nil, model.MockEvent(), func() {}, nil
	}

	apiKey, err := s.apiKey()
	if err != nil {
		return nil, nil, nil, err
	}
	conn, err := s.dialer.Dial(ctx, s.config.WebSocketURL)
	if err != nil {
		return nil, nil, nil, err
	}
	closeConn := func() {
		if err := conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("close connection")
		}
	}

	event, err := s.handshake(ctx, conn, apiKey)
	if err != nil {
		closeConn()
		return nil, nil, nil, err
	}
	return conn.Inbound(), event, closeConn, nil
}

func (s *Session) handshake(ctx context.Context, conn transport.Conn, apiKey string) (*model.Event, error) {
	if err := conn.Send(ctx, protocol.Auth(apiKey)); err != nil {
		return nil, err
	}
	if err := conn.Send(ctx, protocol.SubscribeCurrentEvent()); err != nil {
		return nil, err
	}

	for {
		var (
			item transport.Inbound
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case item, ok = <-conn.Inbound():
		}
		if !ok {
			return nil, errors.ErrEndOfStream
		}
		if item.Err != nil {
			return nil, item.Err
		}

		message := item.Message
		switch message.Type {
		case protocol.ServerPing:
			continue
		case protocol.ServerError:
			return nil, &errors.ServerError{Debug: message.Debug, Display: message.Display}
		case protocol.ServerNoEvent:
			if s.config.Conditional {
				return nil, errors.ErrNoEvent
			}
			s.logger.Info().Msg("no event running")
			return nil, nil
		case protocol.ServerCurrentEvent:
			return s.eventFrom(message)
		case protocol.ServerLatestVersion:
			if err := s.checkVersion(ctx, message.Version); err != nil {
				return nil, err
			}
		default:
			return nil, &errors.ReadError{Err: message.Validate()}
		}
	}
}
