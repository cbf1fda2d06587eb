// Package protocol defines the messages exchanged with the event server.
// Messages are JSON objects tagged by their "type" field.
package protocol

import "fmt"

// ServerMessageType tags inbound messages.
type ServerMessageType string

const (
	ServerPing          ServerMessageType = "ping"
	ServerError         ServerMessageType = "error"
	ServerNoEvent       ServerMessageType = "noEvent"
	ServerCurrentEvent  ServerMessageType = "currentEvent"
	ServerLatestVersion ServerMessageType = "latestVersion"
)

// ServerMessage is a message sent by the server.
type ServerMessage struct {
	Type ServerMessageType `json:"type"`

	// error
	Debug   string `json:"debug,omitempty"`
	Display string `json:"display,omitempty"`

	// currentEvent; the id is informational only
	ID       string `json:"id,omitempty"`
	Timezone string `json:"timezone,omitempty"`

	// latestVersion
	Version string `json:"version,omitempty"`
}

// Validate checks that the fields required by the message type are present.
func (message ServerMessage) Validate() error {
	switch message.Type {
	case ServerPing, ServerNoEvent:
		return nil
	case ServerError:
		if message.Display == "" && message.Debug == "" {
			return fmt.Errorf("error message without text")
		}
		return nil
	case ServerCurrentEvent:
		if message.Timezone == "" {
			return fmt.Errorf("current event %q without timezone", message.ID)
		}
		return nil
	case ServerLatestVersion:
		if message.Version == "" {
			return fmt.Errorf("latest version message without version")
		}
		return nil
	default:
		return fmt.Errorf("unknown server message type %q", message.Type)
	}
}

// ClientMessageType tags outbound messages.
type ClientMessageType string

const (
	ClientAuth         ClientMessageType = "auth"
	ClientCurrentEvent ClientMessageType = "currentEvent"
)

// ClientMessage is a message sent to the server.
type ClientMessage struct {
	Type   ClientMessageType `json:"type"`
	APIKey string            `json:"apiKey,omitempty"`
}

// Auth authenticates the session with an API key.
func Auth(apiKey string) ClientMessage {
	return ClientMessage{Type: ClientAuth, APIKey: apiKey}
}

// SubscribeCurrentEvent asks the server to report the current event and
// every later change to it.
func SubscribeCurrentEvent() ClientMessage {
	return ClientMessage{Type: ClientCurrentEvent}
}
