package model

import (
	"fmt"
	"time"
)

// Event is the live context of the currently running event. A nil *Event
// means no event is running.
type Event struct {
	Timezone *time.Location
}

// NewEvent resolves an IANA timezone name into an event context.
func NewEvent(timezone string) (*Event, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Event{Timezone: location}, nil
}

// MockEvent returns the context used when running without a server.
func MockEvent() *Event {
	event, err := NewEvent("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return event
}
