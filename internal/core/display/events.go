package display

import (
	"image"
	"time"
)

// EventType defines the type of display event.
type EventType string

const (
	EventState       EventType = "state"
	EventLogo        EventType = "logo"
	EventAssetFailed EventType = "asset_failed"
	EventUpdateReady EventType = "update_ready"
)

// Event is a single emission towards the renderer.
type Event struct {
	Type    EventType
	State   State
	Logo    image.Image
	Err     error
	Version string
	At      time.Time
}

func StateEvent(state State) Event {
	return Event{Type: EventState, State: state, At: time.Now()}
}

func LogoEvent(logo image.Image) Event {
	return Event{Type: EventLogo, Logo: logo, At: time.Now()}
}

func AssetFailedEvent(err error) Event {
	return Event{Type: EventAssetFailed, Err: err, At: time.Now()}
}

func UpdateReadyEvent(version string) Event {
	return Event{Type: EventUpdateReady, Version: version, At: time.Now()}
}

func (event Event) mustDeliver() bool {
	return event.Type == EventUpdateReady || (event.Type == EventState && event.State.IsTerminal())
}

// Snapshot is everything the renderer currently shows. The screen state and
// the logo image are updated independently so neither clobbers the other.
type Snapshot struct {
	State         State
	Logo          image.Image
	AssetErr      error
	UpdateVersion string
}

// InitialSnapshot is shown before any event arrives.
func InitialSnapshot() Snapshot {
	return Snapshot{State: Logo("loading the loader")}
}

// Apply merges event into the snapshot and returns the result.
func (snapshot Snapshot) Apply(event Event) Snapshot {
	switch event.Type {
	case EventState:
		if snapshot.State.IsTerminal() {
			return snapshot
		}
		snapshot.State = event.State
	case EventLogo:
		if event.Logo != nil {
			snapshot.Logo = event.Logo
		}
	case EventAssetFailed:
		snapshot.AssetErr = event.Err
	case EventUpdateReady:
		snapshot.UpdateVersion = event.Version
	}
	return snapshot
}
