package display

import "time"

// Kind identifies what the renderer should draw.
type Kind string

const (
	KindBinaryTime      Kind = "binary_time"
	KindCloseWindows    Kind = "close_windows"
	KindHexagesimalTime Kind = "hexagesimal_time"
	KindNewYear         Kind = "new_year"
	KindLogo            Kind = "logo"
	KindError           Kind = "error"
)

// State is an immutable description of one screen. Timezone is set for the
// clock kinds, Message for Logo and Err for Error.
type State struct {
	Kind     Kind
	Timezone *time.Location
	Message  string
	Err      error
}

func BinaryTime(timezone *time.Location) State {
	return State{Kind: KindBinaryTime, Timezone: timezone}
}

func CloseWindows(timezone *time.Location) State {
	return State{Kind: KindCloseWindows, Timezone: timezone}
}

func HexagesimalTime(timezone *time.Location) State {
	return State{Kind: KindHexagesimalTime, Timezone: timezone}
}

func NewYear(timezone *time.Location) State {
	return State{Kind: KindNewYear, Timezone: timezone}
}

// Logo shows the splash screen with a status message.
func Logo(message string) State {
	return State{Kind: KindLogo, Message: message}
}

// Error is terminal: once shown it stays until a human intervenes.
func Error(err error) State {
	return State{Kind: KindError, Err: err}
}

// IsTerminal reports whether the state ends the session.
func (state State) IsTerminal() bool {
	return state.Kind == KindError
}

func (state State) String() string {
	switch state.Kind {
	case KindLogo:
		return "logo: " + state.Message
	case KindError:
		if state.Err == nil {
			return "error"
		}
		return "error: " + state.Err.Error()
	default:
		if state.Timezone == nil {
			return string(state.Kind)
		}
		return string(state.Kind) + " (" + state.Timezone.String() + ")"
	}
}
