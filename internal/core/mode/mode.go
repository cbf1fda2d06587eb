// Package mode holds the closed set of display modes, their eligibility
// rules and the selection logic that picks which one is shown next.
package mode

import (
	"time"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/core/model"
)

// Mode is one candidate display behavior.
type Mode int

const (
	BinaryTime Mode = iota
	CloseWindows
	HexagesimalTime
	Logo
	NewYear
)

var modeNames = [...]string{
	BinaryTime:      "binary_time",
	CloseWindows:    "close_windows",
	HexagesimalTime: "hexagesimal_time",
	Logo:            "logo",
	NewYear:         "new_year",
}

// All returns every mode in catalog order.
func All() []Mode {
	return []Mode{BinaryTime, CloseWindows, HexagesimalTime, Logo, NewYear}
}

func (mode Mode) String() string {
	if mode < 0 || int(mode) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[mode]
}

// Priority ranks eligible modes. Higher wins.
type Priority int

const (
	Fallback Priority = iota
	Normal
	Programm
)

func (priority Priority) String() string {
	switch priority {
	case Fallback:
		return "fallback"
	case Normal:
		return "normal"
	case Programm:
		return "programm"
	default:
		return "unknown"
	}
}

// Hour boundaries of the time-bound modes.
const (
	CloseWindowsHour    = 22
	CloseWindowsMinutes = 5
	NewYearHour         = 0
	FinalCountdown      = time.Hour
)

// Evaluate reports whether mode is eligible for the given event at now and,
// if so, with which priority and state. It never has side effects.
func (mode Mode) Evaluate(event *model.Event, now time.Time) (Priority, display.State, bool) {
	if mode == Logo || event == nil || event.Timezone == nil {
		return Fallback, display.State{}, false
	}
	timezone := event.Timezone
	local := now.In(timezone)

	switch mode {
	case BinaryTime:
		if isNewYearsEve(local) {
			return Normal, display.BinaryTime(timezone), true
		}
	case CloseWindows:
		if local.Hour() == CloseWindowsHour && local.Minute() < CloseWindowsMinutes {
			return Programm, display.CloseWindows(timezone), true
		}
	case HexagesimalTime:
		return Normal, display.HexagesimalTime(timezone), true
	case NewYear:
		if local.Month() == time.January && local.Day() == 1 && local.Hour() == NewYearHour {
			return Programm, display.NewYear(timezone), true
		}
		if isNewYearsEve(local) {
			if nextMidnight(local).Sub(local) < FinalCountdown {
				return Programm, display.NewYear(timezone), true
			}
			return Normal, display.NewYear(timezone), true
		}
	}
	return Fallback, display.State{}, false
}

// isNewYearsEve reports whether the following calendar day is January 1st.
func isNewYearsEve(local time.Time) bool {
	tomorrow := nextMidnight(local)
	return tomorrow.Month() == time.January && tomorrow.Day() == 1
}

// nextMidnight is the start of the following calendar day in local's zone.
// time.Date normalizes day overflow, so this is defined for every instant.
func nextMidnight(local time.Time) time.Time {
	year, month, day := local.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, local.Location())
}
