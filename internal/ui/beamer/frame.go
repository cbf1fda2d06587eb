package beamer

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"time"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/errors"
)

// Theme is the color scheme of every screen except Error and BinaryTime.
type Theme struct {
	Background color.NRGBA
	Foreground color.NRGBA
}

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

// ThemeFor returns the light or the dark theme.
func ThemeFor(light bool) Theme {
	if light {
		return Theme{Background: white, Foreground: black}
	}
	return Theme{Background: black, Foreground: white}
}

// Placement is the vertical position of a text block.
type Placement int

const (
	PlaceCenter Placement = iota
	PlaceTop
	PlaceBottom
)

// Text is one block of text. Content may span several lines.
type Text struct {
	Content   string
	Size      float32
	Placement Placement
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Background color.NRGBA
	Foreground color.NRGBA
	Texts      []Text
	// Bits is set for BinaryTime and holds the 16 bit day fraction.
	Bits *uint16
	Logo image.Image
	// Redraw is the delay until the frame changes on its own; zero means
	// only a new snapshot changes it.
	Redraw time.Duration
}

const (
	textSize    = 100
	infoSize    = 24
	countSize   = 200
	numeralSize = 400

	binaryRedraw = 100 * time.Millisecond
)

// Render computes the frame for snapshot at now on a width x height screen.
func Render(snapshot display.Snapshot, now time.Time, theme Theme, width, height int) Frame {
	frame := Frame{Background: theme.Background, Foreground: theme.Foreground}
	state := snapshot.State

	switch state.Kind {
	case display.KindBinaryTime:
		bits := BinaryTimeBits(now.In(location(state)))
		frame.Background, frame.Foreground = black, white
		frame.Bits = &bits
		frame.Redraw = binaryRedraw
	case display.KindCloseWindows:
		frame.Texts = []Text{{Content: CloseWindowsText(now.In(location(state))), Size: textSize}}
		frame.Redraw = untilNextSecond(now)
	case display.KindHexagesimalTime:
		frame.Texts = []Text{{Content: HexagesimalText(now.In(location(state))), Size: textSize}}
		frame.Redraw = untilNextSecond(now)
	case display.KindNewYear:
		content, size, ticking := NewYearText(now.In(location(state)))
		frame.Texts = []Text{{Content: content, Size: size}}
		if ticking {
			frame.Redraw = untilNextSecond(now)
		}
	case display.KindError:
		frame.Background, frame.Foreground = red, white
		frame.Texts = []Text{{Content: ErrorText(state.Err), Size: textSize}}
	default:
		frame.Logo = snapshot.Logo
		message := state.Message
		if snapshot.AssetErr != nil {
			message += "\n" + snapshot.AssetErr.Error()
		}
		frame.Texts = []Text{
			{Content: fmt.Sprintf("%dx%d", width, height), Size: infoSize, Placement: PlaceTop},
			{Content: message, Size: infoSize, Placement: PlaceBottom},
		}
	}
	return frame
}

// BinaryTimeBits maps the wall clock time of day onto 16 bits, 0 at midnight.
func BinaryTimeBits(local time.Time) uint16 {
	elapsed := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())
	return uint16(elapsed * 65536 / (24 * time.Hour))
}

// BitAt reports whether the cell in the given column and row is lit.
// Columns hold four consecutive bits, least significant at the top left.
func BitAt(bits uint16, column, row int) bool {
	return bits&(1<<(4*column+row)) != 0
}

func HexagesimalText(local time.Time) string {
	return local.Format("02.01.2006 15:04:05")
}

func CloseWindowsText(local time.Time) string {
	return fmt.Sprintf("Es ist %s Uhr.\nBitte alle Fenster schließen.", local.Format("15:04:05"))
}

// NewYearText counts down to the next new year in the second half of the
// year and shows the current year otherwise. ticking reports whether the
// text changes every second.
func NewYearText(local time.Time) (content string, size float32, ticking bool) {
	if local.Month() <= time.June {
		return strconv.Itoa(local.Year()), numeralSize, false
	}

	target := time.Date(local.Year()+1, time.January, 1, 0, 0, 0, 0, local.Location())
	seconds := int64(target.Sub(local) / time.Second)
	switch {
	case seconds < 60:
		return strconv.FormatInt(seconds, 10), numeralSize, true
	case seconds < 3600:
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60), countSize, true
	default:
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60), countSize, true
	}
}

// ErrorText shows the summary followed by the full error chain.
func ErrorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error() + "\n\n" + errors.Detail(err)
}

func location(state display.State) *time.Location {
	if state.Timezone == nil {
		return time.UTC
	}
	return state.Timezone
}

func untilNextSecond(now time.Time) time.Duration {
	return time.Second - time.Duration(now.Nanosecond())
}
