package beamer

import (
	stderrors "errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/errors"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	location, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return location
}

func TestBinaryTimeBits(t *testing.T) {
	tz := berlin(t)
	day := func(hour, minute, second int) time.Time {
		return time.Date(2024, time.December, 31, hour, minute, second, 0, tz)
	}

	assert.Equal(t, uint16(0), BinaryTimeBits(day(0, 0, 0)))
	assert.Equal(t, uint16(0x8000), BinaryTimeBits(day(12, 0, 0)))
	assert.Equal(t, uint16(0x4000), BinaryTimeBits(day(6, 0, 0)))
	assert.Equal(t, uint16(0xffff), BinaryTimeBits(day(23, 59, 59)))
}

func TestBitAt(t *testing.T) {
	bits := uint16(1<<0 | 1<<5 | 1<<15)
	assert.True(t, BitAt(bits, 0, 0))
	assert.True(t, BitAt(bits, 1, 1))
	assert.True(t, BitAt(bits, 3, 3))
	assert.False(t, BitAt(bits, 0, 1))
	assert.False(t, BitAt(bits, 1, 0))
}

func TestClockTexts(t *testing.T) {
	local := time.Date(2024, time.March, 5, 22, 3, 9, 0, berlin(t))
	assert.Equal(t, "05.03.2024 22:03:09", HexagesimalText(local))
	assert.Equal(t, "Es ist 22:03:09 Uhr.\nBitte alle Fenster schließen.", CloseWindowsText(local))
}

func TestNewYearText(t *testing.T) {
	tz := berlin(t)
	tests := []struct {
		name    string
		local   time.Time
		want    string
		size    float32
		ticking bool
	}{
		{"first half shows year", time.Date(2025, time.January, 1, 0, 0, 5, 0, tz), "2025", numeralSize, false},
		{"june shows year", time.Date(2025, time.June, 30, 23, 0, 0, 0, tz), "2025", numeralSize, false},
		{"seconds", time.Date(2024, time.December, 31, 23, 59, 18, 0, tz), "42", numeralSize, true},
		{"last second", time.Date(2024, time.December, 31, 23, 59, 59, 500, tz), "0", numeralSize, true},
		{"minutes", time.Date(2024, time.December, 31, 23, 5, 0, 0, tz), "55:00", countSize, true},
		{"one minute", time.Date(2024, time.December, 31, 23, 59, 0, 0, tz), "1:00", countSize, true},
		{"hours", time.Date(2024, time.December, 31, 20, 0, 1, 0, tz), "3:59:59", countSize, true},
		{"july crosses dst", time.Date(2024, time.July, 1, 0, 0, 0, 0, tz), "4417:00:00", countSize, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, size, ticking := NewYearText(tt.local)
			assert.Equal(t, tt.want, content)
			assert.Equal(t, tt.size, size)
			assert.Equal(t, tt.ticking, ticking)
		})
	}
}

func TestErrorText(t *testing.T) {
	text := ErrorText(&errors.ServerError{Debug: "db locked", Display: "maintenance"})
	assert.Equal(t, "maintenance\n\n*errors.ServerError: db locked", text)
	assert.Equal(t, "unknown error", ErrorText(nil))
}

func TestRender(t *testing.T) {
	tz := berlin(t)
	now := time.Date(2024, time.December, 31, 20, 0, 0, 250*int(time.Millisecond), tz)
	theme := ThemeFor(true)

	t.Run("logo", func(t *testing.T) {
		logo := image.NewRGBA(image.Rect(0, 0, 4, 4))
		snapshot := display.Snapshot{State: display.Logo("getting current event"), Logo: logo}
		frame := Render(snapshot, now, theme, 1920, 1080)
		assert.Equal(t, theme.Background, frame.Background)
		assert.Same(t, logo, frame.Logo)
		require.Len(t, frame.Texts, 2)
		assert.Equal(t, Text{Content: "1920x1080", Size: infoSize, Placement: PlaceTop}, frame.Texts[0])
		assert.Equal(t, "getting current event", frame.Texts[1].Content)
		assert.Zero(t, frame.Redraw)
	})

	t.Run("logo failure", func(t *testing.T) {
		snapshot := display.Snapshot{State: display.Logo("starting up"), AssetErr: stderrors.New("offline")}
		frame := Render(snapshot, now, theme, 800, 600)
		assert.Equal(t, "starting up\noffline", frame.Texts[1].Content)
	})

	t.Run("hexagesimal", func(t *testing.T) {
		frame := Render(display.Snapshot{State: display.HexagesimalTime(tz)}, now, theme, 800, 600)
		require.Len(t, frame.Texts, 1)
		assert.Equal(t, "31.12.2024 20:00:00", frame.Texts[0].Content)
		assert.Equal(t, 750*time.Millisecond, frame.Redraw)
	})

	t.Run("binary ignores theme", func(t *testing.T) {
		frame := Render(display.Snapshot{State: display.BinaryTime(tz)}, now, theme, 800, 600)
		require.NotNil(t, frame.Bits)
		assert.Equal(t, BinaryTimeBits(now), *frame.Bits)
		assert.Equal(t, black, frame.Background)
		assert.Empty(t, frame.Texts)
	})

	t.Run("error", func(t *testing.T) {
		frame := Render(display.Snapshot{State: display.Error(stderrors.New("boom"))}, now, theme, 800, 600)
		assert.Equal(t, red, frame.Background)
		assert.Equal(t, white, frame.Foreground)
		assert.Contains(t, frame.Texts[0].Content, "boom")
		assert.Zero(t, frame.Redraw)
	})

	t.Run("new year uses event timezone", func(t *testing.T) {
		newYork, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		frame := Render(display.Snapshot{State: display.NewYear(newYork)}, now, theme, 800, 600)
		assert.Equal(t, "10:00:00", frame.Texts[0].Content)
	})
}
