package mode

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/core/model"
)

func berlinEvent(t *testing.T) *model.Event {
	t.Helper()
	event, err := model.NewEvent("Europe/Berlin")
	require.NoError(t, err)
	return event
}

func at(event *model.Event, month time.Month, day, hour, minute int) time.Time {
	return time.Date(2024, month, day, hour, minute, 0, 0, event.Timezone)
}

func TestCloseWindowsBoundaries(t *testing.T) {
	event := berlinEvent(t)

	tests := []struct {
		name   string
		now    time.Time
		wantOK bool
	}{
		{"before", at(event, time.December, 31, 21, 58), false},
		{"start", at(event, time.December, 31, 22, 0), true},
		{"inside", at(event, time.December, 31, 22, 3), true},
		{"last minute", time.Date(2024, time.December, 31, 22, 4, 59, 0, event.Timezone), true},
		{"after", at(event, time.December, 31, 22, 6), false},
		{"any day", at(event, time.June, 14, 22, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, state, ok := CloseWindows.Evaluate(event, tt.now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, Programm, priority)
				assert.Equal(t, display.CloseWindows(event.Timezone), state)
			}
		})
	}
}

func TestCloseWindowsUsesEventTimezone(t *testing.T) {
	event := berlinEvent(t)
	// 21:02 UTC is 22:02 in Berlin during winter time.
	now := time.Date(2024, time.December, 31, 21, 2, 0, 0, time.UTC)

	_, _, ok := CloseWindows.Evaluate(event, now)
	assert.True(t, ok)
}

func TestNewYear(t *testing.T) {
	event := berlinEvent(t)

	tests := []struct {
		name         string
		now          time.Time
		wantOK       bool
		wantPriority Priority
	}{
		{"final hour", at(event, time.December, 31, 23, 30), true, Programm},
		{"evening", at(event, time.December, 31, 20, 0), true, Normal},
		{"exactly one hour left", at(event, time.December, 31, 23, 0), true, Normal},
		{"morning of eve", at(event, time.December, 31, 0, 5), true, Normal},
		{"just after midnight", time.Date(2025, time.January, 1, 0, 30, 0, 0, event.Timezone), true, Programm},
		{"new year 1am", time.Date(2025, time.January, 1, 1, 0, 0, 0, event.Timezone), false, Fallback},
		{"december 30", at(event, time.December, 30, 23, 30), false, Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, state, ok := NewYear.Evaluate(event, tt.now)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantPriority, priority)
				assert.Equal(t, display.KindNewYear, state.Kind)
			}
		})
	}
}

func TestBinaryTimeOnlyOnNewYearsEve(t *testing.T) {
	event := berlinEvent(t)

	priority, state, ok := BinaryTime.Evaluate(event, at(event, time.December, 31, 12, 0))
	require.True(t, ok)
	assert.Equal(t, Normal, priority)
	assert.Equal(t, display.BinaryTime(event.Timezone), state)

	_, _, ok = BinaryTime.Evaluate(event, time.Date(2025, time.January, 1, 0, 10, 0, 0, event.Timezone))
	assert.False(t, ok)
}

func TestLogoNeverEligible(t *testing.T) {
	event := berlinEvent(t)
	_, _, ok := Logo.Evaluate(event, at(event, time.December, 31, 23, 59))
	assert.False(t, ok)
}

func TestOutsideNewYearWindow(t *testing.T) {
	event := berlinEvent(t)
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, event.Timezone)
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, event.Timezone)
	span := end.Sub(start)

	for i := 0; i < 2000; i++ {
		now := start.Add(time.Duration(rng.Int63n(int64(span))))

		_, _, ok := NewYear.Evaluate(event, now)
		assert.False(t, ok, "new year eligible at %s", now)
		_, _, ok = BinaryTime.Evaluate(event, now)
		assert.False(t, ok, "binary time eligible at %s", now)
		priority, _, ok := HexagesimalTime.Evaluate(event, now)
		assert.True(t, ok, "hexagesimal time not eligible at %s", now)
		assert.Equal(t, Normal, priority)
	}
}

func TestNoEventMeansNothingEligible(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		now := time.Unix(rng.Int63n(4_000_000_000), 0)
		assert.Empty(t, Evaluate(nil, now))
	}

	rotator := NewRotator(rand.New(rand.NewSource(1)))
	candidate, ok := rotator.Next(nil, time.Now())
	assert.False(t, ok)
	assert.Equal(t, display.Logo(NoModesMessage), candidate.State)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	event := berlinEvent(t)
	now := at(event, time.December, 31, 22, 2)

	assert.Equal(t, Evaluate(event, now), Evaluate(event, now))
}

func TestSelectMax(t *testing.T) {
	event := berlinEvent(t)

	tests := []struct {
		name string
		now  time.Time
		want []Mode
	}{
		{"ordinary day", at(event, time.June, 1, 12, 0), []Mode{HexagesimalTime}},
		{"new years eve", at(event, time.December, 31, 20, 0), []Mode{BinaryTime, HexagesimalTime, NewYear}},
		{"closing time on eve", at(event, time.December, 31, 22, 2), []Mode{CloseWindows}},
		{"final hour", at(event, time.December, 31, 23, 30), []Mode{NewYear}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Mode
			for _, candidate := range SelectMax(Evaluate(event, tt.now)) {
				got = append(got, candidate.Mode)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectMaxEmpty(t *testing.T) {
	assert.Equal(t, Fallback, MaxPriority(nil))
	assert.Empty(t, SelectMax(nil))
}

func TestRotatorCyclesThroughAllCandidates(t *testing.T) {
	event := berlinEvent(t)
	candidates := SelectMax(Evaluate(event, at(event, time.December, 31, 20, 0)))
	require.Len(t, candidates, 3)

	for seed := int64(0); seed < 200; seed++ {
		rotator := NewRotator(rand.New(rand.NewSource(seed)))
		var picks []Mode
		for i := 0; i < 30; i++ {
			picked, ok := rotator.Pick(candidates)
			require.True(t, ok)
			picks = append(picks, picked.Mode)
		}

		for cycle := 0; cycle+len(candidates) <= len(picks); cycle += len(candidates) {
			window := picks[cycle : cycle+len(candidates)]
			seen := make(map[Mode]bool)
			for _, mode := range window {
				assert.False(t, seen[mode], "seed %d: %s repeated within cycle %v", seed, mode, window)
				seen[mode] = true
			}
			assert.Len(t, seen, len(candidates), "seed %d", seed)
		}
	}
}

func TestRotatorRestrictsToUnseen(t *testing.T) {
	candidates := []Candidate{
		{Mode: HexagesimalTime, Priority: Normal},
		{Mode: BinaryTime, Priority: Normal},
	}
	rotator := NewRotator(rand.New(rand.NewSource(3)))

	first, ok := rotator.Pick(candidates)
	require.True(t, ok)
	second, ok := rotator.Pick(candidates)
	require.True(t, ok)
	assert.NotEqual(t, first.Mode, second.Mode)
	assert.True(t, rotator.Seen(HexagesimalTime))
	assert.True(t, rotator.Seen(BinaryTime))

	_, ok = rotator.Pick(candidates)
	require.True(t, ok)
	seenCount := 0
	for _, mode := range []Mode{HexagesimalTime, BinaryTime} {
		if rotator.Seen(mode) {
			seenCount++
		}
	}
	assert.Equal(t, 1, seenCount)
}

func TestRotatorEmptyLeavesSeenUntouched(t *testing.T) {
	rotator := NewRotator(rand.New(rand.NewSource(5)))
	_, ok := rotator.Pick([]Candidate{{Mode: HexagesimalTime, Priority: Normal}})
	require.True(t, ok)

	_, ok = rotator.Pick(nil)
	assert.False(t, ok)
	assert.True(t, rotator.Seen(HexagesimalTime))
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "close_windows", CloseWindows.String())
	assert.Equal(t, "unknown", Mode(42).String())
	assert.Equal(t, "programm", Programm.String())
	assert.Len(t, All(), 5)
}
