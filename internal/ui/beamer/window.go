// Package beamer draws display states into a fullscreen fyne window.
package beamer

import (
	"context"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"github.com/rs/zerolog"

	"github.com/dasgefolge/sil/internal/core/display"
)

// Config defines the window behavior.
type Config struct {
	Title    string
	Light    bool
	Windowed bool
}

// Callbacks are invoked from the event loop after a snapshot changed.
type Callbacks struct {
	OnState       func(display.State)
	OnUpdateReady func(version string)
}

// Window renders snapshots.
type Window struct {
	window     fyne.Window
	config     Config
	themeMu    sync.Mutex
	theme      Theme
	callbacks  Callbacks
	logger     *zerolog.Logger
	now        func() time.Time
	snapshot   display.Snapshot
	background *canvas.Rectangle
	logo       *canvas.Image
	cells      []*canvas.Rectangle
	grid       *fyne.Container
	top        *fyne.Container
	center     *fyne.Container
	bottom     *fyne.Container
}

const (
	windowedWidth  = float32(1280)
	windowedHeight = float32(720)
	// Text sizes are given for a 1080 pixel high screen.
	referenceHeight = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the beamer window.
func New(app fyne.App, config Config, callbacks Callbacks, logger *zerolog.Logger) *Window {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	window := app.NewWindow(config.Title)
	if driver, ok := app.Driver().(splashWindowDriver); ok && !config.Windowed {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)
	window.SetMaster()

	theme := ThemeFor(config.Light)
	background := canvas.NewRectangle(theme.Background)

	logo := canvas.NewImageFromImage(nil)
	logo.FillMode = canvas.ImageFillOriginal
	logo.ScaleMode = canvas.ImageScaleSmooth

	cells := make([]*canvas.Rectangle, 16)
	cellObjects := make([]fyne.CanvasObject, len(cells))
	for i := range cells {
		cells[i] = canvas.NewRectangle(black)
		cellObjects[i] = cells[i]
	}
	grid := container.New(layout.NewGridLayoutWithColumns(4), cellObjects...)
	grid.Hide()

	top := container.NewVBox()
	center := container.NewVBox()
	bottom := container.NewVBox()
	text := container.NewBorder(
		container.NewCenter(top),
		container.NewCenter(bottom),
		nil, nil,
		container.NewCenter(center),
	)

	window.SetContent(container.NewStack(background, container.NewCenter(logo), grid, text, newPointerTrap(!config.Windowed)))

	beamer := &Window{
		window:     window,
		config:     config,
		theme:      theme,
		callbacks:  callbacks,
		logger:     logger,
		now:        time.Now,
		snapshot:   display.InitialSnapshot(),
		background: background,
		logo:       logo,
		cells:      cells,
		grid:       grid,
		top:        top,
		center:     center,
		bottom:     bottom,
	}
	beamer.applyWindowMode()
	return beamer
}

// Show displays the window.
func (beamer *Window) Show() {
	beamer.window.Show()
	beamer.window.RequestFocus()
}

// SetLight switches between the light and the dark theme.
func (beamer *Window) SetLight(light bool) {
	beamer.themeMu.Lock()
	defer beamer.themeMu.Unlock()
	beamer.theme = ThemeFor(light)
}

func (beamer *Window) currentTheme() Theme {
	beamer.themeMu.Lock()
	defer beamer.themeMu.Unlock()
	return beamer.theme
}

// Run consumes display events until ctx is done or the channel is closed,
// redrawing whenever the snapshot changes or the frame asks for it.
func (beamer *Window) Run(ctx context.Context, events <-chan display.Event) {
	redraw := time.NewTimer(0)
	defer redraw.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			beamer.apply(event)
		case <-redraw.C:
		}

		if next := beamer.draw(); next > 0 {
			redraw.Reset(next)
		}
	}
}

func (beamer *Window) apply(event display.Event) {
	previous := beamer.snapshot
	beamer.snapshot = previous.Apply(event)

	switch event.Type {
	case display.EventState:
		if beamer.snapshot.State.String() != previous.State.String() {
			beamer.logger.Debug().Str("state", beamer.snapshot.State.String()).Msg("display state")
			if beamer.callbacks.OnState != nil {
				beamer.callbacks.OnState(beamer.snapshot.State)
			}
		}
	case display.EventUpdateReady:
		beamer.logger.Info().Str("version", event.Version).Msg("update ready")
		if beamer.callbacks.OnUpdateReady != nil {
			beamer.callbacks.OnUpdateReady(event.Version)
		}
	}
}

// draw schedules the current snapshot for rendering and returns the frame's
// redraw delay, which does not depend on the screen size.
func (beamer *Window) draw() time.Duration {
	snapshot, theme, now := beamer.snapshot, beamer.currentTheme(), beamer.now()
	fyne.Do(func() {
		size := beamer.window.Canvas().Size()
		scale := beamer.window.Canvas().Scale()
		beamer.show(Render(snapshot, now, theme, int(size.Width*scale), int(size.Height*scale)), size.Height)
	})
	return Render(snapshot, now, theme, 0, 0).Redraw
}

func (beamer *Window) show(frame Frame, height float32) {
	beamer.background.FillColor = frame.Background
	beamer.background.Refresh()

	if frame.Logo != nil {
		beamer.logo.Image = frame.Logo
		beamer.logo.Show()
	} else {
		beamer.logo.Image = nil
		beamer.logo.Hide()
	}
	beamer.logo.Refresh()

	if frame.Bits != nil {
		for i, cell := range beamer.cells {
			cell.FillColor = black
			if BitAt(*frame.Bits, i%4, i/4) {
				cell.FillColor = white
			}
			cell.Refresh()
		}
		beamer.grid.Show()
	} else {
		beamer.grid.Hide()
	}

	blocks := map[Placement][]fyne.CanvasObject{}
	for _, text := range frame.Texts {
		for _, line := range strings.Split(text.Content, "\n") {
			label := canvas.NewText(line, frame.Foreground)
			label.Alignment = fyne.TextAlignCenter
			label.TextSize = scaledSize(text.Size, height)
			blocks[text.Placement] = append(blocks[text.Placement], label)
		}
	}
	beamer.top.Objects = blocks[PlaceTop]
	beamer.center.Objects = blocks[PlaceCenter]
	beamer.bottom.Objects = blocks[PlaceBottom]
	beamer.top.Refresh()
	beamer.center.Refresh()
	beamer.bottom.Refresh()
}

func (beamer *Window) applyWindowMode() {
	if !beamer.config.Windowed {
		beamer.window.SetFullScreen(true)
		return
	}
	beamer.window.SetFullScreen(false)
	beamer.window.Resize(fyne.NewSize(windowedWidth, windowedHeight))
	beamer.window.CenterOnScreen()
}

// scaledSize keeps text proportional to the screen height.
func scaledSize(size, height float32) float32 {
	if height <= 0 {
		return size
	}
	return size * height / referenceHeight
}
