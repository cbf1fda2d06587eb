package beamer

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// pointerTrap covers the whole window and hides the mouse pointer above a
// fullscreen beamer.
type pointerTrap struct {
	widget.BaseWidget
	hidden bool
}

var (
	_ desktop.Cursorable = (*pointerTrap)(nil)
	_ desktop.Hoverable  = (*pointerTrap)(nil)
)

func newPointerTrap(hidden bool) *pointerTrap {
	trap := &pointerTrap{hidden: hidden}
	trap.ExtendBaseWidget(trap)
	return trap
}

func (trap *pointerTrap) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (trap *pointerTrap) Cursor() desktop.Cursor {
	if trap.hidden {
		return desktop.HiddenCursor
	}
	return desktop.DefaultCursor
}

func (trap *pointerTrap) MouseIn(*desktop.MouseEvent)    {}
func (trap *pointerTrap) MouseMoved(*desktop.MouseEvent) {}
func (trap *pointerTrap) MouseOut()                      {}
