package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/dasgefolge/sil/internal/core/display"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	title      string
	statusItem *fyne.MenuItem
	callbacks  Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
	}
	manager.statusItem = fyne.NewMenuItem(StatusLabel(display.InitialSnapshot().State), nil)
	manager.statusItem.Disabled = true
	manager.refreshMenu()
	return manager
}

// SetState shows state as the tray status.
func (manager *Manager) SetState(state display.State) {
	fyne.Do(func() {
		manager.statusItem.Label = StatusLabel(state)
		manager.refreshMenu()
	})
}

// StatusLabel is the tray text for state.
func StatusLabel(state display.State) string {
	return "Status: " + state.String()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
