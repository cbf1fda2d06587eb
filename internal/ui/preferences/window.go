package preferences

import (
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/dasgefolge/sil/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   model.Settings
	onSave     func(model.Settings)
	wsURL      *widget.Entry
	logoURL    *widget.Entry
	tick       *widget.Entry
	light      *widget.Check
	windowed   *widget.Check
	selfUpdate *widget.Check
	strategy   *widget.Select
	source     *widget.Entry
	target     *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Beamer Settings")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		wsURL:      widget.NewEntry(),
		logoURL:    widget.NewEntry(),
		tick:       widget.NewEntry(),
		light:      widget.NewCheck("Light theme", nil),
		windowed:   widget.NewCheck("Windowed (restart required)", nil),
		selfUpdate: widget.NewCheck("Install updates automatically", nil),
		strategy: widget.NewSelect([]string{
			string(model.UpdateNone),
			string(model.UpdateSCP),
			string(model.UpdateNixOS),
		}, nil),
		source: widget.NewEntry(),
		target: widget.NewEntry(),
	}
	prefs.source.SetPlaceHolder("host:/path/to/sil")
	prefs.target.SetPlaceHolder("running executable")
	prefs.UpdateSettings(settings)

	form := widget.NewForm(
		widget.NewFormItem("Event server", prefs.wsURL),
		widget.NewFormItem("Logo URL", prefs.logoURL),
		widget.NewFormItem("Seconds per mode", prefs.tick),
		widget.NewFormItem("Update strategy", prefs.strategy),
		widget.NewFormItem("Update source", prefs.source),
		widget.NewFormItem("Update target", prefs.target),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewVBox(
		widget.NewLabelWithStyle("Connection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		prefs.light,
		prefs.windowed,
		prefs.selfUpdate,
		widget.NewLabel("Connection and update changes apply on the next start."),
	)
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, content))
	window.Resize(fyne.NewSize(520, 420))

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.wsURL.SetText(settings.WebSocketURL)
	prefs.logoURL.SetText(settings.LogoURL)
	prefs.tick.SetText(strconv.Itoa(int(settings.TickInterval / time.Second)))
	prefs.light.SetChecked(settings.Light)
	prefs.windowed.SetChecked(settings.Windowed)
	prefs.selfUpdate.SetChecked(settings.SelfUpdate)
	prefs.strategy.SetSelected(string(settings.UpdateStrategy))
	prefs.source.SetText(settings.UpdateSource)
	prefs.target.SetText(settings.UpdateTarget)
}

func (prefs *Window) handleSave() {
	prefs.settings = Apply(prefs.settings, Form{
		WebSocketURL:   prefs.wsURL.Text,
		LogoURL:        prefs.logoURL.Text,
		TickSeconds:    prefs.tick.Text,
		Light:          prefs.light.Checked,
		Windowed:       prefs.windowed.Checked,
		SelfUpdate:     prefs.selfUpdate.Checked,
		UpdateStrategy: prefs.strategy.Selected,
		UpdateSource:   prefs.source.Text,
		UpdateTarget:   prefs.target.Text,
	})
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// Form holds the raw widget values.
type Form struct {
	WebSocketURL   string
	LogoURL        string
	TickSeconds    string
	Light          bool
	Windowed       bool
	SelfUpdate     bool
	UpdateStrategy string
	UpdateSource   string
	UpdateTarget   string
}

// Apply copies valid form values onto settings. Invalid or empty fields
// keep their previous value.
func Apply(settings model.Settings, form Form) model.Settings {
	if url := strings.TrimSpace(form.WebSocketURL); url != "" {
		settings.WebSocketURL = url
	}
	if url := strings.TrimSpace(form.LogoURL); url != "" {
		settings.LogoURL = url
	}
	if seconds, ok := parsePositiveInt(form.TickSeconds); ok {
		settings.TickInterval = time.Duration(seconds) * time.Second
	}
	if strategy := model.UpdateStrategy(form.UpdateStrategy); strategy.Valid() {
		settings.UpdateStrategy = strategy
	}
	settings.Light = form.Light
	settings.Windowed = form.Windowed
	settings.SelfUpdate = form.SelfUpdate
	settings.UpdateSource = strings.TrimSpace(form.UpdateSource)
	settings.UpdateTarget = strings.TrimSpace(form.UpdateTarget)
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
