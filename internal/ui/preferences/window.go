package preferences

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodo/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.Settings
	onSave   func(model.Settings) error

	work       *widget.Entry
	shortBreak *widget.Entry
	longBreak  *widget.Entry
	sessions   *widget.Entry
	autoStart  *widget.Check

	notifications *widget.Check
	sound         *widget.Check
	launch        *widget.Check
	theme         *widget.Select

	ducking      *widget.Check
	pauseOnBreak *widget.Check
	resumeOnWork *widget.Check
	fade         *widget.Entry
	volume       *widget.Slider
	volumeLabel  *widget.Label

	status *widget.Label
}

// New creates a preferences window. onSave receives the clamped settings;
// an error keeps the window open and is shown in the status line.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("pomodo Preferences")

	themes := make([]string, 0, len(model.Themes()))
	for _, theme := range model.Themes() {
		themes = append(themes, string(theme))
	}

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		work:          widget.NewEntry(),
		shortBreak:    widget.NewEntry(),
		longBreak:     widget.NewEntry(),
		sessions:      widget.NewEntry(),
		autoStart:     widget.NewCheck("Start the next phase automatically", nil),
		notifications: widget.NewCheck("Desktop notifications", nil),
		sound:         widget.NewCheck("Chime when a phase ends", nil),
		launch:        widget.NewCheck("Launch at login", nil),
		theme:         widget.NewSelect(themes, nil),
		ducking:       widget.NewCheck("Fade music around breaks", nil),
		pauseOnBreak:  widget.NewCheck("Pause music when a break starts", nil),
		resumeOnWork:  widget.NewCheck("Resume music when work starts", nil),
		fade:          widget.NewEntry(),
		volume:        widget.NewSlider(0, 100),
		volumeLabel:   widget.NewLabel(""),
		status:        widget.NewLabel(""),
	}
	prefs.volume.Step = 1
	prefs.volume.OnChanged = func(value float64) {
		prefs.volumeLabel.SetText(fmt.Sprintf("%.0f%%", value))
	}
	prefs.ducking.OnChanged = func(enabled bool) {
		prefs.setDuckingEnabled(enabled)
	}

	timer := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work"), prefs.work, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), prefs.shortBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), prefs.longBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break after"), prefs.sessions, widget.NewLabel("sessions")),
		prefs.autoStart,
	)
	general := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		prefs.sound,
		prefs.launch,
		container.NewHBox(widget.NewLabel("Theme"), prefs.theme),
	)
	music := container.NewVBox(
		widget.NewLabelWithStyle("Music", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.ducking,
		prefs.pauseOnBreak,
		prefs.resumeOnWork,
		container.NewHBox(widget.NewLabel("Fade"), prefs.fade, widget.NewLabel("ms")),
		widget.NewLabel("Volume when the player does not report one"),
		container.NewBorder(nil, nil, nil, prefs.volumeLabel, prefs.volume),
	)
	form := container.NewVBox(timer, widget.NewSeparator(), general, widget.NewSeparator(), music)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), prefs.status, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(440, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
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
	prefs.setForm(FormFromSettings(settings))
	prefs.status.SetText("")
}

func (prefs *Window) setForm(form Form) {
	prefs.work.SetText(form.WorkMinutes)
	prefs.shortBreak.SetText(form.ShortBreakMinutes)
	prefs.longBreak.SetText(form.LongBreakMinutes)
	prefs.sessions.SetText(form.Sessions)
	prefs.autoStart.SetChecked(form.AutoStart)
	prefs.notifications.SetChecked(form.Notifications)
	prefs.sound.SetChecked(form.Sound)
	prefs.launch.SetChecked(form.LaunchAtLogin)
	prefs.theme.SetSelected(form.Theme)
	prefs.ducking.SetChecked(form.Ducking)
	prefs.pauseOnBreak.SetChecked(form.PauseOnBreak)
	prefs.resumeOnWork.SetChecked(form.ResumeOnWork)
	prefs.fade.SetText(form.FadeMillis)
	prefs.volume.SetValue(form.ResumeVolume)
	prefs.setDuckingEnabled(form.Ducking)
}

func (prefs *Window) form() Form {
	return Form{
		WorkMinutes:       prefs.work.Text,
		ShortBreakMinutes: prefs.shortBreak.Text,
		LongBreakMinutes:  prefs.longBreak.Text,
		Sessions:          prefs.sessions.Text,
		AutoStart:         prefs.autoStart.Checked,
		Notifications:     prefs.notifications.Checked,
		Sound:             prefs.sound.Checked,
		LaunchAtLogin:     prefs.launch.Checked,
		Theme:             prefs.theme.Selected,
		Ducking:           prefs.ducking.Checked,
		PauseOnBreak:      prefs.pauseOnBreak.Checked,
		ResumeOnWork:      prefs.resumeOnWork.Checked,
		FadeMillis:        prefs.fade.Text,
		ResumeVolume:      prefs.volume.Value,
	}
}

func (prefs *Window) setDuckingEnabled(enabled bool) {
	for _, check := range []*widget.Check{prefs.pauseOnBreak, prefs.resumeOnWork} {
		if enabled {
			check.Enable()
		} else {
			check.Disable()
		}
	}
	if enabled {
		prefs.fade.Enable()
	} else {
		prefs.fade.Disable()
	}
}

func (prefs *Window) handleSave() {
	settings, invalid := prefs.form().Apply(prefs.settings)

	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			prefs.status.SetText(fmt.Sprintf("Save failed: %v", err))
			return
		}
	}
	prefs.settings = settings
	prefs.setForm(FormFromSettings(settings))

	if message := InvalidMessage(invalid); message != "" {
		prefs.status.SetText(message)
		return
	}
	prefs.status.SetText("")
	prefs.window.Hide()
}
