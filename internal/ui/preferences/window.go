// Package preferences provides the settings window.
package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodial/internal/config"
	"pomodial/internal/ui/theme"
	"pomodial/resources"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	store    *config.Store
	onSave   func()
	focusMin *widget.Entry
	shortMin *widget.Entry
	longMin  *widget.Entry
	sets     *widget.Entry
	soundOn  *widget.Check
	volume   *widget.Slider
	themes   *widget.Select
	focusSnd *widget.Select
	breakSnd *widget.Select

	themeNames []string
	soundKeys  []string
}

// New creates a preferences window bound to the settings store. onSave runs
// after the store has been updated, so the caller can reload the engine.
func New(app fyne.App, store *config.Store, themes map[string]theme.Theme, onSave func()) *Window {
	window := app.NewWindow("Pomodial Settings")

	settings := store.Settings()

	focusMin := widget.NewEntry()
	shortMin := widget.NewEntry()
	longMin := widget.NewEntry()
	sets := widget.NewEntry()

	focusMin.SetText(fmt.Sprintf("%d", settings.PresetFocus))
	shortMin.SetText(fmt.Sprintf("%d", settings.PresetShort))
	longMin.SetText(fmt.Sprintf("%d", settings.PresetLong))
	sets.SetText(fmt.Sprintf("%d", settings.SetsBeforeLong))

	soundOn := widget.NewCheck("Play finish sounds", nil)
	soundOn.SetChecked(settings.SoundOn)

	volume := widget.NewSlider(0, 1)
	volume.Value = settings.SoundVolume
	volume.Step = 0.05

	themeNames := theme.Names(themes)
	themeLabels := make([]string, len(themeNames))
	selectedTheme := ""
	for i, name := range themeNames {
		themeLabels[i] = themes[name].Label
		if name == settings.ThemeName {
			selectedTheme = themeLabels[i]
		}
	}
	themeSelect := widget.NewSelect(themeLabels, nil)
	themeSelect.SetSelected(selectedTheme)

	soundKeys := resources.SoundKeys()
	focusSnd := widget.NewSelect(soundKeys, nil)
	focusSnd.SetSelected(store.FocusFinishSound())
	breakSnd := widget.NewSelect(soundKeys, nil)
	breakSnd.SetSelected(store.BreakFinishSound())

	form := container.NewVBox(
		widget.NewLabelWithStyle("Presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus"), focusMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), shortMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Sets before long break"), sets),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		soundOn,
		container.NewHBox(widget.NewLabel("Focus finish"), focusSnd),
		container.NewHBox(widget.NewLabel("Break finish"), breakSnd),
		widget.NewLabel("Volume"),
		volume,
		widget.NewLabelWithStyle("Appearance", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Theme"), themeSelect),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 440))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:     window,
		store:      store,
		onSave:     onSave,
		focusMin:   focusMin,
		shortMin:   shortMin,
		longMin:    longMin,
		sets:       sets,
		soundOn:    soundOn,
		volume:     volume,
		themes:     themeSelect,
		focusSnd:   focusSnd,
		breakSnd:   breakSnd,
		themeNames: themeNames,
		soundKeys:  soundKeys,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = window.Hide

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.Reload()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Reload refreshes field values from the store.
func (prefs *Window) Reload() {
	settings := prefs.store.Settings()
	prefs.focusMin.SetText(fmt.Sprintf("%d", settings.PresetFocus))
	prefs.shortMin.SetText(fmt.Sprintf("%d", settings.PresetShort))
	prefs.longMin.SetText(fmt.Sprintf("%d", settings.PresetLong))
	prefs.sets.SetText(fmt.Sprintf("%d", settings.SetsBeforeLong))
	prefs.soundOn.SetChecked(settings.SoundOn)
	prefs.volume.Value = settings.SoundVolume
	prefs.volume.Refresh()
	prefs.focusSnd.SetSelected(prefs.store.FocusFinishSound())
	prefs.breakSnd.SetSelected(prefs.store.BreakFinishSound())
}

func (prefs *Window) handleSave() {
	prefs.store.Update(func(settings *config.Settings) {
		if minutes, ok := parsePositiveInt(prefs.focusMin.Text); ok {
			settings.PresetFocus = minutes
		}
		if minutes, ok := parsePositiveInt(prefs.shortMin.Text); ok {
			settings.PresetShort = minutes
		}
		if minutes, ok := parsePositiveInt(prefs.longMin.Text); ok {
			settings.PresetLong = minutes
		}
		if count, ok := parsePositiveInt(prefs.sets.Text); ok {
			settings.SetsBeforeLong = count
		}
		settings.SoundOn = prefs.soundOn.Checked
		settings.SoundVolume = prefs.volume.Value
		if key := prefs.focusSnd.Selected; key != "" {
			settings.FocusFinishSound = key
		}
		if key := prefs.breakSnd.Selected; key != "" {
			settings.BreakFinishSound = key
		}
		for i, label := range prefs.themes.Options {
			if label == prefs.themes.Selected {
				settings.ThemeName = prefs.themeNames[i]
			}
		}
	})

	if prefs.onSave != nil {
		prefs.onSave()
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
