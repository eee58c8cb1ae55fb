package dialface

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pomodial/internal/config"
	"pomodial/internal/core/model"
	"pomodial/internal/ui/theme"
	"pomodial/resources"
)

var soundLabels = map[string]string{
	"cuckoo":   "Cuckoo",
	"lion":     "Lion",
	"mountain": "Mountain",
	"tombi":    "Kite",
}

var volumeOptions = []float64{0.3, 0.5, 0.7, 0.9}

// SetOnPreferences sets the handler for the Preferences menu entry.
func (d *Dial) SetOnPreferences(handler func()) {
	d.onPreferences = handler
}

func (d *Dial) buildMenu() *fyne.Menu {
	settings := d.store.Settings()
	snapshot := d.engine.Snapshot()

	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Reset", d.engine.Reset),
		fyne.NewMenuItemSeparator(),
		d.modeMenu(snapshot.Mode),
		d.presetMenu(settings),
		fyne.NewMenuItemSeparator(),
		d.themeMenu(settings.ThemeName),
		d.soundMenu("Focus Sound", d.store.FocusFinishSound(), d.setFocusSound),
		d.soundMenu("Break Sound", d.store.BreakFinishSound(), d.setBreakSound),
		d.volumeMenu(settings.SoundVolume),
		d.transparencyMenu(settings.BgOpacity),
		fyne.NewMenuItemSeparator(),
		d.checkItem("Always on Top", settings.AlwaysOnTop, func(checked bool) {
			d.store.Update(func(s *config.Settings) { s.AlwaysOnTop = checked })
		}),
		d.checkItem("Sound On/Off", settings.SoundOn, func(checked bool) {
			d.store.Update(func(s *config.Settings) { s.SoundOn = checked })
		}),
		fyne.NewMenuItemSeparator(),
	}

	if d.onPreferences != nil {
		items = append(items, fyne.NewMenuItem("Preferences...", d.onPreferences))
	}
	items = append(items, fyne.NewMenuItem("Quit", func() {
		if d.onQuit != nil {
			d.onQuit()
		}
	}))

	return fyne.NewMenu("", items...)
}

func (d *Dial) modeMenu(current model.Mode) *fyne.MenuItem {
	var items []*fyne.MenuItem
	for _, mode := range model.Modes() {
		mode := mode
		item := fyne.NewMenuItem(mode.Label(), func() {
			d.engine.SetMode(mode)
		})
		item.Checked = mode == current
		items = append(items, item)
	}

	menu := fyne.NewMenuItem("Mode", nil)
	menu.ChildMenu = fyne.NewMenu("", items...)
	return menu
}

func (d *Dial) presetMenu(settings config.Settings) *fyne.MenuItem {
	menu := fyne.NewMenuItem("Presets", nil)
	menu.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem(fmt.Sprintf("Focus: %d min", settings.PresetFocus), func() {
			d.editPreset("Focus minutes", model.ModeFocus)
		}),
		fyne.NewMenuItem(fmt.Sprintf("Short Break: %d min", settings.PresetShort), func() {
			d.editPreset("Short break minutes", model.ModeShortBreak)
		}),
		fyne.NewMenuItem(fmt.Sprintf("Long Break: %d min", settings.PresetLong), func() {
			d.editPreset("Long break minutes", model.ModeLongBreak)
		}),
	)
	return menu
}

// editPreset prompts for a new preset value and reloads the duration when the
// edited mode is the active one.
func (d *Dial) editPreset(label string, mode model.Mode) {
	if d.window == nil {
		return
	}

	entry := widget.NewEntry()
	entry.SetText(strconv.Itoa(d.store.PresetMinutes(mode)))
	formItems := []*widget.FormItem{widget.NewFormItem(label, entry)}

	dialog.ShowForm("Change preset", "Save", "Cancel", formItems, func(confirmed bool) {
		if !confirmed {
			return
		}
		minutes, err := strconv.Atoi(entry.Text)
		if err != nil || minutes < 1 || minutes > 120 {
			return
		}

		d.store.Update(func(s *config.Settings) {
			switch mode {
			case model.ModeShortBreak:
				s.PresetShort = minutes
			case model.ModeLongBreak:
				s.PresetLong = minutes
			default:
				s.PresetFocus = minutes
			}
		})
		if d.engine.Snapshot().Mode == mode {
			d.engine.SetMode(mode)
		}
	}, d.window)
}

func (d *Dial) themeMenu(current string) *fyne.MenuItem {
	d.mu.Lock()
	themes := d.themes
	d.mu.Unlock()

	var items []*fyne.MenuItem
	for _, name := range theme.Names(themes) {
		name := name
		item := fyne.NewMenuItem(themes[name].Label, func() {
			d.store.Update(func(s *config.Settings) { s.ThemeName = name })
			d.Refresh()
		})
		item.Checked = name == current
		items = append(items, item)
	}

	menu := fyne.NewMenuItem("Theme", nil)
	menu.ChildMenu = fyne.NewMenu("", items...)
	return menu
}

func (d *Dial) soundMenu(label, current string, apply func(string)) *fyne.MenuItem {
	var items []*fyne.MenuItem
	for _, key := range resources.SoundKeys() {
		key := key
		item := fyne.NewMenuItem(soundLabels[key], func() {
			apply(key)
			if d.sounds != nil {
				d.sounds.Preview(key)
			}
		})
		item.Checked = key == current
		items = append(items, item)
	}

	menu := fyne.NewMenuItem(label, nil)
	menu.ChildMenu = fyne.NewMenu("", items...)
	return menu
}

func (d *Dial) setFocusSound(key string) {
	d.store.Update(func(s *config.Settings) { s.FocusFinishSound = key })
}

func (d *Dial) setBreakSound(key string) {
	d.store.Update(func(s *config.Settings) { s.BreakFinishSound = key })
}

func (d *Dial) volumeMenu(current float64) *fyne.MenuItem {
	closest := closestFloat(volumeOptions, current)

	var items []*fyne.MenuItem
	for _, value := range volumeOptions {
		value := value
		item := fyne.NewMenuItem(fmt.Sprintf("%d%%", int(value*100)), func() {
			d.store.Update(func(s *config.Settings) { s.SoundVolume = value })
		})
		item.Checked = value == closest
		items = append(items, item)
	}

	menu := fyne.NewMenuItem("Volume", nil)
	menu.ChildMenu = fyne.NewMenu("", items...)
	return menu
}

func (d *Dial) transparencyMenu(current int) *fyne.MenuItem {
	var alphas []float64
	for percent := 10; percent <= 100; percent += 10 {
		alphas = append(alphas, float64(255*percent/100))
	}
	closest := closestFloat(alphas, float64(current))

	var items []*fyne.MenuItem
	for percent := 10; percent <= 100; percent += 10 {
		alpha := 255 * percent / 100
		label := fmt.Sprintf("%d%%", percent)
		if percent == 100 {
			label = "100% (Solid)"
		}
		item := fyne.NewMenuItem(label, func() {
			d.store.Update(func(s *config.Settings) { s.BgOpacity = alpha })
			d.Refresh()
		})
		item.Checked = float64(alpha) == closest
		items = append(items, item)
	}

	menu := fyne.NewMenuItem("Transparency", nil)
	menu.ChildMenu = fyne.NewMenu("", items...)
	return menu
}

func (d *Dial) checkItem(label string, checked bool, apply func(bool)) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, func() {
		apply(!checked)
	})
	item.Checked = checked
	return item
}

func closestFloat(options []float64, target float64) float64 {
	closest := options[0]
	for _, option := range options[1:] {
		if abs(option-target) < abs(closest-target) {
			closest = option
		}
	}
	return closest
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
