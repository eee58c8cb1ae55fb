// Package tray manages the system tray menu.
package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodial/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartPause func()
	OnReset      func()
	OnSetMode    func(model.Mode)
	OnQuit       func()
}

// Manager keeps the tray menu in sync with the engine.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	modeItems  map[model.Mode]*fyne.MenuItem
	callbacks  Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		modeItems: make(map[model.Mode]*fyne.MenuItem),
	}

	manager.statusItem = fyne.NewMenuItem("00:00", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnStartPause != nil {
			manager.callbacks.OnStartPause()
		}
	})

	for _, mode := range model.Modes() {
		mode := mode
		manager.modeItems[mode] = fyne.NewMenuItem(mode.Label(), func() {
			if manager.callbacks.OnSetMode != nil {
				manager.callbacks.OnSetMode(mode)
			}
		})
	}

	app.SetSystemTrayMenu(manager.buildMenu())
	return manager
}

// Update reflects the current engine snapshot in the tray.
func (manager *Manager) Update(snapshot model.Snapshot) {
	manager.statusItem.Label = fmt.Sprintf("%s  %02d:%02d",
		snapshot.Mode.Label(),
		snapshot.RemainingSeconds/60,
		snapshot.RemainingSeconds%60,
	)

	if snapshot.State == model.StateRunning {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}

	for mode, item := range manager.modeItems {
		item.Checked = mode == snapshot.Mode
	}

	manager.app.SetSystemTrayMenu(manager.buildMenu())
}

func (manager *Manager) buildMenu() *fyne.Menu {
	modeMenu := fyne.NewMenuItem("Mode", nil)
	modeMenu.ChildMenu = fyne.NewMenu("")
	for _, mode := range model.Modes() {
		modeMenu.ChildMenu.Items = append(modeMenu.ChildMenu.Items, manager.modeItems[mode])
	}

	return fyne.NewMenu("Pomodial",
		manager.statusItem,
		manager.toggleItem,
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		}),
		modeMenu,
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}
