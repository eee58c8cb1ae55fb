package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodial/internal/config"
	"pomodial/internal/core/engine"
	"pomodial/internal/core/model"
	"pomodial/internal/notify"
	"pomodial/internal/platform"
	"pomodial/internal/ui/dialface"
	"pomodial/internal/ui/preferences"
	"pomodial/internal/ui/theme"
	"pomodial/internal/ui/tray"
	"pomodial/resources"
)

const (
	appName   = "Pomodial"
	configDir = "pomodial"
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("io.pomodial.app")
	fyneApp.SetIcon(resources.MustLogo("pomodial.png"))

	store, err := config.NewStore(configDir)
	if err != nil {
		log.Printf("settings: %v", err)
		store = config.NewStoreAt(filepath.Join(os.TempDir(), configDir, "settings.json"))
	}
	themes := loadThemes()

	eng := engine.New(store, engine.Config{TickInterval: time.Second})
	sounds := notify.New(fyneApp, store)

	// Splash windows are undecorated (no native frame/buttons).
	window := fyneApp.NewWindow(appName)
	if driver, ok := fyneApp.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)
	window.SetFixedSize(true)

	dialWidget := dialface.New(eng, store, sounds, themes)
	dialWidget.SetWindow(window)

	quit := func() {
		eng.Stop()
		if err := store.Save(); err != nil {
			log.Printf("save settings: %v", err)
		}
		fyneApp.Quit()
	}
	dialWidget.SetOnQuit(quit)
	window.SetCloseIntercept(quit)

	prefsWindow := preferences.New(fyneApp, store, themes, func() {
		// Reload the active mode so edited presets take effect.
		eng.SetMode(eng.Snapshot().Mode)
		dialWidget.Sync()
	})
	dialWidget.SetOnPreferences(prefsWindow.Show)

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnStartPause: eng.StartOrPause,
			OnReset:      eng.Reset,
			OnSetMode: func(mode model.Mode) {
				eng.SetMode(mode)
			},
			OnQuit: quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustLogo("pomodial.png"))
		trayManager.Update(eng.Snapshot())
	}

	refresh := func() {
		fyne.Do(func() {
			dialWidget.Sync()
			if trayManager != nil {
				trayManager.Update(eng.Snapshot())
			}
		})
	}
	eng.OnTick(func(int) { refresh() })
	eng.OnStateChange(func(model.RunState) { refresh() })
	eng.OnModeChange(func(model.Mode) { refresh() })
	eng.OnFinished(func(mode model.Mode) {
		go sounds.Finished(mode)
	})

	window.SetContent(dialWidget)
	window.Resize(fyne.NewSize(dialface.WindowSize, dialface.WindowSize))
	window.Show()
	fyneApp.Run()
}

func loadThemes() map[string]theme.Theme {
	userDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("themes: %v", err)
		return theme.BuiltIn()
	}
	themes, err := theme.Load(filepath.Join(userDir, configDir, "themes.yaml"))
	if err != nil {
		log.Printf("themes: %v", err)
	}
	return themes
}
