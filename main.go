// Package main provides the entry point for the Zoom View demo.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"zoomview/internal/app"
	"zoomview/internal/config"
	"zoomview/internal/version"
	"zoomview/ui/mainwindow"
)

const appTitle = "Zoom View"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.String())

	configPath := flag.String("config", "", "settings file (.toml, .yaml or .json)")
	preset := flag.String("preset", "box", "option preset: box or image")
	watch := flag.Bool("watch", true, "reload the settings file when it changes")
	flag.Parse()

	if *configPath == "" {
		if p := config.DefaultPath(); fileExists(p) {
			*configPath = p
		}
	}

	appState := app.NewState()
	if err := appState.LoadSettings(*preset, *configPath); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	fyneApp := fyneapp.NewWithID("io.zoomview.demo")
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	win := mainwindow.New(fyneApp, appState)
	win.SetTitle(appTitle)

	if *watch && *configPath != "" {
		setupConfigWatch(appState, *configPath)
	}

	win.ShowAndRun()
}

// setupConfigWatch reloads settings whenever the config file is saved.
func setupConfigWatch(state *app.State, path string) {
	watcher, err := app.NewConfigWatcher(path, 200*time.Millisecond)
	if err != nil {
		log.Printf("Config watch: %v", err)
		return
	}

	log.Printf("Config watch: watching %s", watcher.Path())
	watcher.OnChange(func() {
		log.Println("Config watch: settings file changed")
		if err := state.Reload(); err != nil {
			log.Printf("Config watch: reload failed: %v", err)
		}
	})
	watcher.Start()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
