// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	goimage "image"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"zoomview/internal/app"
	zvimage "zoomview/internal/image"
	"zoomview/internal/version"
	"zoomview/internal/zoom"
	"zoomview/ui/canvas"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastImage = "lastImage"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	back      *app.BackButton
	view      *canvas.ZoomView
	image     goimage.Image
	statusBar *widget.Label
	modeLabel *widget.Label
	center    *fyne.Container
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("Zoom View")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		back:   app.NewBackButton(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.modeLabel = widget.NewLabel("")
	mw.center = container.NewStack()

	mw.image = zvimage.Placeholder(640, 480, 40)
	mw.restoreLastImage()
	mw.rebuildView()

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.center,                         // center
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(800, 600))
}

// createToolbar creates the toolbar with view controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	resetBtn := widget.NewButton("Reset", mw.onReset)
	backBtn := widget.NewButton("Back", mw.onBack)
	presetSelect := widget.NewSelect([]string{"box", "image"}, mw.onSelectPreset)
	preset, _ := mw.state.Source()
	presetSelect.SetSelected(preset)

	return container.NewHBox(
		widget.NewLabel("Preset:"),
		presetSelect,
		resetBtn,
		backBtn,
		mw.modeLabel,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Use Placeholder", mw.onPlaceholder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reload Settings", mw.onReloadSettings),
		fyne.NewMenuItem("Save Settings As...", mw.onSaveSettings),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset Zoom", mw.onReset),
		fyne.NewMenuItem("Back", mw.onBack),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupKeys maps Escape and the mobile back key to a hardware back press.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape, mobile.KeyBack:
			mw.onBack()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSwipeComplete, func(data interface{}) {
		if ev, ok := data.(zoom.SwipeEvent); ok {
			mw.updateStatus(fmt.Sprintf("Swiped away along %s (velocity %.0f, %.0f); restoring",
				ev.Direction, ev.VelocityX, ev.VelocityY))
		}
		// There is nothing to navigate to, so bring the content back.
		if mw.view != nil {
			mw.view.Reset()
		}
	})

	mw.state.On(app.EventBackUnhandled, func(data interface{}) {
		mw.updateStatus("Back pressed at rest")
	})

	mw.state.On(app.EventTransformChanged, func(data interface{}) {
		if ts, ok := data.(zoom.TransformState); ok {
			mw.updateMode(ts)
		}
	})

	mw.state.On(app.EventSettingsChanged, func(data interface{}) {
		mw.rebuildView()
		mw.updateStatus("Settings applied")
	})
}

// rebuildView replaces the zoom view with one built from the current
// settings.
func (mw *MainWindow) rebuildView() {
	opts, err := mw.state.Options()
	if err != nil {
		log.Printf("Invalid settings: %v", err)
		mw.updateStatus("Invalid settings: " + err.Error())
		return
	}

	view, err := canvas.NewImageView(mw.image, opts)
	if err != nil {
		log.Printf("Failed to create view: %v", err)
		mw.updateStatus("Failed to create view: " + err.Error())
		return
	}
	view.OnTransformChange(mw.state.SetTransform)

	if mw.view != nil {
		mw.view.Unmount()
	}
	view.Mount(mw.back)
	mw.view = view

	mw.center.Objects = []fyne.CanvasObject{view}
	mw.center.Refresh()
	mw.updateMode(view.Transform())
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateMode(ts zoom.TransformState) {
	if mw.view == nil {
		return
	}
	mw.modeLabel.SetText(fmt.Sprintf("Mode: %s  Scale: %.2f  Offset: %.0f, %.0f",
		mw.view.Controller().Mode(), ts.Scale, ts.TranslateX, ts.TranslateY))
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) restoreLastImage() {
	path := mw.app.Preferences().String(prefKeyLastImage)
	if path == "" {
		return
	}
	img, err := zvimage.Load(path)
	if err != nil {
		log.Printf("Failed to restore image %s: %v", path, err)
		return
	}
	mw.image = img
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		img, loadErr := zvimage.Load(path)
		if loadErr != nil {
			dialog.ShowError(loadErr, mw.Window)
			return
		}
		mw.saveLastDir(path)
		mw.app.Preferences().SetString(prefKeyLastImage, path)
		mw.image = img
		mw.view.SetImage(img)
		mw.view.Reset()
		mw.updateStatus("Image loaded: " + filepath.Base(path))
	}, mw.Window)
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.SetFilter(storage.NewExtensionFileFilter(zvimage.SupportedFormats()))
	fd.Show()
}

func (mw *MainWindow) onPlaceholder() {
	mw.app.Preferences().RemoveValue(prefKeyLastImage)
	mw.image = zvimage.Placeholder(640, 480, 40)
	mw.view.SetImage(mw.image)
	mw.view.Reset()
}

func (mw *MainWindow) onReloadSettings() {
	if err := mw.state.Reload(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveSettings() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := mw.state.CurrentSettings().Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Settings saved: " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("zoomview.toml")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".toml", ".yaml", ".yml", ".json"}))
	fd.Show()
}

func (mw *MainWindow) onSelectPreset(name string) {
	preset, path := mw.state.Source()
	if name == preset {
		return
	}
	if err := mw.state.LoadSettings(name, path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onReset() {
	if mw.view != nil {
		mw.view.Reset()
	}
}

func (mw *MainWindow) onBack() {
	if !mw.back.Dispatch() {
		log.Println("Back press not consumed")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Zoom View",
		fmt.Sprintf("Zoom View v%s\n\n"+
			"Pinch, pan, swipe-to-dismiss and double-tap zoom.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
