// Package desktop composes the fyne tray host: the tray menu, the
// preferences window and the break overlay, all fed by one runner.
package desktop

import (
	"context"
	"errors"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pomodo/internal/app"
	"pomodo/internal/core/model"
	"pomodo/internal/core/session"
	"pomodo/internal/platform"
	"pomodo/internal/ui/animation"
	"pomodo/internal/ui/overlay"
	"pomodo/internal/ui/preferences"
	"pomodo/internal/ui/tray"
	"pomodo/resources"
)

const appID = "io.pomodo.app"

// ErrTrayUnsupported is returned when the fyne driver has no system tray.
var ErrTrayUnsupported = errors.New("system tray unsupported on this platform")

// Run shows the tray and blocks until the user quits or ctx is done. guard
// may be nil; when set, a second launch opens the preferences window.
func Run(ctx context.Context, core *app.App, guard *platform.InstanceGuard) error {
	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return ErrTrayUnsupported
	}
	logger := core.Logger().Named("desktop")

	trayWindow := fyneApp.NewWindow("pomodo")
	trayWindow.SetContent(widget.NewLabel("pomodo is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	desktopApp.SetSystemTrayWindow(trayWindow)

	runner := core.Runner()

	overlayWindow := overlay.New(fyneApp, overlay.DefaultConfig())
	breathing := animation.New(animation.DefaultConfig(), overlayWindow.SetStep)
	overlayWindow.SetEngine(breathing)
	overlayWindow.SetOnSkip(runner.Skip)

	prefsWindow := preferences.New(fyneApp, core.Settings(), func(settings model.Settings) error {
		err := core.UpdateSettings(settings)
		if err != nil {
			logger.Error("saving settings failed", "error", err)
		}
		return err
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnToggle:      runner.Toggle,
		OnReset:       runner.Reset,
		OnSkipBreak:   runner.Skip,
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})

	if guard != nil {
		guard.OnActivate(func() {
			fyne.Do(prefsWindow.Show)
		})
	}

	view := &view{
		desktop: desktopApp,
		tray:    trayManager,
		overlay: overlayWindow,
	}
	view.apply(runner.Snapshot(), core.NowPlaying())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := runner.Subscribe(16)
	stopped := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		core.Run(runCtx)
	}()
	// The UI goroutines stop calling into fyne once the event loop exits.
	go func() {
		for range events {
			snapshot := runner.Snapshot()
			nowPlaying := core.NowPlaying()
			select {
			case <-stopped:
			default:
				fyne.Do(func() {
					view.apply(snapshot, nowPlaying)
				})
			}
		}
	}()
	go func() {
		select {
		case <-stopped:
		case <-ctx.Done():
			fyne.Do(fyneApp.Quit)
		}
	}()

	logger.Info("tray started")
	fyneApp.Run()
	close(stopped)

	cancel()
	breathing.Stop()
	wg.Wait()
	return nil
}

type view struct {
	desktop desktop.App
	tray    *tray.Manager
	overlay *overlay.Window
	icon    resources.IconKind
}

// apply runs on the fyne thread.
func (view *view) apply(snapshot session.Snapshot, nowPlaying string) {
	view.tray.SetNowPlaying(nowPlaying)
	view.tray.Update(snapshot)

	if icon := IconFor(snapshot); icon != view.icon {
		view.icon = icon
		view.desktop.SetSystemTrayIcon(resources.Icon(icon))
	}

	switch {
	case OverlayVisible(snapshot) && !view.overlay.Visible():
		view.overlay.Show(snapshot.Phase, snapshot.Remaining)
	case OverlayVisible(snapshot):
		view.overlay.SetRemaining(snapshot.Remaining)
	case view.overlay.Visible():
		view.overlay.Hide()
	}
}

// IconFor picks the tray icon for a snapshot.
func IconFor(snapshot session.Snapshot) resources.IconKind {
	switch {
	case !snapshot.Running:
		return resources.IconPaused
	case snapshot.Phase.IsBreak():
		return resources.IconBreak
	}
	return resources.IconWork
}

// OverlayVisible reports whether the break overlay should be on screen.
// A break waiting for Start keeps it hidden.
func OverlayVisible(snapshot session.Snapshot) bool {
	return snapshot.Phase.IsBreak() && snapshot.Running
}
