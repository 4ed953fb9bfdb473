package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodo/internal/core/session"
)

const menuTitle = "pomodo"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnSkipBreak   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	musicItem   *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	resetItem   *fyne.MenuItem
	skipItem    *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	quitItem    *fyne.MenuItem
	callbacks   Callbacks
	running     bool
	inBreak     bool
	statusLabel string
	nowPlaying  string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem(manager.statusLabel, nil)
	manager.statusItem.Disabled = true
	manager.musicItem = fyne.NewMenuItem("", nil)
	manager.musicItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem(ToggleLabel(false), func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})
	manager.skipItem = fyne.NewMenuItem("Skip break", func() {
		if manager.callbacks.OnSkipBreak != nil {
			manager.callbacks.OnSkipBreak()
		}
	})
	manager.skipItem.Disabled = true
	manager.prefsItem = fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})
	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	return manager
}

// Update reflects an engine snapshot in the menu. Call it on the fyne thread.
func (manager *Manager) Update(snapshot session.Snapshot) {
	manager.statusLabel = StatusLine(snapshot)
	manager.running = snapshot.Running
	manager.inBreak = snapshot.Phase.IsBreak()

	manager.statusItem.Label = manager.statusLabel
	manager.toggleItem.Label = ToggleLabel(manager.running)
	manager.skipItem.Disabled = !manager.inBreak
	manager.refreshMenu()
}

// SetNowPlaying sets the track shown under the status line. An empty text
// hides the item. It takes effect on the next Update.
func (manager *Manager) SetNowPlaying(text string) {
	manager.nowPlaying = text
	manager.musicItem.Label = NowPlayingLabel(text)
}

// NowPlayingLabel renders the music menu item, or "" for no track.
func NowPlayingLabel(text string) string {
	if text == "" {
		return ""
	}
	return "♪ " + text
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusLabel
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	items := []*fyne.MenuItem{manager.statusItem}
	if manager.nowPlaying != "" {
		items = append(items, manager.musicItem)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle, items...))
}

// StatusLine renders a snapshot as "Work 24:59 · 1/4 · 3 today", with a
// paused marker while the countdown is stopped.
func StatusLine(snapshot session.Snapshot) string {
	status := fmt.Sprintf("%s %s · %d/%d · %d today",
		snapshot.Phase.Label(),
		FormatRemaining(snapshot.Remaining),
		snapshot.Cycle,
		snapshot.CycleLength,
		snapshot.CompletedWork,
	)
	if !snapshot.Running {
		status += " (paused)"
	}
	return status
}

// ToggleLabel names the action the toggle item performs.
func ToggleLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Start"
}

// FormatRemaining renders a countdown as mm:ss. Negative values show 00:00.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
