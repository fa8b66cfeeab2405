// Package tray provides a system tray interface for the Jikimi hazard
// watcher.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(watching bool)
	onDashboard func()
	onQuit      func()
	watching    bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastAlert *systray.MenuItem
}

// New creates a new Tray instance. Watching starts off until the user or the
// dashboard turns it on.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback function to be called when watching is toggled.
func (t *Tray) OnToggle(fn func(watching bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback function to be called when the dashboard menu
// item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is
// clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Jikimi")
	systray.SetTooltip("Jikimi Hazard Watcher")

	t.menuToggle = systray.AddMenuItem("○ Not watching", "Toggle hazard watching")
	systray.AddSeparator()

	t.menuLastAlert = systray.AddMenuItem("Last alert: none", "Last danger alert")
	t.menuLastAlert.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Jikimi")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.watching = !t.watching
	watching := t.watching
	t.updateToggleLocked()
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(watching)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetWatching updates the toggle display when the session is started or
// stopped from outside the tray.
func (t *Tray) SetWatching(watching bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watching = watching
	t.updateToggleLocked()
}

// updateToggleLocked refreshes the toggle title. Caller holds the lock.
func (t *Tray) updateToggleLocked() {
	if t.menuToggle == nil {
		return
	}
	if t.watching {
		t.menuToggle.SetTitle("● Watching")
	} else {
		t.menuToggle.SetTitle("○ Not watching")
	}
}

// SetLastAlert updates the last alert display in the menu.
func (t *Tray) SetLastAlert(label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastAlert != nil {
		if label == "" {
			t.menuLastAlert.SetTitle("Last alert: none")
		} else {
			t.menuLastAlert.SetTitle("Last alert: " + label)
		}
	}
}

// IsWatching returns the current watching state.
func (t *Tray) IsWatching() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.watching
}
