// Package tray provides a system tray interface for the FocusLens attention tracker.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(tracking bool)
	onDashboard func()
	onQuit      func()
	tracking    bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuEngagement *systray.MenuItem
}

// New creates a new Tray instance. Tracking is off until the user starts it.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback function to be called when tracking is toggled.
func (t *Tray) OnToggle(fn func(tracking bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback function to be called when the dashboard menu item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
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

func (t *Tray) onReady() {
	systray.SetTitle("FocusLens")
	systray.SetTooltip("FocusLens Attention Tracker")

	t.menuToggle = systray.AddMenuItem("○ Start Tracking", "Toggle attention tracking")
	systray.AddSeparator()

	t.menuEngagement = systray.AddMenuItem("Engagement: -", "Current engagement level")
	t.menuEngagement.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit FocusLens")

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

func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.tracking = !t.tracking
	tracking := t.tracking

	if tracking {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Start Tracking")
		t.menuEngagement.SetTitle("Engagement: -")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(tracking)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetEngagement updates the engagement level display in the menu.
func (t *Tray) SetEngagement(label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuEngagement != nil {
		if label == "" {
			t.menuEngagement.SetTitle("Engagement: -")
		} else {
			t.menuEngagement.SetTitle("Engagement: " + label)
		}
	}
}

// SetTracking updates the toggle state without firing the callback, for when
// tracking is started or stopped from the dashboard instead of the menu.
func (t *Tray) SetTracking(tracking bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracking = tracking
	if t.menuToggle == nil {
		return
	}
	if tracking {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Start Tracking")
		t.menuEngagement.SetTitle("Engagement: -")
	}
}

// IsTracking returns the current tracking state.
func (t *Tray) IsTracking() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tracking
}
