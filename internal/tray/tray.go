// Package tray provides a system tray surface showing the wink badge and mood.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/nayana/internal/wink"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	badge      string
	mood       string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuBadge  *systray.MenuItem
	menuMood   *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		badge:   wink.BadgeSearching,
		mood:    wink.MoodNotHappy,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
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

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Nayana")
	systray.SetTooltip("Nayana wink detector")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle wink detection")
	systray.AddSeparator()

	t.menuBadge = systray.AddMenuItem(t.badge, "Detection status")
	t.menuBadge.Disable()
	t.menuMood = systray.AddMenuItem(t.mood, "Mood")
	t.menuMood.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Nayana")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips the enabled state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		if enabled {
			t.menuToggle.SetTitle("● Enabled")
		} else {
			t.menuToggle.SetTitle("○ Disabled")
		}
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
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

// SetStatus shows the badge and mood of out in the menu.
func (t *Tray) SetStatus(out wink.Output) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.badge = out.Badge
	t.mood = out.Mood

	if t.menuBadge != nil {
		t.menuBadge.SetTitle(out.Badge)
	}
	if t.menuMood != nil {
		t.menuMood.SetTitle(out.Mood)
	}
}

// SetError replaces the badge with a capture error message.
func (t *Tray) SetError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.badge = "Camera error: " + message
	if t.menuBadge != nil {
		t.menuBadge.SetTitle(t.badge)
	}
}

// Labels returns the badge and mood currently shown.
func (t *Tray) Labels() (badge, mood string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.badge, t.mood
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Follow applies every output from outputs until the channel closes.
func (t *Tray) Follow(outputs <-chan wink.Output) {
	for out := range outputs {
		t.SetStatus(out)
	}
}
