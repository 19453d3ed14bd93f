// Package tray provides the system tray interface for the MasterHand daemon.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/masterhand/internal/gesture"
)

// Tray is the tray menu: an enable/disable toggle, a snap policy
// switch, the most recent snap, and quit.
type Tray struct {
	onToggle func(enabled bool)
	onPolicy func(policy gesture.SnapPolicy)
	onQuit   func()
	enabled  bool
	policy   gesture.SnapPolicy
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuPolicy   *systray.MenuItem
	menuLastSnap *systray.MenuItem
}

// New creates a Tray displaying the given snap policy, enabled by default.
func New(policy gesture.SnapPolicy) *Tray {
	return &Tray{
		enabled: true,
		policy:  policy,
	}
}

// OnToggle sets the callback invoked when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnPolicyChange sets the callback invoked when the snap policy is
// switched from the menu.
func (t *Tray) OnPolicyChange(fn func(policy gesture.SnapPolicy)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPolicy = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray loop.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("MasterHand")
	systray.SetTooltip("MasterHand gesture tracking")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuPolicy = systray.AddMenuItem("Snap: "+string(t.policy), "Switch snap detection policy")

	t.menuLastSnap = systray.AddMenuItem("Last snap: none", "Most recent snap event")
	t.menuLastSnap.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit MasterHand")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuPolicy.ClickedCh:
				t.handlePolicySwitch()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handlePolicySwitch() {
	t.mu.Lock()
	if t.policy == gesture.VelocityGated {
		t.policy = gesture.EdgeTriggered
	} else {
		t.policy = gesture.VelocityGated
	}
	policy := t.policy
	t.menuPolicy.SetTitle("Snap: " + string(policy))

	callback := t.onPolicy
	t.mu.Unlock()

	if callback != nil {
		callback(policy)
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

// SetLastSnap updates the last snap line. Safe to call from an
// app.OnSnap listener.
func (t *Tray) SetLastSnap(ev gesture.SnapEvent) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastSnap == nil {
		return
	}
	if ev.Policy == gesture.VelocityGated {
		t.menuLastSnap.SetTitle(fmt.Sprintf("Last snap: %s (v=%.3f)", ev.Hand, ev.Velocity))
		return
	}
	t.menuLastSnap.SetTitle("Last snap: " + ev.Hand)
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
