// Package device defines the contract every FFB backend implements, the
// typed errors those backends return, and the HID locator used to find one
// FFB-capable wheel.
package device

import (
	"github.com/simwheel/ffbtrace/internal/effect"
)

// Driver is the uniform contract for FFB backends.
//
// A backend either drives real hardware and returns the wire bytes observed
// by USB capture (evdev), or synthesizes the wire bytes directly from a
// protocol model (simagic). Either way ApplyEffect returns one hex string
// per transmitted HID report, space-separated uppercase byte pairs, in
// emission/capture order.
type Driver interface {
	// Initialize acquires the device and any capture resources. Calling it
	// twice without an intervening Shutdown is undefined.
	Initialize() error

	// ApplyEffect stops any previously active effect, then creates and
	// starts the given one. Drivers that capture real traffic block for the
	// effect's duration; duration 0 never blocks. Must fail if called
	// before Initialize.
	ApplyEffect(e *effect.Effect) ([]string, error)

	// StopAllEffects is best-effort and never fails when nothing is active.
	StopAllEffects() error

	// Shutdown stops effects and releases all resources. Safe to call more
	// than once.
	Shutdown() error

	// Name is a stable backend identifier for logging.
	Name() string
}
