// Package evdev implements the capture-backed driver: effects are played
// through the Linux force-feedback interface on a real wheel while the
// capture subsystem records the USB traffic the kernel driver emits.
package evdev

import "github.com/simwheel/ffbtrace/internal/capture"

// Config selects the input device and capture settings for one session.
type Config struct {
	// DevicePath pins a specific /dev/input/eventN node. Empty means scan
	// for the first force-feedback capable device.
	DevicePath string

	Capture capture.Config
}
