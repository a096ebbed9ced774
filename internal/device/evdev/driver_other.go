//go:build !linux

package evdev

import (
	"github.com/rs/zerolog"

	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/effect"
)

// Driver is the capture-backed driver. It needs the Linux force-feedback
// interface; on other platforms every operation past construction fails.
type Driver struct{}

func New(Config, zerolog.Logger) (*Driver, error) { return &Driver{}, nil }

func (d *Driver) Name() string { return "evdev" }

func (d *Driver) Initialize() error {
	return device.NewError(device.KindInitializationFailed,
		"the evdev capture driver requires Linux", nil)
}

func (d *Driver) ApplyEffect(*effect.Effect) ([]string, error) {
	return nil, device.NewError(device.KindDeviceError,
		"driver not initialized", nil)
}

func (d *Driver) StopAllEffects() error { return nil }

func (d *Driver) Shutdown() error { return nil }
