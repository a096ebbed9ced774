package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/simwheel/ffbtrace/internal/capture"
	"github.com/simwheel/ffbtrace/internal/config"
	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/device/evdev"
	"github.com/simwheel/ffbtrace/internal/device/simagic"
)

// newDriver selects a backend by identifier. An unknown name is a usage
// error, not a device error.
func newDriver(name string) (device.Driver, error) {
	switch strings.ToLower(name) {
	case "evdev":
		cfg := evdev.Config{
			DevicePath: config.GetString("device.path"),
			Capture: capture.Config{
				Interface:     config.GetString("capture.interface"),
				USBPcapDevice: config.GetString("capture.usbpcapDevice"),
				Warmup:        time.Duration(config.GetInt("capture.warmupMs")) * time.Millisecond,
			},
		}
		return evdev.New(cfg, log)
	case "simagic":
		return simagic.New(log), nil
	default:
		return nil, fmt.Errorf("unknown driver %q, available drivers: evdev, simagic", name)
	}
}
