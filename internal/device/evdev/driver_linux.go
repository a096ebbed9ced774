package evdev

import (
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/simwheel/ffbtrace/internal/capture"
	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/effect"
)

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Driver plays effects on a real wheel through the kernel force-feedback
// interface and returns the USB traffic the capture subsystem observed
// while the effect ran. At most one effect is active per driver instance.
type Driver struct {
	cfg Config
	log zerolog.Logger

	monitor *capture.Monitor

	fd          int
	devName     string
	effectID    int16
	hasEffect   bool
	initialized bool
}

// New creates an uninitialized driver. Capture resources are acquired in
// Initialize.
func New(cfg Config, log zerolog.Logger) (*Driver, error) {
	monitor, err := capture.NewMonitor(cfg.Capture, log)
	if err != nil {
		return nil, device.NewError(device.KindInitializationFailed,
			"creating capture monitor", err)
	}
	return &Driver{
		cfg:     cfg,
		log:     log.With().Str("driver", "evdev").Logger(),
		monitor: monitor,
		fd:      -1,
	}, nil
}

func (d *Driver) Name() string { return "evdev" }

// Initialize locates the wheel, starts USB capture, and opens the
// force-feedback device. Callers must Shutdown before initializing again.
func (d *Driver) Initialize() error {
	if wheel, err := device.LocateWheel(); err == nil {
		d.log.Info().
			Str("vendor", wheel.Vendor).
			Str("product", wheel.Product).
			Str("id", wheel.Filter()).
			Msg("wheel located")
		d.monitor.SetDeviceFilter(wheel.Filter())
	} else {
		// capture still works unfiltered; the wheel may expose only the
		// event node and no HID interface we can enumerate
		d.log.Warn().Err(err).Msg("no USB wheel enumerated, capturing unfiltered")
	}

	if err := d.monitor.StartCapture(); err != nil {
		return device.NewError(device.KindInitializationFailed,
			"starting USB capture", err)
	}

	fd, name, err := openFFDevice(d.cfg.DevicePath)
	if err != nil {
		d.monitor.StopCapture()
		return err
	}
	d.fd = fd
	d.devName = name
	d.initialized = true

	d.log.Info().Str("device", name).Msg("force-feedback device opened")
	return nil
}

// ApplyEffect uploads and starts the effect, waits out its duration so the
// wire traffic actually happens, then returns the captured FFB command
// bytes as hex strings in capture order.
func (d *Driver) ApplyEffect(e *effect.Effect) ([]string, error) {
	if !d.initialized {
		return nil, device.NewError(device.KindDeviceError,
			"driver not initialized", nil)
	}

	// discard idle traffic and anything left from the previous effect
	d.monitor.GetPackets()

	d.stopCurrent()

	fe, err := buildEffect(e)
	if err != nil {
		return nil, err
	}
	if err := ioctl(d.fd, eviocsff(), unsafe.Pointer(&fe)); err != nil {
		return nil, device.NewError(device.KindEffectCreationFailed,
			"uploading effect to "+d.devName, err)
	}
	d.effectID = fe.ID
	d.hasEffect = true

	if err := d.play(d.effectID, 1); err != nil {
		return nil, device.NewError(device.KindEffectPlaybackFailed,
			"starting effect", err)
	}

	d.log.Debug().
		Str("effect", e.Label()).
		Uint32("durationMs", e.Duration()).
		Msg("effect started")

	return waitAndCollect(e.Duration(), time.Sleep, d.monitor.GetPackets), nil
}

// waitAndCollect waits out the effect duration in real time so the
// hardware processes the effect and the capture window contains its
// traffic, then drains the window and hex-formats the FFB commands in it.
// Duration 0 plays until stopped, so there is no wait; the drain still
// runs and picks up whatever the upload and start produced.
func waitAndCollect(ms uint32, sleep func(time.Duration), drain func() []capture.Packet) []string {
	if ms > 0 {
		sleep(time.Duration(ms) * time.Millisecond)
	}
	var out []string
	for _, pkt := range drain() {
		if pkt.IsFFBCommand() {
			out = append(out, capture.FormatHex(pkt.Data))
		}
	}
	return out
}

// StopAllEffects stops and erases the active effect, if any.
func (d *Driver) StopAllEffects() error {
	if !d.hasEffect {
		return nil
	}
	if err := d.play(d.effectID, 0); err != nil {
		return device.NewError(device.KindEffectStopFailed,
			"stopping effect", err)
	}
	d.removeCurrent()
	return nil
}

// Shutdown stops everything and releases the device and capture process.
// Safe to call repeatedly.
func (d *Driver) Shutdown() error {
	if err := d.StopAllEffects(); err != nil {
		d.log.Warn().Err(err).Msg("stopping effects during shutdown")
	}
	d.monitor.StopCapture()
	if d.fd >= 0 {
		unix.Close(d.fd)
		d.fd = -1
	}
	d.initialized = false
	return nil
}

// play writes the EV_FF start/stop event for an uploaded effect.
func (d *Driver) play(id int16, value int32) error {
	ev := inputEvent{Type: evFF, Code: uint16(id), Value: value}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&ev)), unsafe.Sizeof(ev))
	_, err := unix.Write(d.fd, buf)
	return err
}

// stopCurrent is the best-effort release before uploading a new effect.
func (d *Driver) stopCurrent() {
	if !d.hasEffect {
		return
	}
	if err := d.play(d.effectID, 0); err != nil {
		d.log.Warn().Err(err).Msg("stopping previous effect")
	}
	d.removeCurrent()
}

func (d *Driver) removeCurrent() {
	id := int32(d.effectID)
	if err := ioctl(d.fd, eviocrmff(), unsafe.Pointer(&id)); err != nil {
		d.log.Warn().Err(err).Int32("id", id).Msg("erasing effect")
	}
	d.hasEffect = false
}
