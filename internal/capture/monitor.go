package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/simwheel/ffbtrace/internal/queue"
)

const instrumentationName = "github.com/simwheel/ffbtrace/internal/capture"

// DefaultWarmup is how long StartCapture waits after spawning the capture
// process so the capture driver can attach before effects are played.
const DefaultWarmup = 2 * time.Second

// Config holds capture-session settings.
type Config struct {
	// Interface is the usbmon interface to capture on (Linux). Empty means
	// autodetect, preferring usbmon0 (all buses).
	Interface string
	// USBPcapDevice is the USBPcap control device (Windows), e.g.
	// `\\.\USBPcap1`. Empty picks the first root hub.
	USBPcapDevice string
	// Warmup overrides DefaultWarmup when positive.
	Warmup time.Duration
}

func (c Config) warmup() time.Duration {
	if c.Warmup > 0 {
		return c.Warmup
	}
	return DefaultWarmup
}

// Monitor owns one capture session: the platform capture process, the
// background reader parsing its pcap stream, and the shared packet queue.
//
// Lifecycle: Idle -> Capturing (StartCapture) -> Stopped (StopCapture).
// StopCapture is safe when capture was never started.
type Monitor struct {
	cfg Config
	log zerolog.Logger

	cmd     *exec.Cmd
	done    chan struct{}
	running atomic.Bool

	packets *queue.Queue[Packet]

	// VID:PID of the device under test, informational only: the platform
	// capture tools cannot filter by device, so filtering happens at the
	// decode/classification stage.
	deviceFilter string

	chunksRead     metric.Int64Counter
	recordsDropped metric.Int64Counter
	packetsQueued  metric.Int64Counter
}

// NewMonitor creates an idle monitor. Metrics use the global OTel meter and
// are no-ops unless an SDK is installed.
func NewMonitor(cfg Config, log zerolog.Logger) (*Monitor, error) {
	m := &Monitor{
		cfg:     cfg,
		log:     log.With().Str("component", "capture").Logger(),
		packets: queue.New[Packet](),
	}

	meter := otel.Meter(instrumentationName)
	var err error
	m.chunksRead, err = meter.Int64Counter(
		"capture.stream.reads",
		metric.WithDescription("chunks read from the capture process stream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reads counter: %w", err)
	}
	m.recordsDropped, err = meter.Int64Counter(
		"capture.records.dropped",
		metric.WithDescription("pcap records discarded by the platform decoder"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	m.packetsQueued, err = meter.Int64Counter(
		"capture.packets.queued",
		metric.WithDescription("decoded host-to-device packets queued"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating packets counter: %w", err)
	}

	return m, nil
}

// SetDeviceFilter records the VID:PID of the device under test for logging.
func (m *Monitor) SetDeviceFilter(filter string) {
	m.deviceFilter = filter
}

// StartCapture spawns the platform capture process and the background
// reader, then waits the warm-up delay so the capture driver is attached
// before the caller plays effects.
func (m *Monitor) StartCapture() error {
	cmd, err := m.captureCommand()
	if err != nil {
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("capture stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}

	m.log.Info().
		Str("command", cmd.Path).
		Str("deviceFilter", m.deviceFilter).
		Msg("USB capture started")

	m.cmd = cmd
	m.done = make(chan struct{})
	m.running.Store(true)

	go m.readLoop(stdout)

	time.Sleep(m.cfg.warmup())
	return nil
}

// StopCapture flips the shared flag, kills the capture process, and joins
// the reader. Safe to call when capture was never started or already
// stopped.
func (m *Monitor) StopCapture() {
	m.running.Store(false)

	if m.cmd != nil {
		// killing the process unblocks the reader's pending read
		if m.cmd.Process != nil {
			_ = m.cmd.Process.Kill()
		}
		_ = m.cmd.Wait()
		m.cmd = nil
	}

	if m.done != nil {
		<-m.done
		m.done = nil
	}
}

// GetPackets atomically returns and clears the captured packet set. The
// clear-on-read semantics let callers scope capture to exactly one
// effect-playback window.
func (m *Monitor) GetPackets() []Packet {
	return m.packets.GetAndEmpty()
}

func (m *Monitor) readLoop(r io.Reader) {
	defer close(m.done)

	parser := &streamParser{
		dec: decoderForPlatform(),
		emit: func(p *Packet) {
			m.packets.Push(*p)
			m.packetsQueued.Add(context.Background(), 1)
		},
		drop: func() {
			m.recordsDropped.Add(context.Background(), 1)
		},
	}

	buf := make([]byte, 64*1024)
	for m.running.Load() {
		n, err := r.Read(buf)
		if n > 0 {
			m.chunksRead.Add(context.Background(), 1)
			if ferr := parser.Feed(buf[:n]); ferr != nil {
				m.reportStreamError(parser.buf, buf[:n])
				return
			}
		}
		if err != nil {
			if err != io.EOF && m.running.Load() {
				m.log.Warn().Err(err).Msg("capture read error")
			}
			// EOF: capture process died (often a permissions failure) or
			// was killed by StopCapture
			return
		}
	}
}

// reportStreamError logs a bad pcap header. Capture tools report failures
// like missing privileges as plain text on stdout, so sniff the bytes for a
// readable message before giving up.
func (m *Monitor) reportStreamError(bufData, chunk []byte) {
	sample := bufData
	if len(sample) == 0 {
		sample = chunk
	}
	if len(sample) > 100 {
		sample = sample[:100]
	}
	if bytes.Contains(sample, []byte("Couldn't open")) ||
		bytes.Contains(sample, []byte("Access")) ||
		bytes.Contains(sample, []byte("permission")) {
		m.log.Error().Msg("USB capture failed: insufficient privileges (run as root/Administrator)")
		return
	}
	m.log.Error().Err(ErrBadMagic).Msg("capture stream is not pcap data, aborting session")
}

// captureCommand builds the platform capture process: tcpdump on a usbmon
// interface for Linux, USBPcapCMD for Windows. Both write a pcap stream to
// stdout unbuffered.
func (m *Monitor) captureCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "windows":
		exe, err := findUSBPcapCmd()
		if err != nil {
			return nil, err
		}
		dev := m.cfg.USBPcapDevice
		if dev == "" {
			dev = `\\.\USBPcap1`
		}
		return exec.Command(exe, "-d", dev, "-o", "-", "-A"), nil

	case "linux":
		if _, err := exec.LookPath("tcpdump"); err != nil {
			return nil, fmt.Errorf("tcpdump not found, install it (e.g. apt install tcpdump): %w", err)
		}
		// best effort; usbmon is usually built in or already loaded
		_ = exec.Command("modprobe", "usbmon").Run()

		iface := m.cfg.Interface
		if iface == "" {
			iface = findUsbmonInterface()
		}
		args := []string{"tcpdump", "-i", iface, "-w", "-", "-U", "-q"}
		if os.Geteuid() != 0 {
			args = append([]string{"sudo"}, args...)
		}
		return exec.Command(args[0], args[1:]...), nil
	}
	return nil, fmt.Errorf("USB capture is not supported on %s", runtime.GOOS)
}

// findUsbmonInterface prefers usbmon0 (all buses) and falls back to the
// first bus-specific interface. tcpdump can often use usbmon interfaces
// even without the /dev nodes, so the final fallback is usbmon0 regardless.
func findUsbmonInterface() string {
	if _, err := os.Stat("/sys/module/usbmon"); err == nil {
		if _, err := os.Stat("/dev/usbmon0"); err == nil {
			return "usbmon0"
		}
		for i := 1; i <= 10; i++ {
			path := fmt.Sprintf("/dev/usbmon%d", i)
			if _, err := os.Stat(path); err == nil {
				return fmt.Sprintf("usbmon%d", i)
			}
		}
	}
	return "usbmon0"
}

func findUSBPcapCmd() (string, error) {
	candidates := []string{
		`C:\Program Files\USBPcap\USBPcapCMD.exe`,
		`C:\Program Files (x86)\USBPcap\USBPcapCMD.exe`,
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p, err := exec.LookPath("USBPcapCMD.exe"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("USBPcapCMD.exe not found, install USBPcap from https://desowin.org/usbpcap/")
}
