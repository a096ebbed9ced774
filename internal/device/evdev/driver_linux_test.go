package evdev

import (
	"testing"
	"time"

	"github.com/simwheel/ffbtrace/internal/capture"
)

// Infinite playback (duration 0) must never block: there is no wait, but
// the capture window is still drained for the upload and start traffic.
func TestWaitAndCollectInfiniteDuration(t *testing.T) {
	slept := false
	drained := 0
	out := waitAndCollect(0,
		func(time.Duration) { slept = true },
		func() []capture.Packet {
			drained++
			return []capture.Packet{
				{Direction: capture.HostToDevice, Data: []byte{0x01, 0x0A, 0x02, 0x01, 0x01}},
			}
		})
	if slept {
		t.Error("duration 0 slept, want no wait")
	}
	if drained != 1 {
		t.Fatalf("drained %d times, want 1", drained)
	}
	if len(out) != 1 || out[0] != "01 0A 02 01 01" {
		t.Errorf("out = %v, want the drained command hex-formatted", out)
	}
}

func TestWaitAndCollectWaitsDuration(t *testing.T) {
	var got time.Duration
	waitAndCollect(250,
		func(d time.Duration) { got = d },
		func() []capture.Packet { return nil })
	if got != 250*time.Millisecond {
		t.Errorf("slept %v, want 250ms", got)
	}
}

func TestWaitAndCollectFiltersNonFFB(t *testing.T) {
	out := waitAndCollect(0, func(time.Duration) {},
		func() []capture.Packet {
			return []capture.Packet{
				{Direction: capture.DeviceToHost, Data: []byte{0x01, 0x02}},
				{Direction: capture.HostToDevice, Data: []byte{0x01, 0x05}},
			}
		})
	if len(out) != 1 || out[0] != "01 05" {
		t.Errorf("out = %v, want only the host-to-device command", out)
	}
}
