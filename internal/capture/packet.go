// Package capture spawns a platform USB capture process, parses its
// streaming pcap output, and exposes host-to-device FFB traffic as
// structured packets.
package capture

import (
	"fmt"
	"time"
)

// Direction of a captured USB transfer.
type Direction int

const (
	HostToDevice Direction = iota
	DeviceToHost
)

func (d Direction) String() string {
	if d == HostToDevice {
		return "host->device"
	}
	return "device->host"
}

// Packet is one captured USB transfer. Endpoint carries the 7-bit endpoint
// number with the direction bit stripped. Packets live only until the next
// drain; nothing persists them across ApplyEffect calls.
type Packet struct {
	Timestamp time.Duration
	Direction Direction
	Endpoint  uint8
	Data      []byte
}

// IsFFBCommand reports whether the packet looks like an FFB command.
//
// The filter is deliberately permissive: the exact report-ID space of these
// devices is not fully known, so a first byte in the observed ID ranges OR
// any substantial OUT payload passes. Tightening it risks dropping real
// commands from untested wheels.
func (p *Packet) IsFFBCommand() bool {
	if p.Direction != HostToDevice {
		return false
	}
	if len(p.Data) == 0 {
		return false
	}
	id := p.Data[0]
	switch {
	case id >= 0x01 && id <= 0x15: // generic HID FFB + Logitech command range
		return true
	case id == 0x21: // SET_REPORT request type
		return true
	case id == 0xF3 || id == 0xF5: // Logitech extended commands
		return true
	}
	return len(p.Data) >= 7
}

// FormatHex renders packet bytes as space-separated uppercase hex pairs,
// the interchange form used by capture files and driver output.
func FormatHex(data []byte) string {
	return fmt.Sprintf("% X", data)
}
