package capture

import (
	"encoding/binary"
	"time"
)

// usbmon binary header (mon_bin_hdr, 64 bytes), per
// Documentation/usb/usbmon.txt:
//
//	offset 0:  urb id (8)
//	offset 8:  event type (1): 'S'ubmit, 'C'omplete, 'E'rror
//	offset 9:  transfer type (1)
//	offset 10: epnum (1): bit7 = direction (set = IN)
//	offset 11: devnum (1)
//	offset 12: busnum (2)
//	offset 14: flag_setup (1)
//	offset 15: flag_data (1)
//	offset 16: ts_sec (8)
//	offset 24: ts_usec (4)
//	offset 28: status (4)
//	offset 32: length (4)
//	offset 36: len_cap (4)
//	offset 40: setup (8)
//	offset 48..64: interval, start_frame, xfer_flags, ndesc
//	64..: payload (len_cap bytes)
const usbmonHeaderLen = 64

// UsbmonDecoder decodes the kernel USB monitor wrapper (Linux tcpdump on a
// usbmon interface).
type UsbmonDecoder struct{}

// Decode keeps Submit-event host-to-device Interrupt/Control records with a
// payload and drops everything else.
func (UsbmonDecoder) Decode(data []byte) *Packet {
	if len(data) < usbmonHeaderLen {
		return nil
	}

	epnum := data[10]
	if epnum&0x80 != 0 {
		// device->host
		return nil
	}
	if data[8] != 'S' {
		// only Submit events describe what the host sent
		return nil
	}
	if t := data[9]; t != transferInterrupt && t != transferControl {
		return nil
	}

	lenCap := int(binary.LittleEndian.Uint32(data[36:40]))
	if lenCap <= 0 || len(data) <= usbmonHeaderLen {
		return nil
	}
	end := usbmonHeaderLen + lenCap
	if end > len(data) {
		end = len(data)
	}
	payload := data[usbmonHeaderLen:end]
	if len(payload) < 2 {
		return nil
	}

	sec := binary.LittleEndian.Uint64(data[16:24])
	usec := binary.LittleEndian.Uint32(data[24:28])

	return &Packet{
		Timestamp: time.Duration(sec)*time.Second + time.Duration(usec)*time.Microsecond,
		Direction: HostToDevice,
		Endpoint:  epnum & 0x7F,
		Data:      append([]byte(nil), payload...),
	}
}
