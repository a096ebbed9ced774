package capture

import "encoding/binary"

// USBPcap per-packet header layout (little-endian):
//
//	offset 0:  headerLen (2), usually 27 or 28
//	offset 2:  irpId (8)
//	offset 10: usbd_status (4)
//	offset 14: function (2)
//	offset 16: info (1): bit0 set = PDO->FDO (device to host)
//	offset 17: bus (2)
//	offset 19: device (2)
//	offset 21: endpoint (1): direction bit in bit7
//	offset 22: transfer type (1): 0=iso 1=interrupt 2=control 3=bulk
//	offset 23: dataLength (4)
//	headerLen..: payload
const usbpcapMinHeaderLen = 27

// USBPcapDecoder decodes the USBPcap root-hub wrapper (layout used by
// USBPcapCMD on Windows).
type USBPcapDecoder struct{}

// Decode keeps host-to-device Interrupt/Control packets with a payload and
// drops everything else.
func (USBPcapDecoder) Decode(data []byte) *Packet {
	if len(data) < usbpcapMinHeaderLen {
		return nil
	}

	headerLen := int(binary.LittleEndian.Uint16(data[0:2]))
	if headerLen < usbpcapMinHeaderLen || len(data) < headerLen {
		return nil
	}

	if data[16]&0x01 != 0 {
		// device->host: input reports, not FFB commands
		return nil
	}

	endpoint := data[21] & 0x7F

	if t := data[22]; t != transferInterrupt && t != transferControl {
		return nil
	}

	payload := data[headerLen:]
	if len(payload) < 2 {
		return nil
	}

	return &Packet{
		Direction: HostToDevice,
		Endpoint:  endpoint,
		Data:      append([]byte(nil), payload...),
	}
}

// USB transfer types shared by both wrapper layouts.
const (
	transferInterrupt = 1
	transferControl   = 2
)
