package capture

import "runtime"

// RecordDecoder turns one pcap record payload into zero or one Packet.
// Implementations are pure: they filter out device-to-host traffic,
// non-Interrupt/Control transfers, and empty payloads by returning nil.
//
// Two wrapper layouts exist, selected once per capture session:
// USBPcap's root-hub header on Windows and the kernel usbmon header
// elsewhere.
type RecordDecoder interface {
	Decode(data []byte) *Packet
}

func decoderForPlatform() RecordDecoder {
	if runtime.GOOS == "windows" {
		return USBPcapDecoder{}
	}
	return UsbmonDecoder{}
}
