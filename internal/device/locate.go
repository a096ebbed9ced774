package device

import (
	"fmt"

	"github.com/sstallion/go-hid"
)

// wheelVendors lists USB vendor IDs of FFB wheel bases we recognize. The
// locator picks the first HID device from a known vendor; enumeration
// beyond that single device is out of scope.
var wheelVendors = map[uint16]string{
	0x046D: "Logitech",
	0x044F: "Thrustmaster",
	0x0EB7: "Fanatec",
	0x0483: "SIMAGIC",
	0x346E: "Moza",
}

// WheelInfo identifies the located FFB-capable device.
type WheelInfo struct {
	VendorID  uint16
	ProductID uint16
	Vendor    string
	Product   string
	Path      string
}

// Filter returns the VID:PID device filter string for the capture monitor,
// e.g. "046D:C24F".
func (w *WheelInfo) Filter() string {
	return fmt.Sprintf("%04X:%04X", w.VendorID, w.ProductID)
}

// LocateWheel enumerates HID devices and returns the first one belonging to
// a known wheel vendor. Returns a DeviceNotFound error when no candidate is
// attached.
func LocateWheel() (*WheelInfo, error) {
	if err := hid.Init(); err != nil {
		return nil, NewError(KindInitializationFailed, "hid init", err)
	}

	var found *WheelInfo
	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if found != nil {
			return nil
		}
		vendor, ok := wheelVendors[info.VendorID]
		if !ok {
			return nil
		}
		found = &WheelInfo{
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			Vendor:    vendor,
			Product:   info.ProductStr,
			Path:      info.Path,
		}
		return nil
	})
	if err != nil {
		return nil, NewError(KindDeviceError, "hid enumeration", err)
	}
	if found == nil {
		return nil, NewError(KindDeviceNotFound, "no known FFB wheel attached", nil)
	}
	return found, nil
}
