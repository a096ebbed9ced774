package evdev

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/simwheel/ffbtrace/internal/device"
)

func hasBit(bits []byte, bit uint) bool {
	idx := bit / 8
	if int(idx) >= len(bits) {
		return false
	}
	return bits[idx]&(1<<(bit%8)) != 0
}

// supportsFF reports whether the open event device exposes EV_FF with at
// least constant-force capability. Rumble-only gamepads are skipped; they
// cannot reproduce wheel effects.
func supportsFF(fd int) bool {
	var evBits [4]byte
	if err := ioctl(fd, eviocgbit(0, unsafe.Sizeof(evBits)), unsafe.Pointer(&evBits[0])); err != nil {
		return false
	}
	if !hasBit(evBits[:], evFF) {
		return false
	}

	var ffBits [16]byte
	if err := ioctl(fd, eviocgbit(evFF, unsafe.Sizeof(ffBits)), unsafe.Pointer(&ffBits[0])); err != nil {
		return false
	}
	return hasBit(ffBits[:], ffConstant)
}

func deviceName(fd int) string {
	var name [256]byte
	if err := ioctl(fd, eviocgname(unsafe.Sizeof(name)), unsafe.Pointer(&name[0])); err != nil {
		return "unknown"
	}
	if i := bytes.IndexByte(name[:], 0); i >= 0 {
		return string(name[:i])
	}
	return string(name[:])
}

// openFFDevice opens the configured event node, or scans /dev/input for
// the first force-feedback capable device when no path is pinned. Returns
// the open fd and the kernel-reported device name.
func openFFDevice(path string) (int, string, error) {
	if path != "" {
		fd, err := unix.Open(path, unix.O_RDWR, 0)
		if err != nil {
			return -1, "", device.NewError(device.KindInitializationFailed,
				fmt.Sprintf("opening %s", path), err)
		}
		if !supportsFF(fd) {
			unix.Close(fd)
			return -1, "", device.NewError(device.KindDeviceNotFound,
				fmt.Sprintf("%s has no force-feedback support", path), nil)
		}
		return fd, deviceName(fd), nil
	}

	nodes, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(nodes) == 0 {
		return -1, "", device.NewError(device.KindDeviceNotFound,
			"no input event devices found", err)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		fd, err := unix.Open(node, unix.O_RDWR, 0)
		if err != nil {
			continue
		}
		if supportsFF(fd) {
			return fd, deviceName(fd), nil
		}
		unix.Close(fd)
	}
	return -1, "", device.NewError(device.KindDeviceNotFound,
		"no force-feedback capable input device found", nil)
}
