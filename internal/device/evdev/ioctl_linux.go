package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding from asm-generic/ioctl.h. x/sys/unix ships the
// evdev request numbers for reads with fixed sizes only, so the
// length-parameterized EVIOCGBIT/EVIOCGNAME and the write-side EVIOCSFF
// are assembled here.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | size<<iocSizeShift | typ<<iocTypeShift | nr<<iocNrShift
}

// EVIOCSFF: upload/update a force-feedback effect.
func eviocsff() uintptr {
	return ioc(iocWrite, 'E', 0x80, unsafe.Sizeof(ffEffect{}))
}

// EVIOCRMFF: erase a force-feedback effect by id.
func eviocrmff() uintptr {
	return ioc(iocWrite, 'E', 0x81, unsafe.Sizeof(int32(0)))
}

// EVIOCGBIT(ev, len): read the capability bitmap for an event type.
func eviocgbit(ev, length uintptr) uintptr {
	return ioc(iocRead, 'E', 0x20+ev, length)
}

// EVIOCGNAME(len): read the device name.
func eviocgname(length uintptr) uintptr {
	return ioc(iocRead, 'E', 0x06, length)
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
