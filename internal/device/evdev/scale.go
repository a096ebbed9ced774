package evdev

import "math"

const (
	modelRange  = 10000
	nativeRange = 32767
)

// ScaleMagnitude converts a signed value from the effect model's +-10000
// domain to the device's native +-32767 range, rounding to nearest and
// clamping so out-of-domain inputs cannot wrap.
func ScaleMagnitude(v int16) int16 {
	scaled := math.Round(float64(v) * nativeRange / modelRange)
	if scaled > nativeRange {
		return nativeRange
	}
	if scaled < -nativeRange {
		return -nativeRange
	}
	return int16(scaled)
}

// scaleUnsigned converts an unsigned model value (amplitude, level,
// saturation) to [0, 32767] under the same rounding rule.
func scaleUnsigned(v uint16) uint16 {
	scaled := math.Round(float64(v) * nativeRange / modelRange)
	if scaled > nativeRange {
		return nativeRange
	}
	if scaled < 0 {
		return 0
	}
	return uint16(scaled)
}
