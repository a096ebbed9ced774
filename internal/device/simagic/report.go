// Package simagic synthesizes SIMAGIC wheelbase HID reports directly from
// the effect model, without hardware. The command format is reverse
// engineered from USB captures of the vendor driver; several codes are
// unconfirmed and the byte quirks below reproduce observed device
// behavior, not idealized math.
package simagic

import (
	"encoding/binary"
	"math"

	"github.com/simwheel/ffbtrace/internal/effect"
)

// Every report is 21 bytes: report id 0x01, command, effect type, 18 data
// bytes.
const (
	reportLen = 21
	reportID  = 0x01
)

// Command bytes.
const (
	cmdSetEffect            = 0x01
	cmdSetConditionParams   = 0x03
	cmdSetConstantMagnitude = 0x05
	cmdStartEffect          = 0x0A
	cmdStopEffect           = 0x0B // assumed, never seen in captures
)

// Effect-type bytes. SawtoothUp and SawtoothDown are assumed; Friction and
// Inertia (0x09, not 0x08) are confirmed from captures. 0x03, 0x04 and
// 0x08, 0x0A-0x0D remain unknown.
const (
	typeConstant     = 0x01
	typeSine         = 0x02
	typeDamper       = 0x05
	typeSpring       = 0x06
	typeFriction     = 0x07
	typeInertia      = 0x09
	typeRamp         = 0x0E
	typeSquare       = 0x0F
	typeTriangle     = 0x10
	typeSawtoothUp   = 0x11
	typeSawtoothDown = 0x12
)

type report struct {
	command    byte
	effectType byte
	data       [18]byte
}

func (r *report) bytes() []byte {
	out := make([]byte, reportLen)
	out[0] = reportID
	out[1] = r.command
	out[2] = r.effectType
	copy(out[3:], r.data[:])
	return out
}

// effectTypeCode maps an effect to its protocol byte.
func effectTypeCode(e *effect.Effect) (byte, bool) {
	switch e.Kind {
	case effect.KindConstant:
		return typeConstant, true
	case effect.KindPeriodic:
		switch e.Periodic.WaveType {
		case effect.Sine:
			return typeSine, true
		case effect.Square:
			return typeSquare, true
		case effect.Triangle:
			return typeTriangle, true
		case effect.SawtoothUp:
			return typeSawtoothUp, true
		case effect.SawtoothDown:
			return typeSawtoothDown, true
		}
	case effect.KindRamp:
		return typeRamp, true
	case effect.KindCondition:
		switch e.Condition.ConditionType {
		case effect.Spring:
			return typeSpring, true
		case effect.Damper:
			return typeDamper, true
		case effect.Friction:
			return typeFriction, true
		case effect.Inertia:
			return typeInertia, true
		}
	}
	return 0, false
}

// quantizeMagnitude reproduces the vendor driver's near-1:1 magnitude
// mapping: 1 collapses to 0 and all values except 0 and the extremes move
// one unit toward zero. The off-by-one is an artifact of the +-32767
// round trip the vendor pipeline performs internally.
func quantizeMagnitude(m int16) int16 {
	switch {
	case m == 1:
		return 0
	case m == 0 || m == 10000 || m == -10000:
		return m
	case m > 0:
		return m - 1
	default:
		return m + 1
	}
}

// encodeConditionOffset scales a center offset by 1/3.28, rounding away
// from zero. float32 arithmetic is part of the contract: exact multiples
// like 328 divide to exactly the integer after f32 rounding, so the ceil
// only bites for non-exact quotients. A wider division would overshoot
// and round one higher.
func encodeConditionOffset(offset int16) int16 {
	scaled := float32(offset) / 3.28
	if offset >= 0 {
		return int16(math.Ceil(float64(scaled)))
	}
	return int16(math.Floor(float64(scaled)))
}

// encodeCoefficient passes 0 and saturated values through; anything else
// loses one unit.
func encodeCoefficient(c int16) int16 {
	if c == 0 || c >= 10000 {
		return c
	}
	return c - 1
}

// encodeSaturation halves and decrements, saturating at zero.
func encodeSaturation(s uint16) uint16 {
	half := s / 2
	if half == 0 {
		return 0
	}
	return half - 1
}

// encodeDeadBand scales by 1/6.56 with float32 ceil. Exact multiples
// (656) stay put; anything else rounds up.
func encodeDeadBand(d uint16) uint16 {
	return uint16(math.Ceil(float64(float32(d) / 6.56)))
}

// setEffectReport carries slot, duration, and start delay plus fixed
// trailing bytes seen in every capture whose meaning is unknown; they must
// be emitted unchanged.
func setEffectReport(effectType byte, slot byte, durationMs uint32) *report {
	r := &report{command: cmdSetEffect, effectType: effectType}
	r.data[0] = slot

	duration := durationMs
	if duration > 0xFFFF {
		duration = 0xFFFF
	}
	binary.LittleEndian.PutUint16(r.data[1:3], uint16(duration))

	// data[3:5] start delay, always 0
	// data[5:7] unknown 0x00 0x00
	r.data[7] = 0xFF
	r.data[8] = 0xFF
	r.data[9] = 0x04 // possibly gain/direction
	r.data[10] = 0x3F
	return r
}

// setConstantMagnitudeReport puts the slot in the effect-type byte; that
// is what the vendor driver transmits, quirk included.
func setConstantMagnitudeReport(slot byte, magnitude int16) *report {
	r := &report{command: cmdSetConstantMagnitude, effectType: slot}
	binary.LittleEndian.PutUint16(r.data[0:2], uint16(quantizeMagnitude(magnitude)))
	return r
}

func setConditionParamsReport(effectType byte, p effect.ConditionParams) *report {
	r := &report{command: cmdSetConditionParams, effectType: effectType}
	// data[0] padding
	binary.LittleEndian.PutUint16(r.data[1:3], uint16(encodeConditionOffset(p.Offset)))
	binary.LittleEndian.PutUint16(r.data[3:5], uint16(encodeCoefficient(p.PositiveCoefficient)))
	binary.LittleEndian.PutUint16(r.data[5:7], uint16(encodeCoefficient(p.NegativeCoefficient)))
	binary.LittleEndian.PutUint16(r.data[7:9], encodeSaturation(p.PositiveSaturation))
	binary.LittleEndian.PutUint16(r.data[9:11], encodeSaturation(p.NegativeSaturation))
	binary.LittleEndian.PutUint16(r.data[11:13], encodeDeadBand(p.DeadBand))
	return r
}

func startEffectReport(effectType byte, slot byte) *report {
	r := &report{command: cmdStartEffect, effectType: effectType}
	r.data[0] = slot
	r.data[1] = 0x01 // play once
	return r
}

func stopEffectReport(effectType byte, slot byte) *report {
	r := &report{command: cmdStopEffect, effectType: effectType}
	r.data[0] = slot
	return r
}
