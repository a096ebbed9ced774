package evdev

import (
	"unsafe"

	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/effect"
)

// Event and force-feedback constants from linux/input.h and
// linux/input-event-codes.h.
const (
	evFF = 0x15

	ffRumble   = 0x50
	ffPeriodic = 0x51
	ffConstant = 0x52
	ffSpring   = 0x53
	ffFriction = 0x54
	ffDamper   = 0x55
	ffInertia  = 0x56
	ffRamp     = 0x57

	ffSquare   = 0x58
	ffTriangle = 0x59
	ffSine     = 0x5a
	ffSawUp    = 0x5b
	ffSawDown  = 0x5c
)

// The kernel reuses one ff_effect struct for every effect kind, with a
// union holding the per-kind payload. The Go mirror keeps the union as raw
// storage and fills it through typed views, one constructor per kind.
//
// Layout on 64-bit (union aligned to 8 because ff_periodic_effect carries
// a custom-data pointer): type(2) id(2) direction(2) trigger(4) replay(4)
// pad(2) union(32) = 48 bytes.
type ffEffect struct {
	Type      uint16
	ID        int16
	Direction uint16
	Trigger   ffTrigger
	Replay    ffReplay
	_         [2]byte
	union     [32]byte
}

type ffTrigger struct {
	Button   uint16
	Interval uint16
}

type ffReplay struct {
	Length uint16
	Delay  uint16
}

type ffEnvelope struct {
	AttackLength uint16
	AttackLevel  uint16
	FadeLength   uint16
	FadeLevel    uint16
}

type ffConstantEffect struct {
	Level    int16
	Envelope ffEnvelope
}

type ffRampEffect struct {
	StartLevel int16
	EndLevel   int16
	Envelope   ffEnvelope
}

type ffPeriodicEffect struct {
	Waveform   uint16
	Period     uint16
	Magnitude  int16
	Offset     int16
	Phase      uint16
	Envelope   ffEnvelope
	CustomLen  uint32
	CustomData uintptr
}

// ffConditionEffect is one axis; the kernel union holds two.
type ffConditionEffect struct {
	RightSaturation uint16
	LeftSaturation  uint16
	RightCoeff      int16
	LeftCoeff       int16
	Deadband        uint16
	Center          int16
}

// replayInfinite is the kernel sentinel for "no time limit".
const replayInfinite = 0

// newEffectID marks the effect for kernel-side slot allocation; the ioctl
// rewrites it with the assigned id.
const newEffectID = -1

func clampU16(v uint32) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

// nativeDirection converts degrees [0,360) to the kernel's 16-bit polar
// encoding where 0x4000 is 90 degrees.
func nativeDirection(deg effect.Direction) uint16 {
	return uint16(uint32(deg) * 0x10000 / 360)
}

// nativePhase converts hundredths of a degree [0,36000) to the kernel's
// 16-bit phase encoding.
func nativePhase(phase uint16) uint16 {
	return uint16(uint32(phase) * 0x10000 / 36000)
}

func nativeEnvelope(env effect.Envelope) ffEnvelope {
	return ffEnvelope{
		AttackLength: clampU16(env.AttackTime),
		AttackLevel:  scaleUnsigned(env.AttackLevel),
		FadeLength:   clampU16(env.FadeTime),
		FadeLevel:    scaleUnsigned(env.FadeLevel),
	}
}

func baseEffect(typ uint16, e *effect.Effect, direction effect.Direction) ffEffect {
	length := clampU16(e.Duration())
	if e.Duration() == 0 {
		length = replayInfinite
	}
	return ffEffect{
		Type:      typ,
		ID:        newEffectID,
		Direction: nativeDirection(direction),
		Replay: ffReplay{
			Length: length,
			Delay:  clampU16(e.StartDelay()),
		},
	}
}

func constantEffect(e *effect.Effect) ffEffect {
	c := e.Constant
	fe := baseEffect(ffConstant, e, c.Direction)
	p := (*ffConstantEffect)(unsafe.Pointer(&fe.union[0]))
	p.Level = ScaleMagnitude(c.Magnitude)
	p.Envelope = nativeEnvelope(c.Envelope)
	return fe
}

func rampEffect(e *effect.Effect) ffEffect {
	r := e.Ramp
	fe := baseEffect(ffRamp, e, r.Direction)
	p := (*ffRampEffect)(unsafe.Pointer(&fe.union[0]))
	p.StartLevel = ScaleMagnitude(r.StartMagnitude)
	p.EndLevel = ScaleMagnitude(r.EndMagnitude)
	p.Envelope = nativeEnvelope(r.Envelope)
	return fe
}

func waveform(w effect.WaveType) (uint16, bool) {
	switch w {
	case effect.Sine:
		return ffSine, true
	case effect.Square:
		return ffSquare, true
	case effect.Triangle:
		return ffTriangle, true
	case effect.SawtoothUp:
		return ffSawUp, true
	case effect.SawtoothDown:
		return ffSawDown, true
	}
	return 0, false
}

func periodicEffect(e *effect.Effect) (ffEffect, error) {
	pe := e.Periodic
	wf, ok := waveform(pe.WaveType)
	if !ok {
		return ffEffect{}, device.NewError(device.KindInvalidParameter,
			"unknown wave type "+string(pe.WaveType), nil)
	}
	fe := baseEffect(ffPeriodic, e, pe.Direction)
	p := (*ffPeriodicEffect)(unsafe.Pointer(&fe.union[0]))
	p.Waveform = wf
	p.Period = clampU16(pe.Period)
	p.Magnitude = int16(scaleUnsigned(pe.Magnitude))
	p.Offset = ScaleMagnitude(pe.Offset)
	p.Phase = nativePhase(pe.Phase)
	p.Envelope = nativeEnvelope(pe.Envelope)
	return fe, nil
}

func conditionType(c effect.ConditionType) (uint16, bool) {
	switch c {
	case effect.Spring:
		return ffSpring, true
	case effect.Damper:
		return ffDamper, true
	case effect.Friction:
		return ffFriction, true
	case effect.Inertia:
		return ffInertia, true
	}
	return 0, false
}

func conditionEffect(e *effect.Effect) (ffEffect, error) {
	ce := e.Condition
	typ, ok := conditionType(ce.ConditionType)
	if !ok {
		return ffEffect{}, device.NewError(device.KindInvalidParameter,
			"unknown condition type "+string(ce.ConditionType), nil)
	}
	fe := baseEffect(typ, e, 0)
	// the union holds one record per axis; only the steering axis is driven
	axes := (*[2]ffConditionEffect)(unsafe.Pointer(&fe.union[0]))
	x := ce.XAxis
	axes[0] = ffConditionEffect{
		RightSaturation: scaleUnsigned(x.PositiveSaturation),
		LeftSaturation:  scaleUnsigned(x.NegativeSaturation),
		RightCoeff:      ScaleMagnitude(x.PositiveCoefficient),
		LeftCoeff:       ScaleMagnitude(x.NegativeCoefficient),
		Deadband:        x.DeadBand,
		Center:          x.Offset,
	}
	return fe, nil
}

// buildEffect translates a model effect into the kernel record submitted
// via EVIOCSFF.
func buildEffect(e *effect.Effect) (ffEffect, error) {
	switch e.Kind {
	case effect.KindConstant:
		return constantEffect(e), nil
	case effect.KindRamp:
		return rampEffect(e), nil
	case effect.KindPeriodic:
		return periodicEffect(e)
	case effect.KindCondition:
		return conditionEffect(e)
	}
	return ffEffect{}, device.NewError(device.KindInvalidParameter,
		"unknown effect kind "+string(e.Kind), nil)
}
