// Package effect defines the device-independent force-feedback effect model.
// Values are pure data in the -10000..10000 domain; nothing here clamps or
// quantizes. Each driver converts to its own wire domain as part of its
// format contract.
package effect

// Direction is an effect direction angle in degrees, 0-360. Zero means a
// fixed/unused axis.
type Direction uint16

// Envelope shapes the attack and fade of an effect's magnitude over time.
// Levels are in the 0-10000 domain. The zero value means no shaping.
type Envelope struct {
	AttackTime  uint32 `yaml:"attack_time"`  // ms
	AttackLevel uint16 `yaml:"attack_level"` // 0-10000
	FadeTime    uint32 `yaml:"fade_time"`    // ms
	FadeLevel   uint16 `yaml:"fade_level"`   // 0-10000
}

// Params are the parameters shared by every effect kind.
type Params struct {
	Duration   uint32 // ms, 0 = infinite
	StartDelay uint32 // ms
	Gain       uint16 // 0-10000, default 10000
}

// DefaultGain is the gain applied when a scenario does not specify one.
const DefaultGain uint16 = 10000

// WaveType selects the waveform of a periodic effect.
type WaveType string

const (
	Sine         WaveType = "sine"
	Square       WaveType = "square"
	Triangle     WaveType = "triangle"
	SawtoothUp   WaveType = "sawtooth_up"
	SawtoothDown WaveType = "sawtooth_down"
)

// ConditionType selects the kind of a position/velocity-dependent effect.
type ConditionType string

const (
	Spring   ConditionType = "spring"
	Damper   ConditionType = "damper"
	Friction ConditionType = "friction"
	Inertia  ConditionType = "inertia"
)

// ConstantForce is the payload of a constant-force effect.
type ConstantForce struct {
	Magnitude int16 // -10000..10000
	Direction Direction
	Envelope  Envelope
}

// PeriodicEffect is the payload of a waveform effect.
type PeriodicEffect struct {
	WaveType  WaveType
	Magnitude uint16 // amplitude, 0-10000
	Offset    int16  // -10000..10000
	Phase     uint16 // hundredths of a degree, 0-36000
	Period    uint32 // ms
	Direction Direction
	Envelope  Envelope
}

// RampEffect is the payload of a linear force change.
type RampEffect struct {
	StartMagnitude int16 // -10000..10000
	EndMagnitude   int16 // -10000..10000
	Direction      Direction
	Envelope       Envelope
}

// ConditionParams hold one axis of a condition effect.
type ConditionParams struct {
	Offset              int16  // center, -10000..10000
	PositiveCoefficient int16  // -10000..10000, default 10000
	NegativeCoefficient int16  // -10000..10000, default 10000
	PositiveSaturation  uint16 // 0-10000, default 10000
	NegativeSaturation  uint16 // 0-10000, default 10000
	DeadBand            uint16 // 0-10000
}

// DefaultConditionParams returns the params a scenario gets when it leaves
// the axis block out entirely.
func DefaultConditionParams() ConditionParams {
	return ConditionParams{
		PositiveCoefficient: 10000,
		NegativeCoefficient: 10000,
		PositiveSaturation:  10000,
		NegativeSaturation:  10000,
	}
}

// ConditionEffect is the payload of a condition effect. Only the X axis
// (steering) is modeled.
type ConditionEffect struct {
	ConditionType ConditionType
	XAxis         ConditionParams
}

// Kind tags the variant held by an Effect.
type Kind string

const (
	KindConstant  Kind = "constant"
	KindPeriodic  Kind = "periodic"
	KindRamp      Kind = "ramp"
	KindCondition Kind = "condition"
)

// Effect is the closed tagged union of all effect variants. Exactly the
// payload matching Kind is non-nil. Construct via the New* functions and
// treat as immutable afterwards.
type Effect struct {
	Kind   Kind
	Params Params

	Constant  *ConstantForce
	Periodic  *PeriodicEffect
	Ramp      *RampEffect
	Condition *ConditionEffect
}

// NewConstant builds a constant-force effect.
func NewConstant(params Params, force ConstantForce) Effect {
	return Effect{Kind: KindConstant, Params: params, Constant: &force}
}

// NewPeriodic builds a waveform effect.
func NewPeriodic(params Params, periodic PeriodicEffect) Effect {
	return Effect{Kind: KindPeriodic, Params: params, Periodic: &periodic}
}

// NewRamp builds a ramp effect.
func NewRamp(params Params, ramp RampEffect) Effect {
	return Effect{Kind: KindRamp, Params: params, Ramp: &ramp}
}

// NewCondition builds a condition effect.
func NewCondition(params Params, cond ConditionEffect) Effect {
	return Effect{Kind: KindCondition, Params: params, Condition: &cond}
}

// Duration returns the effect duration in milliseconds (0 = infinite).
func (e *Effect) Duration() uint32 {
	return e.Params.Duration
}

// StartDelay returns the delay before the effect starts, in milliseconds.
func (e *Effect) StartDelay() uint32 {
	return e.Params.StartDelay
}

// Label returns a human-readable name for step logs and capture files.
func (e *Effect) Label() string {
	switch e.Kind {
	case KindConstant:
		return "Constant force"
	case KindPeriodic:
		switch e.Periodic.WaveType {
		case Sine:
			return "Periodic (sine)"
		case Square:
			return "Periodic (square)"
		case Triangle:
			return "Periodic (triangle)"
		case SawtoothUp:
			return "Periodic (sawtooth up)"
		case SawtoothDown:
			return "Periodic (sawtooth down)"
		}
		return "Periodic"
	case KindRamp:
		return "Ramp (linear change)"
	case KindCondition:
		switch e.Condition.ConditionType {
		case Spring:
			return "Condition (spring)"
		case Damper:
			return "Condition (damper)"
		case Friction:
			return "Condition (friction)"
		case Inertia:
			return "Condition (inertia)"
		}
		return "Condition"
	}
	return string(e.Kind)
}
