package effect

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scenario YAML carries the variant tag and all fields in one flat mapping:
//
//	type: constant
//	duration: 1000
//	magnitude: 5000
//	direction: 90
//
// Fields are optional; absent values take the documented defaults (gain
// 10000, condition coefficients/saturations 10000, everything else zero).

type paramsYAML struct {
	Duration   uint32  `yaml:"duration"`
	StartDelay uint32  `yaml:"start_delay"`
	Gain       *uint16 `yaml:"gain"`
}

func (p paramsYAML) params() Params {
	out := Params{Duration: p.Duration, StartDelay: p.StartDelay, Gain: DefaultGain}
	if p.Gain != nil {
		out.Gain = *p.Gain
	}
	return out
}

type conditionParamsYAML struct {
	Offset              int16   `yaml:"offset"`
	PositiveCoefficient *int16  `yaml:"positive_coefficient"`
	NegativeCoefficient *int16  `yaml:"negative_coefficient"`
	PositiveSaturation  *uint16 `yaml:"positive_saturation"`
	NegativeSaturation  *uint16 `yaml:"negative_saturation"`
	DeadBand            uint16  `yaml:"dead_band"`
}

func (c conditionParamsYAML) params() ConditionParams {
	out := DefaultConditionParams()
	out.Offset = c.Offset
	out.DeadBand = c.DeadBand
	if c.PositiveCoefficient != nil {
		out.PositiveCoefficient = *c.PositiveCoefficient
	}
	if c.NegativeCoefficient != nil {
		out.NegativeCoefficient = *c.NegativeCoefficient
	}
	if c.PositiveSaturation != nil {
		out.PositiveSaturation = *c.PositiveSaturation
	}
	if c.NegativeSaturation != nil {
		out.NegativeSaturation = *c.NegativeSaturation
	}
	return out
}

// UnmarshalYAML decodes the tagged flat mapping into the matching variant.
func (e *Effect) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}

	var params paramsYAML
	if err := value.Decode(&params); err != nil {
		return err
	}

	switch Kind(head.Type) {
	case KindConstant:
		var raw struct {
			Magnitude int16     `yaml:"magnitude"`
			Direction Direction `yaml:"direction"`
			Envelope  Envelope  `yaml:"envelope"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*e = NewConstant(params.params(), ConstantForce{
			Magnitude: raw.Magnitude,
			Direction: raw.Direction,
			Envelope:  raw.Envelope,
		})

	case KindPeriodic:
		var raw struct {
			WaveType  WaveType  `yaml:"wave_type"`
			Magnitude uint16    `yaml:"magnitude"`
			Offset    int16     `yaml:"offset"`
			Phase     uint16    `yaml:"phase"`
			Period    uint32    `yaml:"period"`
			Direction Direction `yaml:"direction"`
			Envelope  Envelope  `yaml:"envelope"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if !validWaveType(raw.WaveType) {
			return fmt.Errorf("unknown wave_type %q", raw.WaveType)
		}
		*e = NewPeriodic(params.params(), PeriodicEffect{
			WaveType:  raw.WaveType,
			Magnitude: raw.Magnitude,
			Offset:    raw.Offset,
			Phase:     raw.Phase,
			Period:    raw.Period,
			Direction: raw.Direction,
			Envelope:  raw.Envelope,
		})

	case KindRamp:
		var raw struct {
			StartMagnitude int16     `yaml:"start_magnitude"`
			EndMagnitude   int16     `yaml:"end_magnitude"`
			Direction      Direction `yaml:"direction"`
			Envelope       Envelope  `yaml:"envelope"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*e = NewRamp(params.params(), RampEffect{
			StartMagnitude: raw.StartMagnitude,
			EndMagnitude:   raw.EndMagnitude,
			Direction:      raw.Direction,
			Envelope:       raw.Envelope,
		})

	case KindCondition:
		var raw struct {
			ConditionType ConditionType       `yaml:"condition_type"`
			XAxis         conditionParamsYAML `yaml:"x_axis"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if !validConditionType(raw.ConditionType) {
			return fmt.Errorf("unknown condition_type %q", raw.ConditionType)
		}
		*e = NewCondition(params.params(), ConditionEffect{
			ConditionType: raw.ConditionType,
			XAxis:         raw.XAxis.params(),
		})

	default:
		return fmt.Errorf("unknown effect type %q", head.Type)
	}

	return nil
}

func validWaveType(w WaveType) bool {
	switch w {
	case Sine, Square, Triangle, SawtoothUp, SawtoothDown:
		return true
	}
	return false
}

func validConditionType(c ConditionType) bool {
	switch c {
	case Spring, Damper, Friction, Inertia:
		return true
	}
	return false
}
