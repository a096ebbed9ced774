package simagic

import (
	"github.com/rs/zerolog"

	"github.com/simwheel/ffbtrace/internal/capture"
	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/effect"
)

// Driver generates the exact report sequence a SIMAGIC wheelbase would
// receive for each effect. Pure synthesis: no hardware, no capture, no
// timing delays. Useful for diffing the protocol model against a
// hardware-captured run.
type Driver struct {
	log zerolog.Logger

	// slot is the effect slot used for every report. Real traffic shows
	// only slot 1 so far.
	slot        byte
	initialized bool
}

func New(log zerolog.Logger) *Driver {
	return &Driver{
		log:  log.With().Str("driver", "simagic").Logger(),
		slot: 1,
	}
}

func (d *Driver) Name() string { return "simagic" }

func (d *Driver) Initialize() error {
	d.log.Info().Msg("SIMAGIC protocol encoder initialized (no hardware)")
	d.initialized = true
	return nil
}

// ApplyEffect returns the report sequence for the effect as hex strings in
// emission order. Deterministic: identical effects yield byte-identical
// sequences.
func (d *Driver) ApplyEffect(e *effect.Effect) ([]string, error) {
	if !d.initialized {
		return nil, device.NewError(device.KindDeviceError,
			"driver not initialized", nil)
	}

	typ, ok := effectTypeCode(e)
	if !ok {
		return nil, device.NewError(device.KindInvalidParameter,
			"no protocol encoding for effect "+e.Label(), nil)
	}

	var reports []*report
	switch e.Kind {
	case effect.KindConstant:
		// magnitude 0 and -1 are observed no-ops; the vendor driver skips
		// the magnitude report for both
		if m := e.Constant.Magnitude; m != 0 && m != -1 {
			reports = append(reports, setConstantMagnitudeReport(d.slot, m))
		}
		reports = append(reports,
			setEffectReport(typ, d.slot, e.Duration()),
			startEffectReport(typ, d.slot))

	case effect.KindPeriodic, effect.KindRamp:
		// no magnitude or shape report has been captured for these; the
		// parameters may hide in SetEffect or in commands not yet observed
		reports = append(reports,
			setEffectReport(typ, d.slot, e.Duration()),
			startEffectReport(typ, d.slot))

	case effect.KindCondition:
		reports = append(reports,
			setConditionParamsReport(typ, e.Condition.XAxis),
			setEffectReport(typ, d.slot, e.Duration()),
			startEffectReport(typ, d.slot))
	}

	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = capture.FormatHex(r.bytes())
	}
	d.log.Debug().Str("effect", e.Label()).Int("reports", len(out)).Msg("reports generated")
	return out, nil
}

// StopAllEffects is a no-op: nothing tracks live effects because nothing
// runs. The stop report exists but has never been confirmed on hardware.
func (d *Driver) StopAllEffects() error { return nil }

func (d *Driver) Shutdown() error {
	if err := d.StopAllEffects(); err != nil {
		return err
	}
	d.initialized = false
	return nil
}
