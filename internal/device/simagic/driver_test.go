package simagic

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/effect"
)

func testDriver(t *testing.T) *Driver {
	t.Helper()
	d := New(zerolog.Nop())
	if err := d.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return d
}

func TestApplyBeforeInitialize(t *testing.T) {
	d := New(zerolog.Nop())
	e := effect.NewConstant(effect.Params{}, effect.ConstantForce{Magnitude: 5000})
	if _, err := d.ApplyEffect(&e); !device.IsKind(err, device.KindDeviceError) {
		t.Errorf("ApplyEffect() error = %v, want DeviceError", err)
	}
}

func TestConstantReportCount(t *testing.T) {
	d := testDriver(t)
	tests := []struct {
		magnitude int16
		want      int
	}{
		{0, 2},  // no-op magnitude, SetConstantMagnitude skipped
		{-1, 2}, // also a no-op on the real device
		{5000, 3},
		{1, 3}, // quantizes to 0 but the report is still sent
	}
	for _, tt := range tests {
		e := effect.NewConstant(effect.Params{Duration: 1000}, effect.ConstantForce{Magnitude: tt.magnitude})
		got, err := d.ApplyEffect(&e)
		if err != nil {
			t.Fatalf("ApplyEffect(magnitude=%d) error = %v", tt.magnitude, err)
		}
		if len(got) != tt.want {
			t.Errorf("magnitude %d: %d reports, want %d", tt.magnitude, len(got), tt.want)
		}
	}
}

func TestConstantReportOrder(t *testing.T) {
	d := testDriver(t)
	e := effect.NewConstant(effect.Params{Duration: 1000}, effect.ConstantForce{Magnitude: 5000})
	got, err := d.ApplyEffect(&e)
	if err != nil {
		t.Fatalf("ApplyEffect() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("%d reports, want 3", len(got))
	}
	// second byte of each report is the command
	wantCmds := []string{"05", "01", "0A"}
	for i, rep := range got {
		fields := strings.Fields(rep)
		if len(fields) != reportLen {
			t.Fatalf("report %d has %d bytes, want %d", i, len(fields), reportLen)
		}
		if fields[0] != "01" {
			t.Errorf("report %d id = %s, want 01", i, fields[0])
		}
		if fields[1] != wantCmds[i] {
			t.Errorf("report %d command = %s, want %s", i, fields[1], wantCmds[i])
		}
	}
}

func TestConditionReportOrder(t *testing.T) {
	d := testDriver(t)
	e := effect.NewCondition(effect.Params{Duration: 1000}, effect.ConditionEffect{
		ConditionType: effect.Spring,
		XAxis:         effect.DefaultConditionParams(),
	})
	got, err := d.ApplyEffect(&e)
	if err != nil {
		t.Fatalf("ApplyEffect() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("%d reports, want 3", len(got))
	}
	wantCmds := []string{"03", "01", "0A"}
	for i, rep := range got {
		if cmd := strings.Fields(rep)[1]; cmd != wantCmds[i] {
			t.Errorf("report %d command = %s, want %s", i, cmd, wantCmds[i])
		}
	}
}

func TestPeriodicAndRampReportCount(t *testing.T) {
	d := testDriver(t)
	periodic := effect.NewPeriodic(effect.Params{Duration: 1000},
		effect.PeriodicEffect{WaveType: effect.Sine, Magnitude: 5000})
	ramp := effect.NewRamp(effect.Params{Duration: 1000},
		effect.RampEffect{StartMagnitude: -5000, EndMagnitude: 5000})

	for _, e := range []effect.Effect{periodic, ramp} {
		got, err := d.ApplyEffect(&e)
		if err != nil {
			t.Fatalf("ApplyEffect(%s) error = %v", e.Label(), err)
		}
		if len(got) != 2 {
			t.Errorf("%s: %d reports, want 2", e.Label(), len(got))
		}
	}
}

// The encoder is a pure function of the effect: two runs must be
// byte-identical.
func TestApplyEffectIdempotent(t *testing.T) {
	d := testDriver(t)
	e := effect.NewCondition(effect.Params{Duration: 2000}, effect.ConditionEffect{
		ConditionType: effect.Damper,
		XAxis: effect.ConditionParams{
			Offset:              328,
			PositiveCoefficient: 5000,
			NegativeCoefficient: -50,
			PositiveSaturation:  10000,
			NegativeSaturation:  5000,
			DeadBand:            656,
		},
	})
	first, err := d.ApplyEffect(&e)
	if err != nil {
		t.Fatalf("first ApplyEffect() error = %v", err)
	}
	second, err := d.ApplyEffect(&e)
	if err != nil {
		t.Fatalf("second ApplyEffect() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("report counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("report %d differs:\n  %s\n  %s", i, first[i], second[i])
		}
	}
}

func TestHexFormat(t *testing.T) {
	d := testDriver(t)
	e := effect.NewConstant(effect.Params{}, effect.ConstantForce{Magnitude: 10000})
	got, err := d.ApplyEffect(&e)
	if err != nil {
		t.Fatalf("ApplyEffect() error = %v", err)
	}
	for _, rep := range got {
		if rep != strings.ToUpper(rep) {
			t.Errorf("report not uppercase: %s", rep)
		}
		for _, f := range strings.Fields(rep) {
			if len(f) != 2 {
				t.Errorf("hex field %q is not a byte pair", f)
			}
		}
	}
}

func TestShutdownResetsInit(t *testing.T) {
	d := testDriver(t)
	if err := d.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	e := effect.NewConstant(effect.Params{}, effect.ConstantForce{Magnitude: 5000})
	if _, err := d.ApplyEffect(&e); err == nil {
		t.Error("ApplyEffect() after Shutdown() succeeded, want error")
	}
}
