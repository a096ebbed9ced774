package simagic

import (
	"testing"

	"github.com/simwheel/ffbtrace/internal/effect"
)

func TestQuantizeMagnitude(t *testing.T) {
	tests := []struct {
		in   int16
		want int16
	}{
		{1, 0},
		{10000, 10000},
		{-10000, -10000},
		{0, 0},
		{50, 49},
		{-50, -49},
		{2, 1},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := quantizeMagnitude(tt.in); got != tt.want {
			t.Errorf("quantizeMagnitude(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeSaturation(t *testing.T) {
	tests := []struct {
		in   uint16
		want uint16
	}{
		{10000, 4999},
		{0, 0},
		{1, 0},
		{2, 0},
		{5000, 2499},
	}
	for _, tt := range tests {
		if got := encodeSaturation(tt.in); got != tt.want {
			t.Errorf("encodeSaturation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// 656/6.56 divides to exactly 100.0 in float32 (the real quotient sits
// less than a microunit above 100, inside f32 rounding), so the ceil
// leaves it alone; 657 overshoots and rounds up. Dividing in float64
// would give 101 for 656 and break byte compatibility with the vendor
// driver.
func TestEncodeDeadBand(t *testing.T) {
	tests := []struct {
		in   uint16
		want uint16
	}{
		{0, 0},
		{656, 100},
		{657, 101},
	}
	for _, tt := range tests {
		if got := encodeDeadBand(tt.in); got != tt.want {
			t.Errorf("encodeDeadBand(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeConditionOffset(t *testing.T) {
	tests := []struct {
		in   int16
		want int16
	}{
		{0, 0},
		{328, 100}, // exact multiple of 3.28 after f32 rounding, ceil is a no-op
		{-328, -100},
		{329, 101}, // non-exact quotient, rounds away from zero
		{-329, -101},
		{10000, 3049},
	}
	for _, tt := range tests {
		if got := encodeConditionOffset(tt.in); got != tt.want {
			t.Errorf("encodeConditionOffset(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeCoefficient(t *testing.T) {
	tests := []struct {
		in   int16
		want int16
	}{
		{0, 0},
		{10000, 10000},
		{5000, 4999},
		{-50, -51},
	}
	for _, tt := range tests {
		if got := encodeCoefficient(tt.in); got != tt.want {
			t.Errorf("encodeCoefficient(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetEffectReportLayout(t *testing.T) {
	b := setEffectReport(typeConstant, 1, 2000).bytes()
	if len(b) != reportLen {
		t.Fatalf("len = %d, want %d", len(b), reportLen)
	}
	if b[0] != reportID || b[1] != cmdSetEffect || b[2] != typeConstant {
		t.Errorf("header = % X, want 01 01 01", b[:3])
	}
	if b[3] != 1 {
		t.Errorf("slot = %#x, want 1", b[3])
	}
	if b[4] != 0xD0 || b[5] != 0x07 {
		t.Errorf("duration bytes = %02X %02X, want D0 07", b[4], b[5])
	}
	// fixed protocol constants, meaning unknown
	want := []byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0x04, 0x3F}
	for i, w := range want {
		if b[6+i] != w {
			t.Errorf("byte %d = %02X, want %02X", 6+i, b[6+i], w)
		}
	}
}

func TestSetEffectReportDurationClamp(t *testing.T) {
	b := setEffectReport(typeConstant, 1, 100000).bytes()
	if b[4] != 0xFF || b[5] != 0xFF {
		t.Errorf("duration bytes = %02X %02X, want FF FF", b[4], b[5])
	}
}

// The magnitude report carries the slot in the effect-type byte.
func TestSetConstantMagnitudeReport(t *testing.T) {
	b := setConstantMagnitudeReport(1, 5000).bytes()
	if b[1] != cmdSetConstantMagnitude || b[2] != 1 {
		t.Errorf("header = % X, want command 05 slot 1", b[1:3])
	}
	// 5000 quantizes to 4999 = 0x1387
	if b[3] != 0x87 || b[4] != 0x13 {
		t.Errorf("magnitude bytes = %02X %02X, want 87 13", b[3], b[4])
	}
}

func TestSetConstantMagnitudeNegative(t *testing.T) {
	b := setConstantMagnitudeReport(1, -10000).bytes()
	// -10000 = 0xD8F0
	if b[3] != 0xF0 || b[4] != 0xD8 {
		t.Errorf("magnitude bytes = %02X %02X, want F0 D8", b[3], b[4])
	}
}

func TestSetConditionParamsReport(t *testing.T) {
	p := effect.DefaultConditionParams()
	p.DeadBand = 656
	b := setConditionParamsReport(typeSpring, p).bytes()
	if b[1] != cmdSetConditionParams || b[2] != typeSpring {
		t.Errorf("header = % X", b[1:3])
	}
	if b[3] != 0 {
		t.Errorf("padding byte = %02X, want 00", b[3])
	}
	if b[4] != 0 || b[5] != 0 {
		t.Errorf("offset bytes = %02X %02X, want 00 00", b[4], b[5])
	}
	// coefficients 10000 = 0x2710 pass through
	if b[6] != 0x10 || b[7] != 0x27 || b[8] != 0x10 || b[9] != 0x27 {
		t.Errorf("coefficient bytes = % X, want 10 27 10 27", b[6:10])
	}
	// saturations 10000 -> 4999 = 0x1387
	if b[10] != 0x87 || b[11] != 0x13 || b[12] != 0x87 || b[13] != 0x13 {
		t.Errorf("saturation bytes = % X, want 87 13 87 13", b[10:14])
	}
	// dead band 656 -> 100 = 0x0064 (exact f32 multiple, ceil is a no-op)
	if b[14] != 0x64 || b[15] != 0x00 {
		t.Errorf("dead band bytes = %02X %02X, want 64 00", b[14], b[15])
	}
}

func TestStartEffectReport(t *testing.T) {
	b := startEffectReport(typeSine, 1).bytes()
	if b[1] != cmdStartEffect || b[2] != typeSine || b[3] != 1 || b[4] != 0x01 {
		t.Errorf("report = % X", b[:5])
	}
}

func TestEffectTypeCodes(t *testing.T) {
	tests := []struct {
		name string
		e    effect.Effect
		want byte
	}{
		{"constant", effect.NewConstant(effect.Params{}, effect.ConstantForce{}), typeConstant},
		{"sine", effect.NewPeriodic(effect.Params{}, effect.PeriodicEffect{WaveType: effect.Sine}), typeSine},
		{"square", effect.NewPeriodic(effect.Params{}, effect.PeriodicEffect{WaveType: effect.Square}), typeSquare},
		{"triangle", effect.NewPeriodic(effect.Params{}, effect.PeriodicEffect{WaveType: effect.Triangle}), typeTriangle},
		{"sawtooth up", effect.NewPeriodic(effect.Params{}, effect.PeriodicEffect{WaveType: effect.SawtoothUp}), typeSawtoothUp},
		{"sawtooth down", effect.NewPeriodic(effect.Params{}, effect.PeriodicEffect{WaveType: effect.SawtoothDown}), typeSawtoothDown},
		{"ramp", effect.NewRamp(effect.Params{}, effect.RampEffect{}), typeRamp},
		{"spring", effect.NewCondition(effect.Params{}, effect.ConditionEffect{ConditionType: effect.Spring}), typeSpring},
		{"damper", effect.NewCondition(effect.Params{}, effect.ConditionEffect{ConditionType: effect.Damper}), typeDamper},
		{"friction", effect.NewCondition(effect.Params{}, effect.ConditionEffect{ConditionType: effect.Friction}), typeFriction},
		{"inertia", effect.NewCondition(effect.Params{}, effect.ConditionEffect{ConditionType: effect.Inertia}), typeInertia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := effectTypeCode(&tt.e)
			if !ok || got != tt.want {
				t.Errorf("effectTypeCode() = %#x, %v; want %#x", got, ok, tt.want)
			}
		})
	}
}
