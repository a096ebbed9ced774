package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/effect"
	"github.com/simwheel/ffbtrace/internal/scenario"
)

// fakeDriver returns canned packets and fails on demand.
type fakeDriver struct {
	packets   []string
	failSteps map[int]bool
	applies   int
	stops     int
}

func (d *fakeDriver) Name() string      { return "fake" }
func (d *fakeDriver) Initialize() error { return nil }
func (d *fakeDriver) Shutdown() error   { return nil }
func (d *fakeDriver) StopAllEffects() error {
	d.stops++
	return nil
}

func (d *fakeDriver) ApplyEffect(*effect.Effect) ([]string, error) {
	d.applies++
	if d.failSteps[d.applies] {
		return nil, device.NewError(device.KindEffectPlaybackFailed, "injected failure", nil)
	}
	return d.packets, nil
}

func twoStepScenario() *scenario.Scenario {
	constant := effect.NewConstant(effect.Params{Duration: 100}, effect.ConstantForce{Magnitude: 5000})
	spring := effect.NewCondition(effect.Params{Duration: 100}, effect.ConditionEffect{
		ConditionType: effect.Spring,
		XAxis:         effect.DefaultConditionParams(),
	})
	return &scenario.Scenario{
		Name:        "two steps",
		RepeatCount: 1,
		Steps:       []scenario.Step{{Effect: constant}, {Effect: spring}},
	}
}

func TestPlay(t *testing.T) {
	drv := &fakeDriver{packets: []string{"01 02", "03 04"}}
	out := Play(twoStepScenario(), drv, zerolog.Nop())

	if len(out) != 2 {
		t.Fatalf("Play() returned %d steps, want 2", len(out))
	}
	if out[0].Index != 1 || out[1].Index != 2 {
		t.Errorf("step indices = %d, %d; want 1, 2", out[0].Index, out[1].Index)
	}
	if out[0].Name != "Constant force" {
		t.Errorf("step 1 name = %q", out[0].Name)
	}
	if out[1].Name != "Condition (spring)" {
		t.Errorf("step 2 name = %q", out[1].Name)
	}
	if len(out[0].Packets) != 2 {
		t.Errorf("step 1 packets = %d, want 2", len(out[0].Packets))
	}
	if drv.stops != 2 {
		t.Errorf("StopAllEffects called %d times, want 2 (once per step)", drv.stops)
	}
}

// A failed step keeps the run going with an empty packet list.
func TestPlayStepFailureContinues(t *testing.T) {
	drv := &fakeDriver{packets: []string{"01 02"}, failSteps: map[int]bool{1: true}}
	out := Play(twoStepScenario(), drv, zerolog.Nop())

	if len(out) != 2 {
		t.Fatalf("Play() returned %d steps, want 2", len(out))
	}
	if len(out[0].Packets) != 0 {
		t.Errorf("failed step packets = %d, want 0", len(out[0].Packets))
	}
	if len(out[1].Packets) != 1 {
		t.Errorf("surviving step packets = %d, want 1", len(out[1].Packets))
	}
}

func TestPlayRepeatCount(t *testing.T) {
	drv := &fakeDriver{}
	s := twoStepScenario()
	s.RepeatCount = 3
	out := Play(s, drv, zerolog.Nop())
	if len(out) != 6 {
		t.Errorf("Play() returned %d steps, want 6 for 3 iterations", len(out))
	}
}

func TestCaptureFileRoundTrip(t *testing.T) {
	steps := []StepOutput{
		{Index: 1, Name: "Constant force", Packets: []string{"01 05 01 87 13", "01 01 01 01"}},
		{Index: 2, Name: "Condition (spring)", Packets: nil},
		{Index: 3, Name: "Ramp (linear change)", Packets: []string{"01 01 0E 01"}},
	}

	var buf bytes.Buffer
	if err := WriteCaptureFile(&buf, steps); err != nil {
		t.Fatalf("WriteCaptureFile() error = %v", err)
	}

	got, err := ParseCaptureFile(&buf)
	if err != nil {
		t.Fatalf("ParseCaptureFile() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("parsed %d steps, want 3", len(got))
	}
	for i := range steps {
		if got[i].Index != steps[i].Index || got[i].Name != steps[i].Name {
			t.Errorf("step %d = %d %q, want %d %q", i, got[i].Index, got[i].Name, steps[i].Index, steps[i].Name)
		}
		if len(got[i].Packets) != len(steps[i].Packets) {
			t.Errorf("step %d packets = %d, want %d", i, len(got[i].Packets), len(steps[i].Packets))
		}
	}
}

// Packet lines before any marker form an implicit step 1, and stray
// comments and blank lines are skipped.
func TestParseCaptureFileImplicitStep(t *testing.T) {
	in := "01 02 03\n\n# a stray comment\n04 05 06\n"
	got, err := ParseCaptureFile(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCaptureFile() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("parsed %d steps, want 1", len(got))
	}
	if got[0].Index != 1 || got[0].Name != "Unknown" {
		t.Errorf("implicit step = %d %q, want 1 Unknown", got[0].Index, got[0].Name)
	}
	if len(got[0].Packets) != 2 {
		t.Errorf("packets = %d, want 2", len(got[0].Packets))
	}
}

func TestCompareIdentical(t *testing.T) {
	steps := []StepOutput{{Index: 1, Name: "Constant force", Packets: []string{"01 02"}}}
	var buf bytes.Buffer
	if n := Compare(&buf, steps, steps); n != 0 {
		t.Errorf("Compare() = %d mismatches, want 0", n)
	}
	if !strings.Contains(buf.String(), "OK: All 1 steps match") {
		t.Errorf("report missing OK line:\n%s", buf.String())
	}
}

func TestCompareMismatch(t *testing.T) {
	expected := []StepOutput{{Index: 1, Name: "Constant force", Packets: []string{"01 02", "03 04"}}}
	actual := []StepOutput{{Index: 1, Name: "Constant force", Packets: []string{"01 02", "03 05"}}}
	var buf bytes.Buffer
	if n := Compare(&buf, expected, actual); n != 1 {
		t.Errorf("Compare() = %d mismatches, want 1", n)
	}
	report := buf.String()
	if !strings.Contains(report, "MISMATCH Step 1") {
		t.Errorf("report missing mismatch header:\n%s", report)
	}
	if !strings.Contains(report, "Packet 2 differs") {
		t.Errorf("report missing packet diff:\n%s", report)
	}
}

func TestCompareMissingAndExtraSteps(t *testing.T) {
	expected := []StepOutput{
		{Index: 1, Name: "a", Packets: []string{"01"}},
		{Index: 2, Name: "b", Packets: []string{"02"}},
	}
	actual := []StepOutput{
		{Index: 1, Name: "a", Packets: []string{"01"}},
	}
	var buf bytes.Buffer
	if n := Compare(&buf, expected, actual); n != 1 {
		t.Errorf("Compare() = %d mismatches, want 1", n)
	}
	if !strings.Contains(buf.String(), "MISSING Step 2") {
		t.Errorf("report missing MISSING line:\n%s", buf.String())
	}

	buf.Reset()
	if n := Compare(&buf, actual, expected); n != 1 {
		t.Errorf("Compare() reversed = %d mismatches, want 1", n)
	}
	if !strings.Contains(buf.String(), "EXTRA Step 2") {
		t.Errorf("report missing EXTRA line:\n%s", buf.String())
	}
}
