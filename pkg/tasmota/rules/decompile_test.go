package rules

import (
	"testing"
	"time"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

var decompileNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.Local)

func TestDecompileOneShot(t *testing.T) {
	script := "ON Status#Time=-09-05T18:30 DO Backlog Power1 1; Delay 300; Power1 0 ENDON"
	intent := decompileAt(script, 1, types.DefaultLimits(), decompileNow)

	if intent.Kind != KindOneShot {
		t.Fatalf("kind = %s, want OneShot", intent.Kind)
	}
	// The pattern has no year; the current one is substituted.
	want := time.Date(2026, time.September, 5, 18, 30, 0, 0, time.Local)
	if intent.When == nil || !intent.When.Equal(want) {
		t.Errorf("when = %v, want %v", intent.When, want)
	}
	if intent.Output != 1 || !intent.On {
		t.Errorf("action = Power%d %v, want Power1 true", intent.Output, intent.On)
	}
	if intent.PulseSeconds == nil || *intent.PulseSeconds != 30 {
		t.Errorf("pulse = %v, want 30", intent.PulseSeconds)
	}
	if intent.AutoDisable {
		t.Error("auto-disable detected without a Rule1 0 statement")
	}
}

func TestDecompileAutoDisable(t *testing.T) {
	script := "ON Status#Time=-01-01T00:00 DO Backlog Power2 0; Rule2 0 ENDON"
	intent := decompileAt(script, 2, types.DefaultLimits(), decompileNow)
	if !intent.AutoDisable {
		t.Error("auto-disable not detected")
	}
	if intent.Output != 2 || intent.On {
		t.Errorf("action = Power%d %v, want Power2 false", intent.Output, intent.On)
	}

	// A disable statement for a different slot is not this rule's own.
	other := decompileAt(script, 1, types.DefaultLimits(), decompileNow)
	if other.AutoDisable {
		t.Error("auto-disable detected for the wrong slot")
	}
}

func TestDecompileRelativePulse(t *testing.T) {
	script := "ON Rules#Timer=1 DO Backlog Power1 1; Delay 50; Power1 0 ENDON"
	intent := decompileAt(script, 1, types.DefaultLimits(), decompileNow)
	if intent.Kind != KindRelativePulse {
		t.Fatalf("kind = %s, want RelativePulse", intent.Kind)
	}
	// The armed countdown is not recoverable from the script.
	if intent.StartDelaySeconds != nil {
		t.Errorf("start delay = %v, want nil", *intent.StartDelaySeconds)
	}
	if intent.PulseSeconds == nil || *intent.PulseSeconds != 5 {
		t.Errorf("pulse = %v, want 5", intent.PulseSeconds)
	}
}

func TestDecompileSun(t *testing.T) {
	intent := decompileAt("ON Time#Minute=%Sunset% DO Backlog Power1 1 ENDON", 1, types.DefaultLimits(), decompileNow)
	if intent.Kind != KindSunriseSunset || intent.Sunset == nil || !*intent.Sunset {
		t.Errorf("sunset script parsed as %s (%v)", intent.Kind, intent.Sunset)
	}

	intent = decompileAt("ON Time#Minute=%sunrise% DO Backlog Power1 1 ENDON", 1, types.DefaultLimits(), decompileNow)
	if intent.Kind != KindSunriseSunset || intent.Sunset == nil || *intent.Sunset {
		t.Errorf("sunrise script parsed as %s (%v)", intent.Kind, intent.Sunset)
	}
}

func TestDecompileSunsetWithOffsetKeepsPulse(t *testing.T) {
	// An offset compiles to a lead Delay before the set statement; it must
	// not be read back as the pulse.
	sunset := true
	intent := Intent{
		Kind:          KindSunriseSunset,
		Output:        1,
		On:            true,
		Sunset:        &sunset,
		OffsetMinutes: intp(15),
		PulseSeconds:  intp(300),
	}
	compiled, err := Compile(intent, 1, 0, types.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	back := decompileAt(compiled.Primary, 1, types.DefaultLimits(), decompileNow)
	if back.Kind != KindSunriseSunset {
		t.Fatalf("kind = %s, want SunriseSunset", back.Kind)
	}
	if back.PulseSeconds == nil || *back.PulseSeconds != 300 {
		t.Errorf("pulse = %v, want 300", back.PulseSeconds)
	}
}

func TestDecompileLenientDefaults(t *testing.T) {
	// No Power statement at all: defaults keep the parse total.
	intent := decompileAt("ON Rules#Timer=2 DO Status 0 ENDON", 1, types.DefaultLimits(), decompileNow)
	if intent.Kind != KindRelativePulse {
		t.Fatalf("kind = %s, want RelativePulse", intent.Kind)
	}
	if intent.Output != 1 || !intent.On {
		t.Errorf("defaults = Power%d %v, want Power1 true", intent.Output, intent.On)
	}
	if intent.PulseSeconds != nil {
		t.Errorf("pulse = %v, want nil", *intent.PulseSeconds)
	}
}

func TestDecompileUnknownIsTotal(t *testing.T) {
	scripts := []string{
		"",
		`"`,
		"garbage",
		"ON Time#Initialized DO Power1 1 ENDON",
		"ON Switch1#State DO Publish stat/topic/custom %value% ENDON",
		"Status#Tim=-09-05T18:3", // truncated near-miss
		"{\"Rule1\":\"ON\"}",
	}
	for _, s := range scripts {
		intent := decompileAt(s, 1, types.DefaultLimits(), decompileNow)
		if intent.Kind != KindUnknown {
			t.Errorf("Decompile(%q).Kind = %s, want Unknown", s, intent.Kind)
		}
	}
}

func TestCompileDecompileRoundTrip(t *testing.T) {
	// Round trip through the real compiler, compared field by field
	// because some fields are lossy by design.
	intent := oneShotIntent()
	compiled, err := Compile(intent, 1, 0, types.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	back := decompileAt(compiled.Primary, 1, types.DefaultLimits(), *intent.When)
	if back.Kind != KindOneShot {
		t.Fatalf("kind = %s, want OneShot", back.Kind)
	}
	if back.When == nil || !back.When.Equal(*intent.When) {
		t.Errorf("when = %v, want %v", back.When, *intent.When)
	}
	if back.Output != intent.Output || back.On != intent.On {
		t.Errorf("action = Power%d %v, want Power%d %v", back.Output, back.On, intent.Output, intent.On)
	}
	if back.PulseSeconds == nil || *back.PulseSeconds != *intent.PulseSeconds {
		t.Errorf("pulse = %v, want %v", back.PulseSeconds, *intent.PulseSeconds)
	}
}
