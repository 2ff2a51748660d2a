package rules

import (
	"testing"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

func TestBuildBacklogNoPulse(t *testing.T) {
	limits := types.DefaultLimits()
	got := BuildBacklog(1, true, 0, false, 0, limits)
	if got != "Backlog Power1 1" {
		t.Errorf("BuildBacklog = %q, want %q", got, "Backlog Power1 1")
	}
	// A zero-length pulse is operationally meaningless: same output as no
	// pulse at all.
	if neg := BuildBacklog(1, true, -3, false, 0, limits); neg != got {
		t.Errorf("negative pulse gave %q, want %q", neg, got)
	}
}

func TestBuildBacklogPulse(t *testing.T) {
	got := BuildBacklog(1, true, 5, false, 0, types.DefaultLimits())
	want := "Backlog Power1 1; Delay 50; Power1 0"
	if got != want {
		t.Errorf("BuildBacklog = %q, want %q", got, want)
	}
}

func TestBuildBacklogPulseOff(t *testing.T) {
	// Pulsing an OFF action reverts to ON.
	got := BuildBacklog(2, false, 30, false, 0, types.DefaultLimits())
	want := "Backlog Power2 0; Delay 300; Power2 1"
	if got != want {
		t.Errorf("BuildBacklog = %q, want %q", got, want)
	}
}

func TestBuildBacklogAutoDisable(t *testing.T) {
	// Auto-disable applies with or without a pulse.
	got := BuildBacklog(1, true, 0, true, 3, types.DefaultLimits())
	want := "Backlog Power1 1; Rule3 0"
	if got != want {
		t.Errorf("BuildBacklog = %q, want %q", got, want)
	}

	got = BuildBacklog(1, true, 5, true, 1, types.DefaultLimits())
	want = "Backlog Power1 1; Delay 50; Power1 0; Rule1 0"
	if got != want {
		t.Errorf("BuildBacklog = %q, want %q", got, want)
	}
}

func TestBuildBacklogDelayUnit(t *testing.T) {
	limits := types.DefaultLimits()
	limits.DelayUnitsPerSecond = 1 // hypothetical seconds-based firmware
	got := BuildBacklog(1, true, 5, false, 0, limits)
	want := "Backlog Power1 1; Delay 5; Power1 0"
	if got != want {
		t.Errorf("BuildBacklog = %q, want %q", got, want)
	}
}

func TestBuildMultiBacklog(t *testing.T) {
	got := BuildMultiBacklog([]int{1, 2, 4}, true)
	want := "Backlog Power1 1; Power2 1; Power4 1"
	if got != want {
		t.Errorf("BuildMultiBacklog = %q, want %q", got, want)
	}
	got = BuildMultiBacklog([]int{2, 1}, false)
	want = "Backlog Power2 0; Power1 0"
	if got != want {
		t.Errorf("BuildMultiBacklog = %q, want %q", got, want)
	}
}
