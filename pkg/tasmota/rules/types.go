package rules

// <https://tasmota.github.io/docs/Rules/>

import (
	"time"
)

// IntentKind tags the scheduling intent variants the compiler understands.
type IntentKind uint

const (
	KindUnknown IntentKind = iota
	KindOneShot
	KindRelativePulse
	KindSunriseSunset
)

func (k IntentKind) String() string {
	return [...]string{"Unknown", "OneShot", "RelativePulse", "SunriseSunset"}[k]
}

// Intent is a high-level scheduling request. Kind selects the variant;
// pointer fields are optional, and the compiler rejects an intent whose
// variant-required fields are nil.
type Intent struct {
	Kind IntentKind

	Output int  // relay index, 1-based
	On     bool // target state when the trigger fires

	// OneShot: absolute local date-time at which to fire. The compiled
	// pattern drops the year (device limitation).
	When *time.Time

	// RelativePulse: seconds from "now" until the countdown fires. Not
	// recoverable by the decompiler once armed.
	StartDelaySeconds *int

	// Optional pulse: seconds until the output reverts to the opposite
	// state. Required for RelativePulse.
	PulseSeconds *int

	// SunriseSunset: true anchors on sunset, false on sunrise.
	Sunset *bool

	// SunriseSunset: signed minutes from the anchor event. The compiled
	// script always delays by the absolute value; see the compiler note.
	OffsetMinutes *int

	// Append a statement disabling the rule slot after it fired once.
	AutoDisable bool
}

// Compiled is the output of Compile: one primary rule script plus, for
// one-shot intents, an auxiliary nudge script in a second slot.
type Compiled struct {
	Primary      string
	PrimaryIndex int

	// Auxiliary is empty unless the intent needs a status-refresh trigger.
	Auxiliary      string
	AuxiliaryIndex int
}

// Slot mirrors the device's answer to a bare "Rule<n>" query.
type Slot struct {
	Index       int
	Enabled     bool
	Once        bool
	StopOnError bool
	Length      int
	Free        int
	Script      string
}
