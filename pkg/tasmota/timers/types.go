package timers

// <https://tasmota.github.io/docs/Timers/>

// Action is what a timer does to its output when it fires.
type Action int

const (
	ActionOff Action = iota
	ActionOn
	ActionToggle
	ActionRule // fire a rule trigger instead of switching
)

// Mode anchors the timer time: wall clock, or relative to sunrise/sunset.
type Mode int

const (
	ModeClock Mode = iota
	ModeSunrise
	ModeSunset
)

// Slot is the JSON payload of a Timer<n> write. Field order matters only
// for readability of the command log; the firmware parses by name.
type Slot struct {
	Enable int    `json:"Enable"`
	Mode   Mode   `json:"Mode"`
	Time   string `json:"Time"` // "HH:mm"
	Window int    `json:"Window"`
	Days   string `json:"Days"` // 7-char day mask, Sunday first
	Repeat int    `json:"Repeat"`
	Output int    `json:"Output"`
	Action Action `json:"Action"`
}
