package types

import (
	"context"
)

// Channel selects the transport used to reach a device.
type Channel uint

const (
	ChannelHttp Channel = iota
	ChannelMqtt
)

func (ch Channel) String() string {
	return [...]string{"Http", "Mqtt"}[ch]
}

// Commander sends one textual console command to a device and returns the
// raw response body, usually a small JSON object echoed by the firmware.
type Commander interface {
	SendE(ctx context.Context, cmd string) (string, error)
}

// Device is a single Tasmota unit reachable over one or more channels.
type Device interface {
	String() string
	Id() string
	CallE(ctx context.Context, via Channel, cmd string) (string, error)
	Limits() Limits
}

// Limits captures the capacity of a device generation. Different firmware
// builds ship different relay counts and slot pools, so none of these are
// hardcoded in the compilers.
type Limits struct {
	Relays              int // valid relay outputs are 1..Relays
	TimerSlots          int // native weekly timers, 1..TimerSlots
	RuleSlots           int // persistent rule scripts, 1..RuleSlots
	RuleTimers          int // named countdown timers armed via RuleTimer<n>
	DelayUnitsPerSecond int // Delay counts in deciseconds on stock firmware
}

// DefaultLimits matches stock Tasmota firmware.
func DefaultLimits() Limits {
	return Limits{
		Relays:              8,
		TimerSlots:          16,
		RuleSlots:           3,
		RuleTimers:          8,
		DelayUnitsPerSecond: 10,
	}
}
