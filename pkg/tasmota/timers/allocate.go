package timers

import (
	"encoding/json"
	"fmt"

	"github.com/homectl/go-tasmota/pkg/tasmota/daymask"
	"github.com/homectl/go-tasmota/pkg/tasmota/devtime"
	"github.com/homectl/go-tasmota/pkg/tasmota/rules"
	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Strategy selects how a shared on/off daily schedule is laid onto the
// device.
type Strategy uint

const (
	// StrategyTimers consumes two native timer slots per output, one ON
	// and one OFF, with day-of-week filtering.
	StrategyTimers Strategy = iota
	// StrategyRuleBacklog composes a single rule script with two
	// minute-of-day triggers switching all outputs together. The rule
	// triggers fire every day: the Days field of the plan has no effect
	// in this strategy (trigger-form limitation, intentionally not
	// papered over).
	StrategyRuleBacklog
)

func (s Strategy) String() string {
	return [...]string{"Timers", "RuleBacklog"}[s]
}

// Plan describes a multi-output daily schedule: every output in Outputs
// turns on at On and off at Off, on the days in Days.
type Plan struct {
	Days      daymask.Set
	On        string // "HH:mm", strict 24-hour
	Off       string // "HH:mm", strict 24-hour
	Outputs   []int  // relay indices, in allocation order
	Strategy  Strategy
	StartSlot int // first timer slot, StrategyTimers only
	RuleIndex int // target rule slot, StrategyRuleBacklog only
}

// Allocate validates the plan and returns the ordered device commands that
// install it. Nothing is sent here; see Apply. All validation happens before
// the first command is produced, so a returned error means the device was
// not touched.
func Allocate(plan Plan, limits types.Limits) ([]string, error) {
	if len(plan.Outputs) == 0 {
		return nil, fmt.Errorf("%w: plan needs at least one output", types.ErrMissingField)
	}
	for _, o := range plan.Outputs {
		if o < 1 || o > limits.Relays {
			return nil, fmt.Errorf("%w: output %d not in [1,%d]", types.ErrOutOfRange, o, limits.Relays)
		}
	}
	onHour, onMinute, err := devtime.ParseHHMM(plan.On)
	if err != nil {
		return nil, err
	}
	offHour, offMinute, err := devtime.ParseHHMM(plan.Off)
	if err != nil {
		return nil, err
	}

	switch plan.Strategy {
	case StrategyTimers:
		return allocateTimers(plan, limits)
	case StrategyRuleBacklog:
		return allocateRuleBacklog(plan, limits, onHour*60+onMinute, offHour*60+offMinute)
	default:
		return nil, fmt.Errorf("%w: allocation strategy %d", types.ErrUnsupportedVariant, plan.Strategy)
	}
}

func allocateTimers(plan Plan, limits types.Limits) ([]string, error) {
	needed := 2 * len(plan.Outputs)
	if plan.StartSlot < 1 || plan.StartSlot+needed-1 > limits.TimerSlots {
		return nil, fmt.Errorf("%w: %d slots starting at %d exceed [1,%d]",
			types.ErrInsufficientSlots, needed, plan.StartSlot, limits.TimerSlots)
	}

	mask := daymask.Encode(plan.Days)
	cmds := make([]string, 0, needed+1)
	slot := plan.StartSlot
	for _, output := range plan.Outputs {
		for _, edge := range []struct {
			at     string
			action Action
		}{
			{plan.On, ActionOn},
			{plan.Off, ActionOff},
		} {
			payload, err := json.Marshal(Slot{
				Enable: 1,
				Mode:   ModeClock,
				Time:   edge.at,
				Window: 0,
				Days:   mask,
				Repeat: 1,
				Output: output,
				Action: edge.action,
			})
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, fmt.Sprintf("Timer%d %s", slot, payload))
			slot++
		}
	}
	// The per-slot Enable flags are inert until the timer subsystem itself
	// is switched on.
	cmds = append(cmds, "Timers 1")
	return cmds, nil
}

func allocateRuleBacklog(plan Plan, limits types.Limits, onMinute int, offMinute int) ([]string, error) {
	if plan.RuleIndex < 1 || plan.RuleIndex > limits.RuleSlots {
		return nil, fmt.Errorf("%w: rule slot %d not in [1,%d]", types.ErrOutOfRange, plan.RuleIndex, limits.RuleSlots)
	}

	script := rules.OnMinute(onMinute, rules.BuildMultiBacklog(plan.Outputs, true)) +
		" " +
		rules.OnMinute(offMinute, rules.BuildMultiBacklog(plan.Outputs, false))

	return []string{
		fmt.Sprintf("Rule%d %s", plan.RuleIndex, script),
		fmt.Sprintf("Rule%d 1", plan.RuleIndex),
	}, nil
}
