package rules

import (
	"fmt"

	"github.com/homectl/go-tasmota/pkg/tasmota/devtime"
	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Trigger markers. The decompiler keys on the same strings, so keep the two
// files in sync when the template format evolves.
const (
	localTimeTrigger = "Status#Time="
	minuteTrigger    = "Time#Minute="
	countdownTrigger = "Rules#Timer="
	sunriseAnchor    = "%Sunrise%"
	sunsetAnchor     = "%Sunset%"

	// statusRefresh forces the device to re-read its status. The
	// Status#Time trigger is only evaluated when a status result comes in,
	// so one-shot rules need this nudge at the target minute.
	statusRefresh = "Status 0"
)

func rule(trigger string, action string) string {
	return fmt.Sprintf("ON %s DO %s ENDON", trigger, action)
}

// OnMinute builds a trigger block firing every day at the given minute of
// day. Used by the timer allocator's rule-backlog strategy; note there is no
// day-of-week filter in this trigger form.
func OnMinute(minute int, action string) string {
	return rule(fmt.Sprintf("%s%d", minuteTrigger, minute), action)
}

// Compile translates an intent into device rule scripts for the given rule
// slot. timerIndex names the countdown timer used by relative-pulse intents
// (armed separately with ArmTimer). The result is inert until written and
// enabled on the device; see Apply.
func Compile(intent Intent, ruleIndex int, timerIndex int, limits types.Limits) (*Compiled, error) {
	if ruleIndex < 1 || ruleIndex > limits.RuleSlots {
		return nil, fmt.Errorf("%w: rule slot %d not in [1,%d]", types.ErrOutOfRange, ruleIndex, limits.RuleSlots)
	}
	if intent.Output < 1 || intent.Output > limits.Relays {
		return nil, fmt.Errorf("%w: output %d not in [1,%d]", types.ErrOutOfRange, intent.Output, limits.Relays)
	}

	switch intent.Kind {
	case KindOneShot:
		return compileOneShot(intent, ruleIndex, limits)
	case KindRelativePulse:
		return compileRelativePulse(intent, ruleIndex, timerIndex, limits)
	case KindSunriseSunset:
		return compileSunriseSunset(intent, ruleIndex, limits)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedVariant, intent.Kind)
	}
}

func compileOneShot(intent Intent, ruleIndex int, limits types.Limits) (*Compiled, error) {
	if intent.When == nil {
		return nil, fmt.Errorf("%w: one-shot intent needs a target date-time", types.ErrMissingField)
	}

	pulse := 0
	if intent.PulseSeconds != nil {
		pulse = *intent.PulseSeconds
	}
	action := backlog(backlogStatements(intent.Output, intent.On, pulse, intent.AutoDisable, ruleIndex, limits))
	primary := rule(localTimeTrigger+devtime.OneShotPattern(*intent.When), action)

	// The auxiliary rule makes the device re-read its status at the target
	// minute, which is what actually evaluates the Status#Time match. It
	// lives in the next rule slot, wrapping back to 1 from the last slot.
	auxIndex := ruleIndex + 1
	if ruleIndex == limits.RuleSlots {
		auxIndex = 1
	}
	aux := rule(fmt.Sprintf("%s%d", minuteTrigger, devtime.MinuteOfDay(*intent.When)), statusRefresh)

	return &Compiled{
		Primary:        primary,
		PrimaryIndex:   ruleIndex,
		Auxiliary:      aux,
		AuxiliaryIndex: auxIndex,
	}, nil
}

func compileRelativePulse(intent Intent, ruleIndex int, timerIndex int, limits types.Limits) (*Compiled, error) {
	if intent.StartDelaySeconds == nil {
		return nil, fmt.Errorf("%w: relative pulse intent needs a start delay", types.ErrMissingField)
	}
	if intent.PulseSeconds == nil {
		return nil, fmt.Errorf("%w: relative pulse intent needs a pulse length", types.ErrMissingField)
	}
	if timerIndex < 1 || timerIndex > limits.RuleTimers {
		return nil, fmt.Errorf("%w: rule timer %d not in [1,%d]", types.ErrOutOfRange, timerIndex, limits.RuleTimers)
	}

	action := backlog(backlogStatements(intent.Output, intent.On, *intent.PulseSeconds, intent.AutoDisable, ruleIndex, limits))
	primary := rule(fmt.Sprintf("%s%d", countdownTrigger, timerIndex), action)

	return &Compiled{Primary: primary, PrimaryIndex: ruleIndex}, nil
}

func compileSunriseSunset(intent Intent, ruleIndex int, limits types.Limits) (*Compiled, error) {
	if intent.Sunset == nil {
		return nil, fmt.Errorf("%w: sunrise/sunset intent needs the anchor selector", types.ErrMissingField)
	}

	anchor := sunriseAnchor
	if *intent.Sunset {
		anchor = sunsetAnchor
	}

	pulse := 0
	if intent.PulseSeconds != nil {
		pulse = *intent.PulseSeconds
	}
	stmts := backlogStatements(intent.Output, intent.On, pulse, intent.AutoDisable, ruleIndex, limits)

	// A non-zero offset delays the whole action relative to the anchor.
	// The sign is not encoded: a "before" offset behaves like "after".
	// Known quirk carried over from the script format, kept rather than
	// silently reinterpreted.
	if intent.OffsetMinutes != nil && *intent.OffsetMinutes != 0 {
		offset := *intent.OffsetMinutes
		if offset < 0 {
			offset = -offset
		}
		lead := fmt.Sprintf("Delay %d", offset*60*limits.DelayUnitsPerSecond)
		stmts = append([]string{lead}, stmts...)
	}

	primary := rule(minuteTrigger+anchor, backlog(stmts))
	return &Compiled{Primary: primary, PrimaryIndex: ruleIndex}, nil
}
