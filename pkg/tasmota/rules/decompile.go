package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Best-effort reverse parse of an installed rule script. This is a lossy,
// mostly-invertible inspection aid, not a grammar for the device's rule
// language: it recognizes the templates Compile emits and degrades to
// KindUnknown for anything else. It never fails.
//
// Known losses: the year of a one-shot (the pattern omits it; the current
// year is substituted), the armed countdown of a relative pulse, and the
// minute offset of a sunrise/sunset rule. Callers needing exact round-trip
// fidelity must compare against the intent they originally compiled.

var (
	localTimeRe = regexp.MustCompile(`Status#Time=-(\d{2})-(\d{2})T(\d{2}):(\d{2})`)
	countdownRe = regexp.MustCompile(`Rules#Timer=(\d+)`)
	sunRe       = regexp.MustCompile(`(?i)%(sunrise|sunset)%`)
	powerRe     = regexp.MustCompile(`Power(\d+) ([01])`)
	// The pulse is the delay wedged between the set statement and its
	// revert. A sunrise/sunset offset also compiles to a Delay, but it
	// precedes the set statement, so requiring the leading Power keeps the
	// two apart.
	pulseRe = regexp.MustCompile(`Power\d+ [01]` + statementSeparator + `Delay (\d+)` + statementSeparator + `Power\d+ [01]`)
)

// Decompile parses script back into an intent, resolving the year-less
// one-shot pattern against the current local time.
func Decompile(script string, ruleIndex int, limits types.Limits) Intent {
	return decompileAt(script, ruleIndex, limits, time.Now())
}

func decompileAt(script string, ruleIndex int, limits types.Limits, now time.Time) Intent {
	if m := localTimeRe.FindStringSubmatch(script); m != nil {
		intent := actionIntent(script, ruleIndex, limits)
		intent.Kind = KindOneShot
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		hour, _ := strconv.Atoi(m[3])
		minute, _ := strconv.Atoi(m[4])
		when := time.Date(now.Year(), time.Month(month), day, hour, minute, 0, 0, now.Location())
		intent.When = &when
		return intent
	}

	if countdownRe.MatchString(script) {
		intent := actionIntent(script, ruleIndex, limits)
		intent.Kind = KindRelativePulse
		// StartDelaySeconds stays nil: the device does not report the
		// countdown value the timer was armed with.
		return intent
	}

	if m := sunRe.FindStringSubmatch(script); m != nil {
		intent := actionIntent(script, ruleIndex, limits)
		intent.Kind = KindSunriseSunset
		sunset := strings.EqualFold(m[1], "sunset")
		intent.Sunset = &sunset
		return intent
	}

	return Intent{Kind: KindUnknown}
}

// actionIntent extracts the common action fields: output, target state,
// pulse length, auto-disable. Defaults (output 1, state on) keep the parse
// total when a sub-pattern is absent.
func actionIntent(script string, ruleIndex int, limits types.Limits) Intent {
	intent := Intent{Output: 1, On: true}

	if m := powerRe.FindStringSubmatch(script); m != nil {
		intent.Output, _ = strconv.Atoi(m[1])
		intent.On = m[2] == "1"
	}
	if m := pulseRe.FindStringSubmatch(script); m != nil {
		deci, _ := strconv.Atoi(m[1])
		pulse := deci / limits.DelayUnitsPerSecond
		intent.PulseSeconds = &pulse
	}
	if strings.Contains(script, fmt.Sprintf("Rule%d 0", ruleIndex)) {
		intent.AutoDisable = true
	}

	return intent
}
