package devtime

// Conversions between Go time values and the textual forms the device
// understands: "HH:mm" timer times, minute-of-day rule triggers, and the
// year-less "-MM-ddTHH:mm" pattern matched against the device's local time.

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// HHMM renders a 24-hour zero-padded time string, e.g. "18:30".
func HHMM(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MinuteOfDay returns hours*60+minutes, in [0,1439].
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// OneShotPattern renders the partial-date form "-MM-ddTHH:mm". The leading
// dash makes the device's string match ignore the year component, so the
// pattern fires on month/day/hour/minute only.
func OneShotPattern(t time.Time) string {
	return fmt.Sprintf("-%02d-%02dT%02d:%02d", int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseHHMM parses a strict zero-padded 24-hour "HH:mm" string.
// time.Parse is too lenient here (it accepts "8:30"), and schedules written
// with ambiguous hours have bitten people before, so this is a regexp.
func ParseHHMM(s string) (hour int, minute int, err error) {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q is not a 24-hour HH:mm time", types.ErrInvalidFormat, s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}
