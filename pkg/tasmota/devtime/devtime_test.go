package devtime

import (
	"errors"
	"testing"
	"time"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.September, 5, hour, minute, 42, 0, time.Local)
}

func TestHHMM(t *testing.T) {
	tests := map[time.Time]string{
		at(0, 0):   "00:00",
		at(8, 5):   "08:05",
		at(18, 30): "18:30",
		at(23, 59): "23:59",
	}
	for tm, want := range tests {
		if got := HHMM(tm); got != want {
			t.Errorf("HHMM(%v) = %q, want %q", tm, got, want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	tests := map[time.Time]int{
		at(0, 0):   0,
		at(18, 30): 1110,
		at(23, 59): 1439,
	}
	for tm, want := range tests {
		got := MinuteOfDay(tm)
		if got != want {
			t.Errorf("MinuteOfDay(%v) = %d, want %d", tm, got, want)
		}
		if got < 0 || got > 1439 {
			t.Errorf("MinuteOfDay(%v) = %d out of [0,1439]", tm, got)
		}
	}
}

func TestOneShotPattern(t *testing.T) {
	tm := time.Date(2025, time.September, 5, 18, 30, 0, 0, time.Local)
	if got := OneShotPattern(tm); got != "-09-05T18:30" {
		t.Errorf("OneShotPattern = %q, want -09-05T18:30", got)
	}
	tm = time.Date(2031, time.December, 31, 0, 5, 0, 0, time.Local)
	if got := OneShotPattern(tm); got != "-12-31T00:05" {
		t.Errorf("OneShotPattern = %q, want -12-31T00:05", got)
	}
}

func TestParseHHMM(t *testing.T) {
	good := map[string][2]int{
		"00:00": {0, 0},
		"08:30": {8, 30},
		"18:30": {18, 30},
		"23:59": {23, 59},
	}
	for s, want := range good {
		h, m, err := ParseHHMM(s)
		if err != nil {
			t.Errorf("ParseHHMM(%q): %v", s, err)
			continue
		}
		if h != want[0] || m != want[1] {
			t.Errorf("ParseHHMM(%q) = %d:%d, want %d:%d", s, h, m, want[0], want[1])
		}
	}

	bad := []string{"", "8:30", "24:00", "18:60", "1830", "18:30:00", "6:05 PM", "aa:bb"}
	for _, s := range bad {
		if _, _, err := ParseHHMM(s); !errors.Is(err, types.ErrInvalidFormat) {
			t.Errorf("ParseHHMM(%q) = %v, want ErrInvalidFormat", s, err)
		}
	}
}
