package daymask

// <https://tasmota.github.io/docs/Timers/>
//
// Timers carry a 7-character day mask, one position per weekday starting at
// Sunday. The firmware treats any character other than '-' as active.

import (
	"fmt"
	"strings"
	"time"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

const (
	Length   = 7
	Inactive = '-'
	Active   = '1'
)

// Set is a set of weekdays. time.Weekday numbers Sunday as 0, which matches
// the device's mask positions.
type Set map[time.Weekday]struct{}

func NewSet(days ...time.Weekday) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s Set) Has(d time.Weekday) bool {
	_, ok := s[d]
	return ok
}

func (s Set) String() string {
	return Encode(s)
}

// Encode renders the mask. An empty set yields "-------", which the device
// accepts (useful together with one-shot triggers where the day filter is
// irrelevant).
func Encode(s Set) string {
	var b strings.Builder
	b.Grow(Length)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			b.WriteByte(Active)
		} else {
			b.WriteByte(Inactive)
		}
	}
	return b.String()
}

// Decode is the inverse of Encode. Any character other than Inactive marks
// the position active, so masks written by other tools round-trip too.
func Decode(mask string) (Set, error) {
	if len(mask) != Length {
		return nil, fmt.Errorf("%w: day mask %q must be exactly %d characters", types.ErrInvalidFormat, mask, Length)
	}
	s := make(Set)
	for i := 0; i < Length; i++ {
		if mask[i] != Inactive {
			s[time.Weekday(i)] = struct{}{}
		}
	}
	return s, nil
}
