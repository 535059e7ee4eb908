package format

import (
	"fmt"
	"math"
)

// VideoLength converts seconds to "M:SS" display format. Minutes are not
// wrapped into hours; a 75 minute lesson renders as "75:00".
func VideoLength(seconds float64) string {
	if seconds < 0 {
		return "0:00"
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// DurationMinutes rounds seconds to the nearest whole minute.
func DurationMinutes(seconds float64) int {
	if seconds < 0 {
		return 0
	}
	return int(math.Round(seconds / 60))
}

// MinutesSeconds splits seconds into whole minutes and leftover seconds.
func MinutesSeconds(seconds float64) (int, int) {
	if seconds < 0 {
		return 0, 0
	}
	s := int(math.Round(seconds))
	return s / 60, s % 60
}
