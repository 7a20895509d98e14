package handball

import (
	"fmt"
	"strconv"
	"strings"
)

// Time band labels. A band is a five-minute slice of total match time;
// twelve bands cover a regulation 60-minute match.
var (
	TimeBandsFirst  = []string{"00~05", "05~10", "10~15", "15~20", "20~25", "25~30"}
	TimeBandsSecond = []string{"30~35", "35~40", "40~45", "45~50", "50~55", "55~60"}
	TimeBands       = append(append([]string{}, TimeBandsFirst...), TimeBandsSecond...)
)

// PeriodForHalf maps a 1-based half number to a period: odd halves are
// first, even halves second. Extension periods keep alternating.
func PeriodForHalf(half int) string {
	if half%2 == 0 {
		return PeriodSecond
	}
	return PeriodFirst
}

// FormatClock renders whole seconds of elapsed half time as "MM:SS".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock parses a "MM:SS" string back to whole seconds.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	return mins*60 + secs, nil
}

// halfOffsetMinutes returns the total match minutes elapsed before the
// given half starts. Halves 1 and 2 are regulation, 3 and up are
// five-minute extension periods appended after two regulation halves.
func halfOffsetMinutes(half, halfDuration int) int {
	switch {
	case half <= 1:
		return 0
	case half == 2:
		return halfDuration
	case half == 3:
		return 2 * halfDuration
	default:
		return 2*halfDuration + (half-3)*5
	}
}

// TimeBandAt maps a clock position inside a half to its band label.
// elapsedSeconds counts from the start of the half; halfDuration is the
// regulation half length in minutes. The label is derived, not looked
// up: extension play past 60 total minutes yields labels outside the
// fixed vocabulary, which the aggregator's per-band buckets then skip
// while the flat counters still accrue.
func TimeBandAt(elapsedSeconds, half, halfDuration int) string {
	offset := halfOffsetMinutes(half, halfDuration)
	start := (elapsedSeconds/60)/5*5 + offset
	return fmt.Sprintf("%02d~%02d", start, start+5)
}

// TimeBandForClock derives a band label from an edited "MM:SS" value
// alone. Used when an operator corrects the exact time of a logged
// event: the minute component snaps to its five-minute bucket.
func TimeBandForClock(exact string) (string, bool) {
	secs, err := ParseClock(exact)
	if err != nil {
		return "", false
	}
	start := (secs / 60) / 5 * 5
	return fmt.Sprintf("%02d~%02d", start, start+5), true
}
