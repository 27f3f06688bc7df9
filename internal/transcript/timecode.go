package transcript

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var reTimecode = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})(?:[,.](\d{1,3}))?$`)

// FormatTimecode renders seconds as zero-padded HH:MM:SS,mmm, rounded to the
// nearest millisecond. Negative and non-finite input renders as zero.
func FormatTimecode(seconds float64) string {
	ms := toMillis(seconds)
	h := ms / 3600000
	m := (ms / 60000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// ParseTimecode is the inverse of FormatTimecode. It accepts either ',' or
// '.' as the millisecond separator and tolerates a missing millisecond part.
func ParseTimecode(tc string) (float64, error) {
	m := reTimecode.FindStringSubmatch(tc)
	if m == nil {
		return 0, fmt.Errorf("invalid timecode %q", tc)
	}

	h, _ := strconv.ParseInt(m[1], 10, 64)
	min, _ := strconv.ParseInt(m[2], 10, 64)
	sec, _ := strconv.ParseInt(m[3], 10, 64)
	if min > 59 || sec > 59 {
		return 0, fmt.Errorf("invalid timecode %q", tc)
	}

	var ms int64
	if m[4] != "" {
		frac := m[4]
		for len(frac) < 3 {
			frac += "0"
		}
		ms, _ = strconv.ParseInt(frac, 10, 64)
	}

	total := ((h*60+min)*60+sec)*1000 + ms
	return float64(total) / 1000, nil
}

func toMillis(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}
