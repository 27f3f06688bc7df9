package report

import (
	"regexp"
	"strings"
)

var (
	reTrailingTimecode = regexp.MustCompile(`^(.*?)[\s\-–—]*(\d{2}:\d{2}:\d{2})\s*$`)
	reBullet           = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s+`)
)

// SplitTimecode separates a normalized synopsis line into its text and
// trailing timecode. The separator dash between them is dropped.
func SplitTimecode(line string) (text, tc string) {
	m := reTrailingTimecode.FindStringSubmatch(line)
	if m == nil {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// bulletText strips a leading list marker.
func bulletText(line string) string {
	return reBullet.ReplaceAllString(line, "")
}
