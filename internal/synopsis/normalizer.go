package synopsis

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	// reBareTimecode matches 10:15 or 01:07:33 not glued to other digits.
	reBareTimecode = regexp2.MustCompile(`(?<!\d)(\d{1,2}:\d{2}(?::\d{2})?)(?!\d)`, regexp2.None)
	reMilliseconds = regexp.MustCompile(`(\d{2}(?::\d{2}){1,2})[.,]\d{3}`)
)

// NormalizeReport describes how timecodes were reattached.
type NormalizeReport struct {
	Timecodes int
	Lines     int
	// Mismatch is set when timecode and line counts differ (positional mode)
	// or when some line did not carry exactly one timecode (strict mode).
	Mismatch bool
}

// CutMilliseconds drops the millisecond part of every HH:MM:SS.mmm or
// MM:SS,mmm timecode in text.
func CutMilliseconds(text string) string {
	return reMilliseconds.ReplaceAllString(text, "$1")
}

// Normalize pulls every bare timecode out of raw, canonicalizes it to
// HH:MM:SS and appends the i-th timecode to the i-th non-blank line.
// Lines past the number of timecodes keep none; surplus timecodes are dropped.
// Every blank line is removed before pairing, including ones between summary
// lines, so a blank line never consumes a timecode.
func Normalize(raw string) (string, NormalizeReport) {
	timecodes := findTimecodes(raw)
	lines := nonBlankLines(removeTimecodes(raw))

	report := NormalizeReport{
		Timecodes: len(timecodes),
		Lines:     len(lines),
		Mismatch:  len(timecodes) != len(lines),
	}

	for i := range lines {
		if i < len(timecodes) {
			lines[i] += timecodes[i]
		}
	}

	return strings.Join(lines, "\n"), report
}

// NormalizeStrict works line by line: a line holding exactly one timecode
// gets it moved to the end in canonical form; any other line only has its
// timecodes canonicalized in place. A timecode never moves to another line.
func NormalizeStrict(raw string) (string, NormalizeReport) {
	var report NormalizeReport

	lines := nonBlankLines(raw)
	for i, line := range lines {
		timecodes := findTimecodes(line)
		report.Timecodes += len(timecodes)

		if len(timecodes) == 1 {
			lines[i] = removeTimecodes(line) + timecodes[0]
			continue
		}

		report.Mismatch = true
		lines[i] = canonicalizeInPlace(line)
	}
	report.Lines = len(lines)

	return strings.Join(lines, "\n"), report
}

// Canonical expands a bare timecode to zero-padded HH:MM:SS.
func Canonical(tc string) string {
	parts := strings.Split(tc, ":")
	for i, p := range parts {
		if len(p) == 1 {
			parts[i] = "0" + p
		}
	}
	if len(parts) == 2 {
		parts = append([]string{"00"}, parts...)
	}
	return strings.Join(parts, ":")
}

func findTimecodes(s string) []string {
	var out []string
	m, err := reBareTimecode.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, Canonical(m.String()))
		m, err = reBareTimecode.FindNextMatch(m)
	}
	return out
}

func removeTimecodes(s string) string {
	out, err := reBareTimecode.Replace(s, "", -1, -1)
	if err != nil {
		return s
	}
	return out
}

func canonicalizeInPlace(s string) string {
	out, err := reBareTimecode.ReplaceFunc(s, func(m regexp2.Match) string {
		return Canonical(m.String())
	}, -1, -1)
	if err != nil {
		return s
	}
	return out
}

func nonBlankLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
