package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reSRTRange      = regexp.MustCompile(`^\s*(\d+:\d{2}:\d{2}(?:[,.]\d{1,3})?)\s*(?:-->|-)\s*(\d+:\d{2}:\d{2}(?:[,.]\d{1,3})?)\s*$`)
	reTimecodedLine = regexp.MustCompile(`^\[(\d+:\d{2}:\d{2}(?:[,.]\d{1,3})?) --> (\d+:\d{2}:\d{2}(?:[,.]\d{1,3})?)\]\s*(.*)$`)
)

// ParseSRT reads subtitle blocks produced by RenderSRT. The standard "-->"
// arrow is accepted as well, so whisper.cpp output can be ingested directly.
func ParseSRT(content string) ([]Segment, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	var segments []Segment
	for n, block := range strings.Split(content, "\n\n") {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}

		if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("block %d: missing time range", n+1)
		}

		m := reSRTRange.FindStringSubmatch(lines[0])
		if m == nil {
			return nil, fmt.Errorf("block %d: invalid time range %q", n+1, lines[0])
		}

		seg, err := newSegment(m[1], m[2], strings.Join(lines[1:], "\n"))
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", n+1, err)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// ParseTimecoded reads the "[start --> end]  text" lines produced by RenderTimecoded.
// Blank lines are ignored.
func ParseTimecoded(content string) ([]Segment, error) {
	var segments []Segment
	for n, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := reTimecodedLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: missing timecode prefix", n+1)
		}

		seg, err := newSegment(m[1], m[2], m[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

func newSegment(startTC, endTC, text string) (Segment, error) {
	start, err := ParseTimecode(startTC)
	if err != nil {
		return Segment{}, err
	}
	end, err := ParseTimecode(endTC)
	if err != nil {
		return Segment{}, err
	}
	return Segment{Start: start, End: end, Text: strings.TrimSpace(text)}, nil
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
