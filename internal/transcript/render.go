package transcript

import (
	"fmt"
	"strings"
)

// RenderSRT serializes segments as subtitle blocks:
//
//	1
//	00:00:00,000 - 00:00:05,000
//	text
//
// Indexes are 1-based and every block ends with a blank line.
func RenderSRT(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s - %s\n", FormatTimecode(seg.Start), FormatTimecode(seg.End))
		b.WriteString(strings.TrimSpace(seg.Text) + "\n\n")
	}
	return b.String()
}

// RenderTimecoded serializes segments as one "[start --> end]  text" line each.
// This is the form the synopsis pipeline consumes.
func RenderTimecoded(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "[%s --> %s]  %s\n", FormatTimecode(seg.Start), FormatTimecode(seg.End), strings.TrimSpace(seg.Text))
	}
	return b.String()
}
