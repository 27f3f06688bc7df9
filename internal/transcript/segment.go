// Package transcript holds the time-coded segment model shared by every
// pipeline stage and its two on-disk renderings: SubRip-style subtitles and
// the human-readable "[start --> end]  text" transcript.
package transcript

// Segment is one time-coded unit of transcribed speech. Start and End are
// seconds from the beginning of the media. Segments are never mutated once
// produced; a slice of them is ordered chronologically.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript bundles the segments produced for one media file.
type Transcript struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Duration returns the end of the last segment, in seconds.
func (t Transcript) Duration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}
