package synopsis

import (
	"context"
	"time"
)

// Synopsizer turns a timecoded transcript into a titled, timestamped synopsis.
type Synopsizer interface {
	// FullProcess runs the whole pipeline: millisecond cleanup, chunked
	// summarization, timecode normalization and title generation.
	FullProcess(ctx context.Context, text string) (Result, error)
	// Summarize returns the raw, not yet normalized, summary of text.
	Summarize(ctx context.Context, text string) (string, error)
}

// Recorder receives pipeline measurements. metrics.Metrics implements it.
type Recorder interface {
	ObserveCompletion(kind string, elapsed time.Duration, err error)
	ObserveChunks(n int)
	ObserveTimecodeMismatch()
}

type nopRecorder struct{}

func (nopRecorder) ObserveCompletion(string, time.Duration, error) {}
func (nopRecorder) ObserveChunks(int) {}
func (nopRecorder) ObserveTimecodeMismatch() {}
