package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/synopsis-flow/internal/report"
	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
	"github.com/nguyentantai21042004/synopsis-flow/internal/transcript"
)

// Processor runs uploads through transcription and summarization.
type Processor interface {
	// Process handles one media file end to end.
	Process(ctx context.Context, mediaPath string) (Outcome, error)
	// Summarize builds the synopsis of an existing transcript file (.txt or .srt)
	// and writes the reports next to it.
	Summarize(ctx context.Context, transcriptPath string) (synopsis.Result, report.Files, error)
}

// Outcome describes what a successful Process call produced.
type Outcome struct {
	SessionID  string
	User       string
	VideoID    string
	Language   string
	Dir        string
	Transcript transcript.Files
	Report     report.Files
	Synopsis   synopsis.Result
}

// StageRecorder receives per-stage timings and failures. metrics.Metrics implements it.
type StageRecorder interface {
	ObserveStage(stage string, elapsed time.Duration)
	ObserveFailure(stage string)
}

type nopStageRecorder struct{}

func (nopStageRecorder) ObserveStage(string, time.Duration) {}
func (nopStageRecorder) ObserveFailure(string) {}
