package processor

import (
	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
	"github.com/nguyentantai21042004/synopsis-flow/internal/session"
	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
	"github.com/nguyentantai21042004/synopsis-flow/internal/transcriber"
	"github.com/nguyentantai21042004/synopsis-flow/internal/uploads"
)

type implProcessor struct {
	cfg         *config.Config
	transcriber transcriber.Transcriber
	synopsizer  synopsis.Synopsizer
	sessions    session.Manager
	uploads     uploads.Store
	recorder    StageRecorder
	logger      logger.Logger

	// transcribeSlots bounds concurrent ffmpeg + whisper runs.
	transcribeSlots *semaphore
}

// New creates a Processor. rec may be nil.
func New(
	cfg *config.Config,
	tr transcriber.Transcriber,
	syn synopsis.Synopsizer,
	sessions session.Manager,
	store uploads.Store,
	rec StageRecorder,
	log logger.Logger,
) Processor {
	if rec == nil {
		rec = nopStageRecorder{}
	}

	return &implProcessor{
		cfg:             cfg,
		transcriber:     tr,
		synopsizer:      syn,
		sessions:        sessions,
		uploads:         store,
		recorder:        rec,
		logger:          log,
		transcribeSlots: newSemaphore(cfg.Performance.MaxTranscribe),
	}
}
