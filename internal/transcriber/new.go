package transcriber

import (
	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
	"github.com/nguyentantai21042004/synopsis-flow/pkg/executor"
)

type implTranscriber struct {
	whisper  config.WhisperConfig
	ffmpeg   config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Transcriber that shells out to ffmpeg and whisper.cpp.
func New(whisper config.WhisperConfig, ffmpeg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implTranscriber{
		whisper:  whisper,
		ffmpeg:   ffmpeg,
		executor: exec,
		logger:   log,
	}
}
