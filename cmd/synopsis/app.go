package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/synopsis-flow/internal/completion"
	"github.com/nguyentantai21042004/synopsis-flow/internal/config"
	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
	"github.com/nguyentantai21042004/synopsis-flow/internal/metrics"
	"github.com/nguyentantai21042004/synopsis-flow/internal/processor"
	"github.com/nguyentantai21042004/synopsis-flow/internal/session"
	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
	"github.com/nguyentantai21042004/synopsis-flow/internal/transcriber"
	"github.com/nguyentantai21042004/synopsis-flow/internal/uploads"
	"github.com/nguyentantai21042004/synopsis-flow/pkg/executor"
)

// app holds the wired dependencies of one command run.
type app struct {
	cfg         *config.Config
	log         logger.Logger
	metrics     *metrics.Metrics
	store       uploads.Store
	transcriber transcriber.Transcriber
	processor   processor.Processor
}

// load reads env files and the config, and builds the logger.
func (g *Globals) load(ctx context.Context) (*config.Config, logger.Logger, error) {
	var loaded []string
	for _, f := range g.EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, nil, fmt.Errorf("load env file %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	for _, f := range loaded {
		log.Debug(ctx, "Loaded environment from %s", f)
	}
	return cfg, log, nil
}

// open wires storage and transcription. Commands that never call the
// completion service stop here.
func (g *Globals) open(ctx context.Context) (*app, error) {
	cfg, log, err := g.load(ctx)
	if err != nil {
		return nil, err
	}

	store, err := uploads.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:         cfg,
		log:         log,
		metrics:     metrics.New(),
		store:       store,
		transcriber: transcriber.New(cfg.Whisper, cfg.FFmpeg, executor.New(), log),
	}, nil
}

// openPipeline wires everything, including the completion service.
func (g *Globals) openPipeline(ctx context.Context) (*app, error) {
	a, err := g.open(ctx)
	if err != nil {
		return nil, err
	}

	completer, err := completion.New(a.cfg.Completion, a.log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	syn := synopsis.New(synopsis.Options{
		ChunkBudget:     a.cfg.Synopsis.ChunkBudget,
		ContextBudget:   a.cfg.Synopsis.ContextBudget,
		Locale:          a.cfg.Synopsis.Locale,
		StrictTimecodes: a.cfg.Synopsis.StrictTimecodes,
	}, completer, a.log, a.metrics)

	if err := ensureDirectories(a.cfg); err != nil {
		a.Close()
		return nil, err
	}

	a.processor = processor.New(
		a.cfg,
		a.transcriber,
		syn,
		session.New(session.Policy(a.cfg.Sessions.OnConflict)),
		a.store,
		a.metrics,
		a.log,
	)

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Lecture Synopsis Pipeline")
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s, %d CPU cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	a.log.Info(ctx, "Completion: %s (%s), %d key(s)", a.cfg.Completion.Provider, a.cfg.Completion.Model, len(a.cfg.Completion.APIKeys))
	a.log.Info(ctx, "Synopsis: locale %s, chunk budget %.0f, context budget %.0f", a.cfg.Synopsis.Locale, a.cfg.Synopsis.ChunkBudget, a.cfg.Synopsis.ContextBudget)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn(context.Background(), "Failed to close upload store: %v", err)
	}
}

// ensureDirectories creates the working folders if they don't exist.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
