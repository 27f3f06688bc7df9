package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/synopsis-flow/internal/processor"
	"github.com/nguyentantai21042004/synopsis-flow/internal/report"
	"github.com/nguyentantai21042004/synopsis-flow/internal/session"
	"github.com/nguyentantai21042004/synopsis-flow/internal/uploads"
	"github.com/nguyentantai21042004/synopsis-flow/internal/watcher"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.openPipeline(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := watcher.New(a.cfg.Paths.Input, watchHandler(a.processor), a.log, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if a.cfg.Metrics.Enabled {
		srv := &http.Server{
			Addr:              a.cfg.Metrics.Addr,
			Handler:           metricsMux(a),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error(ctx, "Metrics server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		a.log.Info(ctx, "Metrics: http://%s/metrics", a.cfg.Metrics.Addr)
	}

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Pipeline is ready!")
	a.log.Info(ctx, "Monitoring: %s (one subfolder per user)", a.cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.log.Info(ctx, "Concurrent: %d files, %d transcriptions", a.cfg.Performance.MaxConcurrent, a.cfg.Performance.MaxTranscribe)
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	err = w.Start(ctx)
	a.log.Info(ctx, "Pipeline stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchHandler runs dropped files through p. A file whose user is still busy
// with an earlier upload is handed back to the watcher for a later retry.
func watchHandler(p processor.Processor) watcher.EventHandler {
	return func(ctx context.Context, mediaPath string) error {
		_, err := p.Process(ctx, mediaPath)
		if errors.Is(err, session.ErrBusy) {
			return fmt.Errorf("%w: %v", watcher.ErrRetry, err)
		}
		return err
	}
}

func metricsMux(a *app) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type ProcessCmd struct {
	Media string `arg:"" type:"existingfile" help:"Video or audio file. Name it <name>.<lang>.<ext> to pin the language."`
}

func (c *ProcessCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.openPipeline(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.processor.Process(ctx, c.Media)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", out.Synopsis.Title)
	fmt.Printf("Video ID:   %s\n", out.VideoID)
	fmt.Printf("Transcript: %s\n", out.Transcript.Text)
	fmt.Printf("Synopsis:   %s\n", out.Report.Markdown)
	fmt.Printf("            %s\n", out.Report.HTML)
	fmt.Printf("            %s\n", out.Report.Docx)
	return nil
}

type SummarizeCmd struct {
	Transcript string `arg:"" type:"existingfile" help:"Transcript in the [start --> end]  text format or SRT."`
}

func (c *SummarizeCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.openPipeline(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res, files, err := a.processor.Summarize(ctx, c.Transcript)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n%s\n\n", res.Title, res.Body)
	fmt.Printf("Written to %s\n", files.Markdown)
	return nil
}

type ListCmd struct {
	User string `help:"User folder name." default:"${default_user}"`
}

func (c *ListCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.store.ListByUser(ctx, c.User)
	if err != nil {
		return err
	}
	fmt.Print(report.FormatUploads(records))

	next, err := a.store.NextIndex(ctx, c.User)
	if err != nil {
		return err
	}
	fmt.Printf("Next upload: %s\n", uploads.MakeVideoID(c.User, next))
	return nil
}

type ModelCmd struct{}

func (c *ModelCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	path, tier, err := a.transcriber.ResolveModel(ctx)
	if err != nil {
		return err
	}
	if tier == "" {
		fmt.Printf("Pinned model: %s\n", path)
		return nil
	}
	fmt.Printf("Model: %s (%s)\n", path, tier)
	return nil
}
