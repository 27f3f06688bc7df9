package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/synopsis-flow/internal/logger"
	"github.com/nguyentantai21042004/synopsis-flow/internal/report"
	"github.com/nguyentantai21042004/synopsis-flow/internal/session"
	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
	"github.com/nguyentantai21042004/synopsis-flow/internal/transcriber"
	"github.com/nguyentantai21042004/synopsis-flow/internal/transcript"
	"github.com/nguyentantai21042004/synopsis-flow/internal/uploads"
)

// DefaultUser owns media dropped directly into the input directory.
const DefaultUser = "local"

const transcriptionsDir = "transcriptions"

var ErrTooLarge = errors.New("media file too large")

// Process runs one upload through the whole pipeline:
//
//	session -> upload record -> audio -> transcript -> synopsis -> reports -> archive
//
// Transcripts are saved before summarization starts, so a failed synopsis
// still leaves them on disk. Every failure after the session starts marks it Failed.
func (p *implProcessor) Process(ctx context.Context, mediaPath string) (Outcome, error) {
	startTime := time.Now()

	if err := p.checkSize(mediaPath); err != nil {
		p.recorder.ObserveFailure("validate")
		return Outcome{}, err
	}

	user := userFromPath(p.cfg.Paths.Input, mediaPath)
	language := transcriber.LanguageFromFilename(mediaPath)
	if language == "" && p.cfg.Whisper.Language != "auto" {
		language = p.cfg.Whisper.Language
	}

	// The session is claimed before anything is recorded, so a rejected
	// upload leaves no trace. Later stages run under its context.
	sess, sctx, err := p.sessions.Begin(ctx, user, mediaPath)
	if err != nil {
		p.recorder.ObserveFailure("session")
		return Outcome{}, fmt.Errorf("begin session: %w", err)
	}

	out := Outcome{
		SessionID: sess.ID,
		User:      user,
		Language:  language,
	}

	fail := func(stage string, err error) (Outcome, error) {
		p.recorder.ObserveFailure(stage)
		if errors.Is(context.Cause(sctx), session.ErrSuperseded) {
			err = fmt.Errorf("%w: %v", session.ErrSuperseded, err)
		} else if _, ferr := p.sessions.Fail(sess.ID, logger.FormatError(err)); ferr != nil {
			p.logger.Warn(ctx, "Failed to mark session %s failed: %v", sess.ID, ferr)
		}
		p.logger.Error(ctx, "Processing %s failed at %s: %v", filepath.Base(mediaPath), stage, err)
		return out, err
	}

	if _, err := p.sessions.SelectLanguage(sess.ID, language); err != nil {
		return fail("session", err)
	}

	rec, err := p.uploads.Create(sctx, uploads.Record{
		UserID:   user,
		FilePath: mediaPath,
		Language: language,
	})
	if err != nil {
		return fail("record", err)
	}
	out.VideoID = rec.VideoID
	out.Dir = filepath.Join(p.cfg.Paths.Output, user, rec.VideoID)

	if _, err := p.sessions.AttachUpload(sess.ID, rec.VideoID); err != nil {
		return fail("session", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing %s for %s as %s (language %s)",
		filepath.Base(mediaPath), user, rec.VideoID, transcriber.LanguageLabel(language))
	p.logger.Info(ctx, "========================================")

	tr, err := p.transcribe(sctx, mediaPath, rec.VideoID, language)
	if err != nil {
		return fail("transcribe", err)
	}

	out.Transcript, err = p.saveTranscript(ctx, out.Dir, mediaPath, tr.Segments)
	if err != nil {
		return fail("save", err)
	}

	if _, err := p.sessions.Advance(sess.ID, session.Summarizing); err != nil {
		return fail("session", err)
	}

	out.Synopsis, out.Report, err = p.synthesize(sctx, tr.Segments, out.Dir)
	if err != nil {
		return fail("summarize", err)
	}

	if err := p.moveToArchived(sctx, user, mediaPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	if _, err := p.sessions.Advance(sess.ID, session.Done); err != nil {
		return fail("session", err)
	}

	duration := time.Since(startTime)
	p.recorder.ObserveStage("total", duration)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed: %s", out.Synopsis.Title)
	p.logger.Info(ctx, "Transcript: %s", out.Transcript.Text)
	p.logger.Info(ctx, "Synopsis: %s", out.Report.Markdown)
	p.logger.Info(ctx, "Processing time: %s", duration.Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return out, nil
}

// Summarize re-runs the synopsis stage over a transcript already on disk.
func (p *implProcessor) Summarize(ctx context.Context, transcriptPath string) (synopsis.Result, report.Files, error) {
	segments, err := transcript.Load(transcriptPath)
	if err != nil {
		return synopsis.Result{}, report.Files{}, err
	}

	res, files, err := p.synthesize(ctx, segments, filepath.Dir(transcriptPath))
	if err != nil {
		p.recorder.ObserveFailure("summarize")
		return synopsis.Result{}, report.Files{}, err
	}

	p.logger.Info(ctx, "Synopsis written: %s", files.Markdown)
	return res, files, nil
}

func (p *implProcessor) transcribe(ctx context.Context, mediaPath, videoID, language string) (transcript.Transcript, error) {
	if err := p.transcribeSlots.acquire(ctx); err != nil {
		return transcript.Transcript{}, err
	}
	defer p.transcribeSlots.release()

	start := time.Now()
	workDir := filepath.Join(p.cfg.Paths.Temp, videoID)
	defer p.cleanupTempDir(ctx, workDir)

	audioPath, err := p.transcriber.ExtractAudio(ctx, mediaPath, workDir)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("extract audio: %w", err)
	}

	tr, err := p.transcriber.Transcribe(ctx, audioPath, language)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("transcribe: %w", err)
	}

	p.recorder.ObserveStage("transcribe", time.Since(start))
	return tr, nil
}

func (p *implProcessor) saveTranscript(ctx context.Context, dir, mediaPath string, segments []transcript.Segment) (transcript.Files, error) {
	tdir := filepath.Join(dir, transcriptionsDir)
	files, err := transcript.Save(tdir, segments)
	if err != nil {
		return transcript.Files{}, err
	}

	title := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	if err := report.WriteTranscriptDocx(title, segments, filepath.Join(tdir, "transcript.docx")); err != nil {
		p.logger.Warn(ctx, "Failed to write transcript docx: %v", err)
	}

	p.logger.Info(ctx, "Transcript saved: %d segments in %s", len(segments), tdir)
	return files, nil
}

func (p *implProcessor) synthesize(ctx context.Context, segments []transcript.Segment, dir string) (synopsis.Result, report.Files, error) {
	start := time.Now()

	res, err := p.synopsizer.FullProcess(ctx, transcript.RenderTimecoded(segments))
	if err != nil {
		return synopsis.Result{}, report.Files{}, fmt.Errorf("synopsis: %w", err)
	}

	files, err := report.WriteAll(dir, res)
	if err != nil {
		return synopsis.Result{}, report.Files{}, fmt.Errorf("write reports: %w", err)
	}

	p.recorder.ObserveStage("summarize", time.Since(start))
	return res, files, nil
}

func (p *implProcessor) checkSize(mediaPath string) error {
	info, err := os.Stat(mediaPath)
	if err != nil {
		return fmt.Errorf("stat media: %w", err)
	}

	limit := int64(p.cfg.Performance.MaxFileSizeMB) * 1024 * 1024
	if limit > 0 && info.Size() > limit {
		return fmt.Errorf("%w: %s is %d MB, limit %d MB", ErrTooLarge,
			filepath.Base(mediaPath), info.Size()/(1024*1024), p.cfg.Performance.MaxFileSizeMB)
	}
	return nil
}

// userFromPath is the first directory under inputDir, or DefaultUser for
// files placed directly in it.
func userFromPath(inputDir, mediaPath string) string {
	rel, err := filepath.Rel(inputDir, mediaPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return DefaultUser
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == "" || parts[0] == "." {
		return DefaultUser
	}
	return parts[0]
}
