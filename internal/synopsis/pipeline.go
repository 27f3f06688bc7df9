package synopsis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Result is a finished synopsis.
type Result struct {
	Title  string
	Body   string
	Chunks int
	Report NormalizeReport
}

// String renders the synopsis as delivered: title line, then one bullet per line.
func (r Result) String() string {
	return r.Title + "\n" + r.Body
}

// Lines returns the non-blank body lines.
func (r Result) Lines() []string {
	return nonBlankLines(r.Body)
}

// FullProcess produces the titled synopsis for a timecoded transcript.
// A failed summarization aborts before the title is requested, and so does
// a transcript without content lines.
func (s *implSynopsizer) FullProcess(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	cleaned := CutMilliseconds(text)

	raw, chunks, err := s.summarize(ctx, cleaned)
	if err != nil {
		return Result{}, err
	}
	if chunks == 0 {
		return Result{}, ErrEmptyInput
	}

	var (
		body   string
		report NormalizeReport
	)
	if s.opts.StrictTimecodes {
		body, report = NormalizeStrict(raw)
	} else {
		body, report = Normalize(raw)
	}
	if report.Mismatch {
		s.recorder.ObserveTimecodeMismatch()
		s.logger.Warn(ctx, "Timecode mismatch: %d timecodes for %d summary lines", report.Timecodes, report.Lines)
	}

	title, err := s.title(ctx, cleaned)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info(ctx, "Synopsis %q ready: %d chunks, %d lines in %s", title, chunks, report.Lines, time.Since(start).Round(time.Millisecond))

	return Result{
		Title:  title,
		Body:   body,
		Chunks: chunks,
		Report: report,
	}, nil
}

func (s *implSynopsizer) title(ctx context.Context, text string) (string, error) {
	out, err := s.complete(ctx, "title", s.prompts.TitleInstruction, s.prompts.ChunkPrefix+text)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return cleanTitle(out), nil
}

// cleanTitle keeps the first non-blank line without markdown or quote wrapping.
func cleanTitle(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "# ")
		line = strings.Trim(line, "`\"'«»*")
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
