package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/synopsis-flow/internal/transcript"
)

// Transcribe runs whisper.cpp with SRT output and parses the result.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath, language string) (transcript.Transcript, error) {
	modelPath, tier, err := t.ResolveModel(ctx)
	if err != nil {
		return transcript.Transcript{}, err
	}

	if language == "" {
		language = t.whisper.Language
	}
	if language == "" {
		language = "auto"
	}

	// whisper.cpp appends .srt to the output prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	t.logger.Info(ctx, "Transcribing %s (model %s, language %s, %d threads)",
		audioPath, filepath.Base(modelPath), language, t.whisper.Threads)
	if tier != "" {
		t.logger.Debug(ctx, "Model tier: %s", tier)
	}

	// -ml 0 / -mc 0: no segment length or context limit
	// -bo 5: best of five candidates
	args := []string{
		"-m", modelPath,
		"-f", audioPath,
		"-osrt",
		"-l", language,
		"-t", strconv.Itoa(t.whisper.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if t.whisper.Prompt != "" {
		args = append(args, "--prompt", t.whisper.Prompt)
	}
	if !t.whisper.UseGPU {
		args = append(args, "-ng")
	}

	// Stray whisper files land in the work dir, which is removed afterwards.
	if _, err := t.executor.ExecuteInDir(ctx, filepath.Dir(audioPath), t.whisper.BinaryPath, args...); err != nil {
		return transcript.Transcript{}, fmt.Errorf("whisper transcribe: %w", err)
	}

	srtPath := outputPrefix + ".srt"
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("read whisper output: %w", err)
	}

	segments, err := transcript.ParseSRT(string(data))
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("parse whisper output: %w", err)
	}

	t.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return transcript.Transcript{Language: language, Segments: segments}, nil
}
