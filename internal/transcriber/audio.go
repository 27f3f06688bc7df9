package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExtractAudio extracts the audio track and converts it to mono PCM WAV at
// the configured sample rate, which is what whisper.cpp expects.
func (t *implTranscriber) ExtractAudio(ctx context.Context, mediaPath, workDir string) (string, error) {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath := filepath.Join(workDir, base+".wav")

	t.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	// -vn: drop video, -ac 1: mono, -c:a pcm_s16le: 16-bit PCM
	args := []string{
		"-nostdin",
		"-i", mediaPath,
		"-vn",
		"-ar", strconv.Itoa(t.ffmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	t.logger.Info(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}
